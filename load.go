/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package errslot

import (
	"context"
	"reflect"

	"dirpx.dev/errslot/internal/typeindex"
)

// New allocates an id, makes it current and loads each payload into the
// innermost active slot of its dynamic type. Payloads without an active slot
// are discarded. Nil payloads are ignored.
//
//	if n < 2 {
//	    return errslot.New(ctx, ArgCount{Count: n, Min: 2})
//	}
//
// New routes by dynamic type, so a payload can never land in a slot of an
// interface type; use Load for that.
func New(ctx context.Context, payloads ...any) ID {
	r := FromContext(ctx)
	if r == nil {
		return nextID()
	}
	id := r.newID()
	for _, p := range payloads {
		r.loadAny(id, p)
	}
	return id
}

// Load attaches v to id, overwriting any payload of type E already attached
// to it, and returns id. Load routes by the static type E and does not
// allocate. It is a no-op for an invalid id.
func Load[E any](ctx context.Context, id ID, v E) ID {
	r := FromContext(ctx)
	if r == nil || !id.Valid() {
		return id
	}
	if s := topOf[E](r); s != nil {
		s.put(id, v)
		return id
	}
	drop(r, id, typeindex.For[E](), v)
	return id
}

func (r *Registry) loadAny(id ID, v any) {
	if v == nil {
		return
	}
	e := typeindex.Of(reflect.TypeOf(v))
	if s := r.at(e.Index); s != nil {
		s.putAny(id, v)
		return
	}
	r.dropAny(id, e, v)
}
