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
	"errors"

	"dirpx.dev/errslot/internal/typeindex"
)

// Item is a payload source attached by OnError.
type Item interface {
	load(r *Registry, id ID)
}

type preloaded[E any] struct{ v E }

func (p preloaded[E]) load(r *Registry, id ID) {
	if s := topOf[E](r); s != nil {
		if s.has(id) == nil {
			s.put(id, p.v)
		}
		return
	}
	drop(r, id, typeindex.For[E](), p.v)
}

// Preload attaches v when the guarded scope fails. A payload of type E
// already attached to the failing id is kept.
func Preload[E any](v E) Item {
	return preloaded[E]{v: v}
}

type deferred[E any] struct{ f func() E }

func (d deferred[E]) load(r *Registry, id ID) {
	if s := topOf[E](r); s != nil {
		if s.has(id) == nil {
			s.put(id, d.f())
		}
		return
	}
	drop(r, id, typeindex.For[E](), d.f())
}

// Defer is Preload with a value computed only when the guarded scope fails.
func Defer[E any](f func() E) Item {
	return deferred[E]{f: f}
}

type accumulated[E any] struct{ f func(*E) }

func (a accumulated[E]) load(r *Registry, id ID) {
	s := topOf[E](r)
	if s == nil {
		return
	}
	p := s.has(id)
	if p == nil {
		var zero E
		p = s.put(id, zero)
	}
	a.f(p)
}

// Accumulate calls f with the payload of type E attached to the failing id,
// attaching a zero E first if there is none. Nothing happens when no slot
// of type E is active.
func Accumulate[E any](f func(*E)) Item {
	return accumulated[E]{f: f}
}

// Guard attaches its items to an error that leaves the guarded scope.
//
//	func run(ctx context.Context, cmd string) (err error) {
//	    g := errslot.OnError(ctx, errslot.Preload(Command{cmd}))
//	    defer g.Close(&err)
//	    ...
//	}
type Guard struct {
	r     *Registry
	entry ID
	items []Item
	done  bool
}

// OnError snapshots the current id of the registry in ctx and returns a
// guard over items.
func OnError(ctx context.Context, items ...Item) *Guard {
	g := &Guard{r: FromContext(ctx), items: items}
	if g.r != nil {
		g.entry = g.r.current
	}
	return g
}

// Close runs at most once. A nil *errp means the scope succeeded and
// nothing is loaded. Otherwise the items load into the id carried by the
// error, else into the id allocated on the registry since OnError, else
// into a freshly allocated id.
//
// A nil errp means the caller does not track the error; the items then load
// only when an id was allocated since OnError.
func (g *Guard) Close(errp *error) {
	if g.done || g.r == nil {
		return
	}
	g.done = true

	if errp != nil && *errp == nil {
		return
	}
	id := g.r.current
	if errp != nil {
		var c idCarrier
		if errors.As(*errp, &c) && c.ErrorID().Valid() {
			id = c.ErrorID()
		} else if id == g.entry {
			id = g.r.newID()
		}
	} else if id == g.entry {
		return
	}
	for _, it := range g.items {
		it.load(g.r, id)
	}
}
