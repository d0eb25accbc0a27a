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
	"testing"
)

type payloadA struct{ v int }
type payloadB struct{ v int }
type payloadC string

// newCtx returns a background context carrying a fresh registry.
func newCtx(opts ...Option) (context.Context, *Registry) {
	r := NewRegistry(opts...)
	return WithRegistry(context.Background(), r), r
}

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	f()
}

// slotIn returns the slot of type E held by sc.
func slotIn[E any](sc *Scope) *slotOf[E] {
	s, _ := sc.find(TypeOf[E]().e.Index).(*slotOf[E])
	return s
}
