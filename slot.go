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
	"dirpx.dev/errslot/internal/typeindex"
)

// slot is the type-erased view of slotOf[E] used by Scope and Registry.
type slot interface {
	entry() *typeindex.Entry
	activate(r *Registry)
	deactivate(r *Registry)
	propagate(r *Registry, id ID)
	key() ID
	reset()
	payload() any
	putAny(id ID, v any)
	capture(r *Registry, c *Captured)
}

// slotOf holds at most one payload of type E, tagged with the id it belongs
// to. Active slots of the same type form a stack through prev, with the
// innermost one installed in the registry.
type slotOf[E any] struct {
	e     *typeindex.Entry
	k     ID
	value E
	prev  *slotOf[E]
}

func newSlot[E any]() *slotOf[E] {
	return &slotOf[E]{e: typeindex.For[E]()}
}

func (s *slotOf[E]) entry() *typeindex.Entry { return s.e }

func (s *slotOf[E]) key() ID { return s.k }

func (s *slotOf[E]) activate(r *Registry) {
	prev, _ := r.at(s.e.Index).(*slotOf[E])
	s.prev = prev
	r.set(s.e.Index, s)
}

func (s *slotOf[E]) deactivate(r *Registry) {
	if cur, _ := r.at(s.e.Index).(*slotOf[E]); cur != s {
		panic("errslot: slot " + s.e.Name + " deactivated out of order")
	}
	if s.prev != nil {
		r.set(s.e.Index, s.prev)
	} else {
		r.set(s.e.Index, nil)
	}
	s.prev = nil
}

// put stores v under id and returns a pointer to the stored value.
func (s *slotOf[E]) put(id ID, v E) *E {
	s.k = id
	s.value = v
	return &s.value
}

// has returns the payload stored for id, or nil.
func (s *slotOf[E]) has(id ID) *E {
	if id != 0 && s.k == id {
		return &s.value
	}
	return nil
}

func (s *slotOf[E]) reset() {
	var zero E
	s.k = 0
	s.value = zero
}

func (s *slotOf[E]) payload() any { return s.value }

func (s *slotOf[E]) putAny(id ID, v any) {
	s.put(id, v.(E))
}

// propagate runs after s was popped. A payload for id (or any payload when
// id is 0) moves into the slot that is now innermost for E; without one it
// is dropped. Accumulating payloads are merged into an outer one for the
// same id.
func (s *slotOf[E]) propagate(r *Registry, id ID) {
	if s.k == 0 || (id != 0 && s.k != id) {
		return
	}
	if outer, _ := r.at(s.e.Index).(*slotOf[E]); outer != nil {
		if m, ok := any(&outer.value).(merger); ok && outer.k == s.k {
			m.merge(s.value)
		} else {
			outer.put(s.k, s.value)
		}
	} else {
		drop(r, s.k, s.e, s.value)
	}
	s.reset()
}

// capture moves the payload into c.
func (s *slotOf[E]) capture(r *Registry, c *Captured) {
	c.add(r, &node[E]{entry: s.e, id: s.k, value: s.value})
	s.reset()
}

// SlotType names a payload type a Scope should hold a slot for.
type SlotType struct {
	e    *typeindex.Entry
	make func() slot
}

// TypeOf returns the SlotType for E.
func TypeOf[E any]() SlotType {
	return SlotType{
		e:    typeindex.For[E](),
		make: func() slot { return newSlot[E]() },
	}
}

// Name returns the printable name of the type.
func (t SlotType) Name() string {
	if t.e == nil {
		return ""
	}
	return t.e.Name
}
