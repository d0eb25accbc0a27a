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
	"errors"
)

// Scope is a handling scope: one slot for each of a fixed set of payload
// types. While a Scope is active its slots are the innermost ones of their
// types on the registry, so payloads loaded by code running inside the
// scope land in them.
//
// A Scope cycles inactive -> active -> inactive and may be reused for any
// number of rounds. It must be deactivated on the registry it was activated
// on, and it must not be activated twice without an intervening Deactivate.
type Scope struct {
	slots  []slot
	reg    *Registry
	active bool

	// unexpected is set when the scope holds a bookkeeping slot.
	unexpected bool

	d dispatch
}

// NewScope returns an inactive scope holding one slot per distinct type.
// Order is preserved and duplicates are ignored.
func NewScope(types ...SlotType) *Scope {
	sc := &Scope{}
	sc.add(types...)
	return sc
}

func (sc *Scope) add(types ...SlotType) {
	for _, t := range types {
		if t.e == nil || sc.find(t.e.Index) != nil {
			continue
		}
		sc.slots = append(sc.slots, t.make())
		if bookkeeping(t.e) {
			sc.unexpected = true
		}
	}
}

// find returns the scope's slot for the type index, or nil.
func (sc *Scope) find(idx int) slot {
	for _, s := range sc.slots {
		if s.entry().Index == idx {
			return s
		}
	}
	return nil
}

// Types returns the names of the payload types the scope holds.
func (sc *Scope) Types() []string {
	out := make([]string, 0, len(sc.slots))
	for _, s := range sc.slots {
		out = append(out, s.entry().Name)
	}
	return out
}

// Active reports whether the scope is active.
func (sc *Scope) Active() bool {
	return sc.active
}

// Activate pushes every slot onto r, in order.
func (sc *Scope) Activate(r *Registry) {
	if r == nil {
		panic(ErrNoRegistry)
	}
	if sc.active {
		panic("errslot: scope activated twice")
	}
	for _, s := range sc.slots {
		s.activate(r)
	}
	if sc.unexpected {
		r.unexpected++
	}
	sc.reg = r
	sc.active = true
}

// Deactivate pops every slot, in reverse order. It does not move payloads;
// see Propagate.
func (sc *Scope) Deactivate() {
	if !sc.active {
		panic("errslot: scope is not active")
	}
	r := sc.reg
	for i := len(sc.slots) - 1; i >= 0; i-- {
		sc.slots[i].deactivate(r)
	}
	if sc.unexpected {
		r.unexpected--
	}
	sc.active = false
}

// Propagate hands every payload held for id to the now innermost slot of
// the same type, or drops it when there is none. An id of 0 propagates all
// payloads. Propagate runs after Deactivate, so all slots are already
// popped when the first payload moves.
//
// Unexpected-object records move first, so payloads dropped here are
// counted after the ones the scope already recorded.
func (sc *Scope) Propagate(id ID) {
	if sc.active {
		panic("errslot: propagate on an active scope")
	}
	if sc.reg == nil {
		return
	}
	if sc.unexpected {
		for _, s := range sc.slots {
			if bookkeeping(s.entry()) {
				s.propagate(sc.reg, id)
			}
		}
	}
	for _, s := range sc.slots {
		if !bookkeeping(s.entry()) {
			s.propagate(sc.reg, id)
		}
	}
}

// Close deactivates the scope and, when *errp holds an error, propagates
// the payloads of that error outwards:
//
//	sc.Activate(r)
//	defer sc.Close(&err)
func (sc *Scope) Close(errp *error) {
	r := sc.reg
	sc.Deactivate()
	if errp == nil || *errp == nil {
		return
	}
	var c idCarrier
	id := r.current
	if errors.As(*errp, &c) && c.ErrorID().Valid() {
		id = c.ErrorID()
	}
	sc.Propagate(id)
}

// consume empties every slot holding a payload for id.
func (sc *Scope) consume(id ID) {
	for _, s := range sc.slots {
		if s.key() == id {
			s.reset()
		}
	}
}
