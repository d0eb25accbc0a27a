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
	"fmt"

	"dirpx.dev/errslot/internal/typeindex"
)

// unexpectedCount summarizes payloads dropped for one id.
type unexpectedCount struct {
	first string
	count int
}

// unexpectedInfo lists the distinct dropped payload types for one id,
// each with the first value seen.
type unexpectedInfo struct {
	objects []Payload
}

func (u *unexpectedInfo) add(name string, v any) {
	for _, p := range u.objects {
		if p.Type == name {
			return
		}
	}
	u.objects = append(u.objects, Payload{Type: name, Value: v})
}

// merger is implemented by payloads that accumulate. When such a payload
// propagates into a slot already holding one for the same id, the two are
// combined instead of the inner one replacing the outer.
type merger interface {
	merge(inner any)
}

// merge folds in counts recorded by an inner scope. The outer record is the
// older one, so its first type is kept.
func (u *unexpectedCount) merge(inner any) {
	in := inner.(unexpectedCount)
	if u.count == 0 {
		u.first = in.first
	}
	u.count += in.count
}

func (u *unexpectedInfo) merge(inner any) {
	for _, p := range inner.(unexpectedInfo).objects {
		u.add(p.Type, p.Value)
	}
}

var (
	unexpectedCountEntry = typeindex.For[unexpectedCount]()
	unexpectedInfoEntry  = typeindex.For[unexpectedInfo]()
)

// bookkeeping reports whether e is one of the bookkeeping types above. Those
// never show up in payload enumeration.
func bookkeeping(e *typeindex.Entry) bool {
	return e == unexpectedCountEntry || e == unexpectedInfoEntry
}

func (r *Registry) recording() bool {
	return r.diagnostics && r.unexpected > 0
}

// recordUnexpected notes that a payload of type e was dropped for id.
func (r *Registry) recordUnexpected(id ID, e *typeindex.Entry, v any) {
	if bookkeeping(e) {
		return
	}
	if s, _ := r.at(unexpectedCountEntry.Index).(*slotOf[unexpectedCount]); s != nil {
		if p := s.has(id); p != nil {
			p.count++
		} else {
			s.put(id, unexpectedCount{first: e.Name, count: 1})
		}
	}
	if s, _ := r.at(unexpectedInfoEntry.Index).(*slotOf[unexpectedInfo]); s != nil {
		p := s.has(id)
		if p == nil {
			p = s.put(id, unexpectedInfo{})
		}
		p.add(e.Name, v)
	}
}

func (u unexpectedCount) String() string {
	if u.count == 1 {
		return fmt.Sprintf("Detected 1 attempt to communicate an unexpected error object of type %s", u.first)
	}
	return fmt.Sprintf("Detected %d attempts to communicate unexpected error objects, the first one of type %s", u.count, u.first)
}
