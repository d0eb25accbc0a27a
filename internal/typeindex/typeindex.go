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

// Package typeindex assigns a small, stable integer to every payload type
// the process ever loads. Registries use the integer as an index into their
// per-type slot table.
//
// Indices are dense, start at 0 and are never reused. Lookups of an already
// registered type are lock-free and do not allocate.
package typeindex

import (
	"reflect"
	"sync"
)

// Entry describes one registered type.
type Entry struct {
	// Index is the dense index of the type.
	Index int

	// Name is the printable type name, e.g. "calc.Command".
	Name string

	// Type is the reflected type.
	Type reflect.Type
}

var (
	// entries maps reflect.Type to *Entry. Reads go through the read-only
	// fast path of sync.Map once a type has been seen.
	entries sync.Map

	mu  sync.Mutex
	all []*Entry
)

// For returns the entry for the static type E. E may be an interface type.
func For[E any]() *Entry {
	return Of(reflect.TypeOf((*E)(nil)).Elem())
}

// Of returns the entry for t, registering it on first use.
func Of(t reflect.Type) *Entry {
	if v, ok := entries.Load(t); ok {
		return v.(*Entry)
	}

	mu.Lock()
	defer mu.Unlock()
	if v, ok := entries.Load(t); ok {
		return v.(*Entry)
	}
	e := &Entry{Index: len(all), Name: t.String(), Type: t}
	all = append(all, e)
	entries.Store(t, e)
	return e
}

// Len reports how many types are registered.
func Len() int {
	mu.Lock()
	defer mu.Unlock()
	return len(all)
}

// At returns the entry registered under idx, or nil.
func At(idx int) *Entry {
	mu.Lock()
	defer mu.Unlock()
	if idx < 0 || idx >= len(all) {
		return nil
	}
	return all[idx]
}
