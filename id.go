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
	"strconv"
	"sync/atomic"
)

// ID names one failure occurrence.
//
// The zero ID means "no error". Valid ids have their two low bits set to 01
// and are allocated from a process-wide counter, so ids produced by
// different goroutines never collide and ids produced by one goroutine are
// strictly increasing. An ID is a plain value: copying or comparing it has
// no ownership implications.
//
// ID implements error, so a function may return the result of New directly.
type ID uint64

const (
	idStride  = 4
	idTagMask = 3
	idTag     = 1
)

// counter is the only process-wide mutable state of the package.
var counter atomic.Uint64

// nextID allocates a fresh, never used id. Wraparound of the 64-bit counter
// is not handled.
func nextID() ID {
	return ID((counter.Add(idStride) &^ idTagMask) | idTag)
}

// Valid reports whether id names an error.
func (id ID) Valid() bool {
	return id&idTagMask == idTag
}

// Value returns the integer value of id.
func (id ID) Value() uint64 {
	return uint64(id)
}

// ErrorID implements the id-carrier contract used by IDOf.
func (id ID) ErrorID() ID {
	return id
}

// String returns the decimal value of id.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Error implements the error interface.
func (id ID) Error() string {
	return "errslot: error id " + id.String()
}

// idCarrier is implemented by every error that carries an ID.
type idCarrier interface {
	ErrorID() ID
}

// Current returns the id most recently allocated on the registry carried by
// ctx, or 0 if none was allocated or ctx carries no registry.
func Current(ctx context.Context) ID {
	if r := FromContext(ctx); r != nil {
		return r.current
	}
	return 0
}

// NewID allocates an id without payloads and makes it current.
func NewID(ctx context.Context) ID {
	if r := FromContext(ctx); r != nil {
		return r.newID()
	}
	return nextID()
}
