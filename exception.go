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
)

// Exception is a foreign error that also carries an ID.
//
// It lets code that must return a regular error (one callers can inspect
// with errors.Is / errors.As) still attach payloads: handlers see both the
// payloads, through the ID, and Err, through Catch.
type Exception struct {
	// ID is the id the payloads were attached to.
	ID ID

	// Err is the wrapped error. May be nil.
	Err error
}

// Raise allocates an id, attaches payloads to it and returns an Exception
// wrapping err.
//
//	if d == 0 {
//	    return 0, errslot.Raise(ctx, ErrDivisionByZero, Operand{Index: 1})
//	}
func Raise(ctx context.Context, err error, payloads ...any) *Exception {
	return &Exception{ID: New(ctx, payloads...), Err: err}
}

// Error implements the built-in error interface.
func (e *Exception) Error() string {
	if e.Err == nil {
		return e.ID.Error()
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *Exception) Unwrap() error {
	return e.Err
}

// ErrorID returns the carried id.
func (e *Exception) ErrorID() ID {
	return e.ID
}

// IDOf returns the id carried by err or by any error in its chain. When
// there is none it falls back to the current id of the registry in ctx, which
// names the most recent failure on this goroutine. A nil err yields 0.
func IDOf(ctx context.Context, err error) ID {
	if err == nil {
		return 0
	}
	var c idCarrier
	if errors.As(err, &c) {
		if id := c.ErrorID(); id.Valid() {
			return id
		}
	}
	return Current(ctx)
}
