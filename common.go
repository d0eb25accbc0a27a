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
	"fmt"
	"runtime"
	"syscall"
)

// SourceLocation records where a failure was reported. NewHere and Here
// fill it in from the call stack.
type SourceLocation struct {
	File     string
	Line     int
	Function string
}

// String renders the location as "file:line in function".
func (l SourceLocation) String() string {
	if l.Function == "" {
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
	return fmt.Sprintf("%s:%d in function %s", l.File, l.Line, l.Function)
}

// APIFunction names the external API call that failed, e.g. "fopen".
type APIFunction string

// FileName is the name of the file an operation failed on.
type FileName string

// AtLine is a line number in a file being processed, typically paired with
// FileName by parsers.
type AtLine int

// Errno is an operating system error number.
type Errno syscall.Errno

// String renders the number followed by the system's description of it.
func (e Errno) String() string {
	return fmt.Sprintf("%d, %q", uintptr(e), syscall.Errno(e).Error())
}

// ErrnoOf returns the syscall.Errno in err's chain, as returned by most os
// and net functions.
//
//	f, err := os.Open(name)
//	if err != nil {
//	    n, _ := errslot.ErrnoOf(err)
//	    return errslot.New(ctx, errslot.APIFunction("open"), errslot.FileName(name), n)
//	}
func ErrnoOf(err error) (Errno, bool) {
	var n syscall.Errno
	if errors.As(err, &n) {
		return Errno(n), true
	}
	return 0, false
}

// NewHere is New plus a SourceLocation naming its caller.
func NewHere(ctx context.Context, payloads ...any) ID {
	id := New(ctx, payloads...)
	Load(ctx, id, caller(1))
	return id
}

// Here returns the SourceLocation of its caller, for use with Load or
// Preload.
func Here() SourceLocation {
	return caller(1)
}

// caller returns the location skip frames above its own caller.
func caller(skip int) SourceLocation {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return SourceLocation{}
	}
	loc := SourceLocation{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		loc.Function = fn.Name()
	}
	return loc
}
