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
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"testing"
)

func TestNewHere_LoadsCallerLocation(t *testing.T) {
	ctx, _ := newCtx()
	var line int
	got := TryHandleAll(ctx,
		func(ctx context.Context) (SourceLocation, error) {
			_, _, line, _ = runtime.Caller(0)
			return SourceLocation{}, NewHere(ctx, payloadA{v: 1})
		},
		On2(Required[SourceLocation](), Required[payloadA](), func(loc SourceLocation, _ payloadA) SourceLocation { return loc }),
		Fallback(func(*ErrorInfo) SourceLocation { return SourceLocation{} }),
	)

	if filepath.Base(got.File) != "common_test.go" {
		t.Fatalf("File = %q, want common_test.go", got.File)
	}
	if got.Line != line+1 {
		t.Fatalf("Line = %d, want %d", got.Line, line+1)
	}
	if !strings.Contains(got.Function, "TestNewHere_LoadsCallerLocation") {
		t.Fatalf("Function = %q, want the enclosing test", got.Function)
	}
}

func TestHere(t *testing.T) {
	_, _, line, _ := runtime.Caller(0)
	loc := Here()
	if loc.Line != line+1 || filepath.Base(loc.File) != "common_test.go" {
		t.Fatalf("Here() = %v, want common_test.go:%d", loc, line+1)
	}
}

func TestSourceLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  SourceLocation
		want string
	}{
		{"with function", SourceLocation{File: "a.go", Line: 3, Function: "pkg.F"}, "a.go:3 in function pkg.F"},
		{"without function", SourceLocation{File: "a.go", Line: 3}, "a.go:3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrnoOf(t *testing.T) {
	_, err := os.Open(filepath.Join(t.TempDir(), "missing"))
	n, ok := ErrnoOf(err)
	if !ok || syscall.Errno(n) != syscall.ENOENT {
		t.Fatalf("ErrnoOf(%v) = %v, %v; want ENOENT", err, n, ok)
	}
	if _, ok := ErrnoOf(errors.New("plain")); ok {
		t.Fatalf("ErrnoOf found an errno in a plain error")
	}
	want := fmt.Sprintf("%d, %q", uintptr(syscall.ENOENT), syscall.ENOENT.Error())
	if got := n.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestCommonPayloads_Dispatch(t *testing.T) {
	ctx, _ := newCtx()
	got := TryHandleAll(ctx,
		func(ctx context.Context) (string, error) {
			return "", New(ctx, APIFunction("open"), FileName("cfg.ini"), AtLine(7))
		},
		On3(Required[APIFunction](), Required[FileName](), Required[AtLine](), func(fn APIFunction, f FileName, l AtLine) string {
			return fmt.Sprintf("%s %s:%d", fn, f, l)
		}),
		Fallback(func(*ErrorInfo) string { return "fallback" }),
	)
	if got != "open cfg.ini:7" {
		t.Fatalf("got %q, want %q", got, "open cfg.ini:7")
	}
}
