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

// Package errslot transports typed error objects from the code that fails
// to the code that handles the failure, without either side knowing the
// other's types.
//
// # Overview
//
// A failure is named by an ID. Failing code attaches any number of payloads
// (values of arbitrary types) to the ID and returns it as an error:
//
//	func parse(ctx context.Context, s string) (int64, error) {
//	    v, err := strconv.ParseInt(s, 10, 64)
//	    if err != nil {
//	        return 0, errslot.New(ctx, ParseError{Input: s})
//	    }
//	    return v, nil
//	}
//
// Handling code lists handlers. Each handler names the payloads it needs;
// the first handler whose needs are met runs:
//
//	out := errslot.TryHandleAll(ctx,
//	    func(ctx context.Context) (string, error) { return run(ctx, line) },
//	    errslot.On1(errslot.Required[ParseError](), func(e ParseError) string {
//	        return "parse error: " + e.Input
//	    }),
//	    errslot.Fallback(func(ei *errslot.ErrorInfo) string {
//	        return "unknown failure"
//	    }),
//	)
//
// # Slots and scopes
//
// Payloads are stored in slots, one per payload type, owned by a Scope.
// TryHandleAll activates a scope holding a slot for every type its handlers
// mention before it runs the try function, so payloads of those types are
// kept and all others are discarded right where they are loaded. Scopes
// nest: the innermost active slot of a type receives payloads of that type,
// and a scope that lets a failure through (TryHandleSome without a matching
// handler, or Scope.Close) moves its payloads to the next enclosing slot.
//
// # Registries and goroutines
//
// The active slots live in a Registry, which plays the role of
// goroutine-local storage and travels in the context.Context. A Registry
// belongs to one goroutine; it is never locked. To move a failure to
// another goroutine, Capture its payloads (or run the goroutine under
// TryCapture) and return the resulting *Captured as an error on the other
// side.
//
// # Matching
//
// Required[E] needs a payload of type E and Optional[E] takes one if it is
// there. Match, MatchValue and MatchFunc narrow a payload by value, Catch
// and CatchIs match the error that caused the failure, and Not inverts any
// of them. A handler whose arguments are all optional, like Fallback,
// always matches and ends a TryHandleAll list.
//
// # Diagnostics
//
// Handlers taking Diagnostic or Verbose learn how many payloads were
// discarded for the failure and of which types:
//
//	errslot.On1(errslot.Verbose(), func(vi *errslot.VerboseDiagnosticInfo) string {
//	    return vi.String()
//	})
//
// Recording costs a little per discarded payload and only happens while
// such a handler's scope is active. WithDiagnostics(false) turns it off.
//
// # Common payloads
//
// SourceLocation, APIFunction, FileName, AtLine and Errno cover what most
// I/O code wants to report. NewHere loads a SourceLocation for its caller.
//
// # Exceptions
//
// Raise wraps an error value together with the failure's ID, so a failure
// can keep a meaningful error type and still carry payloads. Catch[X]
// matches it.
//
// # Deferred payloads
//
// OnError attaches payloads only when the guarded function fails:
//
//	g := errslot.OnError(ctx, errslot.Preload(Command{Name: name}))
//	defer g.Close(&err)
//
// # Allocation
//
// Reusing a HandlerSet, loading with Load and dispatching with Handle does
// not allocate. Capture is the one operation designed to allocate.
package errslot
