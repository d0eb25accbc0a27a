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

// requirement is the type-erased part of an Arg: which slots a handler
// needs in its scope, whether the argument is available for the error at
// hand, and an optional predicate over it.
type requirement struct {
	types []SlotType

	// present is nil for arguments that are always available.
	present func(d *dispatch) bool

	// pred is nil for arguments without a predicate.
	pred func(d *dispatch) bool
}

func (rq *requirement) satisfied(d *dispatch) bool {
	if rq.present != nil && !rq.present(d) {
		return false
	}
	return rq.pred == nil || rq.pred(d)
}

func (rq *requirement) unconditional() bool {
	return rq.present == nil && rq.pred == nil
}

// Arg describes one handler parameter of type T: what must be present for
// the handler to be selected and how the value is extracted.
//
// Args are built once, typically next to the handler list, and may be
// shared by any number of handlers.
type Arg[T any] struct {
	requirement
	get func(d *dispatch) T
}

// lookup returns the payload of type E attached to the id being handled.
func lookup[E any](d *dispatch, t SlotType) *E {
	s, _ := d.sc.find(t.e.Index).(*slotOf[E])
	if s == nil {
		return nil
	}
	return s.has(d.id)
}

// Required selects the handler only when a payload of type E is attached.
func Required[E any]() Arg[E] {
	t := TypeOf[E]()
	return Arg[E]{
		requirement: requirement{
			types:   []SlotType{t},
			present: func(d *dispatch) bool { return lookup[E](d, t) != nil },
		},
		get: func(d *dispatch) E { return *lookup[E](d, t) },
	}
}

// Optional never blocks selection. The handler receives the attached
// payload of type E, or nil. The pointer is valid only during the call.
func Optional[E any]() Arg[*E] {
	t := TypeOf[E]()
	return Arg[*E]{
		requirement: requirement{types: []SlotType{t}},
		get:         func(d *dispatch) *E { return lookup[E](d, t) },
	}
}

// Info never blocks selection and yields the id and foreign error being
// handled together with the attached payloads.
func Info() Arg[*ErrorInfo] {
	return Arg[*ErrorInfo]{
		get: func(d *dispatch) *ErrorInfo { return &d.info },
	}
}

// Diagnostic is Info plus a summary of payloads that were dropped because
// no slot of their type was active. Using it turns on recording of dropped
// payloads for the handler's scope.
func Diagnostic() Arg[*DiagnosticInfo] {
	return Arg[*DiagnosticInfo]{
		requirement: requirement{types: []SlotType{TypeOf[unexpectedCount]()}},
		get:         func(d *dispatch) *DiagnosticInfo { return &d.diag },
	}
}

// Verbose is Diagnostic plus the list of dropped payload types.
func Verbose() Arg[*VerboseDiagnosticInfo] {
	return Arg[*VerboseDiagnosticInfo]{
		requirement: requirement{types: []SlotType{
			TypeOf[unexpectedCount](),
			TypeOf[unexpectedInfo](),
		}},
		get: func(d *dispatch) *VerboseDiagnosticInfo { return &d.verbose },
	}
}

// Catch selects the handler when the failure arrived as a foreign error
// (anything but a bare ID) and errors.As finds an X in it.
//
//	errslot.On1(errslot.Catch[*os.PathError](), func(e *os.PathError) int { ... })
func Catch[X error]() Arg[X] {
	return Arg[X]{
		requirement: requirement{
			present: func(d *dispatch) bool {
				if d.err == nil {
					return false
				}
				var x X
				return errors.As(d.err, &x)
			},
		},
		get: func(d *dispatch) X {
			var x X
			errors.As(d.err, &x)
			return x
		},
	}
}

// CatchIs selects the handler when the foreign error matches any of the
// targets according to errors.Is.
func CatchIs(targets ...error) Arg[error] {
	return Arg[error]{
		requirement: requirement{
			present: func(d *dispatch) bool {
				if d.err == nil {
					return false
				}
				for _, t := range targets {
					if errors.Is(d.err, t) {
						return true
					}
				}
				return false
			},
		},
		get: func(d *dispatch) error { return d.err },
	}
}
