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

package calc

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrDivisionByZero is returned by div and raised by mod.
var ErrDivisionByZero = errors.New("division by zero")

// ErrErrorQuit ends a session after the error-quit command.
var ErrErrorQuit = errors.New("calc: error_quit")

// Command is the command word of the line being executed.
type Command string

// ParseError locates an integer that failed to parse. Pos is where parsing
// stopped inside Input.
type ParseError struct {
	Input string
	Pos   int
}

func (e ParseError) String() string {
	switch {
	case e.Pos <= 0:
		return fmt.Sprintf("->%q", e.Input)
	case e.Pos < len(e.Input):
		return fmt.Sprintf("%q->%q", e.Input[:e.Pos], e.Input[e.Pos:])
	default:
		return fmt.Sprintf("%q<-", e.Input)
	}
}

// Unbounded is the Max of an ArgCount with no upper limit.
const Unbounded = math.MaxInt

// ArgCount reports a command called with the wrong number of arguments.
type ArgCount struct {
	Count int
	Min   int
	Max   int
}

func (a ArgCount) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d (required: ", a.Count)
	switch {
	case a.Min == a.Max:
		fmt.Fprintf(&b, "%d", a.Min)
	case a.Max < Unbounded:
		fmt.Fprintf(&b, "[%d, %d]", a.Min, a.Max)
	default:
		fmt.Fprintf(&b, "[%d, MAX]", a.Min)
	}
	b.WriteString(")")
	return b.String()
}

// ErrorQuit is attached by the error-quit command.
type ErrorQuit struct{}
