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

// Handler is one clause of a handler list. It is selected when every one of
// its arguments is satisfied, and then called with the extracted values.
//
// Handlers are built with On0 .. On5 and Fallback.
type Handler[R any] struct {
	reqs []requirement
	call func(d *dispatch) R
}

func (h *Handler[R]) match(d *dispatch) bool {
	for i := range h.reqs {
		if !h.reqs[i].satisfied(d) {
			return false
		}
	}
	return true
}

// Unconditional reports whether the handler matches any error.
func (h Handler[R]) Unconditional() bool {
	for i := range h.reqs {
		if !h.reqs[i].unconditional() {
			return false
		}
	}
	return true
}

// On0 returns a handler without arguments. It matches any error.
func On0[R any](f func() R) Handler[R] {
	return Handler[R]{call: func(*dispatch) R { return f() }}
}

// On1 returns a handler with one argument.
func On1[R, A any](a Arg[A], f func(A) R) Handler[R] {
	return Handler[R]{
		reqs: []requirement{a.requirement},
		call: func(d *dispatch) R { return f(a.get(d)) },
	}
}

// On2 returns a handler with two arguments.
func On2[R, A, B any](a Arg[A], b Arg[B], f func(A, B) R) Handler[R] {
	return Handler[R]{
		reqs: []requirement{a.requirement, b.requirement},
		call: func(d *dispatch) R { return f(a.get(d), b.get(d)) },
	}
}

// On3 returns a handler with three arguments.
func On3[R, A, B, C any](a Arg[A], b Arg[B], c Arg[C], f func(A, B, C) R) Handler[R] {
	return Handler[R]{
		reqs: []requirement{a.requirement, b.requirement, c.requirement},
		call: func(d *dispatch) R { return f(a.get(d), b.get(d), c.get(d)) },
	}
}

// On4 returns a handler with four arguments.
func On4[R, A, B, C, D any](a Arg[A], b Arg[B], c Arg[C], e Arg[D], f func(A, B, C, D) R) Handler[R] {
	return Handler[R]{
		reqs: []requirement{a.requirement, b.requirement, c.requirement, e.requirement},
		call: func(d *dispatch) R { return f(a.get(d), b.get(d), c.get(d), e.get(d)) },
	}
}

// On5 returns a handler with five arguments.
func On5[R, A, B, C, D, E any](a Arg[A], b Arg[B], c Arg[C], e Arg[D], g Arg[E], f func(A, B, C, D, E) R) Handler[R] {
	return Handler[R]{
		reqs: []requirement{a.requirement, b.requirement, c.requirement, e.requirement, g.requirement},
		call: func(d *dispatch) R { return f(a.get(d), b.get(d), c.get(d), e.get(d), g.get(d)) },
	}
}

// Fallback returns a handler that matches any error and receives its
// ErrorInfo.
func Fallback[R any](f func(*ErrorInfo) R) Handler[R] {
	return On1(Info(), f)
}

// Chain flattens groups of handlers into one list, keeping their order.
func Chain[R any](groups ...[]Handler[R]) []Handler[R] {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	out := make([]Handler[R], 0, n)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
