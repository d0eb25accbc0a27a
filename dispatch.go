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

// dispatch is the state a handler's arguments read from. Each Scope embeds
// one, so dispatching does not allocate.
type dispatch struct {
	sc  *Scope
	id  ID
	err error

	info    ErrorInfo
	diag    DiagnosticInfo
	verbose VerboseDiagnosticInfo
}

func (d *dispatch) reset(sc *Scope, id ID, err error) {
	d.sc, d.id, d.err = sc, id, err
	d.info = ErrorInfo{id: id, err: err, sc: sc}
	d.diag = DiagnosticInfo{ErrorInfo: d.info}
	d.verbose = VerboseDiagnosticInfo{DiagnosticInfo: d.diag}
}

func (d *dispatch) clear() {
	*d = dispatch{}
}

// Handle runs the first handler whose arguments are all satisfied by the
// payloads sc holds for id and by err, and reports whether one ran. The
// payloads sc held for id are consumed: a second Handle for the same id
// finds them gone.
//
// err is the failure as returned to the caller, or nil. When it is a bare
// ID, Catch arguments never match.
//
// sc must not be active.
func Handle[R any](sc *Scope, id ID, err error, hs ...Handler[R]) (R, bool) {
	if sc.active {
		panic("errslot: handle on an active scope")
	}
	d := &sc.d
	d.reset(sc, id, foreign(err))
	defer d.clear()

	for i := range hs {
		if hs[i].match(d) {
			v := hs[i].call(d)
			sc.consume(id)
			return v, true
		}
	}
	var zero R
	return zero, false
}

// foreign returns the error that caused a failure when the failure did not
// arrive as a bare ID.
func foreign(err error) error {
	switch e := err.(type) {
	case nil, ID:
		return nil
	case *Exception:
		return e.Err
	case *Captured:
		return foreign(e.err)
	}
	return err
}

// resolve names the id a failure belongs to: the id err carries, else the
// id allocated on r while the failing code ran, else a new one.
func resolve(r *Registry, err error, entry ID) ID {
	if id, ok := err.(ID); ok && id.Valid() {
		return id
	}
	var c idCarrier
	if errors.As(err, &c) {
		if id := c.ErrorID(); id.Valid() {
			return id
		}
	}
	if r.current != entry && r.current.Valid() {
		return r.current
	}
	return r.newID()
}

// HandlerSet is a reusable handler list together with the scope deduced
// from its handlers' arguments. Reusing one HandlerSet keeps the try and
// handle cycle free of allocations.
//
// A HandlerSet belongs to one goroutine at a time.
type HandlerSet[R any] struct {
	hs    []Handler[R]
	scope *Scope
	total bool
}

// Handlers builds a HandlerSet. The order of hs is the order handlers are
// tried in.
func Handlers[R any](hs ...Handler[R]) *HandlerSet[R] {
	s := &HandlerSet[R]{
		hs:    append([]Handler[R](nil), hs...),
		scope: NewScope(),
	}
	for i := range s.hs {
		for _, rq := range s.hs[i].reqs {
			s.scope.add(rq.types...)
		}
	}
	s.total = len(s.hs) > 0 && s.hs[len(s.hs)-1].Unconditional()
	return s
}

// Scope returns the scope the set activates around try functions.
func (s *HandlerSet[R]) Scope() *Scope {
	return s.scope
}

// Include adds slots for types no handler names, so that ErrorInfo.Each
// can report them. It returns s.
func (s *HandlerSet[R]) Include(types ...SlotType) *HandlerSet[R] {
	s.scope.add(types...)
	return s
}

// Handle dispatches id over the set's scope. See Handle.
func (s *HandlerSet[R]) Handle(id ID, err error) (R, bool) {
	return Handle(s.scope, id, err, s.hs...)
}

// run activates the scope around try. On failure it resolves the id and,
// when the failure is a Captured, replays it into the active slots.
func (s *HandlerSet[R]) run(ctx context.Context, r *Registry, try func(context.Context) (R, error)) (v R, id ID, err error) {
	sc := s.scope
	entry := r.current
	sc.Activate(r)
	defer func() {
		if sc.active {
			sc.Deactivate()
		}
	}()

	v, err = try(ctx)
	if err != nil {
		id = resolve(r, err, entry)
		if _, bare := err.(ID); !bare {
			var c *Captured
			if errors.As(err, &c) {
				r.current = id
				c.unload(r, id)
			}
		}
	}
	sc.Deactivate()
	return v, id, err
}

// TryHandleAll runs try inside the set's scope and, if it fails, returns
// the result of the first matching handler. The last handler must match any
// error; TryHandleAll panics with ErrNoCatchAll otherwise.
//
// A registry is installed in ctx when it carries none.
func (s *HandlerSet[R]) TryHandleAll(ctx context.Context, try func(context.Context) (R, error)) R {
	if !s.total {
		panic(ErrNoCatchAll)
	}
	ctx, r := Ensure(ctx)
	v, id, err := s.run(ctx, r, try)
	if err == nil {
		return v
	}
	res, _ := s.Handle(id, err)
	return res
}

// TryHandleSome is TryHandleAll for handler lists that may not match. When
// no handler matches, the payloads are propagated to the enclosing scopes
// and the original error is returned.
func (s *HandlerSet[R]) TryHandleSome(ctx context.Context, try func(context.Context) (R, error)) (R, error) {
	ctx, r := Ensure(ctx)
	v, id, err := s.run(ctx, r, try)
	if err == nil {
		return v, nil
	}
	if res, ok := s.Handle(id, err); ok {
		return res, nil
	}
	s.scope.Propagate(id)
	var zero R
	return zero, err
}

// TryHandleAll is Handlers(hs...).TryHandleAll(ctx, try).
func TryHandleAll[R any](ctx context.Context, try func(context.Context) (R, error), hs ...Handler[R]) R {
	return Handlers(hs...).TryHandleAll(ctx, try)
}

// TryHandleSome is Handlers(hs...).TryHandleSome(ctx, try).
func TryHandleSome[R any](ctx context.Context, try func(context.Context) (R, error), hs ...Handler[R]) (R, error) {
	return Handlers(hs...).TryHandleSome(ctx, try)
}
