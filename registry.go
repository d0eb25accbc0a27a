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

	"dirpx.dev/errslot/internal/typeindex"
	"go.uber.org/zap"
)

// Registry is the per-goroutine error state: for every payload type it
// tracks the innermost active slot, and it remembers the id most recently
// allocated by this goroutine.
//
// A Registry is owned by exactly one goroutine. It is not safe for
// concurrent use and it is never locked. Code that starts a goroutine must
// give it its own registry (see Detach); payloads cross goroutines only
// through Capture.
//
// Registries travel in a context.Context (see WithRegistry). Operations
// given a context without a registry still allocate ids but discard every
// payload.
type Registry struct {
	// top holds, per type index, the innermost active slot or nil.
	top []slot

	// current is the id most recently allocated on this registry.
	current ID

	// unexpected counts active scopes that hold the unexpected-count or
	// unexpected-info slots. Recording happens only while it is non-zero.
	unexpected int

	// sink is the innermost active capture sink (see TryCapture).
	sink *Captured

	diagnostics  bool
	captureLimit int
	log          *zap.Logger
}

// NewRegistry returns an empty registry configured by opts.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		diagnostics: true,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// fork returns an empty registry sharing r's configuration.
func (r *Registry) fork() *Registry {
	return &Registry{
		diagnostics:  r.diagnostics,
		captureLimit: r.captureLimit,
		log:          r.log,
	}
}

// newID allocates an id and makes it current.
func (r *Registry) newID() ID {
	id := nextID()
	r.current = id
	return id
}

// at returns the innermost active slot for idx, or nil.
func (r *Registry) at(idx int) slot {
	if idx < len(r.top) {
		return r.top[idx]
	}
	return nil
}

// set installs s (possibly nil) as the innermost slot for idx.
func (r *Registry) set(idx int, s slot) {
	if idx >= len(r.top) {
		n := typeindex.Len()
		if n <= idx {
			n = idx + 1
		}
		grown := make([]slot, n)
		copy(grown, r.top)
		r.top = grown
	}
	r.top[idx] = s
}

// topOf returns the innermost active slot of type E, or nil.
func topOf[E any](r *Registry) *slotOf[E] {
	s, _ := r.at(typeindex.For[E]().Index).(*slotOf[E])
	return s
}

// drop disposes of a payload that has no active slot: an active capture
// sink takes it, otherwise it is recorded as unexpected and discarded.
func drop[E any](r *Registry, id ID, e *typeindex.Entry, v E) {
	if r.sink != nil {
		r.sink.add(r, &node[E]{entry: e, id: id, value: v})
		return
	}
	if r.recording() {
		r.recordUnexpected(id, e, v)
	}
	r.log.Debug("errslot: payload dropped",
		zap.Stringer("id", id),
		zap.String("type", e.Name),
	)
}

// dropAny is drop for a payload only known by its dynamic type.
func (r *Registry) dropAny(id ID, e *typeindex.Entry, v any) {
	if r.sink != nil {
		r.sink.add(r, &anyNode{entry: e, id: id, value: v})
		return
	}
	if r.recording() {
		r.recordUnexpected(id, e, v)
	}
	r.log.Debug("errslot: payload dropped",
		zap.Stringer("id", id),
		zap.String("type", e.Name),
	)
}

type registryKey struct{}

// WithRegistry returns a copy of ctx carrying r.
func WithRegistry(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, registryKey{}, r)
}

// FromContext returns the registry carried by ctx, or nil.
func FromContext(ctx context.Context) *Registry {
	if ctx == nil {
		return nil
	}
	r, _ := ctx.Value(registryKey{}).(*Registry)
	return r
}

// Ensure returns ctx and its registry, installing a new default registry
// when ctx carries none.
func Ensure(ctx context.Context) (context.Context, *Registry) {
	if r := FromContext(ctx); r != nil {
		return ctx, r
	}
	r := NewRegistry()
	return WithRegistry(ctx, r), r
}

// Detach returns a copy of ctx carrying a fresh registry configured like the
// one in ctx. Call it before handing ctx to another goroutine.
func Detach(ctx context.Context) context.Context {
	if r := FromContext(ctx); r != nil {
		return WithRegistry(ctx, r.fork())
	}
	return WithRegistry(ctx, NewRegistry())
}
