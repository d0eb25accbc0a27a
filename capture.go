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
	"fmt"

	"dirpx.dev/errslot/internal/typeindex"
	"go.uber.org/zap"
)

// capturedNode is one payload held by a Captured.
type capturedNode interface {
	typeEntry() *typeindex.Entry
	key() ID
	setKey(id ID)
	payload() any
	next() capturedNode
	link(n capturedNode)

	// unload moves the payload into the innermost slot of its type on r.
	unload(r *Registry, id ID)
}

type node[E any] struct {
	entry *typeindex.Entry
	id    ID
	value E
	nxt   capturedNode
}

func (n *node[E]) typeEntry() *typeindex.Entry { return n.entry }
func (n *node[E]) key() ID                     { return n.id }
func (n *node[E]) setKey(id ID)                { n.id = id }
func (n *node[E]) payload() any                { return n.value }
func (n *node[E]) next() capturedNode          { return n.nxt }
func (n *node[E]) link(m capturedNode)         { n.nxt = m }

func (n *node[E]) unload(r *Registry, id ID) {
	if s, _ := r.at(n.entry.Index).(*slotOf[E]); s != nil {
		s.put(id, n.value)
		return
	}
	drop(r, id, n.entry, n.value)
}

// anyNode holds a payload known only by its dynamic type.
type anyNode struct {
	entry *typeindex.Entry
	id    ID
	value any
	nxt   capturedNode
}

func (n *anyNode) typeEntry() *typeindex.Entry { return n.entry }
func (n *anyNode) key() ID                     { return n.id }
func (n *anyNode) setKey(id ID)                { n.id = id }
func (n *anyNode) payload() any                { return n.value }
func (n *anyNode) next() capturedNode          { return n.nxt }
func (n *anyNode) link(m capturedNode)         { n.nxt = m }

func (n *anyNode) unload(r *Registry, id ID) {
	if s := r.at(n.entry.Index); s != nil {
		s.putAny(id, n.value)
		return
	}
	r.dropAny(id, n.entry, n.value)
}

// CaptureOverflow is captured in place of the payloads a Capture dropped
// after reaching the registry's capture limit.
type CaptureOverflow struct {
	Limit   int
	Dropped int
}

func (o CaptureOverflow) String() string {
	return fmt.Sprintf("%d payload(s) dropped past the capture limit of %d", o.Dropped, o.Limit)
}

// Captured holds the payloads of one failure outside of any registry, so
// the failure can cross to another goroutine. It is an error: return it
// from a try function and TryHandleAll / TryHandleSome replay it into their
// scope before dispatching.
//
// Payloads are kept in a singly linked list and appended one at a time, so
// a Captured is complete and valid at every step of its construction.
type Captured struct {
	id  ID
	err error

	first, last capturedNode
	n           int

	limit   int
	dropped int
}

// append links n at the tail regardless of the limit.
func (c *Captured) append(n capturedNode) {
	n.link(nil)
	if c.last == nil {
		c.first = n
	} else {
		c.last.link(n)
	}
	c.last = n
	c.n++
}

// add links n at the tail unless the limit is reached.
func (c *Captured) add(r *Registry, n capturedNode) {
	if c.limit > 0 && c.n >= c.limit {
		c.dropped++
		r.log.Debug("errslot: capture limit reached",
			zap.Int("limit", c.limit),
			zap.String("type", n.typeEntry().Name),
		)
		return
	}
	if n.key() == 0 {
		n.setKey(r.current)
	}
	c.append(n)
}

// finish records the payloads dropped past the limit.
func (c *Captured) finish() {
	if c.dropped == 0 {
		return
	}
	c.append(&node[CaptureOverflow]{
		entry: typeindex.For[CaptureOverflow](),
		id:    c.id,
		value: CaptureOverflow{Limit: c.limit, Dropped: c.dropped},
	})
	c.dropped = 0
}

// Capture moves every payload attached to id out of the active slots of
// the registry in ctx into a new Captured.
func Capture(ctx context.Context, id ID) *Captured {
	r := FromContext(ctx)
	c := &Captured{id: id}
	if r == nil || !id.Valid() {
		return c
	}
	c.limit = r.captureLimit
	for _, s := range r.top {
		if s != nil && s.key() == id {
			s.capture(r, c)
		}
	}
	c.finish()
	return c
}

// TryCapture runs f on a fresh registry, typically at the top of a worker
// goroutine. Payloads loaded while f runs that have no active slot are
// collected instead of dropped. If f fails, TryCapture returns a *Captured
// wrapping the error and holding the payloads attached to the failing id.
//
//	go func() {
//	    _, err := errslot.TryCapture(ctx, work)
//	    results <- err
//	}()
func TryCapture[R any](ctx context.Context, f func(context.Context) (R, error)) (R, error) {
	r := NewRegistry()
	if parent := FromContext(ctx); parent != nil {
		r = parent.fork()
	}
	ctx = WithRegistry(ctx, r)

	sink := &Captured{limit: r.captureLimit}
	r.sink = sink
	v, err := f(ctx)
	r.sink = nil
	if err == nil {
		return v, nil
	}

	id := resolve(r, err, 0)
	out := &Captured{id: id, err: err, limit: r.captureLimit, dropped: sink.dropped}
	for n := sink.first; n != nil; {
		next := n.next()
		if n.key() == id {
			out.append(n)
		}
		n = next
	}
	out.finish()
	return v, out
}

// ID returns the id of the captured failure.
func (c *Captured) ID() ID { return c.id }

// ErrorID implements the id-carrier contract used by IDOf.
func (c *Captured) ErrorID() ID { return c.id }

// Error implements the built-in error interface.
func (c *Captured) Error() string {
	if c.err != nil {
		return c.err.Error()
	}
	return "errslot: captured error id " + c.id.String()
}

// Unwrap returns the error the failure was captured with, or nil.
func (c *Captured) Unwrap() error { return c.err }

// Len reports the number of payloads held.
func (c *Captured) Len() int { return c.n }

// Each calls fn for every payload held, in capture order, until fn returns
// false.
func (c *Captured) Each(fn func(Payload) bool) {
	for n := c.first; n != nil; n = n.next() {
		if !fn(Payload{Type: n.typeEntry().Name, Value: n.payload()}) {
			return
		}
	}
}

// Unload makes the captured id current on the registry in ctx and moves
// every payload into the innermost active slot of its type. Payloads
// without a slot are dropped. Afterwards c is empty. Unload returns the id.
func (c *Captured) Unload(ctx context.Context) ID {
	r := FromContext(ctx)
	if r == nil {
		c.first, c.last, c.n = nil, nil, 0
		return c.id
	}
	r.current = c.id
	c.unload(r, c.id)
	return c.id
}

func (c *Captured) unload(r *Registry, id ID) {
	for n := c.first; n != nil; {
		next := n.next()
		n.link(nil)
		n.unload(r, id)
		n = next
	}
	c.first, c.last, c.n = nil, nil, 0
}
