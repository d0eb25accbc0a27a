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
	"testing"
)

var errWorker = errors.New("worker failed")

func handleAB(ctx context.Context, err error) string {
	return TryHandleAll(ctx,
		func(context.Context) (string, error) { return "", err },
		On2(Required[payloadA](), Required[payloadB](), func(a payloadA, b payloadB) string {
			return fmt.Sprintf("%d %d", a.v, b.v)
		}),
		Fallback(func(*ErrorInfo) string { return "fallback" }),
	)
}

func TestCapture_ReplayOnAnotherGoroutine(t *testing.T) {
	done := make(chan *Captured, 1)
	go func() {
		ctx, r := newCtx()
		sc := NewScope(TypeOf[payloadA](), TypeOf[payloadB]())
		sc.Activate(r)
		id := New(ctx, payloadA{v: 1}, payloadB{v: 2})
		c := Capture(ctx, id)
		sc.Deactivate()
		done <- c
	}()
	c := <-done

	if c.Len() != 2 {
		t.Fatalf("captured %d payloads, want 2", c.Len())
	}
	types := map[string]any{}
	c.Each(func(p Payload) bool {
		types[p.Type] = p.Value
		return true
	})
	if types["errslot.payloadA"] != (payloadA{v: 1}) || types["errslot.payloadB"] != (payloadB{v: 2}) {
		t.Fatalf("captured payloads = %v", types)
	}

	ctx, _ := newCtx()
	if got := handleAB(ctx, c); got != "1 2" {
		t.Fatalf("replayed dispatch = %q, want %q", got, "1 2")
	}
	if c.Len() != 0 {
		t.Fatalf("Captured must be empty after replay, has %d", c.Len())
	}
}

func TestCapture_MovesOutOfSlots(t *testing.T) {
	ctx, r := newCtx()
	sc := NewScope(TypeOf[payloadA]())
	sc.Activate(r)
	id := New(ctx, payloadA{v: 1})
	c := Capture(ctx, id)
	sc.Deactivate()

	if slotIn[payloadA](sc).has(id) != nil {
		t.Fatalf("captured payload must leave its slot")
	}
	if c.ID() != id || IDOf(ctx, c) != id {
		t.Fatalf("captured id = %d, want %d", c.ID(), id)
	}
	if Capture(context.Background(), id).Len() != 0 {
		t.Fatalf("Capture without registry must be empty")
	}
}

func TestTryCapture_RoundTrip(t *testing.T) {
	errs := make(chan error, 1)
	go func() {
		_, err := TryCapture(context.Background(), func(ctx context.Context) (int, error) {
			return 0, New(ctx, payloadA{v: 3}, payloadB{v: 4})
		})
		errs <- err
	}()
	err := <-errs

	var c *Captured
	if !errors.As(err, &c) || c.Len() != 2 {
		t.Fatalf("TryCapture error = %v, want a *Captured with 2 payloads", err)
	}
	ctx, _ := newCtx()
	if got := handleAB(ctx, err); got != "3 4" {
		t.Fatalf("replayed dispatch = %q, want %q", got, "3 4")
	}
}

func TestTryCapture_KeepsForeignError(t *testing.T) {
	_, err := TryCapture(context.Background(), func(ctx context.Context) (int, error) {
		return 0, Raise(ctx, errWorker, payloadA{v: 5})
	})
	if !errors.Is(err, errWorker) {
		t.Fatalf("captured error must unwrap to the worker error, got %v", err)
	}

	ctx, _ := newCtx()
	got := TryHandleAll(ctx,
		func(context.Context) (string, error) { return "", err },
		On2(CatchIs(errWorker), Required[payloadA](), func(err error, a payloadA) string {
			return fmt.Sprintf("%v %d", err, a.v)
		}),
		Fallback(func(*ErrorInfo) string { return "fallback" }),
	)
	if got != "worker failed 5" {
		t.Fatalf("got %q", got)
	}
}

func TestTryCapture_Success(t *testing.T) {
	v, err := TryCapture(context.Background(), func(ctx context.Context) (int, error) {
		New(ctx, payloadA{v: 1})
		return 7, nil
	})
	if err != nil || v != 7 {
		t.Fatalf("TryCapture = (%d, %v), want (7, nil)", v, err)
	}
}

func TestTryCapture_OnlyFailingID(t *testing.T) {
	_, err := TryCapture(context.Background(), func(ctx context.Context) (int, error) {
		New(ctx, payloadB{v: 99})
		return 0, New(ctx, payloadA{v: 1})
	})
	var c *Captured
	if !errors.As(err, &c) {
		t.Fatalf("want *Captured, got %T", err)
	}
	if c.Len() != 1 {
		t.Fatalf("captured %d payloads, want only the failing id's one", c.Len())
	}
}

func TestCapture_LimitRecordsOverflow(t *testing.T) {
	parent, _ := newCtx(WithCaptureLimit(1))
	_, err := TryCapture(parent, func(ctx context.Context) (int, error) {
		return 0, New(ctx, payloadA{v: 1}, payloadB{v: 2}, payloadC("c"))
	})

	var c *Captured
	if !errors.As(err, &c) {
		t.Fatalf("want *Captured, got %T", err)
	}
	if c.Len() != 2 {
		t.Fatalf("captured %d nodes, want the kept payload plus the overflow record", c.Len())
	}

	ctx, _ := newCtx()
	got := TryHandleAll(ctx,
		func(context.Context) (string, error) { return "", err },
		On2(Required[payloadA](), Required[CaptureOverflow](), func(a payloadA, o CaptureOverflow) string {
			return fmt.Sprintf("%d %s", a.v, o)
		}),
		Fallback(func(*ErrorInfo) string { return "fallback" }),
	)
	if want := "1 2 payload(s) dropped past the capture limit of 1"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCaptured_UnloadWithoutSlotIsUnexpected(t *testing.T) {
	_, err := TryCapture(context.Background(), func(ctx context.Context) (int, error) {
		return 0, New(ctx, payloadA{v: 3}, payloadB{v: 4})
	})

	ctx, _ := newCtx()
	got := TryHandleAll(ctx,
		func(context.Context) (string, error) { return "", err },
		On2(Required[payloadA](), Diagnostic(), func(a payloadA, di *DiagnosticInfo) string {
			n, first := di.Unexpected()
			return fmt.Sprintf("%d %d %s", a.v, n, first)
		}),
		Fallback(func(*ErrorInfo) string { return "fallback" }),
	)
	if want := "3 1 errslot.payloadB"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCaptured_UnloadExplicit(t *testing.T) {
	_, err := TryCapture(context.Background(), func(ctx context.Context) (int, error) {
		return 0, New(ctx, payloadA{v: 6})
	})
	var c *Captured
	errors.As(err, &c)

	ctx, r := newCtx()
	sc := NewScope(TypeOf[payloadA]())
	sc.Activate(r)
	id := c.Unload(ctx)
	sc.Deactivate()

	if Current(ctx) != id {
		t.Fatalf("Unload must make the captured id current")
	}
	v, ok := Handle(sc, id, nil, On1(Required[payloadA](), func(a payloadA) int { return a.v }))
	if !ok || v != 6 {
		t.Fatalf("Handle = (%d, %v), want (6, true)", v, ok)
	}
}
