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
	"fmt"
	"strings"
)

// Payload is one attached error object as seen by printers.
type Payload struct {
	// Type is the printable type name, e.g. "calc.Command".
	Type string

	// Value is the payload itself.
	Value any
}

// String renders the payload as "Type: value".
func (p Payload) String() string {
	return fmt.Sprintf("%s: %v", p.Type, p.Value)
}

// ErrorInfo describes the failure being handled: its id, the foreign error
// it arrived as (if any) and the payloads attached to it.
//
// An ErrorInfo handed to a handler is valid only during the call.
type ErrorInfo struct {
	id  ID
	err error
	sc  *Scope
}

// ID returns the id being handled.
func (ei *ErrorInfo) ID() ID { return ei.id }

// Err returns the foreign error the failure arrived as, or nil when it
// arrived as a bare ID.
func (ei *ErrorInfo) Err() error { return ei.err }

// Each calls fn for every payload attached to the id, in scope order,
// until fn returns false.
func (ei *ErrorInfo) Each(fn func(Payload) bool) {
	if ei.sc == nil || !ei.id.Valid() {
		return
	}
	for _, s := range ei.sc.slots {
		if s.key() != ei.id || bookkeeping(s.entry()) {
			continue
		}
		if !fn(Payload{Type: s.entry().Name, Value: s.payload()}) {
			return
		}
	}
}

// Payloads returns every payload attached to the id.
func (ei *ErrorInfo) Payloads() []Payload {
	var out []Payload
	ei.Each(func(p Payload) bool {
		out = append(out, p)
		return true
	})
	return out
}

func (ei *ErrorInfo) write(b *strings.Builder) {
	fmt.Fprintf(b, "Error ID: %d\n", uint64(ei.id))
	if ei.err != nil {
		fmt.Fprintf(b, "Caught error: %s\n\tType: %T\n", ei.err, ei.err)
	}
	ei.Each(func(p Payload) bool {
		b.WriteString(p.String())
		b.WriteByte('\n')
		return true
	})
}

// String renders the id, the foreign error and the payloads, one per line.
func (ei *ErrorInfo) String() string {
	var b strings.Builder
	ei.write(&b)
	return b.String()
}

// DiagnosticInfo is ErrorInfo plus a summary of the payloads that were
// dropped for the id because no slot of their type was active.
type DiagnosticInfo struct {
	ErrorInfo
}

func (di *DiagnosticInfo) count() *unexpectedCount {
	if di.sc == nil {
		return nil
	}
	s, _ := di.sc.find(unexpectedCountEntry.Index).(*slotOf[unexpectedCount])
	if s == nil {
		return nil
	}
	return s.has(di.id)
}

// Unexpected returns how many payloads were dropped for the id and the type
// of the first one.
func (di *DiagnosticInfo) Unexpected() (count int, first string) {
	if u := di.count(); u != nil {
		return u.count, u.first
	}
	return 0, ""
}

func (di *DiagnosticInfo) write(b *strings.Builder) {
	di.ErrorInfo.write(b)
	if u := di.count(); u != nil {
		b.WriteString(u.String())
		b.WriteByte('\n')
	}
}

// String renders ErrorInfo followed by the dropped-payload summary.
func (di *DiagnosticInfo) String() string {
	var b strings.Builder
	di.write(&b)
	return b.String()
}

// VerboseDiagnosticInfo is DiagnosticInfo plus the dropped payloads
// themselves, one per distinct type.
type VerboseDiagnosticInfo struct {
	DiagnosticInfo
}

// UnexpectedObjects returns the first dropped payload of each distinct type.
func (vi *VerboseDiagnosticInfo) UnexpectedObjects() []Payload {
	if vi.sc == nil {
		return nil
	}
	s, _ := vi.sc.find(unexpectedInfoEntry.Index).(*slotOf[unexpectedInfo])
	if s == nil {
		return nil
	}
	if u := s.has(vi.id); u != nil {
		return append([]Payload(nil), u.objects...)
	}
	return nil
}

// String renders DiagnosticInfo followed by the dropped payloads.
func (vi *VerboseDiagnosticInfo) String() string {
	var b strings.Builder
	vi.DiagnosticInfo.write(&b)
	if objs := vi.UnexpectedObjects(); len(objs) > 0 {
		b.WriteString("Unexpected error objects:\n")
		for _, p := range objs {
			b.WriteString(p.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}
