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

package mapper

import (
	"fmt"
	"strings"

	"dirpx.dev/errslot/apis"
	"dirpx.dev/errslot/code"
	"google.golang.org/grpc/codes"
)

// New builds an immutable apis.Mapper: library defaults, then opts, then a
// frozen copy. The first invalid option is returned as an error.
func New(opts ...Option) (apis.Mapper, error) {
	b := newBuilder()
	for _, opt := range opts {
		opt(b)
	}
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	return &mapper{
		httpDefault:  freeze(b.httpDefaults, asInt),
		grpcDefault:  freeze(b.grpcDefaults, asGRPC),
		httpOverride: freeze(b.httpOverride, asInt),
		grpcOverride: freeze(b.grpcOverride, asGRPC),
		fallbackHTTP: b.fallbackHTTP,
		fallbackGRPC: codes.Code(b.fallbackGRPC),
	}, nil
}

// Default returns a mapper with the library tables only.
func Default() apis.Mapper {
	m, err := New()
	if err != nil {
		panic(err)
	}
	return m
}

// mapper resolves override, then default, then fallback. Lookups are plain
// map reads and safe for concurrent use.
type mapper struct {
	httpDefault  map[code.Code]int
	grpcDefault  map[code.Code]codes.Code
	httpOverride map[code.Code]int
	grpcOverride map[code.Code]codes.Code

	fallbackHTTP int
	fallbackGRPC codes.Code
}

func (m *mapper) HTTPStatus(c code.Code) int {
	v, _ := m.http(c)
	return v
}

func (m *mapper) GRPCStatus(c code.Code) codes.Code {
	v, _ := m.grpc(c)
	return v
}

func (m *mapper) Status(c code.Code) apis.Status {
	return apis.Status{HTTP: m.HTTPStatus(c), GRPC: m.GRPCStatus(c)}
}

// Explain reports the tier that produced each status:
//
//	code="unavailable"
//	http: source=default -> 503
//	grpc: source=default -> UNAVAILABLE(14)
func (m *mapper) Explain(c code.Code) string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "code=%q\n", c)
	hv, hsrc := m.http(c)
	_, _ = fmt.Fprintf(&b, "http: source=%s -> %d\n", hsrc, hv)
	gv, gsrc := m.grpc(c)
	_, _ = fmt.Fprintf(&b, "grpc: source=%s -> %s(%d)", gsrc, strings.ToUpper(gv.String()), int(gv))
	return b.String()
}

func (m *mapper) http(c code.Code) (int, string) {
	if v, ok := m.httpOverride[c]; ok {
		return v, "override"
	}
	if v, ok := m.httpDefault[c]; ok {
		return v, "default"
	}
	return m.fallbackHTTP, "fallback"
}

func (m *mapper) grpc(c code.Code) (codes.Code, string) {
	if v, ok := m.grpcOverride[c]; ok {
		return v, "override"
	}
	if v, ok := m.grpcDefault[c]; ok {
		return v, "default"
	}
	return m.fallbackGRPC, "fallback"
}
