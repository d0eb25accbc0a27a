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
	"errors"

	"dirpx.dev/errslot/code"
)

// ErrInvalidStatus reports a transport status outside its valid range:
// 100..599 for HTTP, OK..UNAUTHENTICATED for gRPC. New wraps it with the
// offending code, so test with errors.Is.
var ErrInvalidStatus = errors.New("mapper: invalid status")

// Option configures a mapper at build time. Options are applied in order,
// so a later option for the same code wins. An invalid option does not
// panic; New returns its error.
type Option func(*builder)

// WithHTTPDefault replaces the library default HTTP status for c, or adds
// one for a code the library does not know. Overrides still take
// precedence.
//
//	mapper.New(mapper.WithHTTPDefault(code.Canceled, 499))
func WithHTTPDefault(c code.Code, http int) Option {
	return func(b *builder) { b.setHTTP(b.httpDefaults, c, http) }
}

// WithGRPCDefault is WithHTTPDefault for the gRPC table. grpc is a
// google.golang.org/grpc/codes value given as an int.
func WithGRPCDefault(c code.Code, grpc int) Option {
	return func(b *builder) { b.setGRPC(b.grpcDefaults, c, grpc) }
}

// WithHTTPOverride pins the HTTP status for c. Overrides are consulted
// before defaults, and Explain reports them as source=override. Use them
// for per-service policy layered on a shared set of defaults.
func WithHTTPOverride(c code.Code, http int) Option {
	return func(b *builder) { b.setHTTP(b.httpOverride, c, http) }
}

// WithGRPCOverride is WithHTTPOverride for gRPC.
func WithGRPCOverride(c code.Code, grpc int) Option {
	return func(b *builder) { b.setGRPC(b.grpcOverride, c, grpc) }
}

// WithFallback sets the statuses used for codes with no rule at all,
// code.Empty included. The library fallback is HTTP 500 and gRPC INTERNAL.
// Both values are checked; when either is out of range neither is applied.
func WithFallback(http, grpc int) Option {
	return func(b *builder) {
		if err := checkHTTP(http); err != nil {
			b.errs = append(b.errs, err)
			return
		}
		if err := checkGRPC(grpc); err != nil {
			b.errs = append(b.errs, err)
			return
		}
		b.fallbackHTTP, b.fallbackGRPC = http, grpc
	}
}
