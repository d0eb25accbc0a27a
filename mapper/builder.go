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
	"maps"
	"net/http"

	"dirpx.dev/errslot/code"
	"google.golang.org/grpc/codes"
)

type builder struct {
	// Defaults start as a copy of the library tables.
	httpDefaults map[code.Code]int
	grpcDefaults map[code.Code]int

	httpOverride map[code.Code]int
	grpcOverride map[code.Code]int

	fallbackHTTP int
	fallbackGRPC int

	// errs collects option errors; New reports the first one.
	errs []error
}

func newBuilder() *builder {
	b := &builder{
		httpDefaults: make(map[code.Code]int, len(defaultHTTP)),
		grpcDefaults: make(map[code.Code]int, len(defaultGRPC)),
		httpOverride: make(map[code.Code]int),
		grpcOverride: make(map[code.Code]int),
		fallbackHTTP: http.StatusInternalServerError,
		fallbackGRPC: int(codes.Internal),
	}
	maps.Copy(b.httpDefaults, defaultHTTP)
	for k, v := range defaultGRPC {
		b.grpcDefaults[k] = int(v)
	}
	return b
}

func (b *builder) setHTTP(dst map[code.Code]int, c code.Code, v int) {
	if err := code.Validate(c); err != nil {
		b.errs = append(b.errs, fmt.Errorf("mapper: code %q: %w", c, err))
		return
	}
	if err := checkHTTP(v); err != nil {
		b.errs = append(b.errs, fmt.Errorf("mapper: code %q: %w", c, err))
		return
	}
	dst[c] = v
}

func (b *builder) setGRPC(dst map[code.Code]int, c code.Code, v int) {
	if err := code.Validate(c); err != nil {
		b.errs = append(b.errs, fmt.Errorf("mapper: code %q: %w", c, err))
		return
	}
	if err := checkGRPC(v); err != nil {
		b.errs = append(b.errs, fmt.Errorf("mapper: code %q: %w", c, err))
		return
	}
	dst[c] = v
}

func checkHTTP(v int) error {
	if v < 100 || v > 599 {
		return fmt.Errorf("%w: HTTP status %d", ErrInvalidStatus, v)
	}
	return nil
}

func checkGRPC(v int) error {
	if v < int(codes.OK) || v > int(codes.Unauthenticated) {
		return fmt.Errorf("%w: gRPC code %d", ErrInvalidStatus, v)
	}
	return nil
}

// freeze copies src into a fresh map, converting values with conv.
// Empty inputs freeze to nil.
func freeze[V any](src map[code.Code]int, conv func(int) V) map[code.Code]V {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[code.Code]V, len(src))
	for k, v := range src {
		dst[k] = conv(v)
	}
	return dst
}

func asInt(v int) int         { return v }
func asGRPC(v int) codes.Code { return codes.Code(v) }
