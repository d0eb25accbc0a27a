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
	"net/http"

	"dirpx.dev/errslot/code"
	"google.golang.org/grpc/codes"
)

// defaultHTTP follows common REST conventions. It must have the same keys
// as defaultGRPC.
var defaultHTTP = map[code.Code]int{
	// Server side.
	code.Internal:    http.StatusInternalServerError,
	code.Unavailable: http.StatusServiceUnavailable,
	code.Overloaded:  http.StatusServiceUnavailable,
	// A dependency timed out.
	code.Timeout: http.StatusGatewayTimeout,
	// 499 is nginx-only; integrators that want it use WithHTTPOverride.
	code.Canceled: http.StatusRequestTimeout,

	// Client errors. Unsupported is 400, not 501.
	code.Invalid:     http.StatusBadRequest,
	code.Missing:     http.StatusBadRequest,
	code.Unsupported: http.StatusBadRequest,

	code.NotFound: http.StatusNotFound,
	code.Gone:     http.StatusGone,
	// Both collisions are 409; gRPC tells them apart.
	code.AlreadyExists:      http.StatusConflict,
	code.Conflict:           http.StatusConflict,
	code.PreconditionFailed: http.StatusPreconditionFailed,

	code.Unauthenticated:  http.StatusUnauthorized,
	code.PermissionDenied: http.StatusForbidden,

	code.RateLimited: http.StatusTooManyRequests,
}

// defaultGRPC mirrors defaultHTTP using the canonical gRPC codes.
var defaultGRPC = map[code.Code]codes.Code{
	code.Internal:    codes.Internal,
	code.Unavailable: codes.Unavailable,
	code.Overloaded:  codes.Unavailable,
	code.Timeout:     codes.DeadlineExceeded,
	code.Canceled:    codes.Canceled,

	code.Invalid: codes.InvalidArgument,
	code.Missing: codes.InvalidArgument,
	// UNIMPLEMENTED is what gRPC clients expect for a missing feature.
	code.Unsupported: codes.Unimplemented,

	code.NotFound: codes.NotFound,
	// gRPC has no 410.
	code.Gone:          codes.NotFound,
	code.AlreadyExists: codes.AlreadyExists,
	// ABORTED tells clients to retry the whole read-modify-write cycle.
	code.Conflict:           codes.Aborted,
	code.PreconditionFailed: codes.FailedPrecondition,

	code.Unauthenticated:  codes.Unauthenticated,
	code.PermissionDenied: codes.PermissionDenied,

	code.RateLimited: codes.ResourceExhausted,
}
