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

package code

// Generic failures
//
// Transport-neutral classes for business logic and input validation. Most
// failures should use one of these.
const (
	// Internal is a failure nothing more specific describes: a bug, a broken
	// invariant, an error from a library the caller cannot act on. It is
	// also what adapters report when a failure carries no code at all.
	//
	// Default mapping: HTTP 500, gRPC INTERNAL.
	Internal Code = "internal"

	// Invalid means the input is present but wrong: bad format, out of
	// range, or inconsistent with another field.
	//
	// Default mapping: HTTP 400, gRPC INVALID_ARGUMENT.
	Invalid Code = "invalid"

	// Missing means a required field, parameter or header was not supplied.
	//
	// Default mapping: HTTP 400, gRPC INVALID_ARGUMENT.
	Missing Code = "missing"

	// Unsupported means the operation or option is not available here,
	// for instance a disabled feature or an unknown algorithm.
	//
	// Default mapping: HTTP 400, gRPC UNIMPLEMENTED.
	Unsupported Code = "unsupported"
)

// Operational conditions
//
// These describe the state of the system rather than the request. They are
// usually transient and the caller may retry.
const (
	// Unavailable means a dependency the operation needs cannot be reached.
	// Attach the underlying error so handlers can log it.
	//
	// Default mapping: HTTP 503, gRPC UNAVAILABLE.
	Unavailable Code = "unavailable"

	// Timeout means the operation ran out of its time budget.
	//
	// Default mapping: HTTP 504, gRPC DEADLINE_EXCEEDED.
	Timeout Code = "timeout"

	// Canceled means the caller gave up, typically because its context was
	// canceled.
	//
	// Default mapping: HTTP 408, gRPC CANCELLED.
	Canceled Code = "canceled"

	// Overloaded is returned when a worker pool or queue is saturated.
	//
	// Default mapping: HTTP 503, gRPC UNAVAILABLE.
	Overloaded Code = "overloaded"

	// RateLimited means the caller must slow down. Pair it with a retry hint
	// such as httpx.RetryAfter.
	//
	// Default mapping: HTTP 429, gRPC RESOURCE_EXHAUSTED.
	RateLimited Code = "rate_limited"
)

// Resource state
const (
	// Default mapping: HTTP 404, gRPC NOT_FOUND.
	NotFound Code = "not_found"

	// AlreadyExists is returned by creates that collide with an existing
	// resource.
	//
	// Default mapping: HTTP 409, gRPC ALREADY_EXISTS.
	AlreadyExists Code = "already_exists"

	// Conflict means a concurrent change won, e.g. a version mismatch.
	//
	// Default mapping: HTTP 409, gRPC ABORTED.
	Conflict Code = "conflict"

	// PreconditionFailed means the resource is not in the state the
	// operation requires.
	//
	// Default mapping: HTTP 412, gRPC FAILED_PRECONDITION.
	PreconditionFailed Code = "precondition_failed"

	// Gone is NotFound for resources that existed once.
	//
	// Default mapping: HTTP 410, gRPC NOT_FOUND.
	Gone Code = "gone"
)

// Identity and access
const (
	// Unauthenticated means the caller could not be identified.
	//
	// Default mapping: HTTP 401, gRPC UNAUTHENTICATED.
	Unauthenticated Code = "unauthenticated"

	// PermissionDenied means the caller is known but not allowed.
	//
	// Default mapping: HTTP 403, gRPC PERMISSION_DENIED.
	PermissionDenied Code = "permission_denied"
)

var known = map[Code]struct{}{
	Internal: {}, Invalid: {}, Missing: {}, Unsupported: {},
	Unavailable: {}, Timeout: {}, Canceled: {}, Overloaded: {}, RateLimited: {},
	NotFound: {}, AlreadyExists: {}, Conflict: {}, PreconditionFailed: {}, Gone: {},
	Unauthenticated: {}, PermissionDenied: {},
}
