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

package apis

import (
	"dirpx.dev/errslot/code"
	"google.golang.org/grpc/codes"
)

// Mapper resolves a code into transport statuses. It is the only thing
// httpx and grpcx need to know about status policy, so a service can swap
// in its own table without touching handlers.
//
// Implementations must be immutable after construction and safe for
// concurrent use. Every method must return a usable status for any input,
// code.Empty and unknown codes included.
type Mapper interface {
	// HTTPStatus returns the HTTP status for c.
	HTTPStatus(c code.Code) int

	// GRPCStatus returns the gRPC code for c.
	GRPCStatus(c code.Code) codes.Code

	// Status resolves both transports with the same rule. Adapters that
	// report both, like httpx writing a google.rpc.Status body, use it.
	Status(c code.Code) Status

	// Explain describes which rule matched, one line per transport. The
	// format is for people and tests, not for parsing.
	Explain(c code.Code) string
}

// Status is a resolved pair of transport statuses.
type Status struct {
	HTTP int        // net/http status code
	GRPC codes.Code // gRPC status code
}
