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

// Package mapper turns codes (dirpx.dev/errslot/code) into HTTP and gRPC
// statuses.
//
// # Resolution
//
// Each transport resolves independently, highest tier first:
//
//  1. exact override for the code (WithHTTPOverride, WithGRPCOverride);
//  2. per-code default, the library table adjusted by WithHTTPDefault and
//     WithGRPCDefault;
//  3. global fallback, 500 / codes.Internal unless WithFallback says otherwise.
//
// # Building a mapper
//
//	m, err := mapper.New(
//	    mapper.WithHTTPOverride(code.Canceled, 499),
//	)
//	st := m.Status(code.Unavailable) // {503, codes.Unavailable}
//
// New copies everything it is given, so one mapper can be shared across
// goroutines for the life of the process. Explain prints which tier matched
// and is meant for logs and tests.
package mapper
