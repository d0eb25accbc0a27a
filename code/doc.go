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

// Package code defines machine-readable failure classes such as "invalid",
// "not_found" or "internal".
//
// A Code is a plain value: code that fails attaches one to its error id
//
//	return errslot.New(ctx, code.NotFound, userID)
//
// and transport adapters (grpcx, httpx) read it back with
// errslot.Required[code.Code]() to pick a status.
//
// Canonical codes are lowercase, underscore separated and 3..64 characters
// long. Parse and Normalize convert user input to that form.
package code
