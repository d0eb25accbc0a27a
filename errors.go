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

import "errors"

var (
	// ErrNoRegistry is the panic value of operations that need a Registry
	// and were given none.
	ErrNoRegistry = errors.New("errslot: no registry")

	// ErrNoCatchAll is the panic value of TryHandleAll when the last handler
	// can fail to match.
	ErrNoCatchAll = errors.New("errslot: the last handler passed to TryHandleAll must match any error")
)
