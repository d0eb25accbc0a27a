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

import "go.uber.org/zap"

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithLogger sets the logger used to report dropped payloads. A nil logger
// is replaced by zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l == nil {
			l = zap.NewNop()
		}
		r.log = l
	}
}

// WithDiagnostics turns recording of unexpected payloads on or off.
// Recording is on by default. When off, DiagnosticInfo always reports zero
// unexpected objects.
func WithDiagnostics(enabled bool) Option {
	return func(r *Registry) { r.diagnostics = enabled }
}

// WithCaptureLimit bounds the number of nodes a single Capture or TryCapture
// may allocate. Payloads past the limit are dropped and a CaptureOverflow
// payload is captured in their place. Zero or a negative value means no
// limit.
func WithCaptureLimit(n int) Option {
	return func(r *Registry) {
		if n < 0 {
			n = 0
		}
		r.captureLimit = n
	}
}
