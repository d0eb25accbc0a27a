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

package calc

import (
	"context"
	"fmt"
	"strings"

	"dirpx.dev/errslot"
)

// Reply is what a session sends back for one line. Err is set when the
// session must end with an error.
type Reply struct {
	Text string
	Quit bool
	Err  error
}

// Responder executes lines and turns failures into replies. It keeps one
// handler set and must not be shared between goroutines.
type Responder struct {
	hs *errslot.HandlerSet[Reply]
}

// NewResponder returns a Responder whose failure replies carry a verbose
// diagnostic block.
func NewResponder() *Responder {
	return &Responder{hs: errslot.Handlers(
		errslot.On1(errslot.Required[ErrorQuit](), func(ErrorQuit) Reply {
			return Reply{Err: ErrErrorQuit}
		}),
		errslot.On3(errslot.Required[ParseError](), errslot.Optional[Command](), errslot.Verbose(),
			func(e ParseError, cmd *Command, vi *errslot.VerboseDiagnosticInfo) Reply {
				return failure(cmd, "int64 parse error: "+e.String(), vi)
			}),
		errslot.On3(errslot.Required[ArgCount](), errslot.Optional[Command](), errslot.Verbose(),
			func(e ArgCount, cmd *Command, vi *errslot.VerboseDiagnosticInfo) Reply {
				return failure(cmd, "wrong argument count: "+e.String(), vi)
			}),
		errslot.On3(errslot.Catch[error](), errslot.Optional[Command](), errslot.Verbose(),
			func(err error, cmd *Command, vi *errslot.VerboseDiagnosticInfo) Reply {
				return failure(cmd, err.Error(), vi)
			}),
		errslot.On2(errslot.Optional[Command](), errslot.Verbose(),
			func(cmd *Command, vi *errslot.VerboseDiagnosticInfo) Reply {
				return failure(cmd, "unknown failure", vi)
			}),
	)}
}

// Respond executes line. ctx must carry the session's registry.
func (r *Responder) Respond(ctx context.Context, line string) Reply {
	return r.hs.TryHandleAll(ctx, func(ctx context.Context) (Reply, error) {
		text, quit, err := Execute(ctx, line)
		return Reply{Text: text, Quit: quit}, err
	})
}

func failure(cmd *Command, msg string, vi *errslot.VerboseDiagnosticInfo) Reply {
	prefix := "Error:"
	if cmd != nil {
		prefix = fmt.Sprintf("Error (%s):", *cmd)
	}
	return Reply{Text: prefix + " " + msg + diagnostic(vi)}
}

func diagnostic(vi *errslot.VerboseDiagnosticInfo) string {
	s := strings.ReplaceAll(strings.TrimRight(vi.String(), "\n"), "\n", "\n    ")
	return "\nDetailed error diagnostic:\n----\n" + s + "\n----"
}

// wire converts a reply to telnet line endings.
func wire(text string) string {
	text = strings.ReplaceAll(text+"\n", "\r", "")
	return strings.ReplaceAll(text, "\n", "\r\n")
}
