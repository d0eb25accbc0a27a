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
	"bufio"
	"context"
	"io"

	"dirpx.dev/errslot"
	"go.uber.org/zap"
)

// Session serves the line protocol on one connection.
type Session struct {
	ID  string
	log *zap.Logger
	r   *Responder
}

// NewSession returns a session logging to log. A nil log discards.
func NewSession(id string, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{ID: id, log: log.With(zap.String("session", id)), r: NewResponder()}
}

// Serve sends the help text, then answers one line at a time until the
// client quits, the stream ends or ctx is done. It returns ErrErrorQuit
// after the error-quit command.
func (s *Session) Serve(ctx context.Context, rw io.ReadWriter) error {
	ctx = errslot.WithRegistry(ctx, errslot.NewRegistry(errslot.WithLogger(s.log)))

	// An empty first line greets the client with the help text.
	if err := s.reply(rw, s.r.Respond(ctx, "")); err != nil {
		return err
	}

	sc := bufio.NewScanner(rw)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := sc.Text()
		rep := s.r.Respond(ctx, line)
		s.log.Debug("command", zap.String("line", line), zap.Bool("quit", rep.Quit), zap.Error(rep.Err))
		if rep.Err != nil {
			return rep.Err
		}
		if err := s.reply(rw, rep); err != nil {
			return err
		}
		if rep.Quit {
			return nil
		}
	}
	return sc.Err()
}

func (s *Session) reply(w io.Writer, rep Reply) error {
	_, err := io.WriteString(w, wire(rep.Text))
	return err
}
