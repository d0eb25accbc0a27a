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
	"errors"
	"net"
	"sync"

	hm "github.com/cornelk/hashmap"
	"github.com/gammazero/workerpool"
	"go.uber.org/zap"
)

// Server accepts TCP connections and runs one Session per connection on a
// bounded worker pool.
type Server struct {
	log      *zap.Logger
	wp       *workerpool.WorkerPool
	sessions *hm.HashMap

	mu sync.Mutex
	ln net.Listener
}

// NewServer returns a server running at most workers sessions at once.
func NewServer(workers int, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if workers < 1 {
		workers = 1
	}
	return &Server{
		log:      log,
		wp:       workerpool.New(workers),
		sessions: &hm.HashMap{},
	}
}

// Serve accepts connections on ln until ctx is done or ln fails. Sessions
// still running are closed before it returns.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	s.log.Info("listening", zap.Stringer("addr", ln.Addr()))
	defer s.shutdown()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		s.submit(ctx, conn)
	}
}

// Addr returns the listening address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Sessions returns the number of sessions currently running.
func (s *Server) Sessions() int {
	return s.sessions.Len()
}

func (s *Server) submit(ctx context.Context, conn net.Conn) {
	id := conn.RemoteAddr().String()
	s.sessions.Set(id, conn)
	s.log.Debug("client connected", zap.String("session", id))

	s.wp.Submit(func() {
		defer func() {
			s.sessions.Del(id)
			_ = conn.Close()
		}()
		err := NewSession(id, s.log).Serve(ctx, conn)
		switch {
		case err == nil:
			s.log.Info("client work completed", zap.String("session", id))
		case errors.Is(err, net.ErrClosed), errors.Is(err, context.Canceled):
			s.log.Debug("session closed", zap.String("session", id))
		default:
			s.log.Info("client work completed with error", zap.String("session", id), zap.Error(err))
		}
	})
}

func (s *Server) shutdown() {
	for kv := range s.sessions.Iter() {
		if conn, ok := kv.Value.(net.Conn); ok {
			_ = conn.Close()
		}
	}
	s.wp.StopWait()
}
