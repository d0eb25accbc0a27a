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

// Package grpcx turns failures returned by gRPC handlers into statuses.
//
// Handlers attach a code.Code (and optionally a Message) to their error id:
//
//	return nil, errslot.New(ctx, code.NotFound, grpcx.Message("no such user"))
//
// and the interceptor maps it through an apis.Mapper. Every attached payload
// the interceptor knows about is reported in a google.rpc.ErrorInfo detail.
package grpcx

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"dirpx.dev/errslot"
	"dirpx.dev/errslot/apis"
	"dirpx.dev/errslot/code"
	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	gcodes "google.golang.org/grpc/codes"
	gstatus "google.golang.org/grpc/status"
)

// Message is a client-facing status message.
type Message string

// DefaultDomain is used in ErrorInfo details when WithDomain is not given.
const DefaultDomain = "errslot.dirpx.dev"

// statusError matches errors that already carry a gRPC status, such as the
// ones returned by status.Error or by gRPC clients.
type statusError interface {
	error
	GRPCStatus() *gstatus.Status
}

// Option configures the interceptor.
type Option func(*config)

type config struct {
	domain   string
	log      *zap.Logger
	handlers []errslot.Handler[*gstatus.Status]
	include  []errslot.SlotType
	regOpts  []errslot.Option
}

// WithDomain sets the ErrorInfo domain.
func WithDomain(domain string) Option {
	return func(c *config) { c.domain = domain }
}

// WithLogger sets the logger used for failed calls. A nil logger disables
// logging.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l == nil {
			l = zap.NewNop()
		}
		c.log = l
	}
}

// WithHandlers adds handlers tried before the built-in ones.
func WithHandlers(hs ...errslot.Handler[*gstatus.Status]) Option {
	return func(c *config) { c.handlers = append(c.handlers, hs...) }
}

// WithPayloads adds payload types reported in ErrorInfo metadata even
// though no handler asks for them.
func WithPayloads(types ...errslot.SlotType) Option {
	return func(c *config) { c.include = append(c.include, types...) }
}

// WithRegistryOptions configures the per-call registry.
func WithRegistryOptions(opts ...errslot.Option) Option {
	return func(c *config) { c.regOpts = append(c.regOpts, opts...) }
}

// UnaryServerInterceptor returns an interceptor that dispatches handler
// failures in order over:
//
//  1. handlers given with WithHandlers;
//  2. errors that already carry a gRPC status, passed through;
//  3. a code.Code payload, mapped with m;
//  4. anything else, reported as Internal.
//
// Each call runs with its own errslot registry.
func UnaryServerInterceptor(m apis.Mapper, opts ...Option) grpc.UnaryServerInterceptor {
	cfg := &config{domain: DefaultDomain, log: zap.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}
	hs := errslot.Chain(cfg.handlers, []errslot.Handler[*gstatus.Status]{
		errslot.On1(errslot.Catch[statusError](), func(e statusError) *gstatus.Status {
			return e.GRPCStatus()
		}),
		errslot.On3(errslot.Required[code.Code](), errslot.Optional[Message](), errslot.Info(),
			func(c code.Code, msg *Message, ei *errslot.ErrorInfo) *gstatus.Status {
				return cfg.status(m.GRPCStatus(c), c, msg, ei)
			}),
		errslot.Fallback(func(ei *errslot.ErrorInfo) *gstatus.Status {
			return cfg.status(gcodes.Internal, code.Internal, nil, ei)
		}),
	})

	// A HandlerSet serves one call at a time.
	pool := sync.Pool{New: func() any {
		return errslot.Handlers(hs...).Include(cfg.include...)
	}}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		set := pool.Get().(*errslot.HandlerSet[*gstatus.Status])
		defer pool.Put(set)

		var resp any
		ctx = errslot.WithRegistry(ctx, errslot.NewRegistry(cfg.regOpts...))
		st := set.TryHandleAll(ctx, func(ctx context.Context) (*gstatus.Status, error) {
			var err error
			resp, err = handler(ctx, req)
			return nil, err
		})
		if st == nil {
			return resp, nil
		}
		cfg.log.Debug("call failed",
			zap.String("method", info.FullMethod),
			zap.Stringer("code", st.Code()),
			zap.String("message", st.Message()),
		)
		return nil, st.Err()
	}
}

func (c *config) status(gc gcodes.Code, cd code.Code, msg *Message, ei *errslot.ErrorInfo) *gstatus.Status {
	text := string(cd)
	switch {
	case msg != nil:
		text = string(*msg)
	case ei.Err() != nil:
		text = ei.Err().Error()
	}

	md := map[string]string{"error_id": ei.ID().String()}
	ei.Each(func(p errslot.Payload) bool {
		if _, ok := p.Value.(Message); !ok {
			md[p.Type] = fmt.Sprint(p.Value)
		}
		return true
	})

	base := gstatus.New(gc, text)
	with, err := base.WithDetails(&errdetails.ErrorInfo{
		Reason:   strings.ToUpper(string(cd)),
		Domain:   c.domain,
		Metadata: md,
	})
	if err != nil {
		c.log.Warn("attach error details", zap.Error(err))
		return base
	}
	return with
}

// ExtractErrorInfo returns the google.rpc.ErrorInfo detail of a gRPC error.
func ExtractErrorInfo(err error) (*errdetails.ErrorInfo, bool) {
	if err == nil {
		return nil, false
	}
	st, ok := gstatus.FromError(err)
	if !ok {
		return nil, false
	}
	for _, d := range st.Details() {
		if ei, ok := d.(*errdetails.ErrorInfo); ok {
			return ei, true
		}
	}
	return nil, false
}
