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

// Package httpx writes failures of HTTP handlers as google.rpc.Status JSON.
package httpx

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"dirpx.dev/errslot"
	"dirpx.dev/errslot/apis"
	"dirpx.dev/errslot/code"
	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	spb "google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/anypb"
)

// Message is a client-facing error message.
type Message string

// RetryAfter asks the client to wait before retrying. It is written as the
// Retry-After header, in whole seconds.
type RetryAfter time.Duration

// Problem is a resolved failure, ready to be written.
type Problem struct {
	Code       code.Code
	Message    string
	Metadata   map[string]string
	RetryAfter time.Duration
}

// Writer renders a Problem using Mapper for the HTTP status.
type Writer struct {
	Mapper apis.Mapper
	// Domain goes into the ErrorInfo detail. Empty means DefaultDomain.
	Domain string
	// Log receives encoding failures. Nil discards them.
	Log *zap.Logger
}

// DefaultDomain is used when Writer.Domain is empty.
const DefaultDomain = "errslot.dirpx.dev"

// Write sends p as a google.rpc.Status JSON body. The status field holds the
// gRPC code for p.Code and the HTTP status comes from the same mapper.
//
// When p cannot be encoded, for example because it holds invalid UTF-8, the
// client gets a plain-text 500 instead.
func (w Writer) Write(rw http.ResponseWriter, p *Problem) {
	if p == nil {
		return
	}
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	st := w.Mapper.Status(p.Code)
	domain := w.Domain
	if domain == "" {
		domain = DefaultDomain
	}

	body := &spb.Status{Code: int32(st.GRPC), Message: p.Message}
	d, err := anypb.New(&errdetails.ErrorInfo{
		Reason:   strings.ToUpper(string(p.Code)),
		Domain:   domain,
		Metadata: p.Metadata,
	})
	if err != nil {
		log.Error("httpx: encode error details", zap.Stringer("code", p.Code), zap.Error(err))
		http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	body.Details = append(body.Details, d)

	// protojson keeps the Any detail readable.
	b, err := protojson.MarshalOptions{UseProtoNames: false}.Marshal(body)
	if err != nil {
		log.Error("httpx: encode status", zap.Stringer("code", p.Code), zap.Error(err))
		http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rw.Header().Set("Content-Type", "application/json")
	if p.RetryAfter > 0 {
		rw.Header().Set("Retry-After", strconv.Itoa(int(p.RetryAfter.Round(time.Second)/time.Second)))
	}
	rw.WriteHeader(st.HTTP)
	if _, err := rw.Write(b); err != nil {
		log.Debug("httpx: write response", zap.Error(err))
	}
}

// HandlerFunc is an HTTP handler that reports failure by returning an error.
// It must not write to the response when it fails.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// Option configures Handler.
type Option func(*config)

type config struct {
	log      *zap.Logger
	handlers []errslot.Handler[*Problem]
	include  []errslot.SlotType
}

// WithLogger sets the logger used for failed requests.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l == nil {
			l = zap.NewNop()
		}
		c.log = l
	}
}

// WithHandlers adds handlers tried before the built-in ones.
func WithHandlers(hs ...errslot.Handler[*Problem]) Option {
	return func(c *config) { c.handlers = append(c.handlers, hs...) }
}

// WithPayloads adds payload types reported in the ErrorInfo metadata.
func WithPayloads(types ...errslot.SlotType) Option {
	return func(c *config) { c.include = append(c.include, types...) }
}

// Handler adapts fn to http.Handler. A failure is dispatched over the
// handlers given with WithHandlers, then a code.Code payload, then a
// catch-all reported as code.Internal, and the resulting Problem is written
// with w.
func Handler(w Writer, fn HandlerFunc, opts ...Option) http.Handler {
	cfg := &config{log: zap.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}
	if w.Log == nil {
		w.Log = cfg.log
	}
	hs := errslot.Chain(cfg.handlers, []errslot.Handler[*Problem]{
		errslot.On4(errslot.Required[code.Code](), errslot.Optional[Message](), errslot.Optional[RetryAfter](), errslot.Info(),
			func(c code.Code, msg *Message, ra *RetryAfter, ei *errslot.ErrorInfo) *Problem {
				return problem(c, msg, ra, ei)
			}),
		errslot.Fallback(func(ei *errslot.ErrorInfo) *Problem {
			return problem(code.Internal, nil, nil, ei)
		}),
	})
	pool := sync.Pool{New: func() any {
		return errslot.Handlers(hs...).Include(cfg.include...)
	}}

	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		set := pool.Get().(*errslot.HandlerSet[*Problem])
		defer pool.Put(set)

		ctx := errslot.WithRegistry(req.Context(), errslot.NewRegistry(errslot.WithLogger(cfg.log)))
		p := set.TryHandleAll(ctx, func(ctx context.Context) (*Problem, error) {
			return nil, fn(rw, req.WithContext(ctx))
		})
		if p == nil {
			return
		}
		cfg.log.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Stringer("code", p.Code),
			zap.String("error_id", p.Metadata["error_id"]),
		)
		w.Write(rw, p)
	})
}

func problem(c code.Code, msg *Message, ra *RetryAfter, ei *errslot.ErrorInfo) *Problem {
	p := &Problem{Code: c, Message: string(c), Metadata: map[string]string{"error_id": ei.ID().String()}}
	switch {
	case msg != nil:
		p.Message = string(*msg)
	case ei.Err() != nil:
		p.Message = ei.Err().Error()
	}
	if ra != nil {
		p.RetryAfter = time.Duration(*ra)
	}
	ei.Each(func(pl errslot.Payload) bool {
		switch pl.Value.(type) {
		case Message, RetryAfter:
		default:
			p.Metadata[pl.Type] = fmt.Sprint(pl.Value)
		}
		return true
	})
	return p
}
