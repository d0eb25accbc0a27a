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

package httpx

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dirpx.dev/errslot"
	"dirpx.dev/errslot/code"
	"dirpx.dev/errslot/mapper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	spb "google.golang.org/genproto/googleapis/rpc/status"
	gcodes "google.golang.org/grpc/codes"
	"google.golang.org/protobuf/encoding/protojson"
)

type orderID int

func serve(t *testing.T, fn HandlerFunc, opts ...Option) *httptest.ResponseRecorder {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	h := Handler(Writer{Mapper: mapper.Default(), Domain: "orders.dirpx.dev"}, fn, opts...)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/7", nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) (*spb.Status, *errdetails.ErrorInfo) {
	t.Helper()
	body, _ := io.ReadAll(rec.Body)
	var st spb.Status
	if err := protojson.Unmarshal(body, &st); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	if len(st.GetDetails()) != 1 {
		t.Fatalf("details = %v, want one ErrorInfo", st.GetDetails())
	}
	var ei errdetails.ErrorInfo
	if err := st.GetDetails()[0].UnmarshalTo(&ei); err != nil {
		t.Fatalf("unpack detail: %v", err)
	}
	return &st, &ei
}

func TestHandler_Success(t *testing.T) {
	rec := serve(t, func(w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestHandler_CodePayload(t *testing.T) {
	rec := serve(t, func(w http.ResponseWriter, r *http.Request) error {
		return errslot.New(r.Context(), code.NotFound, Message("order not found"), orderID(7))
	}, WithPayloads(errslot.TypeOf[orderID]()))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}
	st, ei := decode(t, rec)
	if gcodes.Code(st.GetCode()) != gcodes.NotFound || st.GetMessage() != "order not found" {
		t.Fatalf("body = %v", st)
	}
	if ei.GetReason() != "NOT_FOUND" || ei.GetDomain() != "orders.dirpx.dev" {
		t.Fatalf("ErrorInfo = %v", ei)
	}
	if ei.GetMetadata()["httpx.orderID"] != "7" || ei.GetMetadata()["error_id"] == "" {
		t.Fatalf("metadata = %v", ei.GetMetadata())
	}
}

func TestHandler_RetryAfter(t *testing.T) {
	rec := serve(t, func(w http.ResponseWriter, r *http.Request) error {
		return errslot.New(r.Context(), code.RateLimited, RetryAfter(3*time.Second))
	})
	if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Retry-After") != "3" {
		t.Fatalf("status = %d, Retry-After = %q", rec.Code, rec.Header().Get("Retry-After"))
	}
}

func TestHandler_Fallback(t *testing.T) {
	rec := serve(t, func(w http.ResponseWriter, r *http.Request) error {
		return errors.New("db closed")
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	st, ei := decode(t, rec)
	if st.GetMessage() != "db closed" || ei.GetReason() != "INTERNAL" {
		t.Fatalf("body = %v, detail = %v", st, ei)
	}
}

func TestHandler_UserHandlers(t *testing.T) {
	rec := serve(t, func(w http.ResponseWriter, r *http.Request) error {
		return errslot.New(r.Context(), orderID(-1))
	}, WithHandlers(
		errslot.On1(errslot.MatchFunc(func(id orderID) bool { return id < 0 }), func(orderID) *Problem {
			return &Problem{Code: code.Invalid, Message: "negative order id"}
		}),
	))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestWriter_DefaultDomain(t *testing.T) {
	rec := httptest.NewRecorder()
	Writer{Mapper: mapper.Default()}.Write(rec, &Problem{Code: code.Conflict, Message: "busy"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	_, ei := decode(t, rec)
	if ei.GetDomain() != DefaultDomain {
		t.Fatalf("domain = %q", ei.GetDomain())
	}

	rec = httptest.NewRecorder()
	Writer{Mapper: mapper.Default()}.Write(rec, nil)
	if rec.Body.Len() != 0 {
		t.Fatalf("nil problem must write nothing")
	}
}

func TestWriter_EncodeFailure(t *testing.T) {
	tests := []struct {
		name    string
		problem *Problem
		msg     string
	}{
		{
			name:    "message",
			problem: &Problem{Code: code.NotFound, Message: "bad \xff text"},
			msg:     "httpx: encode status",
		},
		{
			name:    "metadata",
			problem: &Problem{Code: code.NotFound, Message: "ok", Metadata: map[string]string{"k": "\xff"}},
			msg:     "httpx: encode error details",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			rec := httptest.NewRecorder()
			Writer{Mapper: mapper.Default(), Log: zap.New(core)}.Write(rec, tt.problem)

			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
				t.Fatalf("Content-Type = %q, want text/plain", ct)
			}
			if n := logs.FilterMessage(tt.msg).Len(); n != 1 {
				t.Fatalf("logged %q %d times, want once", tt.msg, n)
			}
		})
	}
}

func TestHandler_UnencodableError(t *testing.T) {
	rec := serve(t, func(w http.ResponseWriter, r *http.Request) error {
		return errors.New("broken \xfe")
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("Content-Type = %q, want text/plain", ct)
	}
}
