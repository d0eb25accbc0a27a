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

package grpcx

import (
	"context"
	"errors"
	"testing"

	"dirpx.dev/errslot"
	"dirpx.dev/errslot/code"
	"dirpx.dev/errslot/mapper"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	gcodes "google.golang.org/grpc/codes"
	gstatus "google.golang.org/grpc/status"
)

type userID string

var info = &grpc.UnaryServerInfo{FullMethod: "/users.v1.Users/Get"}

func call(t *testing.T, h grpc.UnaryHandler, opts ...Option) (any, error) {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	icpt := UnaryServerInterceptor(mapper.Default(), opts...)
	return icpt(context.Background(), "req", info, h)
}

func TestInterceptor_Success(t *testing.T) {
	resp, err := call(t, func(ctx context.Context, req any) (any, error) {
		errslot.New(ctx, code.NotFound)
		return "ok:" + req.(string), nil
	})
	if err != nil || resp != "ok:req" {
		t.Fatalf("call = (%v, %v), want (ok:req, nil)", resp, err)
	}
}

func TestInterceptor_CodePayload(t *testing.T) {
	_, err := call(t, func(ctx context.Context, _ any) (any, error) {
		return nil, errslot.New(ctx, code.NotFound, Message("no such user"), userID("u-1"))
	}, WithDomain("users.dirpx.dev"), WithPayloads(errslot.TypeOf[userID]()))

	st, _ := gstatus.FromError(err)
	if st.Code() != gcodes.NotFound || st.Message() != "no such user" {
		t.Fatalf("status = %v %q", st.Code(), st.Message())
	}
	ei, ok := ExtractErrorInfo(err)
	if !ok {
		t.Fatalf("no ErrorInfo detail in %v", err)
	}
	if ei.GetReason() != "NOT_FOUND" || ei.GetDomain() != "users.dirpx.dev" {
		t.Fatalf("ErrorInfo = %v", ei)
	}
	md := ei.GetMetadata()
	if md["code.Code"] != "not_found" || md["grpcx.userID"] != "u-1" || md["error_id"] == "" {
		t.Fatalf("metadata = %v", md)
	}
	if _, ok := md["grpcx.Message"]; ok {
		t.Fatalf("Message must not be repeated in metadata")
	}
}

func TestInterceptor_ForeignErrorWithCode(t *testing.T) {
	_, err := call(t, func(ctx context.Context, _ any) (any, error) {
		return nil, errslot.Raise(ctx, errors.New("pool exhausted"), code.Overloaded)
	})
	st, _ := gstatus.FromError(err)
	if st.Code() != gcodes.Unavailable || st.Message() != "pool exhausted" {
		t.Fatalf("status = %v %q", st.Code(), st.Message())
	}
}

func TestInterceptor_PassesStatusThrough(t *testing.T) {
	_, err := call(t, func(ctx context.Context, _ any) (any, error) {
		return nil, gstatus.Error(gcodes.Aborted, "retry")
	})
	st, _ := gstatus.FromError(err)
	if st.Code() != gcodes.Aborted || st.Message() != "retry" {
		t.Fatalf("status = %v %q", st.Code(), st.Message())
	}
	if _, ok := ExtractErrorInfo(err); ok {
		t.Fatalf("a passed-through status must not gain details")
	}
}

func TestInterceptor_Fallback(t *testing.T) {
	_, err := call(t, func(ctx context.Context, _ any) (any, error) {
		return nil, errors.New("boom")
	})
	st, _ := gstatus.FromError(err)
	if st.Code() != gcodes.Internal || st.Message() != "boom" {
		t.Fatalf("status = %v %q", st.Code(), st.Message())
	}
	ei, _ := ExtractErrorInfo(err)
	if ei.GetReason() != "INTERNAL" || ei.GetDomain() != DefaultDomain {
		t.Fatalf("ErrorInfo = %v", ei)
	}
}

func TestInterceptor_UserHandlersFirst(t *testing.T) {
	_, err := call(t, func(ctx context.Context, _ any) (any, error) {
		return nil, errslot.New(ctx, code.NotFound, userID("admin"))
	}, WithHandlers(
		errslot.On1(errslot.Match(userID("admin")), func(userID) *gstatus.Status {
			return gstatus.New(gcodes.PermissionDenied, "hidden")
		}),
	))
	st, _ := gstatus.FromError(err)
	if st.Code() != gcodes.PermissionDenied {
		t.Fatalf("status = %v, want PermissionDenied", st.Code())
	}
}

func TestExtractErrorInfo_NotStatus(t *testing.T) {
	if _, ok := ExtractErrorInfo(nil); ok {
		t.Fatalf("nil error has no details")
	}
	if _, ok := ExtractErrorInfo(errors.New("plain")); ok {
		t.Fatalf("plain error has no details")
	}
}
