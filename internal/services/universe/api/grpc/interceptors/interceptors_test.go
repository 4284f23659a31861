package interceptors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	apperrors "github.com/louisbranch/tickverse/internal/platform/errors"
	grpcmeta "github.com/louisbranch/tickverse/internal/services/universe/api/grpc/metadata"
)

func TestClassifyMethodKind(t *testing.T) {
	if got := classifyMethodKind("/tickverse.universe.v1.UniverseService/GetUniverse"); got != "read" {
		t.Fatalf("get kind = %s", got)
	}
	if got := classifyMethodKind("/tickverse.universe.v1.UniverseService/ListEvents"); got != "read" {
		t.Fatalf("list kind = %s", got)
	}
	if got := classifyMethodKind("/tickverse.universe.v1.UniverseService/Tick"); got != "write" {
		t.Fatalf("tick kind = %s", got)
	}
}

func TestAuditInterceptorLogsCall(t *testing.T) {
	var buf bytes.Buffer
	interceptor := AuditInterceptor(log.New(&buf, "", 0))

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(grpcmeta.AccountIDHeader, "alice"))
	ctx = grpcmeta.WithRequestID(ctx, "req-1")
	info := &grpc.UnaryServerInfo{FullMethod: "/tickverse.universe.v1.UniverseService/Tick"}

	_, err := interceptor(ctx, nil, info, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.NotFound, "missing")
	})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected handler error to pass through, got %v", err)
	}

	line := buf.String()
	for _, want := range []string{"method=/tickverse.universe.v1.UniverseService/Tick", "kind=write", "code=NotFound", "caller=alice", "request=req-1", "trace=-"} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line %q missing %q", line, want)
		}
	}
}

func TestAuditInterceptorAnonymousCaller(t *testing.T) {
	var buf bytes.Buffer
	interceptor := AuditInterceptor(log.New(&buf, "", 0))
	info := &grpc.UnaryServerInfo{FullMethod: "/tickverse.universe.v1.UniverseService/GetUniverse"}

	if _, err := interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return "ok", nil
	}); err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if !strings.Contains(buf.String(), "caller=- ") || !strings.Contains(buf.String(), "code=OK") {
		t.Fatalf("unexpected log line %q", buf.String())
	}
}

func TestErrorInterceptorLocalizesDomainErrors(t *testing.T) {
	interceptor := ErrorInterceptor()
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(grpcmeta.LocaleHeader, "pt-BR"))
	domainErr := apperrors.WithMetadata(apperrors.CodeNotFound, "universe x not found", map[string]string{"ID": "x"})

	_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{}, func(context.Context, any) (any, error) {
		return nil, fmt.Errorf("load: %w", domainErr)
	})
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.NotFound {
		t.Fatalf("expected not found status, got %v", err)
	}
	var localized *errdetails.LocalizedMessage
	for _, detail := range st.Details() {
		if msg, ok := detail.(*errdetails.LocalizedMessage); ok {
			localized = msg
		}
	}
	if localized == nil || localized.GetLocale() != "pt-BR" {
		t.Fatalf("expected pt-BR localized message, got %v", localized)
	}
}

func TestErrorInterceptorWrapsUnknownErrors(t *testing.T) {
	_, err := ErrorInterceptor()(context.Background(), nil, &grpc.UnaryServerInfo{}, func(context.Context, any) (any, error) {
		return nil, errors.New("disk on fire")
	})
	if status.Code(err) != codes.Internal {
		t.Fatalf("expected internal, got %v", err)
	}
}

func TestErrorInterceptorPassesSuccess(t *testing.T) {
	resp, err := ErrorInterceptor()(context.Background(), nil, &grpc.UnaryServerInfo{}, func(context.Context, any) (any, error) {
		return "ok", nil
	})
	if err != nil || resp != "ok" {
		t.Fatalf("got %v, %v", resp, err)
	}
}
