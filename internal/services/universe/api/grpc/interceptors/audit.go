// Package interceptors holds the unary interceptors of the universe gRPC
// server.
package interceptors

import (
	"context"
	"log"
	"path"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	grpcmeta "github.com/louisbranch/tickverse/internal/services/universe/api/grpc/metadata"
)

// AuditInterceptor writes one log line per unary call with the method, its
// kind, the resulting code, the caller and the correlation IDs.
func AuditInterceptor(logger *log.Logger) grpc.UnaryServerInterceptor {
	logf := log.Printf
	if logger != nil {
		logf = logger.Printf
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		started := time.Now()
		resp, err := handler(ctx, req)

		caller := grpcmeta.CallerFromContext(ctx)
		if caller == "" {
			caller = "-"
		}
		traceID := "-"
		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
			traceID = sc.TraceID().String()
		}
		logf("grpc method=%s kind=%s code=%s caller=%s request=%s trace=%s elapsed=%s",
			info.FullMethod,
			classifyMethodKind(info.FullMethod),
			status.Code(err),
			caller,
			grpcmeta.RequestIDFromContext(ctx),
			traceID,
			time.Since(started).Round(time.Microsecond),
		)
		return resp, err
	}
}

func classifyMethodKind(fullMethod string) string {
	name := path.Base(fullMethod)
	if strings.HasPrefix(name, "Get") || strings.HasPrefix(name, "List") {
		return "read"
	}
	return "write"
}
