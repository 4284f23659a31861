package metadata

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	apperrors "github.com/louisbranch/tickverse/internal/platform/errors"
	"github.com/louisbranch/tickverse/internal/platform/id"
)

const (
	// AccountIDHeader is the metadata key for the caller's account identity.
	AccountIDHeader = "x-tickverse-account-id"
	// RequestIDHeader is the metadata key for request correlation IDs.
	RequestIDHeader = "x-tickverse-request-id"
	// LocaleHeader is the metadata key for the preferred message locale.
	LocaleHeader = "x-tickverse-locale"
)

type contextKey string

const requestIDContextKey contextKey = "tickverse-request-id"

// ErrCallerMissing is returned when a mutating call has no account identity.
var ErrCallerMissing = apperrors.New(apperrors.CodeCallerMissing, "caller account id is required")

// RequestIDFromContext returns the request ID stored by the interceptor.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDContextKey).(string)
	return value
}

// WithRequestID stores the request ID in context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// CallerFromContext returns the account identity from incoming metadata.
func CallerFromContext(ctx context.Context) string {
	return strings.TrimSpace(incomingValue(ctx, AccountIDHeader))
}

// RequireCaller returns the caller identity or ErrCallerMissing.
func RequireCaller(ctx context.Context) (string, error) {
	caller := CallerFromContext(ctx)
	if caller == "" {
		return "", ErrCallerMissing
	}
	return caller, nil
}

// LocaleFromContext returns the requested locale, or apperrors.DefaultLocale.
func LocaleFromContext(ctx context.Context) string {
	if locale := incomingValue(ctx, LocaleHeader); locale != "" {
		return locale
	}
	return apperrors.DefaultLocale
}

// OutgoingContext attaches caller identity and locale to an outgoing call.
// Empty values are skipped.
func OutgoingContext(ctx context.Context, accountID, locale string) context.Context {
	var pairs []string
	if accountID = strings.TrimSpace(accountID); accountID != "" {
		pairs = append(pairs, AccountIDHeader, accountID)
	}
	if locale = strings.TrimSpace(locale); locale != "" {
		pairs = append(pairs, LocaleHeader, locale)
	}
	if len(pairs) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, pairs...)
}

// IsPrintableASCII reports whether value is non-empty printable ASCII.
func IsPrintableASCII(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 0x20 || value[i] > 0x7e {
			return false
		}
	}
	return true
}

// FirstMetadataValue returns the first printable ASCII value for key.
// Values with control characters are skipped so they never reach logs.
func FirstMetadataValue(md metadata.MD, key string) string {
	for _, value := range md.Get(key) {
		if IsPrintableASCII(value) {
			return value
		}
	}
	return ""
}

func incomingValue(ctx context.Context, key string) string {
	if ctx == nil {
		return ""
	}
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	return FirstMetadataValue(md, key)
}

// UnaryServerInterceptor makes sure every unary call has a request ID. The
// ID is stored in context, echoed in response headers and added to the
// active span.
func UnaryServerInterceptor(idGenerator func() (string, error)) grpc.UnaryServerInterceptor {
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, requestID, err := ensureRequestID(ctx, idGenerator)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "generate request id: %v", err)
		}
		if err := grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID)); err != nil {
			return nil, status.Errorf(codes.Internal, "set response metadata: %v", err)
		}
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("tickverse.request_id", requestID))
		return handler(ctx, req)
	}
}

func ensureRequestID(ctx context.Context, idGenerator func() (string, error)) (context.Context, string, error) {
	requestID := incomingValue(ctx, RequestIDHeader)
	if requestID == "" {
		generated, err := idGenerator()
		if err != nil {
			return ctx, "", err
		}
		requestID = generated
	}
	return WithRequestID(ctx, requestID), requestID, nil
}
