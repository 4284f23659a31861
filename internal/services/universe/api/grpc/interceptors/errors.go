package interceptors

import (
	"context"

	"google.golang.org/grpc"

	apperrors "github.com/louisbranch/tickverse/internal/platform/errors"
	grpcmeta "github.com/louisbranch/tickverse/internal/services/universe/api/grpc/metadata"
)

// ErrorInterceptor converts handler errors into gRPC status errors with a
// message localized for the locale named in the request metadata.
func ErrorInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			return resp, apperrors.HandleError(err, grpcmeta.LocaleFromContext(ctx))
		}
		return resp, nil
	}
}
