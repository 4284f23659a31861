package errors

import (
	"context"
	stderrors "errors"

	"github.com/louisbranch/tickverse/internal/platform/errors/i18n"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultLocale is used when a caller does not ask for a locale.
const DefaultLocale = i18n.BaseLocale

// HandleError converts err into a gRPC status error.
//
// Domain errors keep their code mapping and carry a localized message for the
// requested locale; existing status errors pass through; anything else is
// reported as Internal.
func HandleError(err error, locale string) error {
	if err == nil {
		return nil
	}

	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		catalog := i18n.GetCatalog(locale)
		return domainErr.ToGRPCStatus(catalog.Locale(), catalog.Format(string(domainErr.Code), domainErr.Metadata))
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}
	return status.Error(codes.Internal, err.Error())
}
