// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Universe errors
	CodeUniverseInvalidDimensions Code = "UNIVERSE_INVALID_DIMENSIONS"
	CodeUniverseDimensionOverflow Code = "UNIVERSE_DIMENSION_OVERFLOW"
	CodeUniverseCorrupt           Code = "UNIVERSE_CORRUPT"
	CodeUniverseIDInvalid         Code = "UNIVERSE_ID_INVALID"

	// Caller errors
	CodeCallerMissing Code = "CALLER_MISSING"

	// Counter errors
	CodeNoneValue       Code = "NONE_VALUE"
	CodeStorageOverflow Code = "STORAGE_OVERFLOW"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Query errors
	CodeFilterInvalid    Code = "FILTER_INVALID"
	CodePageTokenInvalid Code = "PAGE_TOKEN_INVALID"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeUniverseInvalidDimensions,
		CodeUniverseDimensionOverflow,
		CodeUniverseIDInvalid,
		CodeFilterInvalid,
		CodePageTokenInvalid:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeNoneValue,
		CodeStorageOverflow:
		return codes.FailedPrecondition

	case CodeNotFound:
		return codes.NotFound

	case CodeCallerMissing:
		return codes.Unauthenticated

	default:
		return codes.Internal
	}
}
