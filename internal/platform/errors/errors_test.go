package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Wrap(CodeUniverseCorrupt, "decode universe", fmt.Errorf("bad byte"))
	if err.Error() != "decode universe: bad byte" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if New(CodeNotFound, "missing").Error() != "missing" {
		t.Fatal("expected bare message without cause")
	}
}

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New(CodeNotFound, "record not found")
	wrapped := fmt.Errorf("get universe: %w", New(CodeNotFound, "other message"))
	if !stderrors.Is(wrapped, sentinel) {
		t.Fatal("expected errors.Is to match by code")
	}
	if stderrors.Is(wrapped, New(CodeNoneValue, "x")) {
		t.Fatal("expected different code not to match")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(fmt.Errorf("wrap: %w", New(CodeStorageOverflow, "x"))); got != CodeStorageOverflow {
		t.Fatalf("GetCode = %s, want %s", got, CodeStorageOverflow)
	}
	if got := GetCode(fmt.Errorf("plain")); got != CodeUnknown {
		t.Fatalf("GetCode = %s, want %s", got, CodeUnknown)
	}
}

func TestGRPCCode(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeUniverseInvalidDimensions, codes.InvalidArgument},
		{CodeUniverseIDInvalid, codes.InvalidArgument},
		{CodeFilterInvalid, codes.InvalidArgument},
		{CodeNoneValue, codes.FailedPrecondition},
		{CodeStorageOverflow, codes.FailedPrecondition},
		{CodeNotFound, codes.NotFound},
		{CodeCallerMissing, codes.Unauthenticated},
		{CodeUniverseCorrupt, codes.Internal},
		{CodeUnknown, codes.Internal},
	}
	for _, tt := range tests {
		if got := tt.code.GRPCCode(); got != tt.want {
			t.Fatalf("%s.GRPCCode() = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestHandleErrorDomainError(t *testing.T) {
	err := HandleError(WithMetadata(CodeUniverseDimensionOverflow, "too big", map[string]string{"Width": "9", "Height": "8"}), "pt-BR")
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected status error, got %v", err)
	}
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("code = %s, want InvalidArgument", st.Code())
	}

	var info *errdetails.ErrorInfo
	var localized *errdetails.LocalizedMessage
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			info = d
		case *errdetails.LocalizedMessage:
			localized = d
		}
	}
	if info == nil || info.GetReason() != string(CodeUniverseDimensionOverflow) || info.GetDomain() != Domain {
		t.Fatalf("unexpected error info %v", info)
	}
	if localized == nil || localized.GetLocale() != "pt-BR" {
		t.Fatalf("unexpected localized message %v", localized)
	}
	if localized.GetMessage() != "Um universo 9x8 é grande demais" {
		t.Fatalf("message = %q", localized.GetMessage())
	}
}

func TestHandleErrorPassThrough(t *testing.T) {
	if HandleError(nil, DefaultLocale) != nil {
		t.Fatal("expected nil for nil error")
	}

	original := status.Error(codes.Aborted, "aborted")
	if got := HandleError(original, DefaultLocale); got != original {
		t.Fatalf("expected status error to pass through, got %v", got)
	}

	if got := status.Code(HandleError(context.DeadlineExceeded, DefaultLocale)); got != codes.DeadlineExceeded {
		t.Fatalf("code = %s, want DeadlineExceeded", got)
	}
	if got := status.Code(HandleError(fmt.Errorf("boom"), DefaultLocale)); got != codes.Internal {
		t.Fatalf("code = %s, want Internal", got)
	}
}
