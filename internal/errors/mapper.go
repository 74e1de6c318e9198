// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"
)

// Normalize turns any error into an *Error.
// Service errors pass through; repo/infra errors are classified here so the
// service layer does not have to.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Kind: KindNotFound, Message: "record not found", Cause: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Kind: KindConflict, Message: "record already exists", Cause: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindInternal, Message: "request timed out", Cause: err}
	case errors.Is(err, context.Canceled):
		return &Error{Kind: KindInternal, Message: "request was canceled", Cause: err}
	default:
		return Internal("internal error", err)
	}
}

// Map converts repo/infra/service errors into gRPC status errors.
// Internal causes are never exposed to the caller.
func Map(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request was canceled")
	}

	e := Normalize(err)
	msg := e.Message
	if e.Kind == KindInvalidInput && len(e.Fields) > 0 {
		msg = msg + " (" + e.FieldSummary() + ")"
	}

	switch e.Kind {
	case KindInvalidInput:
		return status.Error(codes.InvalidArgument, msg)
	case KindUnauthenticated:
		return status.Error(codes.Unauthenticated, msg)
	case KindForbidden:
		return status.Error(codes.PermissionDenied, msg)
	case KindNotFound:
		return status.Error(codes.NotFound, msg)
	case KindConflict:
		return status.Error(codes.Aborted, msg)
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// HTTPStatus returns the HTTP status code for err.
func HTTPStatus(err error) int {
	switch Normalize(err).Kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// InvalidArgument creates a gRPC InvalidArgument error.
// Use this in gRPC adapters for bad wire input.
func InvalidArgument(msg string) error {
	return status.Error(codes.InvalidArgument, msg)
}
