package errors_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	svcErr "github.com/oggyb/ideaji/internal/errors"
)

func TestMap(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"record not found", gorm.ErrRecordNotFound, codes.NotFound},
		{"wrapped not found", fmt.Errorf("load idea: %w", gorm.ErrRecordNotFound), codes.NotFound},
		{"deadline", context.DeadlineExceeded, codes.DeadlineExceeded},
		{"canceled", context.Canceled, codes.Canceled},
		{"invalid input", svcErr.InvalidInput("invalid request data", map[string]string{"action": "required"}), codes.InvalidArgument},
		{"forbidden", svcErr.Forbidden("cannot review own idea"), codes.PermissionDenied},
		{"conflict", svcErr.Conflict("feedback changed concurrently", nil), codes.Aborted},
		{"foreign", errors.New("boom"), codes.Internal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, ok := status.FromError(svcErr.Map(tc.err))
			assert.True(t, ok)
			assert.Equal(t, tc.code, st.Code())
		})
	}
}

func TestMap_HidesInternalCause(t *testing.T) {
	st, _ := status.FromError(svcErr.Map(svcErr.Internal("failed", errors.New("dsn=secret"))))
	assert.Equal(t, "internal error", st.Message())
}

func TestMap_IncludesFieldDetails(t *testing.T) {
	err := svcErr.InvalidInput("invalid request data", map[string]string{"rating": "max 5", "action": "required"})
	st, _ := status.FromError(svcErr.Map(err))
	assert.Equal(t, "invalid request data (action: required; rating: max 5)", st.Message())
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, svcErr.HTTPStatus(svcErr.InvalidInput("x", nil)))
	assert.Equal(t, http.StatusUnauthorized, svcErr.HTTPStatus(svcErr.Unauthenticated("x")))
	assert.Equal(t, http.StatusForbidden, svcErr.HTTPStatus(svcErr.Forbidden("x")))
	assert.Equal(t, http.StatusNotFound, svcErr.HTTPStatus(gorm.ErrRecordNotFound))
	assert.Equal(t, http.StatusConflict, svcErr.HTTPStatus(svcErr.Conflict("x", nil)))
	assert.Equal(t, http.StatusInternalServerError, svcErr.HTTPStatus(errors.New("x")))
}

func TestIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrap: %w", svcErr.NotFound("idea not found"))
	assert.True(t, errors.Is(err, svcErr.ErrNotFound))
	assert.False(t, errors.Is(err, svcErr.ErrForbidden))
}
