package httpx_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svcErr "github.com/oggyb/ideaji/internal/errors"
	"github.com/oggyb/ideaji/internal/httpx"
	"github.com/oggyb/ideaji/internal/logger"
)

func TestWriteError(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)

	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"invalid", svcErr.InvalidInput("bad", map[string]string{"title": "is required"}), http.StatusBadRequest, "bad"},
		{"not found", svcErr.NotFound("idea not found"), http.StatusNotFound, "idea not found"},
		{"internal hides cause", errors.New("dial tcp: secret host"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			httpx.WriteError(w, r, logger.Discard(), tc.err)

			assert.Equal(t, tc.status, w.Code)
			var body httpx.ErrorBody
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tc.msg, body.Error)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct{ Name string }

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ada"}`))
	require.NoError(t, httpx.DecodeJSON(r, &dst))
	assert.Equal(t, "ada", dst.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.ErrorIs(t, httpx.DecodeJSON(r, &dst), svcErr.ErrInvalidInput)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.ErrorIs(t, httpx.DecodeJSON(r, &dst), svcErr.ErrInvalidInput)
}
