// Package httpx holds the JSON response helpers shared by handlers and middleware.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	svcErr "github.com/oggyb/ideaji/internal/errors"
)

// maxBody caps request bodies read by DecodeJSON.
const maxBody = 1 << 20

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err to its status code and a safe message.
// Internal errors are logged with their cause and never echoed.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	WriteErrorStatus(w, r, logger, svcErr.HTTPStatus(err), err)
}

// WriteErrorStatus is WriteError with an explicit status code.
func WriteErrorStatus(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, err error) {
	e := svcErr.Normalize(err)
	body := ErrorBody{Error: e.Message, Details: e.Fields}
	if e.Kind == svcErr.KindInternal {
		body = ErrorBody{Error: "internal server error"}
		if logger != nil {
			logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		}
	}
	WriteJSON(w, status, body)
}

// DecodeJSON reads the request body into dst. Malformed JSON is an InvalidInput error.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return svcErr.InvalidInput("request body is required", nil)
		}
		return svcErr.InvalidInput("invalid request body", nil)
	}
	return nil
}
