package mail

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/ideaji/internal/config"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestDisabledWithoutKey(t *testing.T) {
	m := New(&config.Config{}, discard())
	assert.False(t, m.Enabled())

	id, err := m.Send(context.Background(), "a@b.c", "hi", "<p>hi</p>")
	assert.NoError(t, err)
	assert.Empty(t, id)
}

func TestSendWelcome(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1"}`))
	}))
	defer srv.Close()

	client := resend.NewClient("re_test")
	client.BaseURL, _ = url.Parse(srv.URL + "/")

	m := NewWithClient(client, "Ideaji <noreply@ideaji.com>", "http://app", discard())
	require.NoError(t, m.SendWelcome(context.Background(), "ada@test.com", "<Ada>"))

	assert.Equal(t, "Welcome to Ideaji", got["subject"])
	assert.Contains(t, got["html"], "&lt;Ada&gt;")
	assert.Equal(t, []any{"ada@test.com"}, got["to"])
}

func TestSendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"bad from"}`))
	}))
	defer srv.Close()

	client := resend.NewClient("re_test")
	client.BaseURL, _ = url.Parse(srv.URL + "/")

	m := NewWithClient(client, "bad", "http://app", discard())
	_, err := m.Send(context.Background(), "ada@test.com", "s", "b")
	assert.Error(t, err)
}
