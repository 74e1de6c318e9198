package handlers

import (
	"net/http"
	"strconv"

	"github.com/oggyb/ideaji/internal/identity"
)

// principal returns the caller; the zero Principal on public routes without a token.
func principal(r *http.Request) identity.Principal {
	p, _ := identity.FromContext(r.Context())
	return p
}

// queryBool parses "true"/"false"; anything else is nil.
func queryBool(r *http.Request, key string) *bool {
	switch r.URL.Query().Get(key) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}
