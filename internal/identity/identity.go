// Package identity carries the authenticated caller through a request context.
package identity

import (
	"context"

	"github.com/oggyb/ideaji/internal/db"
)

type ctxKey struct{}

// Principal is the authenticated caller, taken from a verified token.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

func (p Principal) IsAdmin() bool { return p.Role == db.RoleAdmin }

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the caller and false when the request is anonymous.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	if !ok || p.UserID == "" {
		return Principal{}, false
	}
	return p, true
}
