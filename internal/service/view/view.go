// Package view holds the response shapes shared by several services.
package view

import "github.com/oggyb/ideaji/internal/db"

// Placeholder identity shown instead of the owner of an anonymous idea.
const (
	AnonymousID   = "anonymous"
	AnonymousName = "Anonymous"
)

// UserRef is the minimal public identity of a user.
type UserRef struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image,omitempty"`
}

// Ref builds the public identity of u.
func Ref(u db.User) UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Image: u.Image}
}

// Owner returns the idea owner as callers may see it: the real owner, or
// the Anonymous placeholder when the idea is anonymous.
func Owner(idea db.Idea) UserRef {
	if idea.IsAnonymous {
		return UserRef{ID: AnonymousID, Name: AnonymousName}
	}
	return Ref(idea.User)
}
