package repository

import "errors"

// ErrStaleRow is returned when a conditional update matched no row because
// the target was deleted or changed concurrently.
var ErrStaleRow = errors.New("row changed or vanished during update")

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
