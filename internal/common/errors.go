// Package common defines shared constants and sentinel errors used across
// the Farmline client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Transport / backend errors.
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("server unavailable")

	// Validation errors (caught client-side before any network call).
	ErrValidation = errors.New("validation error")

	// Messaging errors.
	ErrEmptyMessage   = errors.New("empty message")
	ErrNoConversation = errors.New("no conversation selected")

	// Session errors.
	ErrSessionExpired = errors.New("session expired")
	ErrNotLoggedIn    = errors.New("not logged in")
)
