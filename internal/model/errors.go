package model

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated covers every credential failure exposed to callers.
	// Distinct causes (bad signature, not found, revoked, expired) are
	// collapsed so the response gives no probing oracle.
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrValidation = errors.New("validation error")
)
