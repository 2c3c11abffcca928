package model

import "errors"

var (
	ErrUnsupportedResponseType = errors.New("unsupported response type")
	ErrUnsupportedGrantType    = errors.New("unsupported grant type")
	ErrUnknownClient           = errors.New("unknown client")
	ErrInvalidClient           = errors.New("invalid client credentials")
	ErrInvalidRedirectURI      = errors.New("invalid redirect uri")

	// ErrInvalidGrant covers every failure on the code path of an exchange:
	// not found, expired, already used, redirect mismatch. Intentionally
	// indistinguishable to the caller.
	ErrInvalidGrant = errors.New("invalid grant")
)
