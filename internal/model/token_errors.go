package model

import "errors"

var (
	ErrTokenMalformed   = errors.New("token malformed")
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrTokenExpired     = errors.New("token expired")
	ErrWrongTokenKind   = errors.New("wrong token kind")

	ErrRefreshRevoked  = errors.New("refresh token revoked")
	ErrRefreshMismatch = errors.New("refresh token mismatch")
)
