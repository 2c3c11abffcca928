package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenKind discriminates access from refresh tokens inside signed claims.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenClaims is the decoded view of a signed bearer token.
type TokenClaims struct {
	UserID    uuid.UUID
	Username  string
	JTI       string
	Kind      TokenKind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenManager generates and validates signed access/refresh tokens.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID, username string, ttl time.Duration) (string, error)
	GenerateRefreshToken(userID uuid.UUID, username string) (token string, jti string, err error)
	ParseAccessToken(token string) (TokenClaims, error)
	ParseRefreshToken(token string) (TokenClaims, error)
}
