package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuthorizationCodeStore persists single-use OAuth authorization codes.
type AuthorizationCodeStore interface {
	Create(ctx context.Context, code AuthorizationCode) error
	// Consume atomically marks the code as used and returns it. The check
	// "unused and unexpired" and the used_at write happen in one conditional
	// mutation so concurrent redemptions cannot both succeed. Returns
	// ErrNotFound when no redeemable row matched, whatever the cause.
	Consume(ctx context.Context, code string, clientID string, now time.Time) (AuthorizationCode, error)
}

// AuthorizationCode is a short-lived, single-use opaque code bound to a user
// and a client. Rows are never deleted; used_at is set exactly once.
type AuthorizationCode struct {
	ID          uuid.UUID
	Code        string
	ClientID    string
	UserID      uuid.UUID
	RedirectURI string
	Scope       string
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UsedAt      *time.Time
}

// IssuedTokenStore persists opaque OAuth access tokens for auditing,
// revocation and usage tracking.
type IssuedTokenStore interface {
	Create(ctx context.Context, token IssuedToken) error
	GetByToken(ctx context.Context, token string) (IssuedToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllByClient(ctx context.Context, clientID string) error
	Touch(ctx context.Context, token string, at time.Time) error
}

// IssuedToken is the server-side record of an opaque OAuth access token.
type IssuedToken struct {
	ID         uuid.UUID
	Token      string
	ClientID   string
	UserID     uuid.UUID
	Scope      string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	LastUsedAt *time.Time
	RevokedAt  *time.Time
}

// AuthorizeRequest carries the parameters of an authorization request.
type AuthorizeRequest struct {
	ClientID     string
	RedirectURI  string
	ResponseType string
	Scope        string
	State        string
}

// AuthorizeResult returns the minted code with the caller's state echoed
// verbatim.
type AuthorizeResult struct {
	Code  string
	State string
}

// ExchangeRequest carries the parameters of a code-for-token exchange.
type ExchangeRequest struct {
	ClientID     string
	ClientSecret string
	Code         string
	GrantType    string
	RedirectURI  string
}

// ExchangeResult is the outcome of a successful exchange: the opaque token
// for bookkeeping and revocation plus the signed token the client presents
// as a bearer credential.
type ExchangeResult struct {
	AccessToken string
	JWTToken    string
	ExpiresIn   int64
	Scope       string
}
