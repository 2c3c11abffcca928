package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/readstack/readstack-auth/internal/logger"
	"github.com/readstack/readstack-auth/internal/model"
)

const (
	// Entropy of the opaque strings, before base64url encoding.
	codeBytes  = 32
	tokenBytes = 48

	defaultScope = "all"

	touchTimeout = 2 * time.Second
)

// OAuth implements the Authorization Code flow: code issuance for
// authenticated users, code-for-token exchange, revocation and opaque
// token resolution.
type OAuth struct {
	codes    model.AuthorizationCodeStore
	tokens   model.IssuedTokenStore
	users    model.UserStore
	manager  model.TokenManager
	clients  model.ClientRegistry
	codeTTL  time.Duration
	tokenTTL time.Duration
	logger   *logger.Logger
}

func NewOAuth(
	codes model.AuthorizationCodeStore,
	tokens model.IssuedTokenStore,
	users model.UserStore,
	manager model.TokenManager,
	clients model.ClientRegistry,
	codeTTL time.Duration,
	tokenTTL time.Duration,
	logger *logger.Logger,
) *OAuth {
	return &OAuth{
		codes:    codes,
		tokens:   tokens,
		users:    users,
		manager:  manager,
		clients:  clients,
		codeTTL:  codeTTL,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Authorize validates an authorization request from a registered client and
// mints a short-lived, single-use code bound to the requesting user. State
// is echoed verbatim, never interpreted.
func (s *OAuth) Authorize(ctx context.Context, userID uuid.UUID, req model.AuthorizeRequest) (model.AuthorizeResult, error) {
	if req.ResponseType != "code" {
		return model.AuthorizeResult{}, model.ErrUnsupportedResponseType
	}

	client, ok := s.clients.Lookup(req.ClientID)
	if !ok {
		s.logger.Info("OAuth service: authorize for unknown client",
			"client_id", req.ClientID)
		return model.AuthorizeResult{}, model.ErrUnknownClient
	}

	u, err := url.Parse(req.RedirectURI)
	if err != nil || !u.IsAbs() {
		return model.AuthorizeResult{}, model.ErrInvalidRedirectURI
	}
	if !client.RedirectAllowed(req.RedirectURI) {
		s.logger.Info("OAuth service: redirect uri not in allow-list",
			"client_id", req.ClientID,
			"redirect_uri", req.RedirectURI)
		return model.AuthorizeResult{}, model.ErrInvalidRedirectURI
	}

	code, err := randomOpaque(codeBytes)
	if err != nil {
		return model.AuthorizeResult{}, fmt.Errorf("generate code: %w", err)
	}

	now := time.Now()
	record := model.AuthorizationCode{
		ID:          uuid.New(),
		Code:        code,
		ClientID:    req.ClientID,
		UserID:      userID,
		RedirectURI: req.RedirectURI,
		Scope:       req.Scope,
		ExpiresAt:   now.Add(s.codeTTL),
		CreatedAt:   now,
	}
	if err := s.codes.Create(ctx, record); err != nil {
		return model.AuthorizeResult{}, fmt.Errorf("persist authorization code: %w", err)
	}

	s.logger.Info("OAuth service: authorization code issued",
		"client_id", req.ClientID,
		"user_id", userID)

	return model.AuthorizeResult{Code: code, State: req.State}, nil
}

// Exchange swaps a valid authorization code for an opaque access token plus
// a signed token. The code is consumed with a single conditional mutation,
// so concurrent redemptions yield exactly one success.
func (s *OAuth) Exchange(ctx context.Context, req model.ExchangeRequest) (model.ExchangeResult, error) {
	if req.GrantType != "authorization_code" {
		return model.ExchangeResult{}, model.ErrUnsupportedGrantType
	}

	if err := s.authenticateClient(req.ClientID, req.ClientSecret); err != nil {
		return model.ExchangeResult{}, err
	}

	now := time.Now()
	code, err := s.codes.Consume(ctx, req.Code, req.ClientID, now)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Info("OAuth service: code redemption failed",
				"client_id", req.ClientID)
			return model.ExchangeResult{}, model.ErrInvalidGrant
		}
		return model.ExchangeResult{}, fmt.Errorf("consume authorization code: %w", err)
	}

	if code.RedirectURI != req.RedirectURI {
		s.logger.Info("OAuth service: redirect uri mismatch at exchange",
			"client_id", req.ClientID)
		return model.ExchangeResult{}, model.ErrInvalidGrant
	}

	user, err := s.users.GetByID(ctx, code.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ExchangeResult{}, model.ErrInvalidGrant
		}
		return model.ExchangeResult{}, fmt.Errorf("load code owner: %w", err)
	}

	scope := code.Scope
	if scope == "" {
		scope = defaultScope
	}

	signed, err := s.manager.GenerateAccessToken(user.ID, user.Username, s.tokenTTL)
	if err != nil {
		return model.ExchangeResult{}, fmt.Errorf("sign access token: %w", err)
	}

	opaque, err := randomOpaque(tokenBytes)
	if err != nil {
		return model.ExchangeResult{}, fmt.Errorf("generate opaque token: %w", err)
	}

	issued := model.IssuedToken{
		ID:        uuid.New(),
		Token:     opaque,
		ClientID:  req.ClientID,
		UserID:    user.ID,
		Scope:     scope,
		ExpiresAt: now.Add(s.tokenTTL),
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, issued); err != nil {
		return model.ExchangeResult{}, fmt.Errorf("persist issued token: %w", err)
	}

	s.logger.Info("OAuth service: access token issued",
		"client_id", req.ClientID,
		"user_id", user.ID,
		"scope", scope)

	return model.ExchangeResult{
		AccessToken: opaque,
		JWTToken:    signed,
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
		Scope:       scope,
	}, nil
}

// Revoke marks issued tokens as revoked. With a token it revokes that token;
// without one it revokes everything issued to the client. Idempotent:
// revoking an unknown or already-revoked token is not an error.
func (s *OAuth) Revoke(ctx context.Context, clientID string, clientSecret string, tok string) error {
	if err := s.authenticateClient(clientID, clientSecret); err != nil {
		return err
	}

	if tok == "" {
		if err := s.tokens.RevokeAllByClient(ctx, clientID); err != nil {
			return fmt.Errorf("revoke client tokens: %w", err)
		}
		s.logger.Info("OAuth service: all tokens revoked", "client_id", clientID)
		return nil
	}

	if err := s.tokens.Revoke(ctx, tok); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Info("OAuth service: token revoked", "client_id", clientID)
	return nil
}

// GetUserID resolves the owning user of an opaque token presented as a
// bearer credential. Missing, expired and revoked all collapse into
// ErrUnauthenticated. On success the last-used timestamp is bumped in the
// background; a failed touch never fails the request.
func (s *OAuth) GetUserID(ctx context.Context, tok string) (uuid.UUID, error) {
	issued, err := s.tokens.GetByToken(ctx, tok)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return uuid.Nil, model.ErrUnauthenticated
		}
		return uuid.Nil, err
	}

	now := time.Now()
	if issued.RevokedAt != nil || now.After(issued.ExpiresAt) {
		s.logger.Debug("OAuth service: opaque token rejected",
			"client_id", issued.ClientID,
			"revoked", issued.RevokedAt != nil)
		return uuid.Nil, model.ErrUnauthenticated
	}

	go func() {
		touchCtx, cancel := context.WithTimeout(context.Background(), touchTimeout)
		defer cancel()
		if err := s.tokens.Touch(touchCtx, tok, now); err != nil {
			s.logger.Error("OAuth service: failed to bump last_used_at",
				"client_id", issued.ClientID,
				"error", err.Error())
		}
	}()

	return issued.UserID, nil
}

func (s *OAuth) authenticateClient(clientID string, clientSecret string) error {
	client, ok := s.clients.Lookup(clientID)
	// Compare even on a lookup miss to keep the failure path constant-time.
	secret := ""
	if ok {
		secret = client.Secret
	}
	match := subtle.ConstantTimeCompare([]byte(secret), []byte(clientSecret)) == 1
	if !ok || !match {
		s.logger.Info("OAuth service: invalid client credentials",
			"client_id", clientID)
		return model.ErrInvalidClient
	}
	return nil
}

func randomOpaque(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
