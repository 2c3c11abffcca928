package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/readstack/readstack-auth/internal/logger"
	"github.com/readstack/readstack-auth/internal/model"
)

// TokenService issues, refreshes and resolves signed bearer tokens. Every
// refresh token is tracked server-side by JTI so rotation revokes the
// previous token instead of leaving it valid until natural expiry.
type TokenService struct {
	manager    model.TokenManager
	store      model.RefreshTokenStore
	users      model.UserStore
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *logger.Logger
}

func NewTokenService(
	manager model.TokenManager,
	store model.RefreshTokenStore,
	users model.UserStore,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	logger *logger.Logger,
) *TokenService {
	return &TokenService{
		manager:    manager,
		store:      store,
		users:      users,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// AccessTTL returns the configured interactive access token lifetime.
func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

// Issue mints a new access/refresh pair for an authenticated user and
// persists the refresh token record.
func (s *TokenService) Issue(ctx context.Context, user model.User) (accessToken string, refreshToken string, err error) {
	access, err := s.manager.GenerateAccessToken(user.ID, user.Username, s.accessTTL)
	if err != nil {
		return "", "", fmt.Errorf("issue access: %w", err)
	}

	refresh, jti, err := s.manager.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return "", "", fmt.Errorf("issue refresh: %w", err)
	}

	now := time.Now()
	rt := model.RefreshToken{
		ID:        uuid.New(),
		JTI:       jti,
		UserID:    user.ID,
		TokenHash: hashRefresh(refresh),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.refreshTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, rt); err != nil {
		return "", "", fmt.Errorf("persist refresh: %w", err)
	}

	return access, refresh, nil
}

// Refresh rotates a refresh token: the presented token is verified against
// its stored record, revoked, and a brand-new pair is issued. The owning
// user is reloaded so a deleted user cannot keep refreshing.
func (s *TokenService) Refresh(ctx context.Context, presentedRefresh string) (newAccess string, newRefresh string, user model.User, err error) {
	claims, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		return "", "", model.User{}, err
	}

	rt, err := s.store.GetByJTI(ctx, claims.JTI)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", "", model.User{}, model.ErrUnauthenticated
		}
		return "", "", model.User{}, err
	}

	if err := validateRecord(rt, hashRefresh(presentedRefresh), time.Now()); err != nil {
		s.logger.Info("Token service: refresh rejected",
			"jti", claims.JTI,
			"reason", err.Error())
		return "", "", model.User{}, err
	}

	user, err = s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", "", model.User{}, model.ErrUnauthenticated
		}
		return "", "", model.User{}, fmt.Errorf("load user: %w", err)
	}

	if err := s.store.RevokeByJTI(ctx, claims.JTI); err != nil {
		return "", "", model.User{}, fmt.Errorf("revoke old refresh: %w", err)
	}

	access, err := s.manager.GenerateAccessToken(user.ID, user.Username, s.accessTTL)
	if err != nil {
		return "", "", model.User{}, fmt.Errorf("issue new access: %w", err)
	}

	refresh, newJTI, err := s.manager.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return "", "", model.User{}, fmt.Errorf("issue new refresh: %w", err)
	}

	now := time.Now()
	rotatedFrom := rt.JTI
	newRT := model.RefreshToken{
		ID:             uuid.New(),
		JTI:            newJTI,
		UserID:         user.ID,
		TokenHash:      hashRefresh(refresh),
		IssuedAt:       now,
		ExpiresAt:      now.Add(s.refreshTTL),
		RotatedFromJTI: &rotatedFrom,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Create(ctx, newRT); err != nil {
		return "", "", model.User{}, fmt.Errorf("persist new refresh: %w", err)
	}

	return access, refresh, user, nil
}

// GetUserID resolves the owning user of a signed access token.
func (s *TokenService) GetUserID(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := s.manager.ParseAccessToken(token)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

func hashRefresh(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}

func validateRecord(rt model.RefreshToken, presentedHash []byte, now time.Time) error {
	if rt.RevokedAt != nil {
		return model.ErrRefreshRevoked
	}
	if now.After(rt.ExpiresAt) {
		return model.ErrTokenExpired
	}
	if !equalBytes(rt.TokenHash, presentedHash) {
		return model.ErrRefreshMismatch
	}
	return nil
}

func equalBytes(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
