package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/readstack/readstack-auth/internal/logger"
	"github.com/readstack/readstack-auth/internal/model"
)

// Auth authenticates users by password and issues their first token pair.
type Auth struct {
	users        model.UserStore
	verifier     model.PasswordVerifier
	tokenService *TokenService
	logger       *logger.Logger
}

func NewAuth(
	users model.UserStore,
	verifier model.PasswordVerifier,
	tokenService *TokenService,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		users:        users,
		verifier:     verifier,
		tokenService: tokenService,
		logger:       logger,
	}
}

// Login verifies the credentials and returns the user with a fresh
// access/refresh pair. Unknown username and wrong password both map to
// ErrUnauthenticated so the response does not reveal which part failed.
func (a *Auth) Login(ctx context.Context, username string, pass string) (model.User, string, string, error) {
	a.logger.Debug("Auth service: processing login",
		"username", username)

	user, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Info("Auth service: login for unknown username",
				"username", username)
			return model.User{}, "", "", model.ErrUnauthenticated
		}
		return model.User{}, "", "", fmt.Errorf("failed to get user by username: %w", err)
	}

	if !a.verifier.Verify(pass, user.PasswordHash) {
		a.logger.Info("Auth service: password verification failed",
			"username", username)
		return model.User{}, "", "", model.ErrUnauthenticated
	}

	access, refresh, err := a.tokenService.Issue(ctx, user)
	if err != nil {
		return model.User{}, "", "", fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: login completed",
		"username", username,
		"user_id", user.ID)

	return user, access, refresh, nil
}

// CurrentUser loads the user record behind an authenticated request.
func (a *Auth) CurrentUser(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}
