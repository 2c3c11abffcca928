package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/readstack/readstack-auth/internal/logger"
	"github.com/readstack/readstack-auth/internal/model"
)

// AuthService defines login and user lookup operations.
type AuthService interface {
	Login(ctx context.Context, username string, password string) (model.User, string, string, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (model.User, error)
}

// TokenService defines token refresh operations.
type TokenService interface {
	Refresh(ctx context.Context, refreshToken string) (string, string, model.User, error)
	AccessTTL() time.Duration
}

// Auth handles the first-party authentication endpoints.
type Auth struct {
	authService    AuthService
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

type authResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	User         userResponse `json:"user"`
}

func toUserResponse(user model.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
	}
}

// Login authenticates a username/password pair and returns a token pair.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, h.logger, fmt.Errorf("%w: invalid request body", model.ErrValidation))
		return
	}
	if req.Username == "" || req.Password == "" {
		handleError(w, h.logger, fmt.Errorf("%w: username and password are required", model.ErrValidation))
		return
	}

	user, access, refresh, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Debug("Auth handler: login failed",
			"username", req.Username,
			"error", err.Error())
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(h.tokenService.AccessTTL().Seconds()),
		User:         toUserResponse(user),
	})
}

// Refresh rotates a refresh token and returns a new pair.
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, h.logger, fmt.Errorf("%w: invalid request body", model.ErrValidation))
		return
	}
	if req.RefreshToken == "" {
		handleError(w, h.logger, fmt.Errorf("%w: refresh_token is required", model.ErrValidation))
		return
	}

	access, refresh, user, err := h.tokenService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Debug("Auth handler: refresh failed", "error", err.Error())
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(h.tokenService.AccessTTL().Seconds()),
		User:         toUserResponse(user),
	})
}

// Me returns the user behind the authenticated request.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		handleError(w, h.logger, model.ErrUnauthenticated)
		return
	}

	user, err := h.authService.CurrentUser(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}
