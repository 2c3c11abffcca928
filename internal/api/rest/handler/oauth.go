package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/readstack/readstack-auth/internal/logger"
	"github.com/readstack/readstack-auth/internal/model"
)

// OAuthService defines the authorization code flow operations.
type OAuthService interface {
	Authorize(ctx context.Context, userID uuid.UUID, req model.AuthorizeRequest) (model.AuthorizeResult, error)
	Exchange(ctx context.Context, req model.ExchangeRequest) (model.ExchangeResult, error)
	Revoke(ctx context.Context, clientID string, clientSecret string, token string) error
}

// OAuth handles the authorization code flow endpoints.
type OAuth struct {
	oauthService   OAuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewOAuth creates a new OAuth handler.
func NewOAuth(oauthService OAuthService, contextManager model.ContextManager, logger *logger.Logger) *OAuth {
	return &OAuth{
		oauthService:   oauthService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type authorizeResponse struct {
	Code  string `json:"code"`
	State string `json:"state,omitempty"`
}

type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	Code         string `json:"code"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURI  string `json:"redirect_uri"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope"`
	JWTToken    string `json:"jwt_token"`
}

type revokeRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Token        string `json:"token"`
}

// Authorize mints a single-use authorization code for the authenticated user.
// Parameters arrive as query values, the way authorization endpoints are
// called from a redirect.
func (h *OAuth) Authorize(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		handleError(w, h.logger, model.ErrUnauthenticated)
		return
	}

	q := r.URL.Query()
	req := model.AuthorizeRequest{
		ClientID:     q.Get("client_id"),
		RedirectURI:  q.Get("redirect_uri"),
		ResponseType: q.Get("response_type"),
		Scope:        q.Get("scope"),
		State:        q.Get("state"),
	}
	if req.ClientID == "" || req.RedirectURI == "" {
		handleError(w, h.logger, fmt.Errorf("%w: client_id and redirect_uri are required", model.ErrValidation))
		return
	}

	result, err := h.oauthService.Authorize(r.Context(), userID, req)
	if err != nil {
		h.logger.Debug("OAuth handler: authorize failed",
			"client_id", req.ClientID,
			"error", err.Error())
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, authorizeResponse{Code: result.Code, State: result.State})
}

// Token exchanges an authorization code for an access token.
func (h *OAuth) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, h.logger, fmt.Errorf("%w: invalid request body", model.ErrValidation))
		return
	}
	if req.Code == "" || req.ClientID == "" {
		handleError(w, h.logger, fmt.Errorf("%w: code and client_id are required", model.ErrValidation))
		return
	}

	result, err := h.oauthService.Exchange(r.Context(), model.ExchangeRequest{
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
		Code:         req.Code,
		GrantType:    req.GrantType,
		RedirectURI:  req.RedirectURI,
	})
	if err != nil {
		h.logger.Debug("OAuth handler: exchange failed",
			"client_id", req.ClientID,
			"error", err.Error())
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   result.ExpiresIn,
		Scope:       result.Scope,
		JWTToken:    result.JWTToken,
	})
}

// Revoke invalidates one issued token, or all of a client's tokens when the
// token field is empty.
func (h *OAuth) Revoke(w http.ResponseWriter, r *http.Request) {
	var req revokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, h.logger, fmt.Errorf("%w: invalid request body", model.ErrValidation))
		return
	}
	if req.ClientID == "" {
		handleError(w, h.logger, fmt.Errorf("%w: client_id is required", model.ErrValidation))
		return
	}

	if err := h.oauthService.Revoke(r.Context(), req.ClientID, req.ClientSecret, req.Token); err != nil {
		h.logger.Debug("OAuth handler: revoke failed",
			"client_id", req.ClientID,
			"error", err.Error())
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
