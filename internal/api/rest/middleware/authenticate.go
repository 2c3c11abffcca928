package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/readstack/readstack-auth/internal/logger"
	"github.com/readstack/readstack-auth/internal/model"
)

// TokenService resolves user ID from signed access tokens.
type TokenService interface {
	GetUserID(ctx context.Context, token string) (uuid.UUID, error)
}

// OAuthService resolves user ID from opaque registry-backed tokens.
type OAuthService interface {
	GetUserID(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates bearer credentials and injects the user ID into the
// request context. Signed tokens (three dot-separated segments) are verified
// statelessly; anything else is treated as an opaque token and looked up in
// the registry. Every failure yields the same 401 body.
type Authenticate struct {
	tokenService   TokenService
	oauthService   OAuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, oauthService OAuthService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		tokenService:   tokenService,
		oauthService:   oauthService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Handle wraps next with bearer authentication.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenString := bearerToken(r)

		userID, err := m.authenticateUser(ctx, tokenString)
		if err != nil {
			m.logger.Debug("Authenticate middleware: rejected request",
				"path", r.URL.Path,
				"error", err.Error())
			writeUnauthenticated(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetUserIDToContext(ctx, userID)))
	})
}

func (m *Authenticate) authenticateUser(ctx context.Context, tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, model.ErrUnauthenticated
	}

	var (
		userID uuid.UUID
		err    error
	)
	if isSignedToken(tokenString) {
		userID, err = m.tokenService.GetUserID(ctx, tokenString)
	} else {
		userID, err = m.oauthService.GetUserID(ctx, tokenString)
	}
	if err != nil {
		return uuid.Nil, err
	}
	if userID == uuid.Nil {
		return uuid.Nil, model.ErrUnauthenticated
	}

	return userID, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return token
}

// isSignedToken reports whether the credential has JWT shape. Opaque tokens
// are base64url strings and never contain dots.
func isSignedToken(token string) bool {
	return strings.Count(token, ".") == 2
}

func writeUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	// One body for every failure cause, so the response cannot be used to
	// probe whether a credential exists, expired or was revoked.
	w.Write([]byte(`{"error":"unauthenticated","message":"missing or invalid credentials"}`))
}
