package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/readstack/readstack-auth/internal/api/rest/handler"
	"github.com/readstack/readstack-auth/internal/api/rest/middleware"
	"github.com/readstack/readstack-auth/internal/logger"
)

// Router assembles the HTTP routes of the service.
type Router struct {
	authHandler  *handler.Auth
	oauthHandler *handler.OAuth
	authenticate *middleware.Authenticate
	logger       *logger.Logger
}

// New creates a new Router.
func New(
	authHandler *handler.Auth,
	oauthHandler *handler.OAuth,
	authenticate *middleware.Authenticate,
	logger *logger.Logger,
) *Router {
	return &Router{
		authHandler:  authHandler,
		oauthHandler: oauthHandler,
		authenticate: authenticate,
		logger:       logger,
	}
}

// Register builds the route tree. Login, refresh and the client-credential
// OAuth endpoints are public; everything that acts on behalf of a user goes
// through the bearer middleware.
func (rt *Router) Register() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewLogging(rt.logger).Handle)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/api/auth/login", rt.authHandler.Login)
	r.Post("/api/auth/refresh", rt.authHandler.Refresh)

	r.Post("/oauth/token", rt.oauthHandler.Token)
	r.Post("/oauth/revoke", rt.oauthHandler.Revoke)

	r.Group(func(r chi.Router) {
		r.Use(rt.authenticate.Handle)

		r.Get("/api/auth/me", rt.authHandler.Me)
		r.Post("/oauth/authorize", rt.oauthHandler.Authorize)
	})

	return r
}
