package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/readstack/readstack-auth/internal/api/rest/handler"
	"github.com/readstack/readstack-auth/internal/api/rest/middleware"
	"github.com/readstack/readstack-auth/internal/api/rest/request"
	"github.com/readstack/readstack-auth/internal/api/rest/router"
	"github.com/readstack/readstack-auth/internal/api/rest/server"
	"github.com/readstack/readstack-auth/internal/config"
	"github.com/readstack/readstack-auth/internal/logger"
	"github.com/readstack/readstack-auth/internal/model"
	"github.com/readstack/readstack-auth/internal/password"
	"github.com/readstack/readstack-auth/internal/repository/postgres"
	"github.com/readstack/readstack-auth/internal/service"
	"github.com/readstack/readstack-auth/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	codeRepo := postgres.NewAuthorizationCodeRepository(db)
	issuedTokenRepo := postgres.NewIssuedTokenRepository(db)

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.RefreshTTL)
	clients := model.ClientRegistry{
		cfg.OAuth.ClientID: {
			ID:           cfg.OAuth.ClientID,
			Secret:       cfg.OAuth.ClientSecret,
			RedirectURIs: cfg.OAuth.RedirectURIs,
		},
	}

	tokenService := service.NewTokenService(tokenManager, refreshTokenRepo, userRepo, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL, logger)
	authService := service.NewAuth(userRepo, password.NewBcryptVerifier(), tokenService, logger)
	oauthService := service.NewOAuth(codeRepo, issuedTokenRepo, userRepo, tokenManager, clients, cfg.OAuth.CodeTTL, cfg.OAuth.TokenTTL, logger)
	ctxMgr := request.NewManager()

	authHandler := handler.NewAuth(authService, tokenService, ctxMgr, logger)
	oauthHandler := handler.NewOAuth(oauthService, ctxMgr, logger)
	authenticate := middleware.NewAuthenticate(tokenService, oauthService, ctxMgr, logger)

	r := router.New(authHandler, oauthHandler, authenticate, logger)
	httpServer := server.NewHTTPServer(r.Register(), cfg.HTTP.Address)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("Starting server on", "address", httpServer.Address())
		if err := httpServer.Start(); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
