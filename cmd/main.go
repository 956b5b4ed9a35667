package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"session_auth/internal/config"
	"session_auth/internal/handlers"
	"session_auth/internal/logger"
	"session_auth/internal/repository"
	"session_auth/internal/repository/db"
	"session_auth/internal/server"
	"session_auth/internal/service"
)

// @title                       session_auth API
// @version                     1.0
// @description                 Credential sign-in issuing HS256 access tokens.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load configs/config.yml + env
	cfg, err := config.Load("configs", ".")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.Log.Level)
	defer func() { _ = log.Sync() }()
	log.Infow("config loaded", "config", cfg.String())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// build the credential store
	repos, closeStore, err := openRepository(ctx, cfg, log)
	if err != nil {
		log.Fatalw("failed to init user store", "backend", cfg.Store.Backend, "err", err)
	}
	defer closeStore()

	// wire dependencies
	services := service.NewService(repos, service.TokenConfig{
		Secret: cfg.Auth.JWTSecret,
		TTL:    cfg.Auth.TokenTTL,
	}, log)
	apiHandler := handlers.NewHandler(services, log, handlers.WithAllowedOrigins(cfg.HTTP.AllowedOrigins))

	// start HTTP server
	srv := server.New(server.Options{
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	})
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, cfg, log)
}

// openRepository hashes the configured seed users and builds the selected backend.
func openRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repository.Repository, func(), error) {
	seeds := cfg.Users
	if len(seeds) == 0 {
		log.Infow("no users configured; using built-in seed")
		seeds = repository.DefaultSeed()
	}
	users, err := repository.HashSeeds(seeds, cfg.Auth.BCryptCost)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Store.Backend {
	case config.BackendSQLite:
		conn, err := db.InitDB(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		repos, err := repository.NewSQLiteRepository(ctx, conn, users)
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		log.Infow("sqlite user store ready", "path", cfg.Store.SQLitePath, "users", len(users))
		return repos, closeDB(conn, log), nil
	case config.BackendMemory:
		repos, err := repository.NewMemoryRepository(users)
		if err != nil {
			return nil, nil, err
		}
		log.Infow("memory user store ready", "users", len(users))
		return repos, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func closeDB(conn *sql.DB, log *logger.Logger) func() {
	return func() {
		if err := conn.Close(); err != nil {
			log.Errorw("failed to close sqlite", "err", err)
		}
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, cfg *config.Config, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
