// Package server собирает HTTP сервер аутентификации:
// хранилище, token service, маршруты и graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/swappo/auth-service/internal/config"
	"github.com/swappo/auth-service/internal/server/jwt"
	"github.com/swappo/auth-service/internal/server/password"
	"github.com/swappo/auth-service/internal/server/storage"
	"github.com/swappo/auth-service/internal/server/storage/memory"
	"github.com/swappo/auth-service/internal/server/storage/sqlite"
)

const shutdownTimeout = 10 * time.Second

// Server инкапсулирует HTTP сервер и его зависимости
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	closeStore func() error
}

// New создает сервер по конфигурации.
// Backend хранилища выбирается здесь и только здесь: пустой DSN
// означает in-memory map, иначе SQLite по указанному пути.
func New(ctx context.Context, logger *slog.Logger, cfg *config.Config, version string) (*Server, error) {
	var (
		store      storage.CredentialStore
		closeStore func() error
	)

	if cfg.DatabaseDSN == "" {
		logger.Info("using in-memory credential store (non-durable)")
		store = memory.New()
		closeStore = func() error { return nil }
	} else {
		logger.Info("using sqlite credential store", slog.String("dsn", cfg.DatabaseDSN))
		sqliteStore, err := sqlite.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		store = sqliteStore
		closeStore = sqliteStore.Close
	}

	hasher := password.NewHasher(0)
	tokens := jwt.NewService(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenTTL(),
		cfg.RefreshTokenTTL(),
	)

	httpServer := &http.Server{
		Addr:              cfg.Address,
		Handler:           NewRouter(logger, store, hasher, tokens, version),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{
		logger:     logger,
		httpServer: httpServer,
		closeStore: closeStore,
	}, nil
}

// Run запускает сервер и блокируется до отмены контекста,
// затем выполняет graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server starting", slog.String("address", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		_ = s.closeStore()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		_ = s.closeStore()
		return fmt.Errorf("shutdown failed: %w", err)
	}

	if err := s.closeStore(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
