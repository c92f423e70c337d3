package server

import (
	"log/slog"
	"net/http"

	"github.com/swappo/auth-service/internal/server/handlers"
	"github.com/swappo/auth-service/internal/server/jwt"
	"github.com/swappo/auth-service/internal/server/middleware"
	"github.com/swappo/auth-service/internal/server/password"
	"github.com/swappo/auth-service/internal/server/storage"
)

// NewRouter собирает все маршруты сервиса с middleware цепочкой
// recovery -> logging -> cors -> (auth на защищенных маршрутах).
func NewRouter(
	logger *slog.Logger,
	store storage.CredentialStore,
	hasher *password.Hasher,
	tokens *jwt.Service,
	version string,
) http.Handler {
	authHandler := handlers.NewAuthHandler(logger, store, hasher, tokens)
	healthHandler := handlers.NewHealthHandler(logger, version)

	requireAuth := middleware.AuthMiddleware(logger, tokens)

	mux := http.NewServeMux()

	// Публичные маршруты
	mux.HandleFunc("GET /{$}", healthHandler.Root)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	// Refresh токен приходит в теле запроса, access токен не требуется
	mux.HandleFunc("POST /api/v1/auth/refresh", authHandler.Refresh)

	// Защищенные маршруты: валидный access токен обязателен
	mux.Handle("GET /api/v1/auth/me", requireAuth(http.HandlerFunc(authHandler.Me)))
	mux.Handle("POST /api/v1/auth/change-password", requireAuth(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/v1/auth/logout", requireAuth(http.HandlerFunc(authHandler.Logout)))

	// Внешние middleware применяются ко всем маршрутам;
	// health check не логируется, чтобы не засорять логи
	var handler http.Handler = mux
	handler = middleware.CORSMiddleware()(handler)
	handler = middleware.LoggingWithSkip(logger, []string{"/health"})(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	return handler
}
