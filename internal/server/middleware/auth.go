package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/swappo/auth-service/internal/server/handlers"
	"github.com/swappo/auth-service/internal/server/jwt"
)

// AuthMiddleware создает middleware для проверки access токена.
// Ожидает заголовок "Authorization: Bearer <token>", проверяет токен
// как access и кладет user_id и email из claims в контекст запроса.
func AuthMiddleware(logger *slog.Logger, tokens *jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("missing Authorization header")
				writeUnauthorized(w, "missing token")
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("invalid Authorization header format")
				writeUnauthorized(w, "invalid token format")
				return
			}

			claims, err := tokens.Verify(parts[1], jwt.KindAccess)
			if err != nil {
				logger.Warn("invalid access token", "error", err)
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), handlers.UserIDKey, claims.Subject)
			ctx = context.WithValue(ctx, handlers.EmailKey, claims.Email)

			logger.Debug("user authenticated", "user_id", claims.Subject)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeUnauthorized отправляет 401 в формате ErrorResponse
func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized","message":"` + message + `"}`))
}
