package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// HealthHandler обрабатывает health check и корневой запрос
type HealthHandler struct {
	logger  *slog.Logger
	version string
}

// NewHealthHandler создает новый handler для health check
func NewHealthHandler(logger *slog.Logger, version string) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		version: version,
	}
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status string `json:"status"`
}

// RootResponse представляет корневой ответ с индексом endpoint'ов
type RootResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Health обрабатывает GET /health
// Health check endpoint для мониторинга
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, HealthResponse{Status: "healthy"})
}

// Root обрабатывает GET /
// Возвращает описание сервиса и список endpoint'ов
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	resp := RootResponse{
		Message: "Authentication Microservice API",
		Version: h.version,
		Endpoints: map[string]string{
			"health":          "/health",
			"register":        "/api/v1/auth/register",
			"login":           "/api/v1/auth/login",
			"refresh":         "/api/v1/auth/refresh",
			"me":              "/api/v1/auth/me",
			"change-password": "/api/v1/auth/change-password",
			"logout":          "/api/v1/auth/logout",
		},
	}

	h.writeJSON(w, resp)
}

func (h *HealthHandler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}
