package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/swappo/auth-service/internal/server/jwt"
	"github.com/swappo/auth-service/internal/server/password"
	"github.com/swappo/auth-service/internal/server/storage/memory"
	"github.com/swappo/auth-service/pkg/api"
)

func setupTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	hasher := password.NewHasher(bcrypt.MinCost)
	tokens := jwt.NewService("access-secret", "refresh-secret", 30*time.Minute, 7*24*time.Hour)

	return NewRouter(logger, store, hasher, tokens, "test")
}

func doJSON(t *testing.T, router http.Handler, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestRouter_Root(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication Microservice API")

	// Шаблон "/{$}" не перехватывает неизвестные пути
	w = doJSON(t, router, http.MethodGet, "/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/auth/login", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	router := setupTestRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{method: http.MethodGet, path: "/api/v1/auth/me"},
		{method: http.MethodPost, path: "/api/v1/auth/change-password"},
		{method: http.MethodPost, path: "/api/v1/auth/logout"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := doJSON(t, router, tt.method, tt.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

// TestRouter_EndToEnd проходит полный сценарий:
// register -> login -> me -> refresh -> change-password -> re-login -> logout
func TestRouter_EndToEnd(t *testing.T) {
	router := setupTestRouter(t)

	// Регистрация
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", api.RegisterRequest{
		Email:    "a@x.com",
		Username: "user1",
		Password: "pw123456",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	// Логин
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", api.LoginRequest{
		Email:    "a@x.com",
		Password: "pw123456",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var pair api.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	// /me с access токеном
	w = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@x.com")

	// /me без заголовка
	w = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// refresh токен не принимается как access
	w = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", pair.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Обновление пары по refresh токену из тела
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh", "", api.RefreshRequest{
		RefreshToken: pair.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var newPair api.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &newPair))
	assert.NotEmpty(t, newPair.AccessToken)

	// Смена пароля с неверным старым паролем
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/change-password", pair.AccessToken, api.ChangePasswordRequest{
		OldPassword: "wrong-password",
		NewPassword: "newpw12345",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Смена пароля с верным старым паролем
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/change-password", pair.AccessToken, api.ChangePasswordRequest{
		OldPassword: "pw123456",
		NewPassword: "newpw12345",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Логин со старым паролем не проходит
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", api.LoginRequest{
		Email:    "a@x.com",
		Password: "pw123456",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Логин с новым паролем проходит
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", api.LoginRequest{
		Email:    "a@x.com",
		Password: "newpw12345",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Старый access токен остается валидным после смены пароля
	w = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", pair.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Logout: серверного состояния нет, просто 200
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", pair.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Logged out successfully")
}

func TestRouter_DuplicateRegistration(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", api.RegisterRequest{
		Email:    "a@x.com",
		Username: "user1",
		Password: "pw123456",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", api.RegisterRequest{
		Email:    "a@x.com",
		Username: "user2",
		Password: "otherpw123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email already registered")
}
