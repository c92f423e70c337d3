package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/swappo/auth-service/internal/models"
	"github.com/swappo/auth-service/internal/server/jwt"
	"github.com/swappo/auth-service/internal/server/password"
	"github.com/swappo/auth-service/internal/server/storage"
	"github.com/swappo/auth-service/internal/validation"
	"github.com/swappo/auth-service/pkg/api"
)

// AuthHandler обрабатывает запросы аутентификации.
// Store, hasher и token service передаются явно при создании:
// каждый flow — независимая stateless операция над ними.
type AuthHandler struct {
	logger *slog.Logger
	store  storage.CredentialStore
	hasher *password.Hasher
	tokens *jwt.Service
}

// NewAuthHandler создает новый handler для аутентификации
func NewAuthHandler(logger *slog.Logger, store storage.CredentialStore, hasher *password.Hasher, tokens *jwt.Service) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		store:  store,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register обрабатывает POST /api/v1/auth/register
// Регистрация нового пользователя
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode register request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Валидация формы запроса
	if err := validation.ValidateEmail(req.Email); err != nil {
		h.sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		h.sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		h.sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	// Пароль хешируется до создания записи; plaintext дальше не уходит
	passwordHash, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: passwordHash,
		FullName:     req.FullName,
		CreatedAt:    time.Now().UTC(),
		IsActive:     true,
	}

	// Уникальность email проверяет сам store, атомарно
	if err := h.store.Create(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			h.logger.WarnContext(ctx, "email already registered", slog.String("email", req.Email))
			h.sendError(w, "Email already registered", http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user registered successfully",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username))

	h.sendJSON(w, user.Public(), http.StatusCreated)
}

// Login обрабатывает POST /api/v1/auth/login
// Проверка учетных данных и выпуск пары токенов
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode login request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// "Пользователь не найден" и "неверный пароль" намеренно неотличимы,
	// чтобы по ответу нельзя было перечислять зарегистрированные email
	user, err := h.store.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "login failed: user not found")
			h.sendError(w, "Incorrect email or password", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !h.hasher.Verify(req.Password, user.PasswordHash) {
		h.logger.WarnContext(ctx, "login failed: invalid password", slog.String("user_id", user.ID))
		h.sendError(w, "Incorrect email or password", http.StatusUnauthorized)
		return
	}

	// Деактивация проверяется после пароля: ответ 403 подтверждает
	// корректность учетных данных, но блокирует вход
	if !user.IsActive {
		h.logger.WarnContext(ctx, "login failed: account deactivated", slog.String("user_id", user.ID))
		h.sendError(w, "Account is deactivated", http.StatusForbidden)
		return
	}

	h.issueTokenPair(ctx, w, user.ID, user.Email)
}

// Refresh обрабатывает POST /api/v1/auth/refresh
// Обновление пары токенов по refresh токену из тела запроса
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode refresh request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	claims, err := h.tokens.Verify(req.RefreshToken, jwt.KindRefresh)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid refresh token", slog.Any("error", err))
		h.sendError(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}

	// Подпись валидна, но пользователь мог исчезнуть или быть
	// деактивирован после выпуска токена
	user, err := h.store.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "refresh failed: user not found", slog.String("user_id", claims.Subject))
			h.sendError(w, "Invalid user", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !user.IsActive {
		h.logger.WarnContext(ctx, "refresh failed: account deactivated", slog.String("user_id", user.ID))
		h.sendError(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	// Ротация без инвалидации: старый refresh токен остается валидным
	// до собственного истечения, revocation-хранилища нет
	h.issueTokenPair(ctx, w, user.ID, user.Email)
}

// Me обрабатывает GET /api/v1/auth/me
// Возвращает публичное представление аутентифицированного пользователя
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.sendError(w, "Could not validate credentials", http.StatusUnauthorized)
		return
	}

	user, err := h.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "authenticated user no longer exists", slog.String("user_id", userID))
			h.sendError(w, "User not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.sendJSON(w, user.Public(), http.StatusOK)
}

// ChangePassword обрабатывает POST /api/v1/auth/change-password
// Смена пароля аутентифицированного пользователя.
// Уже выпущенные токены остаются валидными до естественного истечения.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.sendError(w, "Could not validate credentials", http.StatusUnauthorized)
		return
	}

	var req api.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode change-password request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidatePassword(req.NewPassword); err != nil {
		h.sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	user, err := h.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.sendError(w, "User not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !h.hasher.Verify(req.OldPassword, user.PasswordHash) {
		h.logger.WarnContext(ctx, "change password failed: incorrect old password", slog.String("user_id", userID))
		h.sendError(w, "Incorrect password", http.StatusBadRequest)
		return
	}

	newHash, err := h.hasher.Hash(req.NewPassword)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.store.UpdatePasswordHash(ctx, userID, newHash); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.sendError(w, "User not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update password", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "password changed successfully", slog.String("user_id", userID))

	h.sendJSON(w, api.MessageResponse{Message: "Password changed successfully"}, http.StatusOK)
}

// Logout обрабатывает POST /api/v1/auth/logout
// Серверного состояния нет: контракт — клиент удаляет токены локально.
// Валидный access токен требуется, чтобы дойти до handler'а.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, _ := GetUserID(ctx)
	h.logger.InfoContext(ctx, "user logged out", slog.String("user_id", userID))

	h.sendJSON(w, api.MessageResponse{Message: "Logged out successfully"}, http.StatusOK)
}

// issueTokenPair выпускает access+refresh пару и отправляет TokenResponse
func (h *AuthHandler) issueTokenPair(ctx context.Context, w http.ResponseWriter, userID, email string) {
	accessToken, err := h.tokens.IssueAccess(userID, email)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue access token", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	refreshToken, err := h.tokens.IssueRefresh(userID, email)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue refresh token", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "token pair issued", slog.String("user_id", userID))

	h.sendJSON(w, api.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, http.StatusOK)
}

// sendJSON отправляет JSON ответ
func (h *AuthHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func (h *AuthHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	h.sendJSON(w, resp, statusCode)
}
