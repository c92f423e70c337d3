// Package api описывает JSON контракт аутентификационного сервиса.
package api

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Email    string `json:"email"`               // login handle, уникальный
	Username string `json:"username"`            // 3-50 символов
	Password string `json:"password"`            // минимум 8 символов
	FullName string `json:"full_name,omitempty"` // опционально
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse представляет ответ с парой токенов
type TokenResponse struct {
	AccessToken  string `json:"access_token"`  // JWT access token
	RefreshToken string `json:"refresh_token"` // JWT refresh token
	TokenType    string `json:"token_type"`    // всегда "bearer"
}

// RefreshRequest представляет запрос на обновление пары токенов.
// Refresh token передается в теле, а не в Authorization header:
// access токена на момент вызова может уже не быть.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest представляет запрос на смену пароля
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"` // минимум 8 символов
}

// PasswordResetRequest представляет запрос на сброс пароля.
// Модель существует, но endpoint не реализован: доставка писем
// вне границ сервиса.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordReset представляет подтверждение сброса пароля.
// Модель существует, но endpoint не реализован.
type PasswordReset struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// MessageResponse представляет ответ с информационным сообщением
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // текст статуса HTTP
	Message string `json:"message,omitempty"` // человекочитаемое описание
}
