package models

import "time"

// User представляет учетную запись пользователя
type User struct {
	ID           string    `json:"id"`                  // UUID пользователя, неизменяемый
	Email        string    `json:"email"`               // уникальный login handle
	Username     string    `json:"username"`            // отображаемое имя, 3-50 символов
	PasswordHash string    `json:"-"`                   // bcrypt хеш, никогда не сериализуется
	FullName     string    `json:"full_name,omitempty"` // опциональное полное имя
	CreatedAt    time.Time `json:"created_at"`          // время создания, неизменяемое
	IsActive     bool      `json:"is_active"`           // false блокирует login и refresh
}

// Public возвращает представление пользователя для ответов API.
// PasswordHash никогда не попадает в это представление.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
		IsActive:  u.IsActive,
	}
}

// PublicUser представляет публичное представление пользователя
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}
