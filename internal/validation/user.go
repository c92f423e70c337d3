package validation

import (
	"fmt"
	"net/mail"
	"unicode/utf8"
)

const (
	// MinUsernameLen минимальная длина username
	MinUsernameLen = 3
	// MaxUsernameLen максимальная длина username
	MaxUsernameLen = 50
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 8
)

// ValidateEmail проверяет, что email имеет корректный формат (RFC 5322).
// Email сравнивается и хранится как есть, без нормализации регистра.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email address")
	}

	// mail.ParseAddress принимает формы вида "Name <a@b>", нам нужен только адрес
	if addr.Address != email {
		return fmt.Errorf("invalid email address")
	}

	return nil
}

// ValidateUsername проверяет, что username соответствует требованиям
// Длина: 3-50 символов
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	// Границы считаются в символах, не в байтах
	if n := utf8.RuneCountInString(username); n < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	} else if n > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}

	return nil
}

// ValidatePassword проверяет минимальные требования к паролю
// Минимум 8 символов
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if utf8.RuneCountInString(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}
