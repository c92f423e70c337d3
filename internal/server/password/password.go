// Package password оборачивает bcrypt для хранения и проверки паролей.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher хеширует и проверяет пароли через bcrypt.
// bcrypt сам генерирует случайную соль на каждый вызов и встраивает
// ее в результат, поэтому два хеша одного пароля различаются.
type Hasher struct {
	cost int
}

// NewHasher создает Hasher с заданной стоимостью bcrypt.
// cost <= 0 означает bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash хеширует пароль с новой случайной солью.
// Хеширование намеренно медленное (CPU-bound), вызывающий код
// не должен считать его бесплатным.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify проверяет пароль против сохраненного хеша.
// Сравнение делегируется bcrypt.CompareHashAndPassword, который
// выполняет constant-time сравнение. Никогда не сравнивать хеши вручную.
func (h *Hasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
