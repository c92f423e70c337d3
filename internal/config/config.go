// Package config загружает конфигурацию сервера из переменных окружения.
// Конфигурация читается один раз при старте процесса.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the authentication service.
//
// Секреты подписи обязательны: случайный секрет на каждый рестарт
// инвалидировал бы все ранее выпущенные токены.
type Config struct {
	// Address адрес HTTP сервера
	Address string `env:"ADDRESS" envDefault:":8080"`

	// AccessTokenSecret секрет подписи access токенов
	AccessTokenSecret string `env:"ACCESS_TOKEN_SECRET,required,notEmpty"`

	// RefreshTokenSecret секрет подписи refresh токенов.
	// Намеренно отдельный от access секрета.
	RefreshTokenSecret string `env:"REFRESH_TOKEN_SECRET,required,notEmpty"`

	// AccessTokenExpireMinutes срок жизни access токена в минутах
	AccessTokenExpireMinutes int `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`

	// RefreshTokenExpireDays срок жизни refresh токена в днях
	RefreshTokenExpireDays int `env:"REFRESH_TOKEN_EXPIRE_DAYS" envDefault:"7"`

	// DatabaseDSN путь к файлу SQLite.
	// Пустое значение означает in-memory хранилище (не переживает рестарт).
	DatabaseDSN string `env:"DATABASE_DSN"`

	// LogLevel уровень логирования: debug, info, warn, error
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load парсит конфигурацию из окружения
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// AccessTokenTTL возвращает срок жизни access токена
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// RefreshTokenTTL возвращает срок жизни refresh токена
func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpireDays) * 24 * time.Hour
}
