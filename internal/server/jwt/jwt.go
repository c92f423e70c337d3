// Package jwt выпускает и проверяет подписанные access и refresh токены.
//
// Токены двух видов подписываются разными секретами: утечка refresh-ключа
// (живет дольше, используется реже) не позволяет выпускать access токены,
// и наоборот. Claim "type" — второй уровень защиты поверх раздельных ключей.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind определяет вид токена
type Kind string

const (
	// KindAccess короткоживущий токен для защищенных запросов
	KindAccess Kind = "access"
	// KindRefresh долгоживущий токен только для обновления пары
	KindRefresh Kind = "refresh"
)

// ErrInvalidToken возвращается при любой ошибке проверки токена:
// неверная подпись, истекший срок, несовпадение вида, отсутствие claims
var ErrInvalidToken = errors.New("invalid token")

// Claims представляет claim set токена
type Claims struct {
	Email     string `json:"email"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Service выпускает и проверяет токены.
// Конфигурируется один раз при старте процесса и далее неизменен.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewService создает новый token service.
// Секреты должны быть криптографически стойкими случайными строками.
func NewService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssueAccess создает access токен с claims {sub, email, type, exp}
func (s *Service) IssueAccess(userID, email string) (string, error) {
	return s.issue(userID, email, KindAccess, s.accessTTL, s.accessSecret)
}

// IssueRefresh создает refresh токен с claims {sub, email, type, exp}
func (s *Service) IssueRefresh(userID, email string) (string, error) {
	return s.issue(userID, email, KindRefresh, s.refreshTTL, s.refreshSecret)
}

func (s *Service) issue(userID, email string, kind Kind, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()

	claims := Claims{
		Email:     email,
		TokenType: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify проверяет подпись, срок действия и вид токена.
// Секрет выбирается по ожидаемому виду: access токен никогда не пройдет
// проверку под refresh секретом, даже до сверки claim "type".
func (s *Service) Verify(tokenString string, kind Kind) (*Claims, error) {
	secret := s.accessSecret
	if kind == KindRefresh {
		secret = s.refreshSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != string(kind) {
		return nil, fmt.Errorf("%w: unexpected token type", ErrInvalidToken)
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}

	return claims, nil
}
