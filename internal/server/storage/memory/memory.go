// Package memory реализует CredentialStore поверх process-local map.
// Данные не переживают рестарт процесса; backend предназначен для
// разработки и тестов.
package memory

import (
	"context"
	"sync"

	"github.com/swappo/auth-service/internal/models"
	"github.com/swappo/auth-service/internal/server/storage"
)

// Storage хранит пользователей в памяти процесса.
// Все операции защищены одним mutex, поэтому Create атомарен
// относительно проверки уникальности email.
type Storage struct {
	mu         sync.RWMutex
	users      map[string]*models.User // id -> user
	emailIndex map[string]string       // email -> id
}

// New создает пустое in-memory хранилище
func New() *Storage {
	return &Storage{
		users:      make(map[string]*models.User),
		emailIndex: make(map[string]string),
	}
}

// FindByEmail retrieves user by email
func (s *Storage) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.emailIndex[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}

	user, ok := s.users[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}

	return copyUser(user), nil
}

// FindByID retrieves user by ID
func (s *Storage) FindByID(ctx context.Context, userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}

	return copyUser(user), nil
}

// Create creates a new user.
// Проверка уникальности email и вставка выполняются под одним lock:
// из двух конкурентных регистраций с одинаковым email выигрывает одна.
func (s *Storage) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emailIndex[user.Email]; exists {
		return storage.ErrEmailTaken
	}

	s.users[user.ID] = copyUser(user)
	s.emailIndex[user.Email] = user.ID

	return nil
}

// UpdatePasswordHash replaces the stored password hash
func (s *Storage) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return storage.ErrUserNotFound
	}

	user.PasswordHash = passwordHash
	return nil
}

// Deactivate flips is_active to false
func (s *Storage) Deactivate(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return storage.ErrUserNotFound
	}

	user.IsActive = false
	return nil
}

// copyUser возвращает копию записи, чтобы вызывающий код
// не мог изменить внутреннее состояние хранилища
func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}
