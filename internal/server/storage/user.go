package storage

import (
	"context"

	"github.com/swappo/auth-service/internal/models"
)

// CredentialStore defines interface for user record persistence.
// Two interchangeable backends implement it: a process-local map
// (non-durable, development/testing) and a SQLite table (durable).
// The handlers must not depend on which one is in use.
type CredentialStore interface {
	// FindByEmail retrieves user by email (exact match, no normalization)
	// Returns ErrUserNotFound if user doesn't exist
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	FindByID(ctx context.Context, userID string) (*models.User, error)

	// Create creates a new user in the storage.
	// Returns ErrEmailTaken if the email is already registered.
	// The check is atomic: of two concurrent Create calls with the
	// same email exactly one succeeds.
	Create(ctx context.Context, user *models.User) error

	// UpdatePasswordHash replaces the stored password hash
	// Returns ErrUserNotFound if user doesn't exist
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error

	// Deactivate flips is_active to false. Irreversible: no
	// reactivation operation exists.
	// Returns ErrUserNotFound if user doesn't exist
	Deactivate(ctx context.Context, userID string) error
}
