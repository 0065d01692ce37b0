// Package store defines the persistence interfaces the rest of the
// application depends on. Implementations live under internal/platform.
package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/SzymonBartkowiak43/quizzzlet/internal/domain"
)

// DBTX is the subset of *sql.DB and *sql.Tx used by store implementations,
// allowing the same store code to run inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// WordStore provides access to word sets and their words, and owns the
// per-word mastery point counters.
type WordStore interface {
	// GetWordSet retrieves a word set by ID.
	// Returns ErrWordSetNotFound if the word set does not exist.
	GetWordSet(ctx context.Context, id uuid.UUID) (*domain.WordSet, error)

	// WordsOf returns all words of a word set in insertion order.
	// Returns an empty slice (not an error) for an existing but empty set.
	WordsOf(ctx context.Context, wordSetID uuid.UUID) ([]domain.Word, error)

	// ApplyPointDelta adjusts a word's mastery points by delta, which may
	// be negative. Returns ErrWordNotFound if the word does not exist.
	ApplyPointDelta(ctx context.Context, wordID uuid.UUID, delta int) error
}

// UserStore provides access to user accounts.
type UserStore interface {
	// Create saves a new user, hashing the plaintext password first.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
