// Package postgres provides PostgreSQL-backed implementations of the store
// interfaces.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/SzymonBartkowiak43/quizzzlet/internal/domain"
	"github.com/SzymonBartkowiak43/quizzzlet/internal/store"
)

// uniqueViolationCode is the PostgreSQL error code for unique constraint
// violations.
const uniqueViolationCode = "23505"

// isUniqueViolation checks if the given error is a PostgreSQL unique
// constraint violation, such as a duplicate email address.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// PostgresWordStore implements the store.WordStore interface
// using a PostgreSQL database as the storage backend.
type PostgresWordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWordStore creates a new PostgreSQL implementation of the
// WordStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresWordStore(db store.DBTX, logger *slog.Logger) *PostgresWordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresWordStore{
		db:     db,
		logger: logger.With(slog.String("component", "word_store")),
	}
}

// Ensure PostgresWordStore implements store.WordStore interface
var _ store.WordStore = (*PostgresWordStore)(nil)

// GetWordSet implements store.WordStore.GetWordSet.
// Returns store.ErrWordSetNotFound if the word set does not exist.
func (s *PostgresWordStore) GetWordSet(ctx context.Context, id uuid.UUID) (*domain.WordSet, error) {
	query := `
		SELECT id, owner_id, title, created_at, updated_at
		FROM word_sets
		WHERE id = $1`

	var set domain.WordSet
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&set.ID,
		&set.OwnerID,
		&set.Title,
		&set.CreatedAt,
		&set.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrWordSetNotFound
		}
		return nil, fmt.Errorf("failed to get word set: %w", err)
	}

	return &set, nil
}

// WordsOf implements store.WordStore.WordsOf.
// Words are returned in insertion order. An existing but empty set yields
// an empty slice, not an error.
func (s *PostgresWordStore) WordsOf(ctx context.Context, wordSetID uuid.UUID) ([]domain.Word, error) {
	query := `
		SELECT id, word_set_id, text, translation, mastery_points, created_at, updated_at
		FROM words
		WHERE word_set_id = $1
		ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, wordSetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer func() { _ = rows.Close() }()

	words := make([]domain.Word, 0)
	for rows.Next() {
		var w domain.Word
		if err := rows.Scan(
			&w.ID,
			&w.WordSetID,
			&w.Text,
			&w.Translation,
			&w.MasteryPoints,
			&w.CreatedAt,
			&w.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate words: %w", err)
	}

	return words, nil
}

// ApplyPointDelta implements store.WordStore.ApplyPointDelta.
// The delta is applied as-is; mastery points are a raw counter and may go
// negative. Returns store.ErrWordNotFound if the word does not exist.
func (s *PostgresWordStore) ApplyPointDelta(ctx context.Context, wordID uuid.UUID, delta int) error {
	query := `
		UPDATE words
		SET mastery_points = mastery_points + $2, updated_at = NOW()
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, wordID, delta)
	if err != nil {
		return fmt.Errorf("failed to apply point delta: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return store.ErrWordNotFound
	}

	return nil
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *PostgresWordStore) WithTx(tx *sql.Tx) *PostgresWordStore {
	return &PostgresWordStore{
		db:     tx,
		logger: s.logger,
	}
}
