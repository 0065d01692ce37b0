package session

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SzymonBartkowiak43/quizzzlet/internal/domain"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// mockPointApplier records ApplyPointDelta calls and can be primed to fail.
type mockPointApplier struct {
	mu       sync.Mutex
	calls    []pointDeltaCall
	failWith error
}

type pointDeltaCall struct {
	wordID uuid.UUID
	delta  int
}

func newMockPointApplier() *mockPointApplier {
	return &mockPointApplier{}
}

func (m *mockPointApplier) ApplyPointDelta(ctx context.Context, wordID uuid.UUID, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, pointDeltaCall{wordID: wordID, delta: delta})
	return m.failWith
}

func (m *mockPointApplier) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockPointApplier) deltaFor(wordID uuid.UUID) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	found := false
	for _, c := range m.calls {
		if c.wordID == wordID {
			total += c.delta
			found = true
		}
	}
	return total, found
}

// testWordSet builds a word set together with len(pairs) words, where each
// pair is {text, translation}.
func testWordSet(title string, pairs [][2]string) (*domain.WordSet, []domain.Word) {
	set := &domain.WordSet{
		ID:        uuid.New(),
		OwnerID:   uuid.New(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	words := make([]domain.Word, 0, len(pairs))
	for _, p := range pairs {
		words = append(words, domain.Word{
			ID:          uuid.New(),
			WordSetID:   set.ID,
			Text:        p[0],
			Translation: p[1],
			CreatedAt:   time.Now().UTC(),
			UpdatedAt:   time.Now().UTC(),
		})
	}

	return set, words
}
