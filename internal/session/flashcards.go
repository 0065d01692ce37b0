package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SzymonBartkowiak43/quizzzlet/internal/domain"
	"github.com/SzymonBartkowiak43/quizzzlet/internal/platform/logger"
	"github.com/SzymonBartkowiak43/quizzzlet/internal/redact"
)

// WordPointApplier is the slice of the word store the engines need:
// the best-effort mastery point update.
type WordPointApplier interface {
	ApplyPointDelta(ctx context.Context, wordID uuid.UUID, delta int) error
}

// FlashcardEngine orchestrates the lifecycle of flashcard sessions.
type FlashcardEngine struct {
	store  *Store
	words  WordPointApplier
	rng    *RandSource
	logger *slog.Logger
}

// NewFlashcardEngine creates a FlashcardEngine. All dependencies are
// required except logger, which falls back to the default logger.
func NewFlashcardEngine(
	store *Store,
	words WordPointApplier,
	rng *RandSource,
	logger *slog.Logger,
) *FlashcardEngine {
	if store == nil {
		panic("store cannot be nil for FlashcardEngine")
	}
	if words == nil {
		panic("words cannot be nil for FlashcardEngine")
	}
	if rng == nil {
		panic("rng cannot be nil for FlashcardEngine")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FlashcardEngine{
		store:  store,
		words:  words,
		rng:    rng,
		logger: logger.With(slog.String("component", "flashcard_engine")),
	}
}

// Start creates a flashcard session over a shuffled private copy of words
// and stores it. Returns ErrEmptyWordSet when words is empty; no session is
// created in that case.
func (e *FlashcardEngine) Start(
	ctx context.Context,
	set *domain.WordSet,
	words []domain.Word,
) (*FlashcardView, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	if len(words) == 0 {
		return nil, &ServiceError{
			Operation: "start_flashcards",
			Message:   "word set has no words to practice",
			Err:       ErrEmptyWordSet,
		}
	}

	shuffled := make([]domain.Word, len(words))
	copy(shuffled, words)
	e.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	id := newSessionID()
	sess := newFlashcardSession(id, set, shuffled)
	e.store.Put(id, sess)

	log.Debug("flashcard session started",
		slog.String("session_id", id),
		slog.String("word_set_id", set.ID.String()),
		slog.Int("total_words", len(shuffled)))

	view := sess.view()
	return &view, nil
}

// Answer grades the current card and advances the cursor. A correct answer
// earns the word +1 mastery point, an incorrect one -1; point updates are
// best-effort and never block session progression. Returns
// ErrSessionNotFound if the id is unknown or the session is already
// completed.
func (e *FlashcardEngine) Answer(
	ctx context.Context,
	sessionID string,
	isCorrect bool,
) (*FlashcardView, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	sess, err := e.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	answered, view, ok := sess.answer(isCorrect)
	if !ok {
		return nil, &ServiceError{
			Operation: "answer_flashcard",
			Message:   "session has no remaining cards",
			Err:       ErrSessionNotFound,
		}
	}

	e.applyPointDelta(ctx, log, answered.ID, isCorrect)

	log.Debug("flashcard answered",
		slog.String("session_id", sessionID),
		slog.Bool("correct", isCorrect),
		slog.Int("cursor", view.Cursor),
		slog.Int("score", view.Score))

	return &view, nil
}

// Status returns the current session view without mutating any state.
func (e *FlashcardEngine) Status(ctx context.Context, sessionID string) (*FlashcardView, error) {
	sess, err := e.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	view := sess.view()
	return &view, nil
}

// End removes the session and returns its one-time summary. Ending twice
// fails with ErrSessionNotFound on the second call.
func (e *FlashcardEngine) End(ctx context.Context, sessionID string) (*Summary, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	// Verify the id resolves to a flashcard session before removing, so a
	// quiz session can never be torn down through the flashcard path.
	if _, err := e.lookup(sessionID); err != nil {
		return nil, err
	}

	raw, ok := e.store.Remove(sessionID)
	if !ok {
		// Lost the race against a concurrent End; the winner produced the
		// summary.
		return nil, &ServiceError{
			Operation: "end_flashcards",
			Message:   "session already ended",
			Err:       ErrSessionNotFound,
		}
	}

	summary := raw.Summarize(time.Now().UTC())

	log.Info("flashcard session ended",
		slog.String("session_id", sessionID),
		slog.Int("total", summary.TotalItems),
		slog.Int("score", summary.Score),
		slog.Float64("accuracy", summary.Accuracy))

	return &summary, nil
}

func (e *FlashcardEngine) lookup(sessionID string) (*FlashcardSession, error) {
	raw, ok := e.store.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess, ok := raw.(*FlashcardSession)
	if !ok {
		// The id belongs to a quiz session.
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// applyPointDelta reconciles one answer into the word's mastery points.
// Failures are logged and swallowed: the session has already advanced and
// the caller still gets a success response.
func (e *FlashcardEngine) applyPointDelta(
	ctx context.Context,
	log *slog.Logger,
	wordID uuid.UUID,
	isCorrect bool,
) {
	delta := 1
	if !isCorrect {
		delta = -1
	}

	if err := e.words.ApplyPointDelta(ctx, wordID, delta); err != nil {
		log.Warn("mastery point update failed",
			slog.String("word_id", wordID.String()),
			slog.Int("delta", delta),
			slog.String("error", redact.Error(err)))
	}
}
