package session

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SzymonBartkowiak43/quizzzlet/internal/domain"
	"github.com/SzymonBartkowiak43/quizzzlet/internal/platform/logger"
	"github.com/SzymonBartkowiak43/quizzzlet/internal/redact"
)

// QuizEngine orchestrates the lifecycle of multiple-choice quiz sessions.
// It materializes the question list once at start and then advances the
// same way as flashcards.
type QuizEngine struct {
	store     *Store
	words     WordPointApplier
	generator *Generator
	rng       *RandSource
	logger    *slog.Logger
}

// NewQuizEngine creates a QuizEngine. All dependencies are required except
// logger, which falls back to the default logger.
func NewQuizEngine(
	store *Store,
	words WordPointApplier,
	generator *Generator,
	rng *RandSource,
	logger *slog.Logger,
) *QuizEngine {
	if store == nil {
		panic("store cannot be nil for QuizEngine")
	}
	if words == nil {
		panic("words cannot be nil for QuizEngine")
	}
	if generator == nil {
		panic("generator cannot be nil for QuizEngine")
	}
	if rng == nil {
		panic("rng cannot be nil for QuizEngine")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &QuizEngine{
		store:     store,
		words:     words,
		generator: generator,
		rng:       rng,
		logger:    logger.With(slog.String("component", "quiz_engine")),
	}
}

// Start creates a quiz session. When 0 < questionCount < len(allWords), a
// random subset of that size becomes the question targets; otherwise every
// word does. Distractors always draw from the full pool, including words
// outside the selected subset. The generated question list is shuffled
// independently of the selection shuffle, so selection order and
// presentation order are decorrelated. Returns ErrEmptyWordSet when
// allWords is empty; no session is created in that case.
func (e *QuizEngine) Start(
	ctx context.Context,
	set *domain.WordSet,
	allWords []domain.Word,
	questionCount int,
) (*QuizView, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	if len(allWords) == 0 {
		return nil, &ServiceError{
			Operation: "start_quiz",
			Message:   "word set has no words to quiz",
			Err:       ErrEmptyWordSet,
		}
	}

	selected := make([]domain.Word, len(allWords))
	copy(selected, allWords)
	if questionCount > 0 && questionCount < len(allWords) {
		e.rng.Shuffle(len(selected), func(i, j int) {
			selected[i], selected[j] = selected[j], selected[i]
		})
		selected = selected[:questionCount]
	}

	questions := make([]domain.QuizQuestion, 0, len(selected))
	for _, w := range selected {
		questions = append(questions, e.generator.Question(w, allWords))
	}
	e.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	id := newSessionID()
	sess := newQuizSession(id, set, questions, allWords)
	e.store.Put(id, sess)

	log.Debug("quiz session started",
		slog.String("session_id", id),
		slog.String("word_set_id", set.ID.String()),
		slog.Int("total_questions", len(questions)),
		slog.Int("pool_size", len(allWords)))

	view := sess.view()
	return &view, nil
}

// Answer grades submitted against the current question and advances the
// cursor. The mastery point delta is attributed to the question's source
// word and applied best-effort. Returns ErrSessionNotFound if the id is
// unknown or the session is already completed.
func (e *QuizEngine) Answer(
	ctx context.Context,
	sessionID string,
	submitted string,
) (*QuizView, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	sess, err := e.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	question, correct, view, ok := sess.answer(submitted)
	if !ok {
		return nil, &ServiceError{
			Operation: "answer_quiz",
			Message:   "session has no remaining questions",
			Err:       ErrSessionNotFound,
		}
	}

	e.applyPointDelta(ctx, log, question.SourceWordID, correct)

	log.Debug("quiz question answered",
		slog.String("session_id", sessionID),
		slog.Bool("correct", correct),
		slog.Int("cursor", view.Cursor),
		slog.Int("score", view.Score))

	return &view, nil
}

// Status returns the current session view without mutating any state.
func (e *QuizEngine) Status(ctx context.Context, sessionID string) (*QuizView, error) {
	sess, err := e.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	view := sess.view()
	return &view, nil
}

// End removes the session and returns its one-time summary. Ending twice
// fails with ErrSessionNotFound on the second call.
func (e *QuizEngine) End(ctx context.Context, sessionID string) (*Summary, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	if _, err := e.lookup(sessionID); err != nil {
		return nil, err
	}

	raw, ok := e.store.Remove(sessionID)
	if !ok {
		return nil, &ServiceError{
			Operation: "end_quiz",
			Message:   "session already ended",
			Err:       ErrSessionNotFound,
		}
	}

	summary := raw.Summarize(time.Now().UTC())

	log.Info("quiz session ended",
		slog.String("session_id", sessionID),
		slog.Int("total", summary.TotalItems),
		slog.Int("score", summary.Score),
		slog.Float64("accuracy", summary.Accuracy))

	return &summary, nil
}

func (e *QuizEngine) lookup(sessionID string) (*QuizSession, error) {
	raw, ok := e.store.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess, ok := raw.(*QuizSession)
	if !ok {
		// The id belongs to a flashcard session.
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// applyPointDelta reconciles one graded answer into the source word's
// mastery points. Failures are logged and swallowed: the session has
// already advanced and the caller still gets a success response.
func (e *QuizEngine) applyPointDelta(
	ctx context.Context,
	log *slog.Logger,
	wordID uuid.UUID,
	correct bool,
) {
	delta := 1
	if !correct {
		delta = -1
	}

	if err := e.words.ApplyPointDelta(ctx, wordID, delta); err != nil {
		log.Warn("mastery point update failed",
			slog.String("word_id", wordID.String()),
			slog.Int("delta", delta),
			slog.String("error", redact.Error(err)))
	}
}

// answersMatch compares a submitted answer to the correct one,
// case-insensitively and ignoring surrounding whitespace.
func answersMatch(submitted, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), correct)
}
