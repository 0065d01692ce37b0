// Package service contains the orchestration layer between the HTTP
// handlers and the session engines and stores.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SzymonBartkowiak43/quizzzlet/internal/domain"
	"github.com/SzymonBartkowiak43/quizzzlet/internal/platform/logger"
	"github.com/SzymonBartkowiak43/quizzzlet/internal/session"
	"github.com/SzymonBartkowiak43/quizzzlet/internal/store"
)

// ErrWordSetNotOwned indicates that the caller does not own the word set a
// session was requested for.
var ErrWordSetNotOwned = errors.New("unauthorized access: word set not owned by user")

// SessionFacade is the single entry point around both session engines. It
// resolves word sets, verifies ownership and delegates to the appropriate
// engine, translating collaborator errors without renaming their semantics.
type SessionFacade struct {
	wordStore  store.WordStore
	flashcards *session.FlashcardEngine
	quiz       *session.QuizEngine
	logger     *slog.Logger
}

// NewSessionFacade creates a SessionFacade. All dependencies are required
// except logger, which falls back to the default logger.
func NewSessionFacade(
	wordStore store.WordStore,
	flashcards *session.FlashcardEngine,
	quiz *session.QuizEngine,
	logger *slog.Logger,
) *SessionFacade {
	if wordStore == nil {
		panic("wordStore cannot be nil for SessionFacade")
	}
	if flashcards == nil {
		panic("flashcards cannot be nil for SessionFacade")
	}
	if quiz == nil {
		panic("quiz cannot be nil for SessionFacade")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionFacade{
		wordStore:  wordStore,
		flashcards: flashcards,
		quiz:       quiz,
		logger:     logger.With(slog.String("component", "session_facade")),
	}
}

// StartFlashcards verifies that userID owns the word set, fetches its words
// and starts a flashcard session over them.
func (f *SessionFacade) StartFlashcards(
	ctx context.Context,
	userID, wordSetID uuid.UUID,
) (*session.FlashcardView, error) {
	set, words, err := f.authorizedWords(ctx, userID, wordSetID)
	if err != nil {
		return nil, err
	}

	return f.flashcards.Start(ctx, set, words)
}

// AnswerFlashcard grades the current card of the session.
func (f *SessionFacade) AnswerFlashcard(
	ctx context.Context,
	sessionID string,
	isCorrect bool,
) (*session.FlashcardView, error) {
	return f.flashcards.Answer(ctx, sessionID, isCorrect)
}

// FlashcardStatus returns the session view without mutation.
func (f *SessionFacade) FlashcardStatus(
	ctx context.Context,
	sessionID string,
) (*session.FlashcardView, error) {
	return f.flashcards.Status(ctx, sessionID)
}

// EndFlashcards tears the session down and returns its summary.
func (f *SessionFacade) EndFlashcards(
	ctx context.Context,
	sessionID string,
) (*session.Summary, error) {
	return f.flashcards.End(ctx, sessionID)
}

// StartQuiz verifies that userID owns the word set, fetches its words and
// starts a quiz session with questionCount questions (zero or an
// out-of-range count means all words).
func (f *SessionFacade) StartQuiz(
	ctx context.Context,
	userID, wordSetID uuid.UUID,
	questionCount int,
) (*session.QuizView, error) {
	set, words, err := f.authorizedWords(ctx, userID, wordSetID)
	if err != nil {
		return nil, err
	}

	return f.quiz.Start(ctx, set, words, questionCount)
}

// AnswerQuiz grades a submitted answer against the current question.
func (f *SessionFacade) AnswerQuiz(
	ctx context.Context,
	sessionID string,
	submitted string,
) (*session.QuizView, error) {
	return f.quiz.Answer(ctx, sessionID, submitted)
}

// QuizStatus returns the session view without mutation.
func (f *SessionFacade) QuizStatus(
	ctx context.Context,
	sessionID string,
) (*session.QuizView, error) {
	return f.quiz.Status(ctx, sessionID)
}

// EndQuiz tears the session down and returns its summary.
func (f *SessionFacade) EndQuiz(ctx context.Context, sessionID string) (*session.Summary, error) {
	return f.quiz.End(ctx, sessionID)
}

// authorizedWords resolves the word set, checks that userID owns it and
// returns the set together with its words. The ownership check runs before
// the word fetch so a forbidden caller learns nothing about the set's
// contents.
func (f *SessionFacade) authorizedWords(
	ctx context.Context,
	userID, wordSetID uuid.UUID,
) (*domain.WordSet, []domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, f.logger)

	set, err := f.wordStore.GetWordSet(ctx, wordSetID)
	if err != nil {
		if errors.Is(err, store.ErrWordSetNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to resolve word set: %w", err)
	}

	if set.OwnerID != userID {
		log.Warn("word set ownership check failed",
			slog.String("user_id", userID.String()),
			slog.String("word_set_id", wordSetID.String()))
		return nil, nil, ErrWordSetNotOwned
	}

	words, err := f.wordStore.WordsOf(ctx, wordSetID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch words: %w", err)
	}

	return set, words, nil
}
