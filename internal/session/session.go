// Package session implements the learning-session engine: creation, advance
// and teardown of per-user flashcard and quiz runs, quiz question generation,
// score tracking and reconciliation of answers into word mastery points.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SzymonBartkowiak43/quizzzlet/internal/domain"
)

// Session type labels used in end-of-session summaries.
const (
	TypeFlashcard = "flashcard"
	TypeQuiz      = "quiz"
)

// Session is the interface shared by both session variants. The concrete
// types are FlashcardSession and QuizSession; engine code resolves the
// variant with a type assertion rather than runtime reflection.
type Session interface {
	// ID returns the opaque session identifier.
	ID() string

	// Cursor returns the index of the next unanswered item.
	Cursor() int

	// Score returns the count of correct answers so far.
	Score() int

	// Len returns the fixed number of items in the session.
	Len() int

	// Completed reports whether every item has been answered.
	Completed() bool

	// StartedAt returns the session creation time.
	StartedAt() time.Time

	// LastActive returns the time of the most recent operation on the
	// session. The store's reaper sweeps sessions idle past the TTL.
	LastActive() time.Time

	// Summarize builds the one-time end-of-session summary.
	Summarize(completedAt time.Time) Summary
}

// Summary is the end-of-session report produced exactly once when a session
// is ended. IncorrectWords always contains the underlying words, for quizzes
// as well as flashcards.
type Summary struct {
	SessionID      string        `json:"session_id"`
	SessionType    string        `json:"session_type"`
	WordSetID      uuid.UUID     `json:"word_set_id"`
	WordSetTitle   string        `json:"word_set_title"`
	TotalItems     int           `json:"total_items"`
	Score          int           `json:"score"`
	IncorrectCount int           `json:"incorrect_count"`
	Accuracy       float64       `json:"accuracy"`
	IncorrectWords []domain.Word `json:"incorrect_words"`
	CompletedAt    time.Time     `json:"completed_at"`
}

// sessionBase holds the state common to both session variants. The mutex
// serializes all mutations so that concurrent answers on the same session
// apply as a strict sequence and score+incorrect == cursor always holds.
type sessionBase struct {
	mu           sync.Mutex
	id           string
	wordSetID    uuid.UUID
	wordSetTitle string
	cursor       int
	score        int
	incorrect    []domain.Word
	startedAt    time.Time
	lastActive   time.Time
}

func newSessionBase(id string, set *domain.WordSet) sessionBase {
	now := time.Now().UTC()
	return sessionBase{
		id:           id,
		wordSetID:    set.ID,
		wordSetTitle: set.Title,
		startedAt:    now,
		lastActive:   now,
	}
}

func (s *sessionBase) ID() string { return s.id }

func (s *sessionBase) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

func (s *sessionBase) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

func (s *sessionBase) StartedAt() time.Time { return s.startedAt }

func (s *sessionBase) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// touch records activity; callers must hold s.mu.
func (s *sessionBase) touch() {
	s.lastActive = time.Now().UTC()
}

// summarize builds a Summary from the base fields; callers must hold s.mu.
func (s *sessionBase) summarize(sessionType string, total int, completedAt time.Time) Summary {
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(s.score) / float64(total) * 100
	}

	incorrect := make([]domain.Word, len(s.incorrect))
	copy(incorrect, s.incorrect)

	return Summary{
		SessionID:      s.id,
		SessionType:    sessionType,
		WordSetID:      s.wordSetID,
		WordSetTitle:   s.wordSetTitle,
		TotalItems:     total,
		Score:          s.score,
		IncorrectCount: total - s.score,
		Accuracy:       accuracy,
		IncorrectWords: incorrect,
		CompletedAt:    completedAt,
	}
}

// FlashcardSession is a live flashcard run over a shuffled copy of a word
// set's words.
type FlashcardSession struct {
	sessionBase
	words []domain.Word
}

var _ Session = (*FlashcardSession)(nil)

func newFlashcardSession(id string, set *domain.WordSet, words []domain.Word) *FlashcardSession {
	return &FlashcardSession{
		sessionBase: newSessionBase(id, set),
		words:       words,
	}
}

// Len returns the number of cards in the session.
func (s *FlashcardSession) Len() int { return len(s.words) }

// Completed reports whether every card has been answered.
func (s *FlashcardSession) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor >= len(s.words)
}

// Summarize builds the end-of-session summary.
func (s *FlashcardSession) Summarize(completedAt time.Time) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summarize(TypeFlashcard, len(s.words), completedAt)
}

// answer applies a single graded answer under the session lock. It returns
// the word that was just shown and the post-advance view. ok is false when
// the session is already completed and no state was changed.
func (s *FlashcardSession) answer(isCorrect bool) (answered domain.Word, view FlashcardView, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor >= len(s.words) {
		return domain.Word{}, FlashcardView{}, false
	}

	answered = s.words[s.cursor]
	if isCorrect {
		s.score++
	} else {
		s.incorrect = append(s.incorrect, answered)
	}
	s.cursor++
	s.touch()

	return answered, s.viewLocked(), true
}

// view returns a read-only snapshot of the session state.
func (s *FlashcardSession) view() FlashcardView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.viewLocked()
}

func (s *FlashcardSession) viewLocked() FlashcardView {
	v := FlashcardView{
		SessionID:    s.id,
		WordSetID:    s.wordSetID,
		WordSetTitle: s.wordSetTitle,
		TotalWords:   len(s.words),
		Cursor:       s.cursor,
		Score:        s.score,
		Completed:    s.cursor >= len(s.words),
	}
	if !v.Completed {
		current := s.words[s.cursor]
		v.CurrentWord = &current
	}
	return v
}

// QuizSession is a live multiple-choice run over questions generated at
// start time. sourceWords maps question source word ids back to the words
// so summaries can report the missed words themselves.
type QuizSession struct {
	sessionBase
	questions   []domain.QuizQuestion
	sourceWords map[uuid.UUID]domain.Word
}

var _ Session = (*QuizSession)(nil)

func newQuizSession(
	id string,
	set *domain.WordSet,
	questions []domain.QuizQuestion,
	pool []domain.Word,
) *QuizSession {
	sourceWords := make(map[uuid.UUID]domain.Word, len(pool))
	for _, w := range pool {
		sourceWords[w.ID] = w
	}
	return &QuizSession{
		sessionBase: newSessionBase(id, set),
		questions:   questions,
		sourceWords: sourceWords,
	}
}

// Len returns the number of questions in the session.
func (s *QuizSession) Len() int { return len(s.questions) }

// Completed reports whether every question has been answered.
func (s *QuizSession) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor >= len(s.questions)
}

// Summarize builds the end-of-session summary.
func (s *QuizSession) Summarize(completedAt time.Time) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summarize(TypeQuiz, len(s.questions), completedAt)
}

// answer grades submitted against the current question's correct answer
// under the session lock. Matching trims surrounding whitespace and ignores
// case. ok is false when the session is already completed.
func (s *QuizSession) answer(submitted string) (q domain.QuizQuestion, correct bool, view QuizView, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor >= len(s.questions) {
		return domain.QuizQuestion{}, false, QuizView{}, false
	}

	q = s.questions[s.cursor]
	correct = answersMatch(submitted, q.CorrectAnswer)
	if correct {
		s.score++
	} else if w, found := s.sourceWords[q.SourceWordID]; found {
		s.incorrect = append(s.incorrect, w)
	}
	s.cursor++
	s.touch()

	return q, correct, s.viewLocked(), true
}

// view returns a read-only snapshot of the session state.
func (s *QuizSession) view() QuizView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.viewLocked()
}

func (s *QuizSession) viewLocked() QuizView {
	v := QuizView{
		SessionID:      s.id,
		WordSetID:      s.wordSetID,
		WordSetTitle:   s.wordSetTitle,
		TotalQuestions: len(s.questions),
		Cursor:         s.cursor,
		Score:          s.score,
		Completed:      s.cursor >= len(s.questions),
	}
	if !v.Completed {
		current := s.questions[s.cursor]
		v.CurrentQuestion = &current
	}
	return v
}

// FlashcardView is a point-in-time snapshot of a flashcard session, shaped
// for the API layer. CurrentWord is nil once the session is completed.
type FlashcardView struct {
	SessionID    string
	WordSetID    uuid.UUID
	WordSetTitle string
	TotalWords   int
	Cursor       int
	Score        int
	Completed    bool
	CurrentWord  *domain.Word
}

// QuizView is a point-in-time snapshot of a quiz session, shaped for the
// API layer. CurrentQuestion is nil once the session is completed.
type QuizView struct {
	SessionID       string
	WordSetID       uuid.UUID
	WordSetTitle    string
	TotalQuestions  int
	Cursor          int
	Score           int
	Completed       bool
	CurrentQuestion *domain.QuizQuestion
}
