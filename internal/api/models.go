// Package api provides HTTP handlers for the API.
package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/SzymonBartkowiak43/quizzzlet/internal/domain"
	"github.com/SzymonBartkowiak43/quizzzlet/internal/session"
)

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents the response for successful authentication.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
}

// StartFlashcardsRequest represents the request body for starting a
// flashcard session.
type StartFlashcardsRequest struct {
	WordSetID string `json:"word_set_id" validate:"required,uuid"`
}

// AnswerFlashcardRequest represents the request body for grading the
// current flashcard. IsCorrect is a pointer so "false" and "missing" are
// distinguishable during validation.
type AnswerFlashcardRequest struct {
	IsCorrect *bool `json:"is_correct" validate:"required"`
}

// StartQuizRequest represents the request body for starting a quiz session.
// A QuestionCount of zero (or one at least as large as the word set) quizzes
// every word.
type StartQuizRequest struct {
	WordSetID     string `json:"word_set_id"    validate:"required,uuid"`
	QuestionCount int    `json:"question_count" validate:"gte=0"`
}

// AnswerQuizRequest represents the request body for answering the current
// quiz question.
type AnswerQuizRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// CardResponse is the current flashcard shown to the user.
type CardResponse struct {
	WordID      uuid.UUID `json:"word_id"`
	Text        string    `json:"text"`
	Translation string    `json:"translation"`
}

// FlashcardSessionResponse is the state view returned by the flashcard
// start/answer/status operations. CurrentCard is omitted once the session
// is completed.
type FlashcardSessionResponse struct {
	SessionID    string        `json:"session_id"`
	WordSetID    uuid.UUID     `json:"word_set_id"`
	WordSetTitle string        `json:"word_set_title"`
	TotalWords   int           `json:"total_words"`
	Cursor       int           `json:"cursor"`
	Score        int           `json:"score"`
	IsCompleted  bool          `json:"is_completed"`
	CurrentCard  *CardResponse `json:"current_card,omitempty"`
}

// QuestionResponse is the current quiz question shown to the user. The
// correct answer never appears outside Options.
type QuestionResponse struct {
	Prompt    string   `json:"prompt"`
	Options   []string `json:"options"`
	Direction string   `json:"direction"`
}

// QuizSessionResponse is the state view returned by the quiz
// start/answer/status operations. CurrentQuestion is omitted once the
// session is completed.
type QuizSessionResponse struct {
	SessionID       string            `json:"session_id"`
	WordSetID       uuid.UUID         `json:"word_set_id"`
	WordSetTitle    string            `json:"word_set_title"`
	TotalQuestions  int               `json:"total_questions"`
	Cursor          int               `json:"cursor"`
	Score           int               `json:"score"`
	IsCompleted     bool              `json:"is_completed"`
	CurrentQuestion *QuestionResponse `json:"current_question,omitempty"`
}

// IncorrectItemResponse is one missed word in a session summary.
type IncorrectItemResponse struct {
	WordID      uuid.UUID `json:"word_id"`
	Text        string    `json:"text"`
	Translation string    `json:"translation"`
}

// SummaryResponse is the one-time end-of-session report.
type SummaryResponse struct {
	SessionID      string                  `json:"session_id"`
	SessionType    string                  `json:"session_type"`
	WordSetID      uuid.UUID               `json:"word_set_id"`
	WordSetTitle   string                  `json:"word_set_title"`
	TotalItems     int                     `json:"total_items"`
	Score          int                     `json:"score"`
	IncorrectCount int                     `json:"incorrect_count"`
	Accuracy       float64                 `json:"accuracy"`
	IncorrectItems []IncorrectItemResponse `json:"incorrect_items"`
	CompletedAt    time.Time               `json:"completed_at"`
}

func flashcardViewToResponse(v *session.FlashcardView) FlashcardSessionResponse {
	resp := FlashcardSessionResponse{
		SessionID:    v.SessionID,
		WordSetID:    v.WordSetID,
		WordSetTitle: v.WordSetTitle,
		TotalWords:   v.TotalWords,
		Cursor:       v.Cursor,
		Score:        v.Score,
		IsCompleted:  v.Completed,
	}
	if v.CurrentWord != nil {
		resp.CurrentCard = &CardResponse{
			WordID:      v.CurrentWord.ID,
			Text:        v.CurrentWord.Text,
			Translation: v.CurrentWord.Translation,
		}
	}
	return resp
}

func quizViewToResponse(v *session.QuizView) QuizSessionResponse {
	resp := QuizSessionResponse{
		SessionID:      v.SessionID,
		WordSetID:      v.WordSetID,
		WordSetTitle:   v.WordSetTitle,
		TotalQuestions: v.TotalQuestions,
		Cursor:         v.Cursor,
		Score:          v.Score,
		IsCompleted:    v.Completed,
	}
	if v.CurrentQuestion != nil {
		resp.CurrentQuestion = &QuestionResponse{
			Prompt:    v.CurrentQuestion.Prompt,
			Options:   v.CurrentQuestion.Options,
			Direction: string(v.CurrentQuestion.Direction),
		}
	}
	return resp
}

func summaryToResponse(s *session.Summary) SummaryResponse {
	items := make([]IncorrectItemResponse, 0, len(s.IncorrectWords))
	for _, w := range s.IncorrectWords {
		items = append(items, wordToIncorrectItem(w))
	}

	return SummaryResponse{
		SessionID:      s.SessionID,
		SessionType:    s.SessionType,
		WordSetID:      s.WordSetID,
		WordSetTitle:   s.WordSetTitle,
		TotalItems:     s.TotalItems,
		Score:          s.Score,
		IncorrectCount: s.IncorrectCount,
		Accuracy:       s.Accuracy,
		IncorrectItems: items,
		CompletedAt:    s.CompletedAt,
	}
}

func wordToIncorrectItem(w domain.Word) IncorrectItemResponse {
	return IncorrectItemResponse{
		WordID:      w.ID,
		Text:        w.Text,
		Translation: w.Translation,
	}
}
