package domain

import "github.com/google/uuid"

// QuestionDirection selects which side of a word pair is shown as the prompt.
type QuestionDirection string

const (
	// DirectionTextToTranslation shows the word and asks for its translation.
	DirectionTextToTranslation QuestionDirection = "text_to_translation"

	// DirectionTranslationToText shows the translation and asks for the word.
	DirectionTranslationToText QuestionDirection = "translation_to_text"
)

// QuizQuestion is a single multiple-choice question generated from a word.
// Questions are materialized once when a quiz session starts and are
// immutable afterwards.
type QuizQuestion struct {
	SourceWordID  uuid.UUID         `json:"source_word_id"`
	Prompt        string            `json:"prompt"`
	CorrectAnswer string            `json:"-"` // Never sent to the client
	Options       []string          `json:"options"`
	Direction     QuestionDirection `json:"direction"`
}
