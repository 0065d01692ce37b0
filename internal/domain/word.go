package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Word-specific validation errors
var (
	// ErrWordIDEmpty is returned when a word ID is empty or nil.
	ErrWordIDEmpty = errors.New("word ID cannot be empty")

	// ErrWordTextEmpty is returned when a word's text is empty.
	ErrWordTextEmpty = errors.New("word text cannot be empty")

	// ErrWordTranslationEmpty is returned when a word's translation is empty.
	ErrWordTranslationEmpty = errors.New("word translation cannot be empty")

	// ErrWordSetIDEmpty is returned when a word set ID is empty or nil.
	ErrWordSetIDEmpty = errors.New("word set ID cannot be empty")

	// ErrWordSetOwnerEmpty is returned when a word set's owner ID is empty or nil.
	ErrWordSetOwnerEmpty = errors.New("word set owner ID cannot be empty")

	// ErrWordSetTitleEmpty is returned when a word set's title is empty.
	ErrWordSetTitleEmpty = errors.New("word set title cannot be empty")
)

// Word represents a single vocabulary entry in a word set: a word in one
// language and its translation in another. MasteryPoints is the accumulated
// learning score adjusted after every answered flashcard or quiz question.
type Word struct {
	ID            uuid.UUID `json:"id"`
	WordSetID     uuid.UUID `json:"word_set_id"`
	Text          string    `json:"text"`
	Translation   string    `json:"translation"`
	MasteryPoints int       `json:"mastery_points"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewWord creates a new Word belonging to the given word set.
// It generates a new UUID for the word ID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewWord(wordSetID uuid.UUID, text, translation string) (*Word, error) {
	word := &Word{
		ID:          uuid.New(),
		WordSetID:   wordSetID,
		Text:        strings.TrimSpace(text),
		Translation: strings.TrimSpace(translation),
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := word.Validate(); err != nil {
		return nil, err
	}

	return word, nil
}

// Validate checks if the Word has valid data.
func (w *Word) Validate() error {
	if w.ID == uuid.Nil {
		return ErrWordIDEmpty
	}

	if w.WordSetID == uuid.Nil {
		return ErrWordSetIDEmpty
	}

	if w.Text == "" {
		return ErrWordTextEmpty
	}

	if w.Translation == "" {
		return ErrWordTranslationEmpty
	}

	return nil
}

// WordSet represents an ordered collection of word/translation pairs
// owned by a single user.
type WordSet struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewWordSet creates a new WordSet with the given owner and title.
// Returns an error if validation fails.
func NewWordSet(ownerID uuid.UUID, title string) (*WordSet, error) {
	set := &WordSet{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     strings.TrimSpace(title),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}

	return set, nil
}

// Validate checks if the WordSet has valid data.
func (s *WordSet) Validate() error {
	if s.ID == uuid.Nil {
		return ErrWordSetIDEmpty
	}

	if s.OwnerID == uuid.Nil {
		return ErrWordSetOwnerEmpty
	}

	if s.Title == "" {
		return ErrWordSetTitleEmpty
	}

	return nil
}
