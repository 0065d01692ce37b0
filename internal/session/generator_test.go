package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SzymonBartkowiak43/quizzzlet/internal/domain"
)

func TestGenerator_Question_OptionsContainCorrectAnswerOnce(t *testing.T) {
	rng := NewRandSource(42)
	gen := NewGenerator(rng)

	_, words := testWordSet("animals", [][2]string{
		{"cat", "kot"},
		{"dog", "pies"},
		{"bird", "ptak"},
		{"fish", "ryba"},
		{"horse", "koń"},
	})

	for _, target := range words {
		q := gen.Question(target, words)

		assert.Equal(t, target.ID, q.SourceWordID)
		require.Len(t, q.Options, maxDistractors+1,
			"a pool of 5 distinct words must yield 4 options")

		occurrences := 0
		seen := make(map[string]int)
		for _, opt := range q.Options {
			seen[opt]++
			if opt == q.CorrectAnswer {
				occurrences++
			}
		}
		assert.Equal(t, 1, occurrences, "correct answer must appear exactly once")
		for opt, count := range seen {
			assert.Equal(t, 1, count, "option %q duplicated", opt)
		}
	}
}

func TestGenerator_Question_DirectionConsistency(t *testing.T) {
	rng := NewRandSource(7)
	gen := NewGenerator(rng)

	_, words := testWordSet("animals", [][2]string{
		{"cat", "kot"},
		{"dog", "pies"},
		{"bird", "ptak"},
		{"fish", "ryba"},
	})

	byText := make(map[string]domain.Word)
	byTranslation := make(map[string]domain.Word)
	for _, w := range words {
		byText[w.Text] = w
		byTranslation[w.Translation] = w
	}

	// Run enough questions to exercise both directions.
	for i := 0; i < 50; i++ {
		target := words[i%len(words)]
		q := gen.Question(target, words)

		switch q.Direction {
		case domain.DirectionTextToTranslation:
			assert.Equal(t, target.Text, q.Prompt)
			assert.Equal(t, target.Translation, q.CorrectAnswer)
			for _, opt := range q.Options {
				_, ok := byTranslation[opt]
				assert.True(t, ok, "option %q is not a translation from the pool", opt)
			}
		case domain.DirectionTranslationToText:
			assert.Equal(t, target.Translation, q.Prompt)
			assert.Equal(t, target.Text, q.CorrectAnswer)
			for _, opt := range q.Options {
				_, ok := byText[opt]
				assert.True(t, ok, "option %q is not a text from the pool", opt)
			}
		default:
			t.Fatalf("unexpected direction %q", q.Direction)
		}
	}
}

func TestGenerator_Question_SmallPoolShrinksOptions(t *testing.T) {
	rng := NewRandSource(3)
	gen := NewGenerator(rng)

	// Two words: one distractor available, so two options in total.
	_, words := testWordSet("tiny", [][2]string{
		{"yes", "tak"},
		{"no", "nie"},
	})

	q := gen.Question(words[0], words)
	assert.Len(t, q.Options, 2)
	assert.Contains(t, q.Options, q.CorrectAnswer)
}

func TestGenerator_Question_SingleWordPool(t *testing.T) {
	rng := NewRandSource(3)
	gen := NewGenerator(rng)

	_, words := testWordSet("solo", [][2]string{{"hello", "cześć"}})

	q := gen.Question(words[0], words)
	require.Len(t, q.Options, 1)
	assert.Equal(t, q.CorrectAnswer, q.Options[0])
}

func TestGenerator_Question_DuplicateValuesDeduplicated(t *testing.T) {
	rng := NewRandSource(11)
	gen := NewGenerator(rng)

	// Two distinct words sharing the same translation as the target. Those
	// candidates match the correct answer and must never appear as
	// distractors, and the duplicated third translation collapses into one
	// option.
	_, words := testWordSet("dupes", [][2]string{
		{"car", "auto"},
		{"automobile", "auto"},
		{"bus", "autobus"},
		{"coach", "autobus"},
	})
	target := words[0]

	for i := 0; i < 20; i++ {
		q := gen.Question(target, words)

		seen := make(map[string]struct{})
		for _, opt := range q.Options {
			_, dup := seen[opt]
			assert.False(t, dup, "option %q duplicated", opt)
			seen[opt] = struct{}{}
		}

		if q.Direction == domain.DirectionTextToTranslation {
			// Correct answer "auto" plus the single distinct distractor
			// "autobus".
			assert.Len(t, q.Options, 2)
		}
	}
}

func TestGenerator_Question_DeterministicWithSeed(t *testing.T) {
	_, words := testWordSet("animals", [][2]string{
		{"cat", "kot"},
		{"dog", "pies"},
		{"bird", "ptak"},
		{"fish", "ryba"},
		{"horse", "koń"},
	})

	first := NewGenerator(NewRandSource(1234)).Question(words[0], words)
	second := NewGenerator(NewRandSource(1234)).Question(words[0], words)

	assert.Equal(t, first, second, "same seed must produce the same question")
}

func TestNewGenerator_NilRngPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewGenerator(nil)
	})
}

func TestRandSource_Intn(t *testing.T) {
	rng := NewRandSource(99)
	for i := 0; i < 100; i++ {
		v := rng.Intn(10)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 10)
	}
}
