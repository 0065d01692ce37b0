package session

import (
	"math/rand"
	"sync"

	"github.com/SzymonBartkowiak43/quizzzlet/internal/domain"
)

// maxDistractors is the number of wrong options added to a quiz question.
const maxDistractors = 3

// RandSource wraps a seedable math/rand source behind a mutex, since
// rand.Rand is not safe for concurrent use. One shared source drives all
// shuffling and distractor selection; tests seed it for determinism.
type RandSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandSource returns a source seeded with seed.
func NewRandSource(seed int64) *RandSource {
	return &RandSource{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform random int in [0, n).
func (r *RandSource) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

// Shuffle pseudo-randomizes the order of n elements via swap.
func (r *RandSource) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng.Shuffle(n, swap)
}

// Generator builds multiple-choice questions for quiz sessions. It has no
// dependencies beyond the injected random source and cannot fail on a
// non-empty pool.
type Generator struct {
	rng *RandSource
}

// NewGenerator creates a Generator drawing randomness from rng.
func NewGenerator(rng *RandSource) *Generator {
	if rng == nil {
		panic("rng cannot be nil for Generator")
	}
	return &Generator{rng: rng}
}

// Question builds one question for target. The pool is the full word list
// of the set, including target; distractors come from the other words'
// fields matching the chosen direction. If the pool has fewer than four
// distinct answer strings the question legitimately carries fewer options
// rather than padding with fabricated values.
func (g *Generator) Question(target domain.Word, pool []domain.Word) domain.QuizQuestion {
	direction := domain.DirectionTextToTranslation
	if g.rng.Intn(2) == 1 {
		direction = domain.DirectionTranslationToText
	}

	prompt := target.Text
	correct := target.Translation
	if direction == domain.DirectionTranslationToText {
		prompt = target.Translation
		correct = target.Text
	}

	// Candidate distractors: the matching field of every other word,
	// excluding values equal to the correct answer so a question can never
	// show the right answer twice.
	candidates := make([]string, 0, len(pool))
	for _, w := range pool {
		if w.ID == target.ID {
			continue
		}
		value := w.Translation
		if direction == domain.DirectionTranslationToText {
			value = w.Text
		}
		if value == correct {
			continue
		}
		candidates = append(candidates, value)
	}

	g.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	options := make([]string, 0, maxDistractors+1)
	options = append(options, correct)
	seen := map[string]struct{}{correct: {}}
	for _, c := range candidates {
		if len(options) > maxDistractors {
			break
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		options = append(options, c)
	}

	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return domain.QuizQuestion{
		SourceWordID:  target.ID,
		Prompt:        prompt,
		CorrectAnswer: correct,
		Options:       options,
		Direction:     direction,
	}
}
