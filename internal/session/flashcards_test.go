package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlashcardEngine(t *testing.T, seed int64) (*FlashcardEngine, *Store, *mockPointApplier) {
	t.Helper()
	store := NewStore(30*time.Minute, setupTestLogger())
	applier := newMockPointApplier()
	engine := NewFlashcardEngine(store, applier, NewRandSource(seed), setupTestLogger())
	return engine, store, applier
}

func TestFlashcardEngine_FullRun(t *testing.T) {
	ctx := context.Background()
	engine, store, applier := newTestFlashcardEngine(t, 42)

	set, words := testWordSet("greetings", [][2]string{
		{"hello", "cześć"},
		{"goodbye", "do widzenia"},
		{"thanks", "dziękuję"},
	})

	view, err := engine.Start(ctx, set, words)
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, 3, view.TotalWords)
	assert.Equal(t, 0, view.Cursor)
	assert.Equal(t, 0, view.Score)
	assert.False(t, view.Completed)
	require.NotNil(t, view.CurrentWord)
	assert.Equal(t, 1, store.Len())

	sessionID := view.SessionID

	// First two cards correct, third incorrect.
	view, err = engine.Answer(ctx, sessionID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Cursor)
	assert.Equal(t, 1, view.Score)

	view, err = engine.Answer(ctx, sessionID, true)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Cursor)
	assert.Equal(t, 2, view.Score)

	view, err = engine.Answer(ctx, sessionID, false)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Cursor)
	assert.Equal(t, 2, view.Score)
	assert.True(t, view.Completed)
	assert.Nil(t, view.CurrentWord, "completed view must carry no current word")

	assert.Equal(t, 3, applier.callCount())

	// A further answer on the exhausted session fails as not found.
	_, err = engine.Answer(ctx, sessionID, true)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	summary, err := engine.End(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, TypeFlashcard, summary.SessionType)
	assert.Equal(t, set.ID, summary.WordSetID)
	assert.Equal(t, set.Title, summary.WordSetTitle)
	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 2, summary.Score)
	assert.Equal(t, 1, summary.IncorrectCount)
	assert.InDelta(t, 66.67, summary.Accuracy, 0.01)
	require.Len(t, summary.IncorrectWords, 1)
	assert.Equal(t, 0, store.Len())
}

func TestFlashcardEngine_ScorePlusIncorrectEqualsCursor(t *testing.T) {
	ctx := context.Background()
	engine, _, _ := newTestFlashcardEngine(t, 7)

	set, words := testWordSet("numbers", [][2]string{
		{"one", "jeden"},
		{"two", "dwa"},
		{"three", "trzy"},
		{"four", "cztery"},
		{"five", "pięć"},
	})

	view, err := engine.Start(ctx, set, words)
	require.NoError(t, err)

	answers := []bool{true, false, false, true, false}
	for i, correct := range answers {
		view, err = engine.Answer(ctx, view.SessionID, correct)
		require.NoError(t, err)
		assert.Equal(t, i+1, view.Cursor)
	}

	summary, err := engine.End(ctx, view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, summary.TotalItems, summary.Score+summary.IncorrectCount)
	assert.Equal(t, 2, summary.Score)
	assert.Len(t, summary.IncorrectWords, 3)
}

func TestFlashcardEngine_StartShufflesPrivateCopy(t *testing.T) {
	ctx := context.Background()
	engine, store, _ := newTestFlashcardEngine(t, 99)

	set, words := testWordSet("letters", [][2]string{
		{"a", "1"}, {"b", "2"}, {"c", "3"}, {"d", "4"},
		{"e", "5"}, {"f", "6"}, {"g", "7"}, {"h", "8"},
	})
	originalFirst := words[0]

	view, err := engine.Start(ctx, set, words)
	require.NoError(t, err)

	// The caller's slice is untouched by the session's shuffle.
	assert.Equal(t, originalFirst, words[0])

	raw, ok := store.Get(view.SessionID)
	require.True(t, ok)
	sess := raw.(*FlashcardSession)
	assert.ElementsMatch(t, words, sess.words)
}

func TestFlashcardEngine_StartEmptyWordSet(t *testing.T) {
	ctx := context.Background()
	engine, store, _ := newTestFlashcardEngine(t, 1)

	set, _ := testWordSet("empty", nil)

	_, err := engine.Start(ctx, set, nil)
	assert.ErrorIs(t, err, ErrEmptyWordSet)
	assert.Equal(t, 0, store.Len(), "failed start must not leave a session behind")

	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "start_flashcards", svcErr.Operation)
}

func TestFlashcardEngine_PointDeltas(t *testing.T) {
	ctx := context.Background()
	engine, store, applier := newTestFlashcardEngine(t, 5)

	set, words := testWordSet("pair", [][2]string{
		{"sun", "słońce"},
		{"moon", "księżyc"},
	})

	view, err := engine.Start(ctx, set, words)
	require.NoError(t, err)

	raw, ok := store.Get(view.SessionID)
	require.True(t, ok)
	order := raw.(*FlashcardSession).words

	_, err = engine.Answer(ctx, view.SessionID, true)
	require.NoError(t, err)
	_, err = engine.Answer(ctx, view.SessionID, false)
	require.NoError(t, err)

	delta, found := applier.deltaFor(order[0].ID)
	require.True(t, found)
	assert.Equal(t, 1, delta, "correct answer earns +1")

	delta, found = applier.deltaFor(order[1].ID)
	require.True(t, found)
	assert.Equal(t, -1, delta, "incorrect answer costs -1")
}

func TestFlashcardEngine_PointDeltaFailureDoesNotBlockProgress(t *testing.T) {
	ctx := context.Background()
	engine, _, applier := newTestFlashcardEngine(t, 5)
	applier.failWith = errors.New("connection refused")

	set, words := testWordSet("pair", [][2]string{
		{"sun", "słońce"},
		{"moon", "księżyc"},
	})

	view, err := engine.Start(ctx, set, words)
	require.NoError(t, err)

	view, err = engine.Answer(ctx, view.SessionID, true)
	require.NoError(t, err, "a failed point update must not fail the answer")
	assert.Equal(t, 1, view.Cursor)
	assert.Equal(t, 1, view.Score)
}

func TestFlashcardEngine_StatusDoesNotAdvance(t *testing.T) {
	ctx := context.Background()
	engine, _, applier := newTestFlashcardEngine(t, 2)

	set, words := testWordSet("pair", [][2]string{
		{"sun", "słońce"},
		{"moon", "księżyc"},
	})

	start, err := engine.Start(ctx, set, words)
	require.NoError(t, err)

	status, err := engine.Status(ctx, start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 0, status.Cursor)
	assert.Equal(t, 0, status.Score)
	require.NotNil(t, status.CurrentWord)
	assert.Equal(t, start.CurrentWord.ID, status.CurrentWord.ID)
	assert.Equal(t, 0, applier.callCount())
}

func TestFlashcardEngine_UnknownSession(t *testing.T) {
	ctx := context.Background()
	engine, _, _ := newTestFlashcardEngine(t, 2)

	_, err := engine.Answer(ctx, "does-not-exist", true)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = engine.Status(ctx, "does-not-exist")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = engine.End(ctx, "does-not-exist")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestFlashcardEngine_EndTwiceFails(t *testing.T) {
	ctx := context.Background()
	engine, _, _ := newTestFlashcardEngine(t, 2)

	set, words := testWordSet("pair", [][2]string{
		{"sun", "słońce"},
		{"moon", "księżyc"},
	})

	view, err := engine.Start(ctx, set, words)
	require.NoError(t, err)

	_, err = engine.End(ctx, view.SessionID)
	require.NoError(t, err)

	_, err = engine.End(ctx, view.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestFlashcardEngine_EndMidSession(t *testing.T) {
	ctx := context.Background()
	engine, _, _ := newTestFlashcardEngine(t, 2)

	set, words := testWordSet("trio", [][2]string{
		{"one", "jeden"},
		{"two", "dwa"},
		{"three", "trzy"},
	})

	view, err := engine.Start(ctx, set, words)
	require.NoError(t, err)

	_, err = engine.Answer(ctx, view.SessionID, false)
	require.NoError(t, err)

	// Ending early summarizes the partial run: every remaining word counts
	// against accuracy.
	summary, err := engine.End(ctx, view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 0, summary.Score)
	assert.Equal(t, 3, summary.IncorrectCount)
	assert.Equal(t, 0.0, summary.Accuracy)
}

func TestFlashcardEngine_RejectsQuizSessionID(t *testing.T) {
	ctx := context.Background()
	store := NewStore(30*time.Minute, setupTestLogger())
	applier := newMockPointApplier()
	rng := NewRandSource(1)
	flashcards := NewFlashcardEngine(store, applier, rng, setupTestLogger())
	quiz := NewQuizEngine(store, applier, NewGenerator(rng), rng, setupTestLogger())

	set, words := testWordSet("mixed", [][2]string{
		{"cat", "kot"},
		{"dog", "pies"},
	})

	quizView, err := quiz.Start(ctx, set, words, 0)
	require.NoError(t, err)

	_, err = flashcards.Answer(ctx, quizView.SessionID, true)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = flashcards.End(ctx, quizView.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// The quiz session survives the cross-variant attempts.
	_, err = quiz.Status(ctx, quizView.SessionID)
	assert.NoError(t, err)
}
