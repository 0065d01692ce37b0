package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SzymonBartkowiak43/quizzzlet/internal/api/shared"
	"github.com/SzymonBartkowiak43/quizzzlet/internal/domain"
	"github.com/SzymonBartkowiak43/quizzzlet/internal/service"
	"github.com/SzymonBartkowiak43/quizzzlet/internal/session"
	"github.com/SzymonBartkowiak43/quizzzlet/internal/store"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// fakeWordStore serves canned word sets and words for handler tests.
type fakeWordStore struct {
	sets  map[uuid.UUID]*domain.WordSet
	words map[uuid.UUID][]domain.Word
}

func newFakeWordStore() *fakeWordStore {
	return &fakeWordStore{
		sets:  make(map[uuid.UUID]*domain.WordSet),
		words: make(map[uuid.UUID][]domain.Word),
	}
}

func (f *fakeWordStore) GetWordSet(ctx context.Context, id uuid.UUID) (*domain.WordSet, error) {
	set, ok := f.sets[id]
	if !ok {
		return nil, store.ErrWordSetNotFound
	}
	return set, nil
}

func (f *fakeWordStore) WordsOf(ctx context.Context, wordSetID uuid.UUID) ([]domain.Word, error) {
	return f.words[wordSetID], nil
}

func (f *fakeWordStore) ApplyPointDelta(ctx context.Context, wordID uuid.UUID, delta int) error {
	return nil
}

func (f *fakeWordStore) addSet(ownerID uuid.UUID, title string, pairs [][2]string) *domain.WordSet {
	set := &domain.WordSet{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	f.sets[set.ID] = set

	words := make([]domain.Word, 0, len(pairs))
	for _, p := range pairs {
		words = append(words, domain.Word{
			ID:          uuid.New(),
			WordSetID:   set.ID,
			Text:        p[0],
			Translation: p[1],
			CreatedAt:   time.Now().UTC(),
			UpdatedAt:   time.Now().UTC(),
		})
	}
	f.words[set.ID] = words

	return set
}

type sessionTestEnv struct {
	server    *httptest.Server
	wordStore *fakeWordStore
	sessStore *session.Store
	userID    uuid.UUID
}

// setupSessionTestEnv wires a real facade behind the session routes, with a
// middleware standing in for authentication by injecting the test user id.
func setupSessionTestEnv(t *testing.T) *sessionTestEnv {
	t.Helper()

	logger := setupTestLogger()
	wordStore := newFakeWordStore()
	sessStore := session.NewStore(30*time.Minute, logger)
	rng := session.NewRandSource(42)
	flashcards := session.NewFlashcardEngine(sessStore, wordStore, rng, logger)
	quiz := session.NewQuizEngine(sessStore, wordStore, session.NewGenerator(rng), rng, logger)
	facade := service.NewSessionFacade(wordStore, flashcards, quiz, logger)
	handler := NewSessionHandler(facade, logger)

	userID := uuid.New()

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Post("/api/flashcards/sessions", handler.StartFlashcards)
	r.Post("/api/flashcards/sessions/{id}/answer", handler.AnswerFlashcard)
	r.Get("/api/flashcards/sessions/{id}", handler.GetFlashcardStatus)
	r.Delete("/api/flashcards/sessions/{id}", handler.EndFlashcards)
	r.Post("/api/quiz/sessions", handler.StartQuiz)
	r.Post("/api/quiz/sessions/{id}/answer", handler.AnswerQuiz)
	r.Get("/api/quiz/sessions/{id}", handler.GetQuizStatus)
	r.Delete("/api/quiz/sessions/{id}", handler.EndQuiz)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &sessionTestEnv{
		server:    server,
		wordStore: wordStore,
		sessStore: sessStore,
		userID:    userID,
	}
}

func (env *sessionTestEnv) do(t *testing.T, method, path string, body interface{}) *http.Response {
	return doJSON(t, env.server, method, path, body)
}

func doJSON(t *testing.T, server *httptest.Server, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestSessionHandler_FlashcardFlow(t *testing.T) {
	env := setupSessionTestEnv(t)
	set := env.wordStore.addSet(env.userID, "greetings", [][2]string{
		{"hello", "cześć"},
		{"goodbye", "do widzenia"},
	})

	resp := env.do(t, http.MethodPost, "/api/flashcards/sessions",
		StartFlashcardsRequest{WordSetID: set.ID.String()})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var started FlashcardSessionResponse
	decodeBody(t, resp, &started)
	assert.NotEmpty(t, started.SessionID)
	assert.Equal(t, set.ID, started.WordSetID)
	assert.Equal(t, "greetings", started.WordSetTitle)
	assert.Equal(t, 2, started.TotalWords)
	assert.False(t, started.IsCompleted)
	require.NotNil(t, started.CurrentCard)

	correct := true
	resp = env.do(t, http.MethodPost,
		fmt.Sprintf("/api/flashcards/sessions/%s/answer", started.SessionID),
		AnswerFlashcardRequest{IsCorrect: &correct})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var answered FlashcardSessionResponse
	decodeBody(t, resp, &answered)
	assert.Equal(t, 1, answered.Cursor)
	assert.Equal(t, 1, answered.Score)

	resp = env.do(t, http.MethodGet,
		fmt.Sprintf("/api/flashcards/sessions/%s", started.SessionID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status FlashcardSessionResponse
	decodeBody(t, resp, &status)
	assert.Equal(t, 1, status.Cursor)

	resp = env.do(t, http.MethodDelete,
		fmt.Sprintf("/api/flashcards/sessions/%s", started.SessionID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary SummaryResponse
	decodeBody(t, resp, &summary)
	assert.Equal(t, session.TypeFlashcard, summary.SessionType)
	assert.Equal(t, 2, summary.TotalItems)
	assert.Equal(t, 1, summary.Score)

	// The session is gone after ending it.
	resp = env.do(t, http.MethodGet,
		fmt.Sprintf("/api/flashcards/sessions/%s", started.SessionID), nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionHandler_QuizFlow(t *testing.T) {
	env := setupSessionTestEnv(t)
	set := env.wordStore.addSet(env.userID, "animals", [][2]string{
		{"cat", "kot"},
		{"dog", "pies"},
		{"bird", "ptak"},
	})

	resp := env.do(t, http.MethodPost, "/api/quiz/sessions",
		StartQuizRequest{WordSetID: set.ID.String(), QuestionCount: 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var started QuizSessionResponse
	decodeBody(t, resp, &started)
	assert.Equal(t, 2, started.TotalQuestions)
	require.NotNil(t, started.CurrentQuestion)
	assert.NotEmpty(t, started.CurrentQuestion.Prompt)
	assert.NotEmpty(t, started.CurrentQuestion.Options)

	resp = env.do(t, http.MethodPost,
		fmt.Sprintf("/api/quiz/sessions/%s/answer", started.SessionID),
		AnswerQuizRequest{Answer: "definitely wrong"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var answered QuizSessionResponse
	decodeBody(t, resp, &answered)
	assert.Equal(t, 1, answered.Cursor)
	assert.Equal(t, 0, answered.Score)

	resp = env.do(t, http.MethodDelete,
		fmt.Sprintf("/api/quiz/sessions/%s", started.SessionID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary SummaryResponse
	decodeBody(t, resp, &summary)
	assert.Equal(t, session.TypeQuiz, summary.SessionType)
	assert.Equal(t, 2, summary.TotalItems)
	require.NotEmpty(t, summary.IncorrectItems)
}

func TestSessionHandler_QuizResponseNeverLeaksCorrectAnswer(t *testing.T) {
	env := setupSessionTestEnv(t)
	set := env.wordStore.addSet(env.userID, "animals", [][2]string{
		{"cat", "kot"},
		{"dog", "pies"},
	})

	resp := env.do(t, http.MethodPost, "/api/quiz/sessions",
		StartQuizRequest{WordSetID: set.ID.String()})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	defer func() { _ = resp.Body.Close() }()

	var raw map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))

	question, ok := raw["current_question"].(map[string]interface{})
	require.True(t, ok)
	_, leaked := question["correct_answer"]
	assert.False(t, leaked, "correct answer must only appear among the options")
}

func TestSessionHandler_StartFlashcards_WordSetNotOwned(t *testing.T) {
	env := setupSessionTestEnv(t)
	set := env.wordStore.addSet(uuid.New(), "not-mine", [][2]string{
		{"cat", "kot"},
	})

	resp := env.do(t, http.MethodPost, "/api/flashcards/sessions",
		StartFlashcardsRequest{WordSetID: set.ID.String()})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSessionHandler_StartFlashcards_WordSetNotFound(t *testing.T) {
	env := setupSessionTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/flashcards/sessions",
		StartFlashcardsRequest{WordSetID: uuid.New().String()})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionHandler_StartFlashcards_EmptyWordSet(t *testing.T) {
	env := setupSessionTestEnv(t)
	set := env.wordStore.addSet(env.userID, "empty", nil)

	resp := env.do(t, http.MethodPost, "/api/flashcards/sessions",
		StartFlashcardsRequest{WordSetID: set.ID.String()})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, env.sessStore.Len())
}

func TestSessionHandler_StartFlashcards_InvalidBody(t *testing.T) {
	env := setupSessionTestEnv(t)

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing word set id", map[string]string{}},
		{"malformed uuid", map[string]string{"word_set_id": "not-a-uuid"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/api/flashcards/sessions", tt.body)
			_ = resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestSessionHandler_AnswerFlashcard_MissingIsCorrect(t *testing.T) {
	env := setupSessionTestEnv(t)
	set := env.wordStore.addSet(env.userID, "pair", [][2]string{
		{"sun", "słońce"},
	})

	resp := env.do(t, http.MethodPost, "/api/flashcards/sessions",
		StartFlashcardsRequest{WordSetID: set.ID.String()})
	var started FlashcardSessionResponse
	decodeBody(t, resp, &started)

	resp = env.do(t, http.MethodPost,
		fmt.Sprintf("/api/flashcards/sessions/%s/answer", started.SessionID),
		map[string]string{})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionHandler_UnknownSessionIs404(t *testing.T) {
	env := setupSessionTestEnv(t)
	correct := true

	resp := env.do(t, http.MethodPost, "/api/flashcards/sessions/nope/answer",
		AnswerFlashcardRequest{IsCorrect: &correct})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/quiz/sessions/nope", nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, "/api/quiz/sessions/nope", nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionHandler_CrossVariantLookupIs404(t *testing.T) {
	env := setupSessionTestEnv(t)
	set := env.wordStore.addSet(env.userID, "pair", [][2]string{
		{"sun", "słońce"},
		{"moon", "księżyc"},
	})

	resp := env.do(t, http.MethodPost, "/api/flashcards/sessions",
		StartFlashcardsRequest{WordSetID: set.ID.String()})
	var started FlashcardSessionResponse
	decodeBody(t, resp, &started)

	// A flashcard session id submitted to the quiz endpoints resolves to
	// nothing.
	resp = env.do(t, http.MethodGet,
		fmt.Sprintf("/api/quiz/sessions/%s", started.SessionID), nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
