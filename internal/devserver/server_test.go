package devserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepsom/levelplay/internal/answerstore"
	"github.com/prepsom/levelplay/internal/api"
	"github.com/prepsom/levelplay/internal/level"
	"github.com/prepsom/levelplay/internal/metrics"
)

func newTestAPI(t *testing.T, token string) (*api.Client, *metrics.Metrics) {
	t.Helper()
	fixture, err := ParseFixture([]byte(testFixture))
	require.NoError(t, err)
	m := metrics.New("test")
	srv := httptest.NewServer(New(fixture, zerolog.Nop(), Options{Prefix: "/api/v1", Recorder: m, MetricsHandler: m.Handler()}).Router())
	t.Cleanup(srv.Close)

	client, err := api.NewClient(api.Config{BaseURL: srv.URL + "/api/v1", Token: token}, zerolog.Nop())
	require.NoError(t, err)
	return client, m
}

func tokenFor(t *testing.T, user string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": user}).SignedString([]byte("dev"))
	require.NoError(t, err)
	return signed
}

func TestLevelPlaythrough(t *testing.T) {
	client, _ := newTestAPI(t, tokenFor(t, "student-1"))
	store := answerstore.NewMemory()
	ctx := context.Background()

	sess, err := level.NewSession("lvl-1", client, store, level.Options{Logger: zerolog.Nop()})
	require.NoError(t, err)

	step, err := sess.Start(ctx)
	require.NoError(t, err)
	require.Equal(t, "e1", step.Question.ID)

	detail, err := sess.CurrentQuestion(ctx)
	require.NoError(t, err)
	require.Len(t, detail.Options, 2)

	sub, step, err := sess.Submit(ctx, level.MCQAnswer{OptionID: "o1"}, 2*time.Second)
	require.NoError(t, err)
	assert.True(t, sub.Response.IsCorrect)
	assert.Equal(t, 1, sub.TotalPoints)
	require.Equal(t, "e2", step.Question.ID)

	sub, step, err = sess.Submit(ctx, level.MatchingAnswer{Pairs: []level.MatchPair{{Left: "H2O", Right: "water"}, {Left: "NaCl", Right: "salt"}}}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 6, sub.TotalPoints)
	require.Equal(t, "m1", step.Question.ID)
	assert.Equal(t, level.StateMedium, step.State)

	sub, step, err = sess.Submit(ctx, level.FillInBlankAnswer{Blanks: []level.BlankFill{{Index: 0, Text: "90"}}}, time.Second)
	require.NoError(t, err)
	assert.False(t, sub.Response.IsCorrect)
	assert.JSONEq(t, `[{"blankIndex":0,"value":"100"}]`, string(sub.Response.CorrectData))
	require.True(t, step.Done())

	res, ok := sess.Completion()
	require.True(t, ok)
	assert.True(t, res.Success)
	assert.True(t, res.IsComplete)
	assert.Equal(t, 2, res.CorrectCount)
	assert.Equal(t, 3, res.TotalCount)
	assert.InDelta(t, 66.67, res.Percentage, 0.01)
	assert.NotEmpty(t, res.Weaknesses)

	ids, err := store.Load(ctx, "lvl-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2", "m1"}, ids)

	// completion is idempotent on the server
	again, err := client.CompleteLevel(ctx, "lvl-1")
	require.NoError(t, err)
	assert.Equal(t, res, again)

	// server points survive a reload
	snap, err := client.LevelQuestions(ctx, "lvl-1")
	require.NoError(t, err)
	assert.Equal(t, 6, snap.PointsInLevel)
	assert.ElementsMatch(t, []string{"e1", "e2", "m1"}, snap.AnsweredIDs)
}

func TestResumeFromLocalHintOnly(t *testing.T) {
	client, _ := newTestAPI(t, tokenFor(t, "student-2"))
	store := answerstore.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, "lvl-1", "e1"))

	sess, err := level.NewSession("lvl-1", client, store, level.Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	step, err := sess.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, "e2", step.Question.ID)
}

func TestCompletionRejectedUntilServerHasEveryAnswer(t *testing.T) {
	client, _ := newTestAPI(t, "")
	ctx := context.Background()

	_, err := client.CompleteLevel(ctx, "lvl-1")
	require.Error(t, err)
	assert.True(t, api.IsValidation(err))

	res, err := client.CompleteLevel(ctx, "lvl-empty")
	require.NoError(t, err)
	assert.True(t, res.IsComplete)
	assert.Equal(t, 0, res.TotalCount)
}

func TestDuplicateSubmissionConflicts(t *testing.T) {
	client, m := newTestAPI(t, tokenFor(t, "student-3"))
	ctx := context.Background()
	req := level.SubmitRequest{QuestionID: "e1", Answer: level.MCQAnswer{OptionID: "o2"}}

	resp, err := client.SubmitAnswer(ctx, req)
	require.NoError(t, err)
	assert.False(t, resp.IsCorrect)
	assert.Zero(t, resp.PointsEarned)

	_, err = client.SubmitAnswer(ctx, req)
	require.Error(t, err)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Question already answered. Reload the level to continue.", apiErr.UserMessage())

	_, err = client.SubmitAnswer(ctx, level.SubmitRequest{QuestionID: "e1", Answer: level.MatchingAnswer{Pairs: []level.MatchPair{{Left: "a", Right: "b"}}}})
	assert.True(t, api.IsValidation(err))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `test_devserver_graded_total{correct="false",kind="MCQ"} 1`)
}

func TestProgressIsPerUser(t *testing.T) {
	fixture, err := ParseFixture([]byte(testFixture))
	require.NoError(t, err)
	srv := httptest.NewServer(New(fixture, zerolog.Nop(), Options{}).Router())
	defer srv.Close()

	ctx := context.Background()
	alice, err := api.NewClient(api.Config{BaseURL: srv.URL, Token: tokenFor(t, "alice")}, zerolog.Nop())
	require.NoError(t, err)
	bob, err := api.NewClient(api.Config{BaseURL: srv.URL, Token: tokenFor(t, "bob")}, zerolog.Nop())
	require.NoError(t, err)

	_, err = alice.SubmitAnswer(ctx, level.SubmitRequest{QuestionID: "e1", Answer: level.MCQAnswer{OptionID: "o1"}})
	require.NoError(t, err)

	snap, err := bob.LevelQuestions(ctx, "lvl-1")
	require.NoError(t, err)
	assert.Empty(t, snap.AnsweredIDs)

	lvl, err := bob.Level(ctx, "lvl-1")
	require.NoError(t, err)
	assert.Equal(t, "Chemistry Basics", lvl.Name)
	assert.Equal(t, 2, lvl.PassingQuestionCount)
}

func TestHealthAndNotFound(t *testing.T) {
	fixture, err := ParseFixture([]byte(testFixture))
	require.NoError(t, err)
	h := New(fixture, zerolog.Nop(), Options{Prefix: "/api/v1"}).Router()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/level/nope/questions", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "level_not_found")
}

func TestMalformedAuthorizationRejected(t *testing.T) {
	fixture, err := ParseFixture([]byte(testFixture))
	require.NoError(t, err)
	h := New(fixture, zerolog.Nop(), Options{}).Router()

	for _, header := range []string{"Basic abc", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/level/lvl-1/questions", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.Contains(t, rec.Body.String(), "invalid_token")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/level/lvl-1/questions", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWriteJSONFallsBackToInternalError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]any{"bad": make(chan int)})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")

	rec = httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]string{"ok": "yes"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"ok":"yes"}`, rec.Body.String())
}
