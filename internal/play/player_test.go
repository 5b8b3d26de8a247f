package play

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepsom/levelplay/internal/answerstore"
	"github.com/prepsom/levelplay/internal/api"
	"github.com/prepsom/levelplay/internal/devserver"
	"github.com/prepsom/levelplay/internal/level"
)

const fixture = `
levels:
  - id: geo-1
    name: Capitals
    passingQuestions: 2
    questions:
      - id: g1
        title: "Capital of France?"
        type: MCQ
        difficulty: EASY
        options:
          - {id: g1-a, value: Berlin}
          - {id: g1-b, value: Paris, correct: true}
      - id: g2
        title: "Match country and capital"
        type: MATCHING
        difficulty: HARD
        pairs:
          - {left: Kenya, right: Nairobi}
          - {left: Peru, right: Lima}
          - {left: Japan, right: Tokyo}
      - id: g3
        title: "Fill in"
        type: FILL_IN_BLANK
        difficulty: MEDIUM
        segments:
          - text: "The capital of Italy is"
          - {text: Rome, blank: true}
`

func newClient(t *testing.T) *api.Client {
	t.Helper()
	f, err := devserver.ParseFixture([]byte(fixture))
	require.NoError(t, err)
	srv := httptest.NewServer(devserver.New(f, zerolog.Nop(), devserver.Options{}).Router())
	t.Cleanup(srv.Close)
	c, err := api.NewClient(api.Config{BaseURL: srv.URL}, zerolog.Nop())
	require.NoError(t, err)
	return c
}

// matchingInput answers g2 correctly given the deterministic shuffle.
func matchingInput() string {
	q := level.QuestionDetail{
		Question: level.Question{ID: "g2", Kind: level.KindMatching},
		Pairs:    []level.Pair{{Left: "Kenya", Right: "Nairobi"}, {Left: "Peru", Right: "Lima"}, {Left: "Japan", Right: "Tokyo"}},
	}
	rights := shuffledRights(q)
	var lines []string
	for _, p := range q.Pairs {
		for i, r := range rights {
			if r == p.Right {
				lines = append(lines, fmt.Sprintf("%c", 'a'+i))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func newPlayer(t *testing.T, c *api.Client, store level.AnswerStore, input string, out *bytes.Buffer) *Player {
	t.Helper()
	sess, err := level.NewSession("geo-1", c, store, level.Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	return NewPlayer(sess, level.Level{ID: "geo-1", Name: "Capitals"}, strings.NewReader(input), out, zerolog.Nop())
}

func TestPlayerCompletesLevel(t *testing.T) {
	c := newClient(t)
	var out bytes.Buffer
	// an out-of-range choice is rejected and the question asked again
	input := strings.Join([]string{"7", "2", "rome", matchingInput()}, "\n") + "\n"

	res, err := newPlayer(t, c, answerstore.NewMemory(), input, &out).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.IsComplete)
	assert.Equal(t, 3, res.CorrectCount)

	transcript := out.String()
	assert.Contains(t, transcript, "That answer is not valid")
	assert.Contains(t, transcript, "[EASY] Capital of France?")
	assert.Contains(t, transcript, "[MEDIUM] Fill in")
	assert.Contains(t, transcript, "[HARD] Match country and capital")
	assert.Contains(t, transcript, "____(1)")
	assert.Contains(t, transcript, "Level PASSED: 3/3 correct (100%)")
	assert.Less(t, strings.Index(transcript, "[MEDIUM]"), strings.Index(transcript, "[HARD]"))
}

func TestPlayerQuitAndResume(t *testing.T) {
	c := newClient(t)
	store := answerstore.NewMemory()

	var out bytes.Buffer
	_, err := newPlayer(t, c, store, "1\n:q\n", &out).Run(context.Background())
	assert.ErrorIs(t, err, ErrQuit)
	assert.Contains(t, out.String(), "Not quite.")
	assert.Contains(t, out.String(), "Correct answer: Paris")

	ids, err := store.Load(context.Background(), "geo-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, ids)

	out.Reset()
	input := "Rome\n" + matchingInput() + "\n"
	res, err := newPlayer(t, c, store, input, &out).Run(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "Capital of France?")
	assert.Equal(t, 2, res.CorrectCount)
	assert.True(t, res.IsComplete)
}

func TestPlayerEndOfInput(t *testing.T) {
	var out bytes.Buffer
	_, err := newPlayer(t, newClient(t), answerstore.NewMemory(), "", &out).Run(context.Background())
	assert.ErrorIs(t, err, ErrQuit)
}

func TestPlayerReportsLoadFailure(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()
	c, err := api.NewClient(api.Config{BaseURL: url}, zerolog.Nop())
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = newPlayer(t, c, nil, "", &out).Run(context.Background())
	assert.True(t, api.IsTransport(err))
	assert.Contains(t, out.String(), "Network error")
}

func TestNotice(t *testing.T) {
	assert.Empty(t, Notice(nil))
	assert.Contains(t, Notice(fmt.Errorf("x: %w", level.ErrKindMismatch)), "not valid")
	assert.Equal(t, "Still sending your previous answer.", Notice(level.ErrSubmitInFlight))
	assert.Equal(t, "Question already answered. Reload the level to continue.", Notice(&api.Error{Kind: api.KindValidation, Status: 409, Message: "Question already answered"}))
	assert.Equal(t, "Already done. Reload the level to continue.", Notice(&api.Error{Kind: api.KindValidation, Status: 409, Message: "Already done. Reload the level to continue."}))
	assert.Equal(t, "This question was already submitted. Reload the level to continue.", Notice(&api.Error{Kind: api.KindValidation, Status: 409}))
	assert.Equal(t, "Level not found", Notice(&api.Error{Kind: api.KindValidation, Status: 404, Message: "Level not found"}))
	assert.Contains(t, Notice(&api.Error{Kind: api.KindServer, Status: 500}), "server had a problem")
	assert.Contains(t, Notice(errors.New("boom")), "boom")
}

func TestSentenceAndCorrectText(t *testing.T) {
	segs := []level.Segment{{Text: "A"}, {Text: "x", IsBlank: true}, {Text: "B"}, {Text: "y", IsBlank: true}}
	assert.Equal(t, "A ____(1) B ____(2)", sentence(segs))

	q := level.QuestionDetail{Question: level.Question{Kind: level.KindMatching}}
	assert.Equal(t, "a = b; c = d", correctText(q, []byte(`[{"leftItem":"a","rightItem":"b"},{"leftItem":"c","rightItem":"d"}]`)))
	assert.Empty(t, correctText(q, nil))
}

type brokenBackend struct {
	detail level.QuestionDetail
}

func (b brokenBackend) LevelQuestions(context.Context, string) (level.LevelQuestions, error) {
	return level.LevelQuestions{All: []level.Question{b.detail.Question}}, nil
}

func (b brokenBackend) QuestionDetail(context.Context, string) (level.QuestionDetail, error) {
	return b.detail, nil
}

func (b brokenBackend) SubmitAnswer(context.Context, level.SubmitRequest) (level.QuestionResponse, error) {
	return level.QuestionResponse{}, errors.New("submit must not be reached")
}

func (b brokenBackend) CompleteLevel(context.Context, string) (level.CompletionResult, error) {
	return level.CompletionResult{}, errors.New("complete must not be reached")
}

func TestPlayerStopsOnQuestionWithoutBlanks(t *testing.T) {
	backend := brokenBackend{detail: level.QuestionDetail{
		Question: level.Question{ID: "f1", Kind: level.KindFillInBlank, Difficulty: level.DifficultyEasy},
		Segments: []level.Segment{{Text: "No blanks here"}},
	}}
	sess, err := level.NewSession("broken", backend, nil, level.Options{Logger: zerolog.Nop()})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var out bytes.Buffer
	_, err = NewPlayer(sess, level.Level{}, strings.NewReader(":q\n"), &out, zerolog.Nop()).Run(ctx)
	require.ErrorIs(t, err, ErrUnanswerable)
	assert.NoError(t, ctx.Err())
	assert.Equal(t, 1, strings.Count(out.String(), "cannot be answered here"))
}

type countingPrompter struct {
	calls int
}

func (c *countingPrompter) ask(string) (string, error) {
	c.calls++
	return "a", nil
}

func TestReadAnswerRejectsEmptyPayloadsWithoutReading(t *testing.T) {
	cases := map[string]level.QuestionDetail{
		"mcq without options":    {Question: level.Question{ID: "m", Kind: level.KindMCQ}},
		"blank without segments": {Question: level.Question{ID: "b", Kind: level.KindFillInBlank}},
		"matching without pairs": {Question: level.Question{ID: "p", Kind: level.KindMatching}},
		"unknown kind":           {Question: level.Question{ID: "u", Kind: "ESSAY"}},
	}
	for name, q := range cases {
		t.Run(name, func(t *testing.T) {
			p := &countingPrompter{}
			_, err := readAnswer(p, q)
			assert.ErrorIs(t, err, ErrUnanswerable)
			assert.Zero(t, p.calls)
		})
	}
}
