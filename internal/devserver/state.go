package devserver

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/prepsom/levelplay/internal/level"
)

type answerRecord struct {
	id        string
	correct   bool
	points    int
	timeTaken int
}

type progress struct {
	answers    map[string]answerRecord // by question id
	order      []string
	completion *level.CompletionResult
}

// state is the per-user server-side record of answers and completions.
type state struct {
	mu    sync.Mutex
	users map[string]map[string]*progress // user -> level -> progress
}

func newState() *state {
	return &state{users: make(map[string]map[string]*progress)}
}

func (s *state) progressLocked(user, levelID string) *progress {
	levels, ok := s.users[user]
	if !ok {
		levels = make(map[string]*progress)
		s.users[user] = levels
	}
	p, ok := levels[levelID]
	if !ok {
		p = &progress{answers: make(map[string]answerRecord)}
		levels[levelID] = p
	}
	return p
}

// snapshot returns the answered ids and points a user holds in a level.
func (s *state) snapshot(user, levelID string) ([]string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.progressLocked(user, levelID)
	points := 0
	for _, a := range p.answers {
		points += a.points
	}
	return append([]string(nil), p.order...), points
}

var errAlreadyAnswered = errors.New("question already answered")

// record stores an answer once; a second answer for the same question is rejected.
func (s *state) record(user, levelID, questionID string, correct bool, points, timeTaken int) (answerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.progressLocked(user, levelID)
	if _, ok := p.answers[questionID]; ok {
		return answerRecord{}, errAlreadyAnswered
	}
	rec := answerRecord{id: uuid.NewString(), correct: correct, points: points, timeTaken: timeTaken}
	p.answers[questionID] = rec
	p.order = append(p.order, questionID)
	return rec, nil
}

// complete computes the level result once and returns the stored result afterwards, so
// repeated calls never re-award.
func (s *state) complete(user string, lvl FixtureLevel) (level.CompletionResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.progressLocked(user, lvl.ID)
	if p.completion != nil {
		return *p.completion, true
	}
	for _, q := range lvl.Questions {
		if _, ok := p.answers[q.ID]; !ok {
			return level.CompletionResult{}, false
		}
	}
	res := summarize(lvl, p.answers)
	p.completion = &res
	return res, true
}

func summarize(lvl FixtureLevel, answers map[string]answerRecord) level.CompletionResult {
	type tally struct{ correct, total int }
	tiers := map[level.Difficulty]*tally{}
	correct := 0
	for _, q := range lvl.Questions {
		t, ok := tiers[q.Difficulty]
		if !ok {
			t = &tally{}
			tiers[q.Difficulty] = t
		}
		t.total++
		if answers[q.ID].correct {
			t.correct++
			correct++
		}
	}

	total := len(lvl.Questions)
	percentage := 100.0
	if total > 0 {
		percentage = float64(correct) * 100 / float64(total)
	}
	passed := correct >= lvl.PassingQuestions

	res := level.CompletionResult{
		Success:      true,
		CorrectCount: correct,
		TotalCount:   total,
		Percentage:   percentage,
		IsComplete:   passed,
	}
	for _, d := range []level.Difficulty{level.DifficultyEasy, level.DifficultyMedium, level.DifficultyHard} {
		t, ok := tiers[d]
		if !ok {
			continue
		}
		switch {
		case t.correct == t.total:
			res.Strengths = append(res.Strengths, fmt.Sprintf("All %s questions answered correctly", d))
		case t.correct*2 < t.total:
			res.Weaknesses = append(res.Weaknesses, fmt.Sprintf("%d of %d %s questions correct", t.correct, t.total, d))
			res.Recommendations = append(res.Recommendations, fmt.Sprintf("Revisit the %s material of %s", d, lvl.Name))
		}
	}
	if passed {
		res.Message = fmt.Sprintf("Level passed with %d of %d correct", correct, total)
	} else {
		res.Message = fmt.Sprintf("Level not passed: %d correct, %d needed", correct, lvl.PassingQuestions)
		res.Recommendations = append(res.Recommendations, "Retry the level after reviewing the questions you missed")
	}
	return res
}
