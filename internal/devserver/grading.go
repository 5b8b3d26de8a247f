package devserver

import (
	"encoding/json"
	"strings"

	"github.com/prepsom/levelplay/internal/level"
)

var difficultyPoints = map[level.Difficulty]int{
	level.DifficultyEasy:   1,
	level.DifficultyMedium: 2,
	level.DifficultyHard:   3,
}

// submission is the decoded POST /question-response body.
type submission struct {
	QuestionID       string            `json:"questionId"`
	TimeTaken        int               `json:"timeTaken"`
	SelectedAnswerID string            `json:"selectedAnswerId"`
	Answers          []level.BlankFill `json:"answers"`
	Pairs            []level.MatchPair `json:"pairs"`
}

// kind infers which answer variant the body carries.
func (s submission) kind() (level.Kind, bool) {
	n := 0
	var k level.Kind
	if s.SelectedAnswerID != "" {
		n++
		k = level.KindMCQ
	}
	if len(s.Answers) > 0 {
		n++
		k = level.KindFillInBlank
	}
	if len(s.Pairs) > 0 {
		n++
		k = level.KindMatching
	}
	return k, n == 1
}

func (q FixtureQuestion) award() int {
	if q.Points > 0 {
		return q.Points
	}
	return difficultyPoints[q.Difficulty]
}

// grade returns correctness and the correct answer data echoed back to the client.
func grade(q FixtureQuestion, s submission) (bool, json.RawMessage) {
	switch q.Type {
	case level.KindMCQ:
		var correct FixtureOption
		for _, o := range q.Options {
			if o.Correct {
				correct = o
			}
		}
		data, _ := json.Marshal(map[string]string{"id": correct.ID, "value": correct.Value})
		return s.SelectedAnswerID == correct.ID, data

	case level.KindFillInBlank:
		var expected []level.BlankFill
		for _, seg := range q.Segments {
			if seg.Blank {
				expected = append(expected, level.BlankFill{Index: len(expected), Text: seg.Text})
			}
		}
		data, _ := json.Marshal(expected)
		if len(s.Answers) != len(expected) {
			return false, data
		}
		given := make(map[int]string, len(s.Answers))
		for _, a := range s.Answers {
			given[a.Index] = a.Text
		}
		for _, e := range expected {
			if !strings.EqualFold(strings.TrimSpace(given[e.Index]), strings.TrimSpace(e.Text)) {
				return false, data
			}
		}
		return true, data

	case level.KindMatching:
		expected := make([]level.MatchPair, 0, len(q.Pairs))
		want := make(map[string]string, len(q.Pairs))
		for _, p := range q.Pairs {
			expected = append(expected, level.MatchPair{Left: p.Left, Right: p.Right})
			want[p.Left] = p.Right
		}
		data, _ := json.Marshal(expected)
		if len(s.Pairs) != len(want) {
			return false, data
		}
		seen := make(map[string]struct{}, len(s.Pairs))
		for _, p := range s.Pairs {
			if _, dup := seen[p.Left]; dup {
				return false, data
			}
			seen[p.Left] = struct{}{}
			if right, ok := want[p.Left]; !ok || right != p.Right {
				return false, data
			}
		}
		return true, data
	}
	return false, nil
}
