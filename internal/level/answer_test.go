package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAnswer(t *testing.T) {
	mcq := QuestionDetail{
		Question: Question{ID: "q1", Kind: KindMCQ},
		Options:  []Option{{ID: "o1"}, {ID: "o2", IsCorrect: true}},
	}
	blank := QuestionDetail{
		Question: Question{ID: "q2", Kind: KindFillInBlank},
		Segments: []Segment{{Text: "Water boils at"}, {Text: "100", IsBlank: true}, {Text: "degrees"}},
	}
	match := QuestionDetail{
		Question: Question{ID: "q3", Kind: KindMatching},
		Pairs:    []Pair{{Left: "H2O", Right: "water"}, {Left: "NaCl", Right: "salt"}},
	}

	tests := []struct {
		name    string
		q       QuestionDetail
		a       Answer
		wantErr error
	}{
		{"mcq ok", mcq, MCQAnswer{OptionID: "o2"}, nil},
		{"mcq unknown option", mcq, MCQAnswer{OptionID: "nope"}, ErrInvalidAnswer},
		{"mcq empty", mcq, MCQAnswer{}, ErrInvalidAnswer},
		{"kind mismatch", mcq, MatchingAnswer{Pairs: []MatchPair{{Left: "a", Right: "b"}}}, ErrKindMismatch},
		{"nil answer", mcq, nil, ErrInvalidAnswer},
		{"blank ok", blank, FillInBlankAnswer{Blanks: []BlankFill{{Index: 0, Text: "100"}}}, nil},
		{"blank out of range", blank, FillInBlankAnswer{Blanks: []BlankFill{{Index: 1, Text: "x"}}}, ErrInvalidAnswer},
		{"blank whitespace", blank, FillInBlankAnswer{Blanks: []BlankFill{{Index: 0, Text: "  "}}}, ErrInvalidAnswer},
		{"blank twice", blank, FillInBlankAnswer{Blanks: []BlankFill{{Index: 0, Text: "1"}, {Index: 0, Text: "2"}}}, ErrInvalidAnswer},
		{"matching ok", match, MatchingAnswer{Pairs: []MatchPair{{Left: "H2O", Right: "water"}, {Left: "NaCl", Right: "salt"}}}, nil},
		{"matching duplicate left", match, MatchingAnswer{Pairs: []MatchPair{{Left: "H2O", Right: "water"}, {Left: "H2O", Right: "salt"}}}, ErrInvalidAnswer},
		{"matching empty", match, MatchingAnswer{}, ErrInvalidAnswer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAnswer(tt.q, tt.a)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
