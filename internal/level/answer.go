package level

import (
	"fmt"
	"strings"
)

// Answer is the kind-specific payload of a submission. Implementations are MCQAnswer,
// FillInBlankAnswer and MatchingAnswer.
type Answer interface {
	Kind() Kind
	validate(q QuestionDetail) error
}

// MCQAnswer selects a single option.
type MCQAnswer struct {
	OptionID string
}

// BlankFill is the text typed for the blank at Index (0-based over blank segments).
type BlankFill struct {
	Index int    `json:"blankIndex"`
	Text  string `json:"value"`
}

// FillInBlankAnswer fills the blanks of a segmented sentence.
type FillInBlankAnswer struct {
	Blanks []BlankFill
}

// MatchPair links one left item to one right item.
type MatchPair struct {
	Left  string `json:"leftItem"`
	Right string `json:"rightItem"`
}

// MatchingAnswer pairs every left item with a right item.
type MatchingAnswer struct {
	Pairs []MatchPair
}

func (MCQAnswer) Kind() Kind         { return KindMCQ }
func (FillInBlankAnswer) Kind() Kind { return KindFillInBlank }
func (MatchingAnswer) Kind() Kind    { return KindMatching }

func (a MCQAnswer) validate(q QuestionDetail) error {
	if a.OptionID == "" {
		return fmt.Errorf("%w: no option selected", ErrInvalidAnswer)
	}
	if len(q.Options) == 0 {
		return nil
	}
	for _, opt := range q.Options {
		if opt.ID == a.OptionID {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown option %q", ErrInvalidAnswer, a.OptionID)
}

func (a FillInBlankAnswer) validate(q QuestionDetail) error {
	if len(a.Blanks) == 0 {
		return fmt.Errorf("%w: no blanks filled", ErrInvalidAnswer)
	}
	blanks := 0
	for _, seg := range q.Segments {
		if seg.IsBlank {
			blanks++
		}
	}
	seen := make(map[int]struct{}, len(a.Blanks))
	for _, b := range a.Blanks {
		if blanks > 0 && (b.Index < 0 || b.Index >= blanks) {
			return fmt.Errorf("%w: blank index %d out of range", ErrInvalidAnswer, b.Index)
		}
		if _, dup := seen[b.Index]; dup {
			return fmt.Errorf("%w: blank %d filled twice", ErrInvalidAnswer, b.Index)
		}
		seen[b.Index] = struct{}{}
		if strings.TrimSpace(b.Text) == "" {
			return fmt.Errorf("%w: blank %d is empty", ErrInvalidAnswer, b.Index)
		}
	}
	return nil
}

func (a MatchingAnswer) validate(q QuestionDetail) error {
	if len(a.Pairs) == 0 {
		return fmt.Errorf("%w: no pairs", ErrInvalidAnswer)
	}
	lefts := make(map[string]struct{}, len(a.Pairs))
	for _, p := range a.Pairs {
		if p.Left == "" || p.Right == "" {
			return fmt.Errorf("%w: incomplete pair", ErrInvalidAnswer)
		}
		if _, dup := lefts[p.Left]; dup {
			return fmt.Errorf("%w: %q matched twice", ErrInvalidAnswer, p.Left)
		}
		lefts[p.Left] = struct{}{}
	}
	return nil
}

// ValidateAnswer checks that a matches the kind of q and is structurally complete.
func ValidateAnswer(q QuestionDetail, a Answer) error {
	if a == nil {
		return fmt.Errorf("%w: empty answer", ErrInvalidAnswer)
	}
	if a.Kind() != q.Kind {
		return fmt.Errorf("%w: %s answer for %s question", ErrKindMismatch, a.Kind(), q.Kind)
	}
	return a.validate(q)
}
