package play

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/prepsom/levelplay/internal/level"
)

// prompter reads one trimmed line per call.
type prompter interface {
	ask(prompt string) (string, error)
}

// answerable reports whether q has anything the player can respond to.
func answerable(q level.QuestionDetail) error {
	switch q.Kind {
	case level.KindMCQ:
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: question %s has no options", ErrUnanswerable, q.ID)
		}
	case level.KindFillInBlank:
		for _, s := range q.Segments {
			if s.IsBlank {
				return nil
			}
		}
		return fmt.Errorf("%w: question %s has no blanks", ErrUnanswerable, q.ID)
	case level.KindMatching:
		if len(q.Pairs) == 0 {
			return fmt.Errorf("%w: question %s has no pairs", ErrUnanswerable, q.ID)
		}
	default:
		return fmt.Errorf("%w: unsupported question type %q", ErrUnanswerable, q.Kind)
	}
	return nil
}

// readAnswer collects the kind-specific answer for q. Every path that does not fail with
// ErrUnanswerable reads at least one line.
func readAnswer(p prompter, q level.QuestionDetail) (level.Answer, error) {
	if err := answerable(q); err != nil {
		return nil, err
	}
	switch q.Kind {
	case level.KindMCQ:
		line, err := p.ask(fmt.Sprintf("Choose 1-%d: ", len(q.Options)))
		if err != nil {
			return nil, err
		}
		n, convErr := strconv.Atoi(line)
		if convErr != nil || n < 1 || n > len(q.Options) {
			return nil, fmt.Errorf("%w: pick a number between 1 and %d", level.ErrInvalidAnswer, len(q.Options))
		}
		return level.MCQAnswer{OptionID: q.Options[n-1].ID}, nil

	case level.KindFillInBlank:
		var fills []level.BlankFill
		idx := 0
		for _, s := range q.Segments {
			if !s.IsBlank {
				continue
			}
			line, err := p.ask(fmt.Sprintf("Blank %d: ", idx+1))
			if err != nil {
				return nil, err
			}
			fills = append(fills, level.BlankFill{Index: idx, Text: line})
			idx++
		}
		return level.FillInBlankAnswer{Blanks: fills}, nil

	case level.KindMatching:
		rights := shuffledRights(q)
		pairs := make([]level.MatchPair, 0, len(q.Pairs))
		for i, pair := range q.Pairs {
			line, err := p.ask(fmt.Sprintf("%d. %s -> ", i+1, pair.Left))
			if err != nil {
				return nil, err
			}
			line = strings.ToLower(line)
			if len(line) != 1 || line[0] < 'a' || int(line[0]-'a') >= len(rights) {
				return nil, fmt.Errorf("%w: answer with a letter a-%c", level.ErrInvalidAnswer, 'a'+len(rights)-1)
			}
			pairs = append(pairs, level.MatchPair{Left: pair.Left, Right: rights[line[0]-'a']})
		}
		return level.MatchingAnswer{Pairs: pairs}, nil
	}
	return nil, fmt.Errorf("%w: unsupported question type %q", ErrUnanswerable, q.Kind)
}

// correctText renders the server's correct-answer echo for display.
func correctText(q level.QuestionDetail, data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}
	switch q.Kind {
	case level.KindMCQ:
		var opt struct {
			Value string `json:"value"`
		}
		if json.Unmarshal(data, &opt) == nil {
			return opt.Value
		}
	case level.KindFillInBlank:
		var fills []level.BlankFill
		if json.Unmarshal(data, &fills) == nil {
			texts := make([]string, len(fills))
			for i, f := range fills {
				texts[i] = f.Text
			}
			return strings.Join(texts, ", ")
		}
	case level.KindMatching:
		var pairs []level.MatchPair
		if json.Unmarshal(data, &pairs) == nil {
			texts := make([]string, len(pairs))
			for i, p := range pairs {
				texts[i] = p.Left + " = " + p.Right
			}
			return strings.Join(texts, "; ")
		}
	}
	return ""
}
