package devserver

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/prepsom/levelplay/internal/level"
)

// Fixture is the YAML document the stub API serves.
type Fixture struct {
	Levels []FixtureLevel `yaml:"levels"`
}

type FixtureLevel struct {
	ID               string            `yaml:"id"`
	Name             string            `yaml:"name"`
	SubjectID        string            `yaml:"subjectId"`
	Position         int               `yaml:"position"`
	PassingQuestions int               `yaml:"passingQuestions"`
	Questions        []FixtureQuestion `yaml:"questions"`
}

type FixtureQuestion struct {
	ID         string           `yaml:"id"`
	Title      string           `yaml:"title"`
	Type       level.Kind       `yaml:"type"`
	Difficulty level.Difficulty `yaml:"difficulty"`

	// Points overrides the per-difficulty award for a correct answer.
	Points   int              `yaml:"points"`
	Options  []FixtureOption  `yaml:"options"`
	Segments []FixtureSegment `yaml:"segments"`
	Pairs    []FixturePair    `yaml:"pairs"`
}

type FixtureOption struct {
	ID      string `yaml:"id"`
	Value   string `yaml:"value"`
	Correct bool   `yaml:"correct"`
}

type FixtureSegment struct {
	Text  string `yaml:"text"`
	Blank bool   `yaml:"blank"`
}

type FixturePair struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

// LoadFixture reads and validates a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes a fixture, assigns missing ids and validates it.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if err := f.normalize(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fixture) normalize() error {
	if len(f.Levels) == 0 {
		return fmt.Errorf("fixture has no levels")
	}
	levelIDs := map[string]struct{}{}
	questionIDs := map[string]struct{}{}
	for li := range f.Levels {
		lvl := &f.Levels[li]
		if lvl.ID == "" {
			lvl.ID = uuid.NewString()
		}
		if _, dup := levelIDs[lvl.ID]; dup {
			return fmt.Errorf("duplicate level id %q", lvl.ID)
		}
		levelIDs[lvl.ID] = struct{}{}
		if lvl.Position == 0 {
			lvl.Position = li + 1
		}

		for qi := range lvl.Questions {
			q := &lvl.Questions[qi]
			if q.ID == "" {
				q.ID = uuid.NewString()
			}
			if _, dup := questionIDs[q.ID]; dup {
				return fmt.Errorf("duplicate question id %q", q.ID)
			}
			questionIDs[q.ID] = struct{}{}
			if err := q.validate(); err != nil {
				return fmt.Errorf("level %s question %s: %w", lvl.ID, q.ID, err)
			}
		}
		if lvl.PassingQuestions > len(lvl.Questions) {
			return fmt.Errorf("level %s requires %d passing questions but has %d", lvl.ID, lvl.PassingQuestions, len(lvl.Questions))
		}
	}
	return nil
}

func (q *FixtureQuestion) validate() error {
	switch q.Difficulty {
	case level.DifficultyEasy, level.DifficultyMedium, level.DifficultyHard:
	default:
		return fmt.Errorf("unknown difficulty %q", q.Difficulty)
	}
	switch q.Type {
	case level.KindMCQ:
		correct := 0
		for i := range q.Options {
			if q.Options[i].ID == "" {
				q.Options[i].ID = uuid.NewString()
			}
			if q.Options[i].Correct {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("mcq needs exactly one correct option, has %d", correct)
		}
	case level.KindFillInBlank:
		blanks := 0
		for _, s := range q.Segments {
			if s.Blank {
				blanks++
			}
		}
		if blanks == 0 {
			return fmt.Errorf("fill-in-blank has no blank segment")
		}
	case level.KindMatching:
		if len(q.Pairs) == 0 {
			return fmt.Errorf("matching has no pairs")
		}
		seen := map[string]struct{}{}
		for _, p := range q.Pairs {
			if _, dup := seen[p.Left]; dup {
				return fmt.Errorf("matching left item %q repeated", p.Left)
			}
			seen[p.Left] = struct{}{}
		}
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	return nil
}

func (l FixtureLevel) toLevel() level.Level {
	return level.Level{
		ID:                   l.ID,
		Name:                 l.Name,
		Position:             l.Position,
		PassingQuestionCount: l.PassingQuestions,
		SubjectID:            l.SubjectID,
	}
}

func (q FixtureQuestion) summary(levelID string) level.Question {
	return level.Question{
		ID:         q.ID,
		Title:      q.Title,
		Kind:       q.Type,
		Difficulty: q.Difficulty,
		LevelID:    levelID,
	}
}

func (q FixtureQuestion) detail(levelID string) level.QuestionDetail {
	d := level.QuestionDetail{Question: q.summary(levelID)}
	for _, o := range q.Options {
		d.Options = append(d.Options, level.Option{ID: o.ID, Value: o.Value, IsCorrect: o.Correct})
	}
	for i, s := range q.Segments {
		d.Segments = append(d.Segments, level.Segment{ID: fmt.Sprintf("%s-s%d", q.ID, i), Text: s.Text, IsBlank: s.Blank, Order: i})
	}
	for i, p := range q.Pairs {
		d.Pairs = append(d.Pairs, level.Pair{ID: fmt.Sprintf("%s-p%d", q.ID, i), Left: p.Left, Right: p.Right})
	}
	return d
}
