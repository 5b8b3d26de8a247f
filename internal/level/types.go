package level

import (
	"encoding/json"
	"time"
)

// Difficulty is the tier a question is presented in.
type Difficulty string

// Difficulty tiers, in presentation order.
const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Kind discriminates the answer payload of a question.
type Kind string

const (
	KindMCQ         Kind = "MCQ"
	KindFillInBlank Kind = "FILL_IN_BLANK"
	KindMatching    Kind = "MATCHING"
)

// Level is an ordered unit of content within a subject.
type Level struct {
	ID                   string `json:"id"`
	Name                 string `json:"levelName"`
	Position             int    `json:"position"`
	PassingQuestionCount int    `json:"passingQuestions"`
	SubjectID            string `json:"subjectId,omitempty"`
}

// Question is the summary row returned with a level's question list.
type Question struct {
	ID         string     `json:"id"`
	Title      string     `json:"questionTitle"`
	Kind       Kind       `json:"questionType"`
	Difficulty Difficulty `json:"difficulty"`
	LevelID    string     `json:"levelId"`
}

// Option is one MCQ choice.
type Option struct {
	ID        string `json:"id"`
	Value     string `json:"value"`
	IsCorrect bool   `json:"isCorrect"`
}

// Segment is one piece of a fill-in-blank sentence. Blank segments carry the expected text.
type Segment struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	IsBlank bool   `json:"isBlank"`
	Order   int    `json:"order"`
}

// Pair is one left/right matching item.
type Pair struct {
	ID    string `json:"id"`
	Left  string `json:"leftItem"`
	Right string `json:"rightItem"`
}

// QuestionDetail carries the kind-specific payload needed to render a question.
type QuestionDetail struct {
	Question
	Options  []Option  `json:"MCQAnswers,omitempty"`
	Segments []Segment `json:"BlankSegments,omitempty"`
	Pairs    []Pair    `json:"MatchingPairs,omitempty"`
}

// LevelQuestions is the snapshot fetched when a level view starts.
type LevelQuestions struct {
	All           []Question
	AnsweredIDs   []string
	PointsInLevel int
}

// QuestionResponse is the server verdict for a single submission.
type QuestionResponse struct {
	ID           string `json:"id"`
	QuestionID   string `json:"questionId"`
	IsCorrect    bool   `json:"isCorrect"`
	PointsEarned int    `json:"pointsEarned"`
	TimeTaken    int    `json:"timeTaken"`

	// CorrectData is the kind-specific correct answer echoed by the server.
	CorrectData json.RawMessage `json:"correctData,omitempty"`
}

// CompletionResult is the server-computed summary of a level attempt.
type CompletionResult struct {
	Success         bool     `json:"success"`
	Message         string   `json:"message"`
	CorrectCount    int      `json:"noOfCorrectQuestions"`
	TotalCount      int      `json:"totalQuestions"`
	Percentage      float64  `json:"percentage"`
	IsComplete      bool     `json:"isComplete"`
	Strengths       []string `json:"strengths,omitempty"`
	Weaknesses      []string `json:"weaknesses,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Submission is the outcome of Session.Submit.
type Submission struct {
	Response    QuestionResponse
	TotalPoints int
	Elapsed     time.Duration
	// StoreErr is set when the server accepted the answer but the local resume hint could not be written.
	StoreErr error
}
