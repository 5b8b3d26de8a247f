package api

import (
	"encoding/json"

	"github.com/prepsom/levelplay/internal/level"
)

type levelQuestionsResponse struct {
	Success              bool             `json:"success"`
	AllQuestions         []level.Question `json:"allQuestions"`
	AnsweredQuestionIDs  []string         `json:"answeredQuestionIds"`
	CurrentPointsInLevel int              `json:"currentPointsInLevel"`
}

type questionResponse struct {
	Success  bool                 `json:"success"`
	Question level.QuestionDetail `json:"question"`
}

type levelResponse struct {
	Success bool        `json:"success"`
	Level   level.Level `json:"level"`
}

type submitBody struct {
	QuestionID       string            `json:"questionId"`
	TimeTaken        int               `json:"timeTaken"`
	SelectedAnswerID string            `json:"selectedAnswerId,omitempty"`
	Answers          []level.BlankFill `json:"answers,omitempty"`
	Pairs            []level.MatchPair `json:"pairs,omitempty"`
}

type submitResponse struct {
	Success          bool                   `json:"success"`
	QuestionResponse level.QuestionResponse `json:"questionResponse"`
	CorrectData      json.RawMessage        `json:"correctData"`
}

// errorBody accepts both the PrepSOM envelope {success,message} and {error,message}.
type errorBody struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}
