package level

import "context"

// Backend is the part of the PrepSOM API a level session drives.
type Backend interface {
	LevelQuestions(ctx context.Context, levelID string) (LevelQuestions, error)
	QuestionDetail(ctx context.Context, questionID string) (QuestionDetail, error)
	SubmitAnswer(ctx context.Context, req SubmitRequest) (QuestionResponse, error)
	CompleteLevel(ctx context.Context, levelID string) (CompletionResult, error)
}

// SubmitRequest is one answer submission.
type SubmitRequest struct {
	QuestionID string
	TimeTaken  int // seconds
	Answer     Answer
}

// AnswerStore keeps the per-level list of locally answered question ids. Append is
// de-duplicated and never removes ids.
type AnswerStore interface {
	Load(ctx context.Context, levelID string) ([]string, error)
	Append(ctx context.Context, levelID, questionID string) error
}

// Recorder receives gameplay events for metrics.
type Recorder interface {
	AnswerSubmitted(kind Kind, correct bool)
	AnswerFailed(kind Kind)
	LevelCompleted(success bool)
}

// userMessager is implemented by backend errors that carry a message fit to show users.
type userMessager interface {
	UserMessage() string
}

type nopRecorder struct{}

func (nopRecorder) AnswerSubmitted(Kind, bool) {}
func (nopRecorder) AnswerFailed(Kind)          {}
func (nopRecorder) LevelCompleted(bool)        {}
