package level

import "errors"

var (
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	ErrLevelComplete  = errors.New("level has no questions left")
	ErrNotStarted     = errors.New("session not started")
	ErrKindMismatch   = errors.New("answer kind does not match question")
	ErrInvalidAnswer  = errors.New("invalid answer")
	ErrEmptyLevelID   = errors.New("level id is required")
)

// GenericCompletionFailure is shown when the completion request could not reach the server.
const GenericCompletionFailure = "Could not complete the level right now. Reload to try again."
