package play

import (
	"errors"
	"net/http"
	"strings"

	"github.com/prepsom/levelplay/internal/api"
	"github.com/prepsom/levelplay/internal/level"
)

// Notice turns an error into the one-line message shown to the player.
func Notice(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, level.ErrInvalidAnswer), errors.Is(err, level.ErrKindMismatch):
		return "That answer is not valid: " + err.Error()
	case errors.Is(err, ErrUnanswerable):
		return "This question is broken and cannot be answered here. Please report it."
	case errors.Is(err, level.ErrSubmitInFlight):
		return "Still sending your previous answer."
	case api.IsTransport(err):
		return "Network error. Check your connection and try again."
	case api.IsValidation(err):
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
			return conflictNotice(apiErr.Message)
		}
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return apiErr.Message
		}
		return "The server rejected the request."
	case api.IsServer(err):
		return "The server had a problem. Try again shortly."
	default:
		return "Something went wrong: " + err.Error()
	}
}

const reloadHint = "Reload the level to continue."

// conflictNotice appends the reload hint unless msg already carries one.
func conflictNotice(msg string) string {
	if msg == "" {
		msg = "This question was already submitted."
	}
	if strings.Contains(strings.ToLower(msg), "reload") {
		return msg
	}
	return strings.TrimRight(msg, ". ") + ". " + reloadHint
}
