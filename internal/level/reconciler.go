package level

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// Reconciler asks the server to finalize a level. The server result is authoritative;
// client-side point totals are never sent or compared.
type Reconciler struct {
	backend  Backend
	recorder Recorder
	logger   zerolog.Logger
}

func NewReconciler(backend Backend, recorder Recorder, logger zerolog.Logger) *Reconciler {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Reconciler{backend: backend, recorder: recorder, logger: logger}
}

// Complete finalizes levelID. Failures never return an error: they produce an unsuccessful
// result carrying a message to show, and the caller may retry with a fresh session.
func (r *Reconciler) Complete(ctx context.Context, levelID string) CompletionResult {
	res, err := r.backend.CompleteLevel(ctx, levelID)
	if err != nil {
		r.logger.Warn().Err(err).Str("level_id", levelID).Msg("level completion failed")
		r.recorder.LevelCompleted(false)
		msg := GenericCompletionFailure
		var um userMessager
		if errors.As(err, &um) && um.UserMessage() != "" {
			msg = um.UserMessage()
		}
		return CompletionResult{Success: false, Message: msg}
	}
	r.recorder.LevelCompleted(res.Success)
	r.logger.Info().
		Str("level_id", levelID).
		Bool("passed", res.IsComplete).
		Int("correct", res.CorrectCount).
		Int("total", res.TotalCount).
		Float64("percentage", res.Percentage).
		Msg("level completion reconciled")
	return res
}
