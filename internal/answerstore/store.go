// Package answerstore keeps the per-level lists of locally answered question ids used to
// resume an interrupted level, plus the first-login onboarding flag. Every backend is
// scoped to one namespace (user id) chosen at construction.
package answerstore

import (
	"context"
	"errors"
)

// Store is the persistence port shared by all backends.
type Store interface {
	// Load returns the ids recorded for levelID in insertion order.
	Load(ctx context.Context, levelID string) ([]string, error)
	// Append records questionID for levelID. Recording an id twice is a no-op.
	Append(ctx context.Context, levelID, questionID string) error
	// FirstLogin reports whether the namespace has not been onboarded yet.
	FirstLogin(ctx context.Context) (bool, error)
	MarkOnboarded(ctx context.Context) error
	Close() error
}

// Driver names a backend.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverRedis    Driver = "redis"
)

var (
	ErrEmptyLevelID    = errors.New("answerstore: level id is required")
	ErrEmptyQuestionID = errors.New("answerstore: question id is required")
)

func checkKeys(levelID, questionID string) error {
	if levelID == "" {
		return ErrEmptyLevelID
	}
	if questionID == "" {
		return ErrEmptyQuestionID
	}
	return nil
}
