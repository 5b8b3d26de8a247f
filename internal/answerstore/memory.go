package answerstore

import (
	"context"
	"sync"
)

// Memory is a process-local Store.
type Memory struct {
	mu        sync.Mutex
	levels    map[string][]string
	onboarded bool
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{levels: make(map[string][]string)}
}

func (m *Memory) Load(_ context.Context, levelID string) ([]string, error) {
	if levelID == "" {
		return nil, ErrEmptyLevelID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.levels[levelID]...), nil
}

func (m *Memory) Append(_ context.Context, levelID, questionID string) error {
	if err := checkKeys(levelID, questionID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.levels[levelID] {
		if id == questionID {
			return nil
		}
	}
	m.levels[levelID] = append(m.levels[levelID], questionID)
	return nil
}

func (m *Memory) FirstLogin(context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.onboarded, nil
}

func (m *Memory) MarkOnboarded(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onboarded = true
	return nil
}

func (m *Memory) Close() error { return nil }
