package level

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Options tunes a Session. Zero values are usable.
type Options struct {
	Logger   zerolog.Logger
	Recorder Recorder
}

// Session is one visit of one level: it loads the question pool, resumes from the
// answered-set, sequences questions, submits answers and finalizes the level.
type Session struct {
	levelID    string
	backend    Backend
	store      AnswerStore
	recorder   Recorder
	reconciler *Reconciler
	logger     zerolog.Logger

	busy atomic.Bool

	mu         sync.RWMutex
	started    bool
	questions  []Question
	answered   *AnsweredSet
	machine    *Machine
	step       Step
	details    map[string]QuestionDetail
	points     int
	earned     int
	due        bool
	completion *CompletionResult
}

// NewSession prepares a session. Nothing is fetched until Start.
func NewSession(levelID string, backend Backend, store AnswerStore, opts Options) (*Session, error) {
	if levelID == "" {
		return nil, ErrEmptyLevelID
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	logger := opts.Logger.With().Str("component", "session").Str("level_id", levelID).Logger()
	s := &Session{
		levelID:    levelID,
		backend:    backend,
		store:      store,
		recorder:   recorder,
		reconciler: NewReconciler(backend, recorder, logger),
		logger:     logger,
		details:    make(map[string]QuestionDetail),
	}
	s.machine = NewMachine(s.complete)
	return s, nil
}

// Start fetches the level snapshot, merges the stored resume hints with the server
// answered ids and selects the first question. A level with nothing left completes here.
func (s *Session) Start(ctx context.Context) (Step, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return Step{}, ErrSubmitInFlight
	}
	defer s.busy.Store(false)

	snap, err := s.backend.LevelQuestions(ctx, s.levelID)
	if err != nil {
		return Step{}, fmt.Errorf("load level questions: %w", err)
	}

	var local []string
	if s.store != nil {
		local, err = s.store.Load(ctx, s.levelID)
		if err != nil {
			s.logger.Warn().Err(err).Msg("answer store load failed; resuming from server state only")
			local = nil
		}
	}

	s.mu.Lock()
	s.questions = snap.All
	s.answered = NewAnsweredSet(snap.AnsweredIDs, local)
	s.points = snap.PointsInLevel
	s.started = true
	s.step = s.machine.Advance(ctx, s.answered, s.questions)
	step := s.step

	s.logger.Info().
		Int("questions", len(s.questions)).
		Int("answered_server", len(snap.AnsweredIDs)).
		Int("answered_local", len(local)).
		Str("state", step.State.String()).
		Msg("level session started")
	s.mu.Unlock()

	s.finish(ctx)
	return step, nil
}

// Step returns the current sequencer position.
func (s *Session) Step() Step {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.step
}

// CurrentQuestion returns the full payload of the question being presented, fetching it
// on first use.
func (s *Session) CurrentQuestion(ctx context.Context) (QuestionDetail, error) {
	s.mu.RLock()
	started, step := s.started, s.step
	var cached QuestionDetail
	var ok bool
	if step.Question != nil {
		cached, ok = s.details[step.Question.ID]
	}
	s.mu.RUnlock()

	if !started {
		return QuestionDetail{}, ErrNotStarted
	}
	if step.Question == nil {
		return QuestionDetail{}, ErrLevelComplete
	}
	if ok {
		return cached, nil
	}

	detail, err := s.backend.QuestionDetail(ctx, step.Question.ID)
	if err != nil {
		return QuestionDetail{}, fmt.Errorf("load question %s: %w", step.Question.ID, err)
	}
	// The summary row is authoritative for sequencing fields.
	detail.Question = *step.Question

	s.mu.Lock()
	s.details[step.Question.ID] = detail
	s.mu.Unlock()
	return detail, nil
}

// Submit sends answer for the current question. Only one call may be in flight. On any
// error the answered-set, the store and the point total are left untouched, so the same
// question is offered again.
func (s *Session) Submit(ctx context.Context, answer Answer, elapsed time.Duration) (Submission, Step, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return Submission{}, Step{}, ErrSubmitInFlight
	}
	defer s.busy.Store(false)

	detail, err := s.CurrentQuestion(ctx)
	if err != nil {
		return Submission{}, s.Step(), err
	}
	if err := ValidateAnswer(detail, answer); err != nil {
		return Submission{}, s.Step(), err
	}

	resp, err := s.backend.SubmitAnswer(ctx, SubmitRequest{
		QuestionID: detail.ID,
		TimeTaken:  int(elapsed.Round(time.Second) / time.Second),
		Answer:     answer,
	})
	if err != nil {
		s.recorder.AnswerFailed(detail.Kind)
		s.logger.Warn().Err(err).Str("question_id", detail.ID).Msg("answer submission failed")
		return Submission{}, s.Step(), fmt.Errorf("submit answer: %w", err)
	}
	s.recorder.AnswerSubmitted(detail.Kind, resp.IsCorrect)

	sub := Submission{Response: resp, Elapsed: elapsed}
	if s.store != nil {
		if err := s.store.Append(ctx, s.levelID, detail.ID); err != nil {
			s.logger.Error().Err(err).Str("question_id", detail.ID).Msg("answer store append failed")
			sub.StoreErr = err
		}
	}

	s.mu.Lock()
	s.answered.Add(detail.ID)
	s.points += resp.PointsEarned
	s.earned += resp.PointsEarned
	sub.TotalPoints = s.points
	s.step = s.machine.Advance(ctx, s.answered, s.questions)
	step := s.step

	s.logger.Debug().
		Str("question_id", detail.ID).
		Bool("correct", resp.IsCorrect).
		Int("points", resp.PointsEarned).
		Str("state", step.State.String()).
		Msg("answer recorded")
	s.mu.Unlock()

	s.finish(ctx)
	return sub, step, nil
}

// complete is the machine's completion hook. It runs with s.mu held and only marks the
// level as due; finish talks to the server once the lock is released.
func (s *Session) complete(context.Context) {
	s.due = true
}

// finish runs the reconciler for a due level. Callers hold the busy guard, not s.mu.
func (s *Session) finish(ctx context.Context) {
	s.mu.Lock()
	due := s.due
	s.due = false
	points, earned := s.points, s.earned
	s.mu.Unlock()
	if !due {
		return
	}

	res := s.reconciler.Complete(ctx, s.levelID)
	s.logger.Debug().
		Int("client_points", points).
		Int("client_points_earned", earned).
		Int("server_correct", res.CorrectCount).
		Msg("client point total is advisory; server result shown")

	s.mu.Lock()
	s.completion = &res
	s.mu.Unlock()
}

// Completion returns the server result once the level has been finalized this visit.
func (s *Session) Completion() (CompletionResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.completion == nil {
		return CompletionResult{}, false
	}
	return *s.completion, true
}

// Points is the advisory running point total for the level.
func (s *Session) Points() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.points
}

// Progress reports answered and total question counts.
func (s *Session) Progress() (answered, total int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, q := range s.questions {
		if s.answered.Has(q.ID) {
			answered++
		}
	}
	return answered, len(s.questions)
}

// LevelID returns the level this session plays.
func (s *Session) LevelID() string {
	return s.levelID
}
