// Package devserver is a local stand-in for the PrepSOM REST API. It serves the level,
// question, answer and completion endpoints from a YAML fixture and keeps per-user
// progress in memory.
package devserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/prepsom/levelplay/internal/level"
	httperrors "github.com/prepsom/levelplay/pkg/http/errors"
)

// GradeRecorder receives one event per graded submission.
type GradeRecorder interface {
	Graded(kind level.Kind, correct bool)
}

// Options configures the router.
type Options struct {
	// Prefix is the base path the API is mounted under, e.g. "/api/v1".
	Prefix         string
	Recorder       GradeRecorder
	MetricsHandler http.Handler
}

// Server serves a fixture.
type Server struct {
	levels    map[string]FixtureLevel
	questions map[string]questionRef
	state     *state
	logger    zerolog.Logger
	opts      Options
	router    chi.Router
}

type questionRef struct {
	levelID  string
	question FixtureQuestion
}

// New builds a Server over fixture.
func New(fixture *Fixture, logger zerolog.Logger, opts Options) *Server {
	s := &Server{
		levels:    make(map[string]FixtureLevel, len(fixture.Levels)),
		questions: make(map[string]questionRef),
		state:     newState(),
		logger:    logger.With().Str("component", "devserver").Logger(),
		opts:      opts,
	}
	for _, lvl := range fixture.Levels {
		s.levels[lvl.ID] = lvl
		for _, q := range lvl.Questions {
			s.questions[q.ID] = questionRef{levelID: lvl.ID, question: q}
		}
	}
	s.router = s.routes()
	return s
}

// Router returns the configured HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.opts.MetricsHandler != nil {
		r.Handle("/metrics", s.opts.MetricsHandler)
	}

	endpoints := func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/level/{levelId}", s.handleGetLevel)
		r.Get("/level/{levelId}/questions", s.handleLevelQuestions)
		r.Post("/level/{levelId}/complete", s.handleCompleteLevel)
		r.Get("/question/answers/{questionId}", s.handleQuestionDetail)
		r.Post("/question-response", s.handleQuestionResponse)
	}
	if prefix := strings.Trim(s.opts.Prefix, "/"); prefix != "" {
		r.Route("/"+prefix, endpoints)
	} else {
		r.Group(endpoints)
	}
	return r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			s.logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		}()
		next.ServeHTTP(ww, r)
	})
}

func (s *Server) handleGetLevel(w http.ResponseWriter, r *http.Request) {
	lvl, ok := s.levels[chi.URLParam(r, "levelId")]
	if !ok {
		httperrors.RespondNotFound(w, httperrors.ErrCodeLevelNotFound, "Level not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "level": lvl.toLevel()})
}

func (s *Server) handleLevelQuestions(w http.ResponseWriter, r *http.Request) {
	lvl, ok := s.levels[chi.URLParam(r, "levelId")]
	if !ok {
		httperrors.RespondNotFound(w, httperrors.ErrCodeLevelNotFound, "Level not found")
		return
	}
	answered, points := s.state.snapshot(userFrom(r.Context()), lvl.ID)
	all := make([]level.Question, 0, len(lvl.Questions))
	for _, q := range lvl.Questions {
		all = append(all, q.summary(lvl.ID))
	}
	if answered == nil {
		answered = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":              true,
		"allQuestions":         all,
		"answeredQuestionIds":  answered,
		"currentPointsInLevel": points,
	})
}

func (s *Server) handleQuestionDetail(w http.ResponseWriter, r *http.Request) {
	ref, ok := s.questions[chi.URLParam(r, "questionId")]
	if !ok {
		httperrors.RespondNotFound(w, httperrors.ErrCodeQuestionNotFound, "Question not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "question": ref.question.detail(ref.levelID)})
}

func (s *Server) handleQuestionResponse(w http.ResponseWriter, r *http.Request) {
	var body submission
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Malformed request body")
		return
	}
	if body.QuestionID == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "questionId is required", "questionId")
		return
	}
	ref, ok := s.questions[body.QuestionID]
	if !ok {
		httperrors.RespondNotFound(w, httperrors.ErrCodeQuestionNotFound, "Question not found")
		return
	}
	kind, ok := body.kind()
	if !ok || kind != ref.question.Type {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeKindMismatch, "Answer does not match the question type")
		return
	}

	correct, correctData := grade(ref.question, body)
	points := 0
	if correct {
		points = ref.question.award()
	}
	rec, err := s.state.record(userFrom(r.Context()), ref.levelID, body.QuestionID, correct, points, body.TimeTaken)
	if err != nil {
		httperrors.RespondConflict(w, httperrors.ErrCodeAlreadyAnswered, "Question already answered. Reload the level to continue.")
		return
	}
	if s.opts.Recorder != nil {
		s.opts.Recorder.Graded(kind, correct)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"questionResponse": level.QuestionResponse{
			ID:           rec.id,
			QuestionID:   body.QuestionID,
			IsCorrect:    correct,
			PointsEarned: points,
			TimeTaken:    body.TimeTaken,
		},
		"correctData": correctData,
	})
}

func (s *Server) handleCompleteLevel(w http.ResponseWriter, r *http.Request) {
	lvl, ok := s.levels[chi.URLParam(r, "levelId")]
	if !ok {
		httperrors.RespondNotFound(w, httperrors.ErrCodeLevelNotFound, "Level not found")
		return
	}
	res, ok := s.state.complete(userFrom(r.Context()), lvl)
	if !ok {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeLevelIncomplete, "Answer every question before completing the level")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// writeJSON encodes before writing the status so an unencodable payload still yields a
// 500 envelope.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		httperrors.RespondInternalError(w, "Failed to encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}
