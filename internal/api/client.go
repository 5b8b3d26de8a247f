package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/prepsom/levelplay/internal/level"
)

const defaultTimeout = 10 * time.Second

// Observer receives per-request latency and outcome.
type Observer interface {
	ObserveRequest(route, outcome string, d time.Duration)
}

// Config describes how to reach the PrepSOM API.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Observer   Observer
}

// Client talks to the PrepSOM REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	observer   Observer
	logger     zerolog.Logger
}

var _ level.Backend = (*Client)(nil)

// NewClient builds a client. A non-empty token is sent as a bearer token on every request.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if cfg.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		authed := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"}))
		authed.Timeout = httpClient.Timeout
		httpClient = authed
	}
	return &Client{
		baseURL:    base.String(),
		httpClient: httpClient,
		observer:   cfg.Observer,
		logger:     logger.With().Str("component", "api").Logger(),
	}, nil
}

// Level fetches level metadata.
func (c *Client) Level(ctx context.Context, levelID string) (level.Level, error) {
	var out levelResponse
	if err := c.do(ctx, "get_level", http.MethodGet, "/level/"+url.PathEscape(levelID), nil, &out); err != nil {
		return level.Level{}, err
	}
	return out.Level, nil
}

// LevelQuestions fetches the question pool and the server-recorded answered ids of a level.
func (c *Client) LevelQuestions(ctx context.Context, levelID string) (level.LevelQuestions, error) {
	var out levelQuestionsResponse
	path := "/level/" + url.PathEscape(levelID) + "/questions"
	if err := c.do(ctx, "level_questions", http.MethodGet, path, nil, &out); err != nil {
		return level.LevelQuestions{}, err
	}
	return level.LevelQuestions{
		All:           out.AllQuestions,
		AnsweredIDs:   out.AnsweredQuestionIDs,
		PointsInLevel: out.CurrentPointsInLevel,
	}, nil
}

// QuestionDetail fetches a question with its kind-specific payload.
func (c *Client) QuestionDetail(ctx context.Context, questionID string) (level.QuestionDetail, error) {
	var out questionResponse
	path := "/question/answers/" + url.PathEscape(questionID)
	if err := c.do(ctx, "question_detail", http.MethodGet, path, nil, &out); err != nil {
		return level.QuestionDetail{}, err
	}
	return out.Question, nil
}

// SubmitAnswer posts one answer. The body shape depends on the answer kind.
func (c *Client) SubmitAnswer(ctx context.Context, req level.SubmitRequest) (level.QuestionResponse, error) {
	body, err := encodeSubmit(req)
	if err != nil {
		return level.QuestionResponse{}, err
	}
	var out submitResponse
	if err := c.do(ctx, "submit_answer", http.MethodPost, "/question-response", body, &out); err != nil {
		return level.QuestionResponse{}, err
	}
	resp := out.QuestionResponse
	if resp.QuestionID == "" {
		resp.QuestionID = req.QuestionID
	}
	resp.CorrectData = out.CorrectData
	return resp, nil
}

// CompleteLevel asks the server to finalize a level.
func (c *Client) CompleteLevel(ctx context.Context, levelID string) (level.CompletionResult, error) {
	var out level.CompletionResult
	path := "/level/" + url.PathEscape(levelID) + "/complete"
	if err := c.do(ctx, "complete_level", http.MethodPost, path, struct{}{}, &out); err != nil {
		return level.CompletionResult{}, err
	}
	return out, nil
}

func encodeSubmit(req level.SubmitRequest) (submitBody, error) {
	body := submitBody{QuestionID: req.QuestionID, TimeTaken: req.TimeTaken}
	switch a := req.Answer.(type) {
	case level.MCQAnswer:
		body.SelectedAnswerID = a.OptionID
	case level.FillInBlankAnswer:
		body.Answers = a.Blanks
	case level.MatchingAnswer:
		body.Pairs = a.Pairs
	default:
		return submitBody{}, fmt.Errorf("%w: unsupported answer type %T", level.ErrInvalidAnswer, req.Answer)
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (err error) {
	start := time.Now()
	defer func() {
		if c.observer != nil {
			outcome := "ok"
			if err != nil {
				outcome = KindOf(err).String()
			}
			c.observer.ObserveRequest(op, outcome, time.Since(start))
		}
	}()

	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Status: resp.StatusCode, Err: err}
	}

	c.logger.Debug().
		Str("op", op).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api call")

	if resp.StatusCode >= 300 {
		return statusError(op, resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Op: op, Kind: KindServer, Status: resp.StatusCode, Message: "malformed response", Err: err}
	}
	return nil
}

func statusError(op string, status int, data []byte) *Error {
	kind := KindServer
	if status >= 400 && status < 500 {
		kind = KindValidation
	}
	var body errorBody
	msg := ""
	if json.Unmarshal(data, &body) == nil {
		msg = body.Message
		if msg == "" {
			msg = body.Error
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Op: op, Kind: kind, Status: status, Message: msg}
}
