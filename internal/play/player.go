// Package play runs a level session interactively over a line-oriented terminal.
package play

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/prepsom/levelplay/internal/level"
)

var (
	// ErrQuit is returned when the player ends input before the level is finished.
	ErrQuit = errors.New("player quit")
	// ErrUnanswerable is returned when the current question carries no options, blanks or
	// pairs to respond to, or has an unknown kind.
	ErrUnanswerable = errors.New("question cannot be answered")
)

// Player drives one session from an input stream.
type Player struct {
	session *level.Session
	info    level.Level
	in      *bufio.Scanner
	out     io.Writer
	now     func() time.Time
	logger  zerolog.Logger
}

// NewPlayer binds a session to in/out. info is shown in the header and may be zero.
func NewPlayer(session *level.Session, info level.Level, in io.Reader, out io.Writer, logger zerolog.Logger) *Player {
	return &Player{
		session: session,
		info:    info,
		in:      bufio.NewScanner(in),
		out:     out,
		now:     time.Now,
		logger:  logger.With().Str("component", "player").Logger(),
	}
}

func (p *Player) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", ErrQuit
	}
	line := strings.TrimSpace(p.in.Text())
	if line == ":q" {
		return "", ErrQuit
	}
	return line, nil
}

// Run plays until the level completes, input ends, or loading fails. Submission errors
// are shown and the same question is offered again.
func (p *Player) Run(ctx context.Context) (level.CompletionResult, error) {
	if p.info.ID == "" {
		p.info.ID = p.session.LevelID()
	}
	step, err := p.session.Start(ctx)
	if err != nil {
		fmt.Fprintln(p.out, Notice(err))
		return level.CompletionResult{}, err
	}

	for !step.Done() {
		if err := ctx.Err(); err != nil {
			return level.CompletionResult{}, err
		}
		q, err := p.session.CurrentQuestion(ctx)
		if err != nil {
			fmt.Fprintln(p.out, Notice(err))
			return level.CompletionResult{}, err
		}

		answered, total := p.session.Progress()
		renderHeader(p.out, p.info, answered, total, p.session.Points())
		renderQuestion(p.out, step.State, q)

		started := p.now()
		answer, err := readAnswer(p, q)
		if errors.Is(err, ErrQuit) {
			fmt.Fprintln(p.out, "\nProgress saved. Come back any time.")
			return level.CompletionResult{}, ErrQuit
		}
		if errors.Is(err, ErrUnanswerable) {
			p.logger.Error().Err(err).Str("question_id", q.ID).Msg("question cannot be answered")
			fmt.Fprintln(p.out, Notice(err))
			return level.CompletionResult{}, err
		}
		if err != nil && !errors.Is(err, level.ErrInvalidAnswer) {
			return level.CompletionResult{}, err
		}
		if err != nil {
			fmt.Fprintln(p.out, Notice(err))
			continue
		}

		sub, next, err := p.session.Submit(ctx, answer, p.now().Sub(started))
		if err != nil {
			fmt.Fprintln(p.out, Notice(err))
			continue
		}
		renderFeedback(p.out, q, sub)
		step = next
	}

	res, ok := p.session.Completion()
	if !ok {
		// completion runs inside Start/Submit; reaching here without it is a bug
		return level.CompletionResult{}, fmt.Errorf("level finished without a completion result")
	}
	renderCompletion(p.out, res)
	return res, nil
}
