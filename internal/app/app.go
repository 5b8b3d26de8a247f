package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prepsom/levelplay/internal/answerstore"
	"github.com/prepsom/levelplay/internal/api"
	"github.com/prepsom/levelplay/internal/config"
	"github.com/prepsom/levelplay/internal/level"
	"github.com/prepsom/levelplay/internal/logging"
	"github.com/prepsom/levelplay/internal/metrics"
	"github.com/prepsom/levelplay/internal/play"
	"github.com/prepsom/levelplay/internal/server"
)

const onboardingBanner = `Welcome to PrepSOM!
Questions come in tiers: easy first, then medium, then hard.
Type the number of your choice, fill blanks one by one, and type :q to stop at any time.
Your progress is saved, so you can pick up where you left off.
`

// Application aggregates shared infrastructure of the terminal client (API client, answer
// store, metrics).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger
	user   string

	client  *api.Client
	store   answerstore.Store
	metrics *metrics.Metrics
	http    *http.Server
}

// New bootstraps logger, metrics, API client and the answer store for the token's user.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env, cfg.LogLevel)
	return NewWithLogger(ctx, cfg, logger)
}

// NewWithLogger is New with a caller-supplied logger.
func NewWithLogger(ctx context.Context, cfg *config.App, logger zerolog.Logger) (*Application, error) {
	logger.Debug().Msg("starting application bootstrap")

	user, err := api.UserFromToken(cfg.API.Token)
	if err != nil {
		logger.Warn().Err(err).Msg("could not read user from token; using anonymous progress")
		user = api.AnonymousUser
	}

	m := metrics.New(cfg.Name)

	client, err := api.NewClient(api.Config{
		BaseURL:  cfg.API.BaseURL,
		Token:    cfg.API.Token,
		Timeout:  cfg.API.Timeout,
		Observer: m,
	}, logger)
	if err != nil {
		return nil, err
	}

	store, ping, err := OpenStore(ctx, cfg, user, logger)
	if err != nil {
		return nil, fmt.Errorf("open answer store: %w", err)
	}

	a := &Application{
		cfg:     cfg,
		logger:  logger.With().Str("user", user).Logger(),
		user:    user,
		client:  client,
		store:   store,
		metrics: m,
	}
	if cfg.MetricsAddr != "" {
		a.http = server.NewHTTPServer(cfg.MetricsAddr, logger, m.Handler(), ping)
	}
	return a, nil
}

// PlayLevel runs one level visit over in/out and returns the server's completion result.
func (a *Application) PlayLevel(ctx context.Context, levelID string, in io.Reader, out io.Writer) (level.CompletionResult, error) {
	ctx = logging.IntoContext(ctx, a.logger.With().Str("visit_id", uuid.NewString()).Logger())
	logger := logging.FromContext(ctx)
	if a.http != nil {
		go func() {
			a.logger.Info().Str("addr", a.http.Addr).Msg("metrics server listening")
			if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	a.onboard(ctx, out)

	info, err := a.client.Level(ctx, levelID)
	if err != nil {
		logger.Warn().Err(err).Str("level_id", levelID).Msg("level metadata unavailable")
		info = level.Level{ID: levelID}
	}

	session, err := level.NewSession(levelID, a.client, a.store, level.Options{
		Logger:   logger,
		Recorder: a.metrics,
	})
	if err != nil {
		return level.CompletionResult{}, err
	}
	return play.NewPlayer(session, info, in, out, logger).Run(ctx)
}

func (a *Application) onboard(ctx context.Context, out io.Writer) {
	logger := logging.FromContext(ctx)
	first, err := a.store.FirstLogin(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("onboarding flag unavailable")
		return
	}
	if !first {
		return
	}
	fmt.Fprint(out, onboardingBanner+"\n")
	if err := a.store.MarkOnboarded(ctx); err != nil {
		logger.Warn().Err(err).Msg("mark onboarded")
	}
}

// Close releases the answer store and stops the metrics server.
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	if a.http != nil {
		errs = append(errs, a.http.Shutdown(ctx))
	}
	errs = append(errs, a.store.Close())
	return errors.Join(errs...)
}
