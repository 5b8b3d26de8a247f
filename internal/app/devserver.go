package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/prepsom/levelplay/internal/config"
	"github.com/prepsom/levelplay/internal/devserver"
	"github.com/prepsom/levelplay/internal/logging"
	"github.com/prepsom/levelplay/internal/metrics"
)

// DevServer hosts the fixture-backed stand-in for the PrepSOM API.
type DevServer struct {
	logger zerolog.Logger
	http   *http.Server
}

// NewDevServer loads the fixture and builds the HTTP server.
func NewDevServer(cfg *config.App) (*DevServer, error) {
	logger := logging.New(cfg.Name+"-devserver", cfg.Env, cfg.LogLevel)

	fixture, err := devserver.LoadFixture(cfg.DevServer.Fixture)
	if err != nil {
		return nil, err
	}
	m := metrics.New(cfg.Name)
	srv := devserver.New(fixture, logger, devserver.Options{
		Prefix:         cfg.DevServer.Prefix,
		Recorder:       m,
		MetricsHandler: m.Handler(),
	})

	logger.Info().Int("levels", len(fixture.Levels)).Str("fixture", cfg.DevServer.Fixture).Msg("fixture loaded")
	return &DevServer{
		logger: logger,
		http: &http.Server{
			Addr:              cfg.DevServer.Addr,
			Handler:           srv.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Run blocks until SIGINT/SIGTERM or a server error.
func (d *DevServer) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		d.logger.Info().Str("addr", d.http.Addr).Msg("devserver listening")
		if err := d.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	d.logger.Info().Msg("shutting down devserver")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.http.Shutdown(shutdownCtx)
}
