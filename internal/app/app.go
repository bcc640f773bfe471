package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stylecloset/wardrobe-service/internal/config"
	"github.com/stylecloset/wardrobe-service/internal/observability"
	"github.com/stylecloset/wardrobe-service/internal/service"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Server        *http.Server
	Observability *observability.Runtime
	Sessions      *service.SessionService
}

func New(cfg *config.Config, logger *slog.Logger, server *http.Server, runtime *observability.Runtime, sessions *service.SessionService) *App {
	return &App{Config: cfg, Logger: logger, Server: server, Observability: runtime, Sessions: sessions}
}

// Run serves until ctx is cancelled, then drains in-flight requests and shuts
// observability down last so the final log lines still export.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("http server listening", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if a.Sessions != nil && a.Config.SessionSweepInterval > 0 {
		g.Go(func() error {
			a.runSessionSweep(ctx)
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
		defer cancel()

		a.Logger.Info("shutting down")
		err := a.Server.Shutdown(shutdownCtx)
		if a.Observability != nil {
			if obsErr := a.Observability.Shutdown(shutdownCtx); obsErr != nil && err == nil {
				err = obsErr
			}
		}
		return err
	})

	return g.Wait()
}

// runSessionSweep periodically deletes expired session rows. Lazy expiry on
// resolve remains the authoritative mechanism; the sweep only bounds growth.
func (a *App) runSessionSweep(ctx context.Context) {
	ticker := time.NewTicker(a.Config.SessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := a.Sessions.SweepExpired(ctx)
			if err != nil {
				a.Logger.Error("session sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				a.Logger.Info("session sweep", "removed", removed)
			}
		}
	}
}
