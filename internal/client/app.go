package client

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/MKhiriev/go-calendar-sync/internal/adapter"
	"github.com/MKhiriev/go-calendar-sync/internal/config"
	"github.com/MKhiriev/go-calendar-sync/internal/engine"
	"github.com/MKhiriev/go-calendar-sync/internal/host"
	"github.com/MKhiriev/go-calendar-sync/internal/logger"
	"github.com/MKhiriev/go-calendar-sync/internal/tui"
	"github.com/MKhiriev/go-calendar-sync/internal/workers"
)

type App struct {
	backend adapter.Backend
	kv      host.KV
	prober  *host.Prober
	tui     *tui.TUI
	cfg     *config.ClientConfig
	logger  *logger.Logger
}

func NewApp(backend adapter.Backend, kv host.KV, prober *host.Prober, ui *tui.TUI, cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	return &App{
		backend: backend,
		kv:      kv,
		prober:  prober,
		tui:     ui,
		cfg:     cfg,
		logger:  log,
	}, nil
}

// Run drives one full client session: authenticate, assemble the sync
// engine for the authenticated user, reconcile with the server, then hand
// the terminal to the calendar loop. On logout the whole cycle restarts
// with a fresh login.
func (a *App) Run() error {
	ctx := context.Background()

	token, err := a.tui.LoginFlow(ctx)
	if err != nil {
		if errors.Is(err, tui.ErrUserQuit) {
			return nil
		}
		return fmt.Errorf("login flow: %w", err)
	}

	eng := engine.NewEngine(engine.Config{
		UserID:      token.UserID,
		WindowCount: a.cfg.App.WindowCount,
	}, a.backend, a.kv, a.prober, a.logger)
	defer eng.Close()

	reconcileJob := workers.NewReconcileJob(eng, a.cfg.Workers.SyncInterval, a.logger)
	background := workers.NewWorkers(a.prober, reconcileJob)
	background.Start(ctx)
	defer background.Stop()

	// First reconcile pulls progress made on other devices. A failure is
	// not fatal: local state serves the UI and queued opens are retried
	// by the monitor and the periodic job.
	if err = eng.Reconcile(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "sync warning: %v\n", err)
	}

	logout, err := a.tui.MainLoop(ctx, eng)
	if err != nil {
		return err
	}
	if logout {
		background.Stop()
		eng.Close()
		return a.Run()
	}

	return nil
}
