// Package tui is the terminal front end of the calendar client.
//
// It runs as two consecutive Bubble Tea programs: the login flow
// (welcome, login, register screens) that ends with an authenticated
// token, and the main loop that renders the calendar grid on top of the
// sync engine. The sync status published by the engine is bridged into
// the program as messages, so the on-screen indicator always matches
// what the engine reports.
package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-calendar-sync/internal/adapter"
	"github.com/MKhiriev/go-calendar-sync/internal/engine"
	"github.com/MKhiriev/go-calendar-sync/internal/logger"
	"github.com/MKhiriev/go-calendar-sync/models"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUserQuit = errors.New("вышел из программы")

type TUI struct {
	backend     adapter.Backend
	windowCount int
	contentBase string
	logger      *logger.Logger
}

// New creates the terminal UI. contentBase is the address the window
// content links point at (the backend address in the demo setup).
func New(backend adapter.Backend, windowCount int, contentBase string, logger *logger.Logger) (*TUI, error) {
	return &TUI{
		backend:     backend,
		windowCount: windowCount,
		contentBase: contentBase,
		logger:      logger,
	}, nil
}

// LoginFlow walks the user through the welcome, login and register
// screens and returns the authenticated token. Returns [ErrUserQuit]
// when the user leaves without logging in.
func (t *TUI) LoginFlow(ctx context.Context) (models.Token, error) {
	model := newLoginAppModel(ctx, t.backend)

	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if runErr != nil {
		return models.Token{}, runErr
	}

	result, ok := finalModel.(appModel)
	if !ok {
		return models.Token{}, tea.ErrProgramKilled
	}
	if result.err != nil {
		return models.Token{}, result.err
	}

	return result.resultToken, nil
}

// MainLoop renders the calendar for an authenticated user on top of the
// sync engine. It blocks until the user quits or logs out; logout=true
// asks the caller to restart the login flow.
func (t *TUI) MainLoop(ctx context.Context, eng *engine.Engine) (logout bool, err error) {
	model := newMainAppModel(ctx, eng, t.windowCount, t.contentBase)

	// Engine status changes arrive from engine goroutines; hand them to
	// the program through a channel so all model updates stay on the
	// Bubble Tea loop. A burst beyond the buffer may drop intermediate
	// states, the calendar re-reads the current one on the next message.
	unsubscribe := eng.SubscribeStatus(func(status models.SyncStatus) {
		select {
		case model.statusCh <- status:
		default:
		}
	})
	defer unsubscribe()

	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if runErr != nil {
		return false, runErr
	}

	result, ok := finalModel.(appModel)
	if !ok {
		return false, tea.ErrProgramKilled
	}

	return result.logout, nil
}
