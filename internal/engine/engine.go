// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package engine keeps a user's calendar progress consistent between the
// device and the server while tolerating connectivity loss.
//
// Opened windows always land in the durable local store first, so the
// calendar stays usable offline. Opens that the server has not confirmed
// wait in a durable queue and are delivered in order once the server is
// reachable again. A duplicate answer from the server counts as a
// confirmation, which makes redelivery after a crash or a lost response
// harmless.
//
// The engine publishes a single sync status so the UI can render one
// truthful indicator instead of deriving it from scattered state.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-calendar-sync/internal/adapter"
	"github.com/MKhiriev/go-calendar-sync/internal/host"
	"github.com/MKhiriev/go-calendar-sync/internal/logger"
	"github.com/MKhiriev/go-calendar-sync/internal/validators"
	"github.com/MKhiriev/go-calendar-sync/models"
)

// Config carries the per-user engine parameters.
type Config struct {
	// UserID is the authenticated owner of the progress being synced.
	UserID int64

	// WindowCount is the total number of windows in the calendar.
	// Window numbers run from 1 to WindowCount inclusive.
	WindowCount int
}

// Engine is the client-side synchronization core. It owns the local
// progress store, the pending-event queue, the reconciler and the status
// signal, and reacts to connectivity transitions reported by the host.
//
// All methods are safe for concurrent use. Drain passes are serialized:
// an explicit ForceDrain waits for a running pass, triggered drains are
// dropped while one is active.
type Engine struct {
	cfg        Config
	backend    adapter.Backend
	reach      host.Reachability
	progress   *ProgressStore
	queue      *SyncQueue
	reconciler *Reconciler
	signal     *StatusSignal
	monitor    *Monitor
	validator  validators.Validator

	// drainMu serializes drain passes, see ForceDrain and tryDrain.
	drainMu sync.Mutex

	logger *logger.Logger
}

// NewEngine assembles an engine for one user on top of the host's durable
// store and reachability source. Progress and queue state persisted by a
// previous run are restored immediately; when the restored queue is not
// empty the status starts as offline until a drain settles it.
func NewEngine(cfg Config, backend adapter.Backend, kv host.KV, reach host.Reachability, log *logger.Logger) *Engine {
	queue := NewSyncQueue(kv, queueKey(cfg.UserID), log)

	e := &Engine{
		cfg:        cfg,
		backend:    backend,
		reach:      reach,
		progress:   NewProgressStore(kv, progressKey(cfg.UserID), log),
		queue:      queue,
		reconciler: NewReconciler(backend, queue, log),
		signal:     NewStatusSignal(),
		validator:  validators.NewProgressValidator(cfg.WindowCount),
		logger:     log,
	}
	e.monitor = NewMonitor(reach, queue, e.signal, func() { go e.tryDrain(context.Background()) }, log)

	if !queue.IsEmpty() {
		e.signal.Set(models.StatusOffline)
	}

	return e
}

// Opened returns a copy of the locally known opened windows.
func (e *Engine) Opened() models.WindowSet {
	return e.progress.Current()
}

// Pending returns the number of events waiting for server confirmation.
func (e *Engine) Pending() int {
	return e.queue.Len()
}

// Status returns the current sync status.
func (e *Engine) Status() models.SyncStatus {
	return e.signal.Current()
}

// SubscribeStatus registers fn for sync status changes and returns an
// unsubscribe function.
func (e *Engine) SubscribeStatus(fn func(models.SyncStatus)) (unsubscribe func()) {
	return e.signal.Subscribe(fn)
}

// OpenWindow records that the user opened the given window. The local
// store is updated first and unconditionally; delivery to the server then
// depends on reachability:
//
//   - server unreachable: the event is queued and the status goes offline;
//   - server confirms, or answers that the window is already opened: the
//     open is synced;
//   - server unreachable mid-request: the event is queued for the next
//     reconnect;
//   - any other server failure: the event is queued and the status goes
//     to error until a later drain succeeds.
//
// Only an invalid window number produces an error. Sync failures are not
// errors from the caller's point of view: the open is accepted locally
// and its delivery is the engine's job.
func (e *Engine) OpenWindow(ctx context.Context, window int) error {
	if err := e.validator.Validate(ctx, models.OpenWindowRequest{Window: window}); err != nil {
		return fmt.Errorf("open window %d: %w", window, err)
	}

	e.progress.Add(window)

	if !e.reach.IsReachable() {
		e.queue.Enqueue(e.cfg.UserID, window)
		e.signal.Set(models.StatusOffline)
		return nil
	}

	e.signal.Set(models.StatusSyncing)
	err := e.backend.RecordOpen(ctx, e.cfg.UserID, window)
	switch {
	case err == nil, errors.Is(err, adapter.ErrDuplicateWindow):
		if e.queue.IsEmpty() {
			e.signal.Set(models.StatusSynced)
		} else {
			// older events are still pending, let a drain settle the status
			go e.tryDrain(context.Background())
		}

	case errors.Is(err, adapter.ErrBackendUnavailable):
		e.logger.Err(err).Str("func", "*Engine.OpenWindow").
			Int("window", window).
			Msg("server unavailable, queueing open for retry")
		e.queue.Enqueue(e.cfg.UserID, window)
		e.signal.Set(models.StatusOffline)

	default:
		e.logger.Err(err).Str("func", "*Engine.OpenWindow").
			Int("window", window).
			Msg("recording open failed, queueing for retry")
		e.queue.Enqueue(e.cfg.UserID, window)
		e.signal.Set(models.StatusError)
	}

	return nil
}

// ForceDrain runs a drain pass now, waiting for any active pass to finish
// first. It reports how the pass went; the status signal is updated to
// match.
func (e *Engine) ForceDrain(ctx context.Context) DrainResult {
	e.drainMu.Lock()
	defer e.drainMu.Unlock()

	return e.drainLocked(ctx)
}

// Reconcile fetches the authoritative opened-window list from the server,
// merges it into local progress and then drains pending events. It is the
// full synchronization cycle, run on login and periodically afterwards.
//
// A fetch failure aborts the cycle and is returned; local state is left
// untouched and queued events stay queued.
func (e *Engine) Reconcile(ctx context.Context) error {
	e.signal.Set(models.StatusSyncing)

	remote, err := e.backend.FetchOpened(ctx, e.cfg.UserID)
	if err != nil {
		switch {
		case errors.Is(err, adapter.ErrBackendUnavailable) && e.queue.IsEmpty():
			e.signal.Set(models.StatusSynced)
		case errors.Is(err, adapter.ErrBackendUnavailable):
			e.signal.Set(models.StatusOffline)
		default:
			e.signal.Set(models.StatusError)
		}

		return fmt.Errorf("fetch opened windows: %w", err)
	}

	merged := e.reconciler.MergeRemote(e.progress.Current(), remote)
	e.progress.Save(merged)

	e.drainMu.Lock()
	defer e.drainMu.Unlock()
	e.drainLocked(ctx)

	return nil
}

// Close detaches the engine from connectivity notifications. A drain in
// progress is not interrupted.
func (e *Engine) Close() {
	e.monitor.Close()
}

// tryDrain runs a drain pass unless one is already active. Triggered
// drains are best-effort: the active pass will settle the status anyway,
// and events it did not see stay queued for the next trigger.
func (e *Engine) tryDrain(ctx context.Context) {
	if !e.drainMu.TryLock() {
		return
	}
	defer e.drainMu.Unlock()

	e.drainLocked(ctx)
}

// drainLocked runs one drain pass and publishes the resulting status.
// The caller must hold drainMu.
func (e *Engine) drainLocked(ctx context.Context) DrainResult {
	if e.queue.IsEmpty() {
		e.signal.Set(models.StatusSynced)
		return DrainResult{}
	}

	e.signal.Set(models.StatusSyncing)
	res := e.reconciler.DrainQueue(ctx)
	e.signal.Set(e.statusAfter(res))

	return res
}

// statusAfter maps a finished drain pass to the status to publish:
// any failure besides server unavailability is an error, unavailability
// with events retained is offline, an emptied queue is synced.
func (e *Engine) statusAfter(res DrainResult) models.SyncStatus {
	for _, err := range res.Errors {
		if !errors.Is(err, adapter.ErrBackendUnavailable) {
			return models.StatusError
		}
	}
	if len(res.Errors) > 0 {
		return models.StatusOffline
	}
	if e.queue.IsEmpty() {
		return models.StatusSynced
	}

	// clean pass but events arrived mid-drain: their enqueuer publishes
	// the status for them
	return e.signal.Current()
}

// Storage keys are namespaced by user so one state file can serve several
// accounts on the same machine.

func progressKey(userID int64) string { return fmt.Sprintf("progress:%d", userID) }

func queueKey(userID int64) string { return fmt.Sprintf("queue:%d", userID) }
