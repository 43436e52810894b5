// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-calendar-sync/internal/adapter"
	"github.com/MKhiriev/go-calendar-sync/internal/host"
	"github.com/MKhiriev/go-calendar-sync/internal/logger"
	"github.com/MKhiriev/go-calendar-sync/internal/validators"
	"github.com/MKhiriev/go-calendar-sync/models"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type engineFixture struct {
	engine  *Engine
	backend *fakeBackend
	kv      *host.MemoryKV
	reach   *host.FakeReachability
}

func newTestEngine(t *testing.T, reachable bool) *engineFixture {
	t.Helper()

	return newTestEngineOn(t, host.NewMemoryKV(), reachable)
}

func newTestEngineOn(t *testing.T, kv *host.MemoryKV, reachable bool) *engineFixture {
	t.Helper()

	backend := newFakeBackend()
	reach := host.NewFakeReachability(reachable)
	e := NewEngine(Config{UserID: testUserID, WindowCount: 24}, backend, kv, reach, logger.Nop())
	t.Cleanup(e.Close)

	return &engineFixture{engine: e, backend: backend, kv: kv, reach: reach}
}

func unavailableErr() error {
	return fmt.Errorf("record open: %w", adapter.ErrBackendUnavailable)
}

// statusRecorder collects status transitions from subscription callbacks,
// which may fire on drain goroutines.
type statusRecorder struct {
	mu       sync.Mutex
	statuses []models.SyncStatus
}

func (r *statusRecorder) record(s models.SyncStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.statuses = append(r.statuses, s)
}

func (r *statusRecorder) all() []models.SyncStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.SyncStatus, len(r.statuses))
	copy(out, r.statuses)
	return out
}

// ── opening windows ──────────────────────────────────────────────────

func TestEngine_StartsSyncedWhenIdle(t *testing.T) {
	fx := newTestEngine(t, true)

	assert.Equal(t, models.StatusSynced, fx.engine.Status())
	assert.Zero(t, fx.engine.Pending())
	assert.Zero(t, fx.engine.Opened().Len())
}

func TestEngine_OpenWindowOnline(t *testing.T) {
	fx := newTestEngine(t, true)

	require.NoError(t, fx.engine.OpenWindow(context.Background(), 5))

	assert.True(t, fx.engine.Opened().Contains(5))
	assert.Zero(t, fx.engine.Pending())
	assert.Equal(t, models.StatusSynced, fx.engine.Status())
	assert.Equal(t, []int{5}, fx.backend.recordedOpens())
}

func TestEngine_OpenWindowRejectsOutOfRange(t *testing.T) {
	fx := newTestEngine(t, true)

	for _, window := range []int{0, -1, 25} {
		err := fx.engine.OpenWindow(context.Background(), window)
		require.ErrorIs(t, err, validators.ErrWindowOutOfRange, "window %d", window)
	}

	assert.Zero(t, fx.engine.Opened().Len())
	assert.Zero(t, fx.engine.Pending())
	assert.Empty(t, fx.backend.recordedOpens())
}

func TestEngine_OpenWindowOffline(t *testing.T) {
	fx := newTestEngine(t, false)

	require.NoError(t, fx.engine.OpenWindow(context.Background(), 3))

	assert.True(t, fx.engine.Opened().Contains(3), "the open lands locally before any network work")
	assert.Equal(t, 1, fx.engine.Pending())
	assert.Equal(t, models.StatusOffline, fx.engine.Status())
	assert.Empty(t, fx.backend.recordedOpens(), "no request is attempted while unreachable")
}

func TestEngine_OpenWindowServerUnavailable(t *testing.T) {
	fx := newTestEngine(t, true)
	fx.backend.failAllWith(unavailableErr())

	require.NoError(t, fx.engine.OpenWindow(context.Background(), 7))

	assert.True(t, fx.engine.Opened().Contains(7))
	assert.Equal(t, 1, fx.engine.Pending())
	assert.Equal(t, models.StatusOffline, fx.engine.Status())
}

func TestEngine_OpenWindowServerRejects(t *testing.T) {
	fx := newTestEngine(t, true)
	fx.backend.failWith(4, adapter.ErrUnauthorized)

	require.NoError(t, fx.engine.OpenWindow(context.Background(), 4),
		"a sync failure is not the caller's error, the open is accepted locally")

	assert.True(t, fx.engine.Opened().Contains(4))
	assert.Equal(t, 1, fx.engine.Pending())
	assert.Equal(t, models.StatusError, fx.engine.Status())
}

func TestEngine_OpenWindowDuplicateAnswerIsSynced(t *testing.T) {
	fx := newTestEngine(t, true)
	fx.backend.failWith(6, adapter.ErrDuplicateWindow)

	require.NoError(t, fx.engine.OpenWindow(context.Background(), 6))

	assert.Zero(t, fx.engine.Pending())
	assert.Equal(t, models.StatusSynced, fx.engine.Status())
}

func TestEngine_OpenWindowSuccessDrainsBacklog(t *testing.T) {
	fx := newTestEngine(t, true)

	fx.backend.failAllWith(unavailableErr())
	require.NoError(t, fx.engine.OpenWindow(context.Background(), 1))
	require.Equal(t, 1, fx.engine.Pending())

	// the server heals without a reachability edge; the next successful
	// open triggers an opportunistic drain of the backlog
	fx.backend.failAllWith(nil)
	require.NoError(t, fx.engine.OpenWindow(context.Background(), 2))

	require.Eventually(t, func() bool {
		return fx.engine.Pending() == 0 && fx.engine.Status() == models.StatusSynced
	}, waitFor, tick)
	assert.Equal(t, []int{1, 2}, fx.engine.Opened().Sorted())
}

// ── connectivity transitions ─────────────────────────────────────────

func TestEngine_ReconnectDrainsQueue(t *testing.T) {
	fx := newTestEngine(t, false)

	require.NoError(t, fx.engine.OpenWindow(context.Background(), 1))
	require.NoError(t, fx.engine.OpenWindow(context.Background(), 2))
	require.Equal(t, 2, fx.engine.Pending())

	fx.reach.SetReachable(true)

	require.Eventually(t, func() bool {
		return fx.engine.Pending() == 0 && fx.engine.Status() == models.StatusSynced
	}, waitFor, tick)
	assert.Equal(t, []int{1, 2}, fx.backend.recordedOpens(), "events drain in enqueue order")
	assert.Equal(t, []int{1, 2}, fx.engine.Opened().Sorted())
}

func TestEngine_ReconnectToFailingServerStaysOffline(t *testing.T) {
	fx := newTestEngine(t, false)
	require.NoError(t, fx.engine.OpenWindow(context.Background(), 1))

	fx.backend.failAllWith(unavailableErr())
	fx.reach.SetReachable(true)

	require.Eventually(t, func() bool {
		return len(fx.backend.recordedOpens()) >= 1 && fx.engine.Status() == models.StatusOffline
	}, waitFor, tick, "an unavailable server is offline, not an error")
	assert.Equal(t, 1, fx.engine.Pending())
}

func TestEngine_DisconnectWithPendingEventsGoesOffline(t *testing.T) {
	fx := newTestEngine(t, true)
	fx.backend.failWith(2, adapter.ErrUnauthorized)

	require.NoError(t, fx.engine.OpenWindow(context.Background(), 2))
	require.Equal(t, models.StatusError, fx.engine.Status())

	fx.reach.SetReachable(false)

	assert.Equal(t, models.StatusOffline, fx.engine.Status())
}

func TestEngine_DisconnectWithEmptyQueueStaysSynced(t *testing.T) {
	fx := newTestEngine(t, true)
	require.NoError(t, fx.engine.OpenWindow(context.Background(), 1))

	fx.reach.SetReachable(false)

	assert.Equal(t, models.StatusSynced, fx.engine.Status(),
		"with nothing to deliver, losing the connection changes nothing")
}

// ── draining ─────────────────────────────────────────────────────────

func TestEngine_ForceDrainReportsOutcome(t *testing.T) {
	fx := newTestEngine(t, false)
	require.NoError(t, fx.engine.OpenWindow(context.Background(), 1))
	require.NoError(t, fx.engine.OpenWindow(context.Background(), 2))
	require.NoError(t, fx.engine.OpenWindow(context.Background(), 3))
	fx.backend.failWith(2, adapter.ErrUnauthorized)

	// an explicit drain is attempted even while considered unreachable
	res := fx.engine.ForceDrain(context.Background())

	assert.Equal(t, 2, res.Synced)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, fx.engine.Pending())
	assert.Equal(t, models.StatusError, fx.engine.Status())
}

func TestEngine_ForceDrainOnEmptyQueue(t *testing.T) {
	fx := newTestEngine(t, true)

	res := fx.engine.ForceDrain(context.Background())

	assert.Zero(t, res.Synced)
	assert.Zero(t, res.Failed)
	assert.Equal(t, models.StatusSynced, fx.engine.Status())
}

func TestEngine_OpenWindowDuringDrainIsPreserved(t *testing.T) {
	fx := newTestEngine(t, false)
	require.NoError(t, fx.engine.OpenWindow(context.Background(), 1))
	require.NoError(t, fx.engine.OpenWindow(context.Background(), 2))

	entered := make(chan struct{})
	release := make(chan struct{})
	fx.backend.setHook(func(window int) {
		if window == 1 {
			entered <- struct{}{}
			<-release
		}
	})
	fx.backend.failWith(9, unavailableErr())

	fx.reach.SetReachable(true)
	<-entered // the drain pass is now holding window 1 mid-flight

	require.NoError(t, fx.engine.OpenWindow(context.Background(), 9))
	require.Equal(t, 3, fx.engine.Pending())

	close(release)

	require.Eventually(t, func() bool {
		return fx.engine.Pending() == 1
	}, waitFor, tick, "the event enqueued mid-drain must survive the pass")
	assert.Equal(t, models.StatusOffline, fx.engine.Status())

	fx.backend.failWith(9, nil)
	res := fx.engine.ForceDrain(context.Background())

	assert.Equal(t, 1, res.Synced)
	assert.Zero(t, fx.engine.Pending())
	assert.Equal(t, models.StatusSynced, fx.engine.Status())
	assert.Equal(t, []int{1, 2, 9}, fx.engine.Opened().Sorted())
}

func TestEngine_RepeatedOpenSelfResolves(t *testing.T) {
	fx := newTestEngine(t, false)
	fx.backend.answerDuplicates()

	require.NoError(t, fx.engine.OpenWindow(context.Background(), 4))
	require.NoError(t, fx.engine.OpenWindow(context.Background(), 4))

	require.Equal(t, 2, fx.engine.Pending(), "both opens are queued")
	require.Equal(t, 1, fx.engine.Opened().Len())

	fx.reach.SetReachable(true)

	require.Eventually(t, func() bool {
		return fx.engine.Pending() == 0 && fx.engine.Status() == models.StatusSynced
	}, waitFor, tick, "the duplicate answer confirms the second event")
	assert.Equal(t, []int{4, 4}, fx.backend.recordedOpens())
}

// ── durability ───────────────────────────────────────────────────────

func TestEngine_RestartRestoresDurableState(t *testing.T) {
	kv := host.NewMemoryKV()

	first := newTestEngineOn(t, kv, false)
	require.NoError(t, first.engine.OpenWindow(context.Background(), 1))
	require.NoError(t, first.engine.OpenWindow(context.Background(), 2))
	first.engine.Close()

	second := newTestEngineOn(t, kv, false)

	assert.Equal(t, []int{1, 2}, second.engine.Opened().Sorted())
	assert.Equal(t, 2, second.engine.Pending())
	assert.Equal(t, models.StatusOffline, second.engine.Status(),
		"restored pending events start the session as offline until a drain settles it")

	second.reach.SetReachable(true)

	require.Eventually(t, func() bool {
		return second.engine.Pending() == 0 && second.engine.Status() == models.StatusSynced
	}, waitFor, tick)
	assert.Equal(t, []int{1, 2}, second.backend.recordedOpens())
}

func TestEngine_UsersDoNotShareState(t *testing.T) {
	kv := host.NewMemoryKV()

	first := newTestEngineOn(t, kv, false)
	require.NoError(t, first.engine.OpenWindow(context.Background(), 1))

	other := NewEngine(Config{UserID: 2, WindowCount: 24},
		newFakeBackend(), kv, host.NewFakeReachability(false), logger.Nop())
	t.Cleanup(other.Close)

	assert.Zero(t, other.Opened().Len())
	assert.Zero(t, other.Pending())
	assert.Equal(t, models.StatusSynced, other.Status())
}

// ── reconciliation ───────────────────────────────────────────────────

func TestEngine_ReconcileMergesAndDrains(t *testing.T) {
	fx := newTestEngine(t, false)
	require.NoError(t, fx.engine.OpenWindow(context.Background(), 1))
	fx.backend.setRemote([]int{3, 4}, nil)

	require.NoError(t, fx.engine.Reconcile(context.Background()))

	assert.Equal(t, []int{1, 3, 4}, fx.engine.Opened().Sorted())
	assert.Zero(t, fx.engine.Pending())
	assert.Equal(t, models.StatusSynced, fx.engine.Status())
	assert.Equal(t, 1, fx.backend.fetches())
	assert.Equal(t, []int{1}, fx.backend.recordedOpens())
}

func TestEngine_ReconcileFetchUnavailableEmptyQueue(t *testing.T) {
	fx := newTestEngine(t, true)
	fx.backend.setRemote(nil, fmt.Errorf("fetch: %w", adapter.ErrBackendUnavailable))

	err := fx.engine.Reconcile(context.Background())

	require.ErrorIs(t, err, adapter.ErrBackendUnavailable)
	assert.Equal(t, models.StatusSynced, fx.engine.Status(),
		"an unreachable server with nothing pending is still fully synced")
}

func TestEngine_ReconcileFetchUnavailableWithPending(t *testing.T) {
	fx := newTestEngine(t, false)
	require.NoError(t, fx.engine.OpenWindow(context.Background(), 1))
	fx.backend.setRemote(nil, fmt.Errorf("fetch: %w", adapter.ErrBackendUnavailable))

	err := fx.engine.Reconcile(context.Background())

	require.ErrorIs(t, err, adapter.ErrBackendUnavailable)
	assert.Equal(t, models.StatusOffline, fx.engine.Status())
	assert.Equal(t, 1, fx.engine.Pending(), "queued events are untouched by a failed fetch")
}

func TestEngine_ReconcileFetchRejected(t *testing.T) {
	fx := newTestEngine(t, true)
	fx.backend.setRemote(nil, adapter.ErrUnauthorized)

	err := fx.engine.Reconcile(context.Background())

	require.ErrorIs(t, err, adapter.ErrUnauthorized)
	assert.Equal(t, models.StatusError, fx.engine.Status())
}

// ── status signal ────────────────────────────────────────────────────

func TestEngine_StatusTransitionsOfflineToSynced(t *testing.T) {
	fx := newTestEngine(t, false)

	rec := &statusRecorder{}
	unsubscribe := fx.engine.SubscribeStatus(rec.record)
	defer unsubscribe()

	require.NoError(t, fx.engine.OpenWindow(context.Background(), 1))
	fx.reach.SetReachable(true)

	require.Eventually(t, func() bool {
		return len(rec.all()) == 3
	}, waitFor, tick)

	assert.Equal(t, []models.SyncStatus{
		models.StatusOffline,
		models.StatusSyncing,
		models.StatusSynced,
	}, rec.all())
}

func TestEngine_UnsubscribeStopsNotifications(t *testing.T) {
	fx := newTestEngine(t, false)

	rec := &statusRecorder{}
	unsubscribe := fx.engine.SubscribeStatus(rec.record)
	unsubscribe()

	require.NoError(t, fx.engine.OpenWindow(context.Background(), 1))

	assert.Empty(t, rec.all())
}
