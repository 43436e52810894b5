// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-calendar-sync/internal/adapter"
	"github.com/MKhiriev/go-calendar-sync/internal/host"
	"github.com/MKhiriev/go-calendar-sync/internal/logger"
	"github.com/MKhiriev/go-calendar-sync/models"
)

func newTestReconciler(t *testing.T) (*Reconciler, *SyncQueue, *fakeBackend) {
	t.Helper()

	kv := host.NewMemoryKV()
	queue := NewSyncQueue(kv, testQueueKey, logger.Nop())
	backend := newFakeBackend()

	return NewReconciler(backend, queue, logger.Nop()), queue, backend
}

// ── merging ──────────────────────────────────────────────────────────

func TestReconciler_MergeRemote(t *testing.T) {
	r, _, _ := newTestReconciler(t)

	local := models.NewWindowSet(1, 2)
	merged := r.MergeRemote(local, []int{2, 3})

	assert.Equal(t, []int{1, 2, 3}, merged.Sorted())
	assert.Equal(t, []int{1, 2}, local.Sorted(), "merge must not modify its input")
}

func TestReconciler_MergeRemoteKeepsLocalOnlyWindows(t *testing.T) {
	r, _, _ := newTestReconciler(t)

	merged := r.MergeRemote(models.NewWindowSet(7), nil)

	assert.Equal(t, []int{7}, merged.Sorted(),
		"a window unknown to the server stays opened locally")
}

func TestReconciler_MergeRemoteIntoEmptyLocal(t *testing.T) {
	r, _, _ := newTestReconciler(t)

	merged := r.MergeRemote(models.NewWindowSet(), []int{4, 1})

	assert.Equal(t, []int{1, 4}, merged.Sorted())
}

// ── draining ─────────────────────────────────────────────────────────

func TestReconciler_DrainQueue_Empty(t *testing.T) {
	r, _, backend := newTestReconciler(t)

	res := r.DrainQueue(context.Background())

	assert.Zero(t, res.Synced)
	assert.Zero(t, res.Failed)
	assert.Empty(t, res.Errors)
	assert.Empty(t, backend.recordedOpens())
}

func TestReconciler_DrainQueue_DeliversInEnqueueOrder(t *testing.T) {
	r, queue, backend := newTestReconciler(t)
	queue.Enqueue(testUserID, 3)
	queue.Enqueue(testUserID, 1)
	queue.Enqueue(testUserID, 2)

	res := r.DrainQueue(context.Background())

	assert.Equal(t, 3, res.Synced)
	assert.Zero(t, res.Failed)
	assert.Equal(t, []int{3, 1, 2}, backend.recordedOpens())
	assert.True(t, queue.IsEmpty())
}

func TestReconciler_DrainQueue_DuplicateAnswerConfirms(t *testing.T) {
	r, queue, backend := newTestReconciler(t)
	queue.Enqueue(testUserID, 1)
	queue.Enqueue(testUserID, 2)
	backend.failWith(2, fmt.Errorf("record open: %w", adapter.ErrDuplicateWindow))

	res := r.DrainQueue(context.Background())

	assert.Equal(t, 2, res.Synced)
	assert.Zero(t, res.Failed)
	assert.Empty(t, res.Errors)
	assert.True(t, queue.IsEmpty(), "a duplicate answer removes the event like a success")
}

func TestReconciler_DrainQueue_StopsWhenServerUnavailable(t *testing.T) {
	r, queue, backend := newTestReconciler(t)
	queue.Enqueue(testUserID, 1)
	queue.Enqueue(testUserID, 2)
	queue.Enqueue(testUserID, 3)
	backend.failWith(2, fmt.Errorf("record open: %w", adapter.ErrBackendUnavailable))

	res := r.DrainQueue(context.Background())

	assert.Equal(t, 1, res.Synced)
	assert.Equal(t, 2, res.Failed, "the failed event and everything after it count as failed")
	require.Len(t, res.Errors, 1)
	assert.ErrorIs(t, res.Errors[0], adapter.ErrBackendUnavailable)

	assert.Equal(t, []int{1, 2}, backend.recordedOpens(), "later events are not attempted")
	assert.Equal(t, []int{2, 3}, windowNumbers(queue.PeekAll()))
}

func TestReconciler_DrainQueue_OtherFailureRetainsAndContinues(t *testing.T) {
	r, queue, backend := newTestReconciler(t)
	queue.Enqueue(testUserID, 1)
	queue.Enqueue(testUserID, 2)
	queue.Enqueue(testUserID, 3)
	backend.failWith(2, adapter.ErrUnauthorized)

	res := r.DrainQueue(context.Background())

	assert.Equal(t, 2, res.Synced)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.ErrorIs(t, res.Errors[0], adapter.ErrUnauthorized)

	assert.Equal(t, []int{1, 2, 3}, backend.recordedOpens(), "the pass continues past the failure")
	assert.Equal(t, []int{2}, windowNumbers(queue.PeekAll()))
}

func TestReconciler_DrainQueue_MidDrainEnqueueSurvives(t *testing.T) {
	r, queue, backend := newTestReconciler(t)
	queue.Enqueue(testUserID, 1)
	queue.Enqueue(testUserID, 2)

	// enqueued after the snapshot is taken but before the pass finishes
	backend.setHook(func(window int) {
		if window == 1 {
			queue.Enqueue(testUserID, 9)
		}
	})

	res := r.DrainQueue(context.Background())

	assert.Equal(t, 2, res.Synced)
	assert.Equal(t, []int{9}, windowNumbers(queue.PeekAll()),
		"an event enqueued mid-drain stays queued")

	backend.setHook(nil)
	res = r.DrainQueue(context.Background())

	assert.Equal(t, 1, res.Synced)
	assert.True(t, queue.IsEmpty())
	assert.Equal(t, []int{1, 2, 9}, backend.recordedOpens())
}
