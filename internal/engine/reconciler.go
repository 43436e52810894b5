package engine

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-calendar-sync/internal/adapter"
	"github.com/MKhiriev/go-calendar-sync/internal/logger"
	"github.com/MKhiriev/go-calendar-sync/models"
)

// DrainResult is the tally of one queue drain pass. Failed counts every
// event still queued after the pass, including events never attempted
// because the pass stopped on a server outage. Errors holds one entry
// per failed attempt; duplicate confirmations never appear here.
type DrainResult struct {
	Synced int
	Failed int
	Errors []error
}

// Reconciler brings local and remote progress into agreement: it merges
// the authoritative remote window list into the local set and delivers
// queued open events to the server.
//
// DrainQueue is not reentrant; the [Engine] serializes drains so that at
// most one pass runs at a time.
type Reconciler struct {
	backend adapter.Backend
	queue   *SyncQueue

	logger *logger.Logger
}

// NewReconciler wires a reconciler over the queue and the server backend.
func NewReconciler(backend adapter.Backend, queue *SyncQueue, log *logger.Logger) *Reconciler {
	return &Reconciler{backend: backend, queue: queue, logger: log}
}

// MergeRemote returns the union of the local set and the remote window
// numbers. The merge is pure and additive: a window present locally but
// missing remotely is kept, since the local client is never evidence
// that a window should be un-opened.
func (r *Reconciler) MergeRemote(local models.WindowSet, remote []int) models.WindowSet {
	return local.Union(models.NewWindowSet(remote...))
}

// DrainQueue attempts to deliver every pending event to the server, in
// enqueue order, one request at a time:
//
//   - a confirmed write or a duplicate answer counts as synced and
//     removes the event;
//   - a server outage ([adapter.ErrBackendUnavailable]) stops the pass:
//     this event plus everything after it counts as Failed under one
//     aggregate error and stays queued for the next drain;
//   - any other failure keeps the event queued, records the error, and
//     moves on to the next event.
//
// Events enqueued while the pass is running are untouched: removal is by
// event identity, so only events confirmed by this pass leave the queue.
func (r *Reconciler) DrainQueue(ctx context.Context) DrainResult {
	snapshot := r.queue.PeekAll()
	if len(snapshot) == 0 {
		return DrainResult{}
	}

	var result DrainResult
	confirmed := make([]models.QueuedEvent, 0, len(snapshot))

	for i, event := range snapshot {
		err := r.backend.RecordOpen(ctx, event.UserID, event.WindowNumber)
		switch {
		case err == nil:
			confirmed = append(confirmed, event)
			result.Synced++

		case errors.Is(err, adapter.ErrDuplicateWindow):
			// already on the server, idempotent accept
			r.logger.Debug().Str("func", "*Reconciler.DrainQueue").
				Int("window", event.WindowNumber).
				Msg("window already recorded on server, confirming queued event")
			confirmed = append(confirmed, event)
			result.Synced++

		case errors.Is(err, adapter.ErrBackendUnavailable):
			result.Failed = len(snapshot) - i
			result.Errors = append(result.Errors, err)
			r.logger.Err(err).Str("func", "*Reconciler.DrainQueue").
				Int("window", event.WindowNumber).
				Int("retained", result.Failed).
				Msg("server unavailable, stopping drain pass")
			r.queue.RemoveConfirmed(confirmed)
			return result

		default:
			result.Failed++
			result.Errors = append(result.Errors, err)
			r.logger.Err(err).Str("func", "*Reconciler.DrainQueue").
				Int("window", event.WindowNumber).
				Msg("delivering queued event failed, retaining for retry")
		}
	}

	r.queue.RemoveConfirmed(confirmed)
	return result
}
