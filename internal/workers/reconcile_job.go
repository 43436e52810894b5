package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-calendar-sync/internal/logger"
)

// Reconciler is the slice of the sync engine the job needs: one full
// fetch-merge-drain cycle.
type Reconciler interface {
	Reconcile(ctx context.Context) error
}

// ReconcileJob periodically runs a full reconciliation cycle so that
// progress recorded on other devices reaches this one and queued opens are
// retried even without a connectivity transition. The job is idle until
// Start is called.
type ReconcileJob struct {
	reconciler Reconciler
	interval   time.Duration
	logger     *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewReconcileJob creates a ReconcileJob that calls reconciler.Reconcile
// every interval. If interval is zero or negative it defaults to 5 minutes.
func NewReconcileJob(reconciler Reconciler, interval time.Duration, logger *logger.Logger) *ReconcileJob {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &ReconcileJob{reconciler: reconciler, interval: interval, logger: logger}
}

// Start stops any previously running job, then launches a background
// goroutine that reconciles every interval. The goroutine exits when ctx
// is cancelled or Stop is called.
//
// Reconcile failures are logged and swallowed: the engine already folds
// them into its sync status, and the next tick retries anyway.
func (j *ReconcileJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if err := j.reconciler.Reconcile(jobCtx); err != nil {
					j.logger.Err(err).Str("func", "*ReconcileJob.Start").Msg("periodic reconcile failed")
				}
			}
		}
	}()
}

// Stop cancels the background goroutine's context and blocks until the
// goroutine has fully exited. Safe to call when the job is not running
// (no-op in that case).
func (j *ReconcileJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
