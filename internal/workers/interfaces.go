// Package workers runs the client's background jobs: periodic tasks that
// keep local progress converging with the server without user interaction.
// It defines the Worker interface and a Workers aggregate that starts and
// stops a set of workers together.
package workers

import "context"

// Worker is a long-running background job. Start launches the job's
// goroutine and must not block; the goroutine exits when ctx is cancelled
// or Stop is called. Stop blocks until the job has fully exited and is a
// no-op for a worker that is not running.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}
