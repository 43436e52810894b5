package models

// SyncStatus describes how local progress currently relates to the backend.
// It is a coarse, user-facing signal: the UI renders it directly and makes
// no finer distinction than these four states.
type SyncStatus int

const (
	// StatusSynced means the sync queue is empty and the last
	// backend interaction succeeded: local state is confirmed.
	StatusSynced SyncStatus = 1

	// StatusSyncing means a queue drain is in progress.
	StatusSyncing SyncStatus = 2

	// StatusOffline means the backend is unreachable.
	// Queued events are retained and replayed on reconnect.
	StatusOffline SyncStatus = 3

	// StatusError means the last drain attempt failed for a reason
	// other than connectivity, for example an authentication failure.
	StatusError SyncStatus = 4
)

// String returns the lowercase name of the status for logs and UI.
func (s SyncStatus) String() string {
	switch s {
	case StatusSynced:
		return "synced"
	case StatusSyncing:
		return "syncing"
	case StatusOffline:
		return "offline"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}
