package models

import "time"

// OpenedWindow is the server-side record of a single opened calendar window.
// The (UserID, WindowNumber) pair is unique: opening the same window twice
// violates the constraint and is reported to the client as a conflict.
type OpenedWindow struct {
	// UserID is the owner of the record.
	UserID int64 `json:"-"`

	// WindowNumber is the opened calendar window.
	WindowNumber int `json:"window_number"`

	// OpenedAt is the server-side timestamp of the first successful open.
	OpenedAt time.Time `json:"opened_at"`
}

// TableName returns the name of the database table
// associated with the OpenedWindow model.
func (w OpenedWindow) TableName() string {
	return "opened_windows"
}
