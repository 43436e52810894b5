package models

import "time"

// User represents an account entity used for authentication and authorization.
// It carries both the transport shape (registration and login bodies) and the
// persistence shape; fields that must not cross trust boundaries are excluded
// from JSON.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is not exposed via JSON and is used only at the persistence layer.
	UserID int64 `json:"-"`

	// Login is the unique user login identifier.
	// Typically used during authentication.
	Login string `json:"login"`

	// Name is the display name of the user.
	// It is non-sensitive and may be shown in UI.
	Name string `json:"name"`

	// Password is the plaintext credential as submitted by the client.
	// It exists only in transit and in memory during authentication;
	// the persistence layer never stores it.
	Password string `json:"password,omitempty"`

	// PasswordHash is the bcrypt hash of Password.
	// It is never exposed via JSON and lives only in the database.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	// Used for auditing and lifecycle management.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
