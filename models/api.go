package models

// CodeWindowAlreadyOpened is the machine-readable conflict code the server
// returns alongside HTTP 409 when a window was already opened by the user.
// Clients treat a response carrying this code as a confirmation, not a failure.
const CodeWindowAlreadyOpened = "window_already_opened"

// OpenWindowRequest is the body of the open-window call.
type OpenWindowRequest struct {
	// Window is the calendar window number to record as opened.
	Window int `json:"window"`

	// Hash is an optional HMAC-SHA256 transport integrity hash computed
	// over the JSON encoding of Window. Empty when integrity checking is
	// disabled (no hash key configured).
	Hash string `json:"hash,omitempty"`
}

// ProgressResponse carries the authoritative set of opened windows
// for the authenticated user.
type ProgressResponse struct {
	// Windows lists the opened window numbers in ascending order.
	Windows []int `json:"windows"`

	// Length is the total number of entries in Windows.
	// Provided for convenience so the client can pre-allocate
	// or validate the response without iterating the slice.
	Length int `json:"length"`
}

// ErrorResponse is the JSON error body for requests rejected with a
// machine-readable reason. Plain-text errors are used where no code exists.
type ErrorResponse struct {
	// Code identifies the error class, e.g. [CodeWindowAlreadyOpened].
	Code string `json:"code"`

	// Message is an optional human-readable explanation.
	Message string `json:"message,omitempty"`
}
