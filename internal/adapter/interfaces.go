// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating with
// the calendar progress server.
//
// The primary abstraction is [Backend], which decouples the sync engine and
// the TUI from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPBackend]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes and
// response bodies by mapHTTPError so that callers can use [errors.Is] for
// transport-agnostic error handling (e.g. [ErrDuplicateWindow] for an
// already-recorded window, [ErrBackendUnavailable] for outages).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-calendar-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/backend_mock.go -package=mock

// Backend defines transport-agnostic communication with the calendar
// progress server. Implementations are responsible for serialisation,
// authentication header management, and mapping transport-level errors to
// the sentinel values defined in this package.
type Backend interface {
	// SetToken stores the bearer token that will be attached to all subsequent
	// authenticated requests. It should be called immediately after a
	// successful Register or Login, or when restoring a saved session.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// Register sends a registration request to the server with the provided
	// user credentials. On success it stores the returned bearer token via
	// SetToken and returns the user populated with the server-assigned
	// UserID. Returns an error if the request fails or the server responds
	// with a non-2xx status.
	Register(ctx context.Context, user models.User) (models.User, error)

	// Login authenticates the user with the server. On success it stores the
	// returned bearer token via SetToken and returns the token together with
	// the user ID extracted from it. Returns [ErrUnauthorized] (wrapped) on
	// bad credentials, or another error if the request fails.
	Login(ctx context.Context, user models.User) (models.Token, error)

	// RecordOpen reports one opened window to the server. A nil return means
	// the server confirmed the write. [ErrDuplicateWindow] (wrapped) means
	// the window was already recorded for this user on the server; callers
	// treat that as a confirmation. [ErrBackendUnavailable] (wrapped) means
	// the outcome is unknown or the server is down; callers must retry the
	// same window later. userID is unused by the HTTP implementation
	// (the server infers the user from the bearer token).
	RecordOpen(ctx context.Context, userID int64, window int) error

	// FetchOpened retrieves the authoritative list of opened window numbers
	// for the authenticated user, in ascending order. userID is unused by
	// the HTTP implementation (the server infers the user from the bearer
	// token). Returns an error if the request fails or the response cannot
	// be decoded.
	FetchOpened(ctx context.Context, userID int64) ([]int, error)

	// Ping checks the server health endpoint. A nil return means the server
	// answered; the reachability prober polls this to drive connectivity
	// transitions. No authentication is required.
	Ping(ctx context.Context) error
}
