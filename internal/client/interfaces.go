// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

// Client is the lifecycle contract of the calendar client application.
// Run drives the whole session: login, sync engine startup, the
// interactive calendar, and shutdown.
type Client interface {
	// Run starts the client application and blocks until exit.
	Run() error
}
