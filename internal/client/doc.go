// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It wires the terminal UI flows, the sync engine, and the background
// reconcile and reachability jobs into a single process lifecycle.
package client
