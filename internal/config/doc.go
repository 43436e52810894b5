// Package config provides configuration loading, merging, and validation
// for the calendar server and client binaries.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The main entry points are [GetStructuredConfig] for the server and
// [GetClientConfig] for the client (transport address, local state path,
// probe and reconcile intervals, calendar window count).
package config
