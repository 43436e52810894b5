// Package http implements the HTTP transport layer of the calendar server.
//
// It exposes route wiring, handlers for registration, login, and progress
// tracking, and the middleware stack shared by all routes. Cross-cutting
// concerns such as bearer-token authentication, request tracing, access
// logging, response compression, and open-window integrity checks are
// handled here before requests reach the service layer.
package http
