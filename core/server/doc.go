// Package server holds the status HTTP server configuration.
//
// The reconciler is a daemon; the HTTP server is an optional read-only window into it.
// This package defines whether the server runs, the port it listens on and the API key
// that protects it.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the start command to decide whether to serve the status API.
package server
