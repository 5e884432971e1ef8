// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber app from this configuration: the listen port,
// the API key required by the auth middleware, and the limits applied to manifest
// uploads.
package server
