// Package middleware groups the fiber middleware of the HTTP service.
//
//   - rayid: tags every request with an X-Ray-ID, reused from the caller when present,
//     so log lines of one request can be correlated.
//   - auth: requires the configured API key in the X-API-Key header or the api_key
//     query parameter; swagger and metrics paths are exempt.
package middleware
