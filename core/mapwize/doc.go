// Package mapwize is the REST client for the Mapwize API.
//
// Every request carries the api_key and organizationId query parameters, is rate
// limited with a token bucket and is retried with exponential backoff when the API
// answers 429 or 5xx. A cookie jar keeps the session opened by SignIn.
//
// # Resources
//
// Venue-scoped collections are exposed as Resource values whose List, Create, Update
// and Delete methods satisfy reconcile.Gateway:
//
//	client, err := mapwize.NewClient(cfg)
//	places := client.Places()       // reconcile.Gateway[models.Place]
//	layers := client.Layers()       // reconcile.Gateway[models.Layer]
//
// Organization-scoped collections (access groups, api keys, place types, universes,
// modes, venues) are exposed as Collection values. Source management and raster setup
// polling live in sources.go.
//
// # Errors
//
// Non-2xx answers are returned as *APIError, which keeps the status code and the
// response body. Use errors.As to inspect it.
package mapwize
