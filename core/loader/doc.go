// Package loader registers the HTTP features of the service on the fiber app.
//
// A feature bundles a service and its handler behind the Feature interface:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The start command registers the sync and integrity features with a Manager and calls
// LoadAll once the middleware chain is in place. Disabled features are skipped, and two
// features registered under the same name are rejected.
package loader
