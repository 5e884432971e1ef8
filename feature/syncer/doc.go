// Package syncer runs reconciliations of venue objects against the Mapwize API.
//
// It is the glue between the generic engine in core/reconcile and the rest of the
// service: a run decodes the desired objects of one kind, takes the (venue, kind)
// lock, plans and applies through the per-kind gateway, and then records the
// outcome in metrics, tracing spans, the run history and an optional JSON report
// in object storage.
//
// # Manifests
//
// Desired objects are given as a JSON array, a YAML sequence, or a document
// mapping kinds to sequences:
//
//	places:
//	  - name: Room 1
//	    floor: 0
//	layers:
//	  - name: Ground floor
//
// # HTTP Endpoints
//
//   - POST /sync/:venueId/:kind : Reconciles the posted objects (supports ?dryRun=true&owner=...).
//   - GET /sync/runs : Lists recorded runs (supports ?venueId=&kind=&limit=).
//   - GET /venues/:venueId/:kind : Lists the current server objects of a kind.
package syncer
