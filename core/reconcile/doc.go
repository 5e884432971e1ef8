// Package reconcile converges the server-side collection of one resource kind within
// one venue to a caller-supplied desired state, using the object name as the join key.
//
// # Architecture
//
// The engine is generic over the object type and depends on three collaborators:
//
//  1. Gateway: the four-operation capability set (List, Create, Update, Delete) for one
//     kind. Gateways are chosen when the Spec is built; nothing is dispatched by name.
//
//  2. Equal: a kind-specific equality predicate, normally one of the compare.Equal*
//     functions, deciding whether a matched pair needs an update.
//
//  3. Options: a server-side filter, dry-run, the duplicate-name policy and a bounded
//     per-batch fan-out.
//
// # Algorithm
//
// ReconcileWithPlan fetches the server list, applies the filter, trims desired names,
// indexes both sides by name and partitions them into create, update, delete and
// unchanged. ApplyPlan then executes the delete batch, the update batch and the create
// batch, in that order. A batch never starts before the previous one completed.
//
// Caller inputs are never mutated. The plan holds trimmed copies with the server
// identifiers attached, and a Result per desired input describing its action and,
// after a create, the assigned identifier.
//
// # Failure semantics
//
// A failed list returns a *FetchError and nothing is mutated. Invalid input (an empty
// name, or a duplicate name under DuplicateError) returns a *ValidationError before any
// mutation. The first failing mutation returns an *ExecutionError and aborts the
// remaining work; objects already mutated stay mutated. Re-running is safe because the
// plan is recomputed from live server state.
//
// # Usage Example
//
//	spec := &reconcile.Spec[models.Place]{
//	    Kind:    models.KindPlace,
//	    Gateway: client.Places(),
//	    Equal:   compare.EqualPlace,
//	    Logger:  log,
//	}
//
//	plan, executed, err := reconcile.ReconcileAndApply(ctx, spec, venueID, desired, reconcile.Options[models.Place]{})
//
// The engine holds no cross-call state and does not lock. Callers must not reconcile the
// same (kind, venue) pair concurrently; see core/lock.
package reconcile
