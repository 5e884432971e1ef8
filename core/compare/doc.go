// Package compare reduces Mapwize objects to comparable projections.
//
// A projection keeps a fixed, kind-specific allow-list of fields, fills the defaults the server
// applies to absent fields, turns universe lists into membership sets and re-keys translations by
// language. Two objects are content-equal when their projections are deep-equal, so server
// identifiers, universe order, translation order and translation identifiers never cause a
// spurious update.
//
// Projections are canonicalised through a JSON round trip: numbers become float64, slices become
// []any and objects become map[string]any regardless of how the caller built the value.
//
// # Usage
//
//	if !compare.EqualPlace(desired, current) {
//	    changes := compare.Diff(compare.ProjectPlace(desired), compare.ProjectPlace(current))
//	    ...
//	}
package compare
