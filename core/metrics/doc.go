// Package metrics exposes prometheus collectors for reconciliation runs.
package metrics
