// Package utils provides small helpers shared across packages: loose value conversion for
// untyped API records, and the alias slug used by the comparable projection.
package utils
