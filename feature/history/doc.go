// Package history persists one row per sync run.
//
// Runs are stored in the `sync_runs` table through GORM so that MySQL and SQLite
// deployments share the same model. When no database is configured the
// service uses NopStore, which accepts records and lists nothing.
//
// # Status
//
//   - planned: a dry run, or a run whose plan required no operation
//   - applied: every planned operation was executed
//   - failed: planning or execution returned an error
package history
