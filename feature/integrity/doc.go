// Package integrity provides system health checks for the service.
//
// Where the sync feature changes venue content, this package validates the
// infrastructure the sync feature depends on.
//
// # Checks Provided
//
//   - Structure: Checks that the storage bucket exists and holds the manifest and report folders.
//   - Server: Validates that the history database schema matches the GORM models (columns, types).
//   - API: Lists the organization venues to verify the Mapwize credentials.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/server : Runs server schema check (supports ?fix=true).
//   - GET /integrity/api : Runs the API check.
package integrity
