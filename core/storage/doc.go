// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client; both AWS S3 and self-hosted MinIO work. The bucket
// holds desired-state manifests under the manifest prefix and one JSON report per
// sync run under the report prefix:
//
//	manifests/<name>.json|yaml
//	reports/<venue>/<kind>/<run-id>.json
//
// # Client Interface
//
// The Client interface abstracts the provider so that storage interactions can be
// mocked in unit tests (see core/storage/mocks).
//
// # Helpers
//
//   - PutJSON / ReadObject: upload a report, download a manifest.
//   - EnsureBucket / PrefixExists / MarkPrefix: used by the structure integrity check.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.PutJSON(ctx, client, cfg.Storage.Bucket, storage.ReportKey(cfg.Storage.ReportPrefix, venueID, "place", runID), report)
package storage
