package storage

// Config holds configuration for the storage provider.
type Config struct {
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Enabled turns on manifest loading and report storage.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Bucket holds manifests and sync reports.
	Bucket string `mapstructure:"bucket" default:"mapwize"`
	// ManifestPrefix is the key prefix of desired-state manifests.
	ManifestPrefix string `mapstructure:"manifest_prefix" default:"manifests/"`
	// ReportPrefix is the key prefix of sync reports.
	ReportPrefix string `mapstructure:"report_prefix" default:"reports/"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
