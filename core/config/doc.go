// Package config provides configuration management for the Mapwize API.
//
// It utilizes Viper for loading configuration from environment variables,
// config files (config.yaml), and command-line flags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, body limit)
//   - API: Mapwize credentials, retries and rate limits
//   - Database: sync history database (MySQL or SQLite)
//   - Sync: concurrency, duplicate policy and lock backend
//   - Redis: connection for the distributed lock
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
