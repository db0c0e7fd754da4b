// Package config provides configuration management for pipeline-storage.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file (loaded with godotenv).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, body limit)
//   - Pipeline: backend kind, root prefix, default encoding, database container
//   - Storage: S3/MinIO credentials and bucket settings
//   - Database: MySQL/SQLite connection details
//   - Log: Logging level and format
//
// Defaults come from the `default` struct tags. Environment variables override
// them using the upper-cased key path, e.g. PIPELINE_BACKEND or STORAGE_BUCKET.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
