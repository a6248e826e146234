// Package config provides configuration management for the ODF core service.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file, with defaults bound by reflection from the
// partial config structs' 'default' tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port)
//   - Database: MySQL/sqlite connection details
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//   - Ingest: change notification webhook
//   - Hotfolder: watched directory and ingestion endpoint
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
