// Package config provides configuration management for the employee reconciler.
//
// It loads an optional .env file with godotenv and then reads environment variables through
// Viper. Defaults come from the `default` struct tags of each section, registered by reflection,
// so every key is known to Viper and can be overridden by its environment variable.
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Server: status API toggle, port and API key (SERVER_*)
//   - Database: MySQL/SQLite connection details (DATABASE_*)
//   - Sheets: spreadsheet id, range and credential files (SHEETS_*)
//   - Storage: S3/MinIO settings for durable reconciler state (STORAGE_*)
//   - Log: level, format and optional rotating file (LOG_*)
//   - Sync: poll interval, retry backoff and deletion policy (SYNC_*)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.Interval)
package config
