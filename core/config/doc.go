// Package config provides configuration management for datasync.
//
// It utilizes Viper for loading configuration from environment variables,
// an optional .env file (godotenv) and an optional datasync.yaml file.
// Defaults come from the `default` struct tags of each section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Database: driver (mysql, postgres, sqlite) and connection details
//   - Table: managed table, column names and apply batch size
//   - Storage: optional S3/MinIO snapshot archive
//   - Log: logging level, format and optional rotating file
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Table.Name)
package config
