// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL, PostgreSQL (lib/pq)
// or SQLite connections from the application's configuration.
//
// # Connect
//
// Connect opens the configured driver and pings it within the login timeout
// (TimeoutSeconds, 10 seconds by default). A store that cannot be reached in
// that window is a fatal error for the run.
//
// # Schema Inspection
//
// GetTableColumns lists a table's columns for any of the supported dialects,
// and RequireColumns is used before a sync to make sure the managed table has
// the key and description columns.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer database.Close(db)
//
//	err = database.RequireColumns(db, "DZ_COMPANY", "DEPCODE", "DEPJOB", "DESCRIPTION")
package database
