// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL (production) or SQLite
// (local runs and tests) connections based on the application's configuration.
//
// # Connect
//
// Connect opens a pooled handle, applies the timeouts from the configuration to the DSN and
// verifies the connection with a ping. The pool recycles idle and long-lived connections, so a
// connection broken during one reconciliation cycle is not reused by the next one.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live table definition (SHOW COLUMNS on MySQL,
// PRAGMA table_info on SQLite). The schema command uses them to confirm that the employees
// table carries every column the reconciler reads and writes.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//	defer database.Close(db)
//
//	missing, err := database.MissingColumns(db, "employees", []string{"ID", "NAME"})
package database
