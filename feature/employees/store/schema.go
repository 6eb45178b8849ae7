package store

import (
	"context"
	"fmt"
	"strings"

	"employee-sync/core/database"
	"employee-sync/feature/employees/models"

	"gorm.io/gorm"
)

// Columns lists the columns the reconciler reads and writes.
var Columns = []string{"ID", "NAME", "ROLE", "SALARY_USD", "LAST_UPDATED"}

const createMySQL = `CREATE TABLE IF NOT EXISTS employees (
	ID INT PRIMARY KEY,
	NAME VARCHAR(255),
	ROLE VARCHAR(255),
	SALARY_USD DECIMAL(10,2),
	LAST_UPDATED TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`

// SQLite has no ON UPDATE clause; gorm stamps LAST_UPDATED on every write instead.
const createSQLite = `CREATE TABLE IF NOT EXISTS employees (
	ID INTEGER PRIMARY KEY,
	NAME VARCHAR(255),
	ROLE VARCHAR(255),
	SALARY_USD DECIMAL(10,2),
	LAST_UPDATED TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// EnsureSchema creates the employees table if it is missing and checks its columns.
func EnsureSchema(ctx context.Context, db *gorm.DB) error {
	ddl := createMySQL
	if db.Dialector.Name() == database.DriverSQLite {
		ddl = createSQLite
	}

	if err := db.WithContext(ctx).Exec(ddl).Error; err != nil {
		return fmt.Errorf("failed to create table %s: %w", models.Record{}.TableName(), err)
	}

	return CheckSchema(db)
}

// CheckSchema returns an error naming the columns the employees table lacks.
func CheckSchema(db *gorm.DB) error {
	missing, err := database.MissingColumns(db, models.Record{}.TableName(), Columns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns: %s", models.Record{}.TableName(), strings.Join(missing, ", "))
	}
	return nil
}
