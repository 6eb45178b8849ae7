// Package models defines the employee record shared by the database and the spreadsheet.
//
// A Record maps the 'employees' table through gorm tags. Optional text fields are pointers and
// the salary is a decimal.NullDecimal, so absence survives both the database driver and JSON.
// Record equality compares name, role and salary only; the id is the identity and
// LAST_UPDATED is maintained by the database.
package models
