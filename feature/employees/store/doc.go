// Package store is the database collaborator of the reconciler.
//
// Every mutation runs in its own transaction so a failing row never affects another. Upserts are
// a single INSERT with an ON CONFLICT clause (ON DUPLICATE KEY UPDATE on MySQL) keyed by ID, so
// the database never sees a read-modify-write.
//
// EnsureSchema bootstraps the employees table for MySQL and SQLite and verifies the columns
// through core/database.
package store
