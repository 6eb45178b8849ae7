// Package reconcile keeps the employees table and the spreadsheet in agreement.
//
// A cycle reads both sides, diffs the spreadsheet against its last-known snapshot and applies
// those edits to the database, then re-reads the database and rewrites the spreadsheet so it
// shows the merged result. The spreadsheet wins a conflict on the same id because its edits
// are written to the database before the outgoing diff is computed.
//
// # Cycle
//
//	READ_BOTH -> DIFF_SHEET -> APPLY_DB -> DIFF_DB -> APPLY_SHEET -> PERSIST -> IDLE
//
// A read failure or a failed database re-read aborts the cycle and leaves the state untouched.
// A failed row mutation is kept out of the new baseline so the next cycle retries it. A failed
// spreadsheet write is logged; the baseline is the spreadsheet as read, so the difference is
// written again next cycle.
//
// # Safety
//
// A spreadsheet without a header row is treated as unreadable for deletion purposes: it never
// deletes database rows. Database deletions reach the spreadsheet only with
// Config.PropagateDBDeletes. Rows with an invalid id are reported and left in place.
//
// Poller owns the state between cycles, persists it through a StateStore and never cancels a
// cycle in progress.
package reconcile
