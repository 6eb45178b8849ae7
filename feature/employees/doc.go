// Package employees wires the employee reconciliation loop into the status API.
//
// The loop itself lives in the reconcile subpackage; this package only reads its status,
// serves cached dry-run previews and lets an operator trigger a cycle:
//
//	GET  /sync/status   poll loop status and last cycle report
//	GET  /sync/preview  plan and merged grid of the next cycle (?refresh=true bypasses the cache)
//	POST /sync/run      run a cycle now
package employees
