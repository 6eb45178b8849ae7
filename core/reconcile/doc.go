// Package reconcile provides the generic building blocks for reconciling keyed snapshots.
//
// The package knows nothing about employees or spreadsheets. It works on maps keyed by any
// ordered type and leaves field comparison and persistence to the caller.
//
// # Components
//
// 1. Diff: compares a previous and a current snapshot and reports inserted, updated and deleted
// keys, sorted so results are deterministic regardless of map iteration order.
//
// 2. Plan: BuildPlan turns changes into upsert and delete actions; ApplyPlan executes them through
// a Mutator one unit at a time, recording failures (including panics) instead of stopping.
//
// 3. Cache: TTL-based cache with stampede protection, used for dry-run previews.
//
// # Usage Example
//
//	changes := reconcile.Diff(previous, current, equal)
//	plan := reconcile.BuildPlan(changes, lookup, true)
//	result := reconcile.ApplyPlan(ctx, mutator, plan, reconcile.Options{Confirmed: true})
//	for _, f := range result.Failed {
//	    log.Printf("%s %v: %s", f.Type, f.Key, f.Error)
//	}
package reconcile
