package reconcile

import (
	"cmp"
	"context"
	"fmt"
	"slices"
)

// BuildPlan turns the changes of a source snapshot into database actions.
// Inserted and updated keys become upserts carrying the value returned by lookup,
// deleted keys become deletes unless allowDeletes is false.
func BuildPlan[K cmp.Ordered, V any](changes Changes[K], lookup func(K) (V, bool), allowDeletes bool) *Plan[K, V] {
	plan := &Plan[K, V]{Actions: []Action[K, V]{}}

	upserts := make([]Action[K, V], 0, len(changes.Inserted)+len(changes.Updated))
	for _, key := range changes.Inserted {
		if item, ok := lookup(key); ok {
			upserts = append(upserts, Action[K, V]{Type: ActionUpsertDB, Key: key, Reason: "inserted", Item: item})
		}
	}
	for _, key := range changes.Updated {
		if item, ok := lookup(key); ok {
			upserts = append(upserts, Action[K, V]{Type: ActionUpsertDB, Key: key, Reason: "updated", Item: item})
		}
	}
	slices.SortFunc(upserts, func(a, b Action[K, V]) int { return cmp.Compare(a.Key, b.Key) })

	plan.Actions = append(plan.Actions, upserts...)
	plan.Summary.Upserts = len(upserts)

	if !allowDeletes {
		plan.Summary.SkippedDeletes = len(changes.Deleted)
		return plan
	}

	for _, key := range changes.Deleted {
		plan.Actions = append(plan.Actions, Action[K, V]{Type: ActionDeleteDB, Key: key, Reason: "deleted"})
	}
	plan.Summary.Deletes = len(changes.Deleted)

	return plan
}

// ApplyPlan executes the actions in a plan one at a time.
// A failing action does not stop the remaining ones; it is recorded in the result.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
func ApplyPlan[K cmp.Ordered, V any](ctx context.Context, mutator Mutator[K, V], plan *Plan[K, V], opts Options) ApplyResult[K] {
	result := ApplyResult[K]{Failed: []Failure[K]{}}

	// Safety check: do not execute if not confirmed or dry-run
	if !opts.Confirmed || opts.DryRun || plan == nil {
		return result
	}

	for _, action := range plan.Actions {
		if err := applyAction(ctx, mutator, action); err != nil {
			result.Failed = append(result.Failed, Failure[K]{
				Type:  action.Type,
				Key:   action.Key,
				Error: err.Error(),
			})
			continue
		}
		result.Executed++
	}

	return result
}

// applyAction runs one unit and converts a panic into an error.
func applyAction[K cmp.Ordered, V any](ctx context.Context, mutator Mutator[K, V], action Action[K, V]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure on %s %v: %v", action.Type, action.Key, r)
		}
	}()

	switch action.Type {
	case ActionUpsertDB:
		return mutator.UpsertDB(ctx, action.Key, action.Item)
	case ActionDeleteDB:
		return mutator.DeleteDB(ctx, action.Key)
	default:
		return fmt.Errorf("unknown action type %q", action.Type)
	}
}
