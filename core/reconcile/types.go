package reconcile

import (
	"cmp"
	"context"
)

// Changes is the result of diffing two keyed snapshots.
// Every slice is sorted ascending and the three sets are disjoint.
type Changes[K cmp.Ordered] struct {
	// Inserted holds keys present in the current snapshot only.
	Inserted []K `json:"inserted"`

	// Updated holds keys present in both snapshots whose values differ.
	Updated []K `json:"updated"`

	// Deleted holds keys present in the previous snapshot only.
	Deleted []K `json:"deleted"`
}

// IsEmpty reports whether the diff found nothing.
func (c Changes[K]) IsEmpty() bool {
	return len(c.Inserted) == 0 && len(c.Updated) == 0 && len(c.Deleted) == 0
}

// Counts returns the size of each change set.
func (c Changes[K]) Counts() Counts {
	return Counts{
		Inserted: len(c.Inserted),
		Updated:  len(c.Updated),
		Deleted:  len(c.Deleted),
	}
}

// Counts provides aggregate statistics for a diff.
type Counts struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Deleted  int `json:"deleted"`
}

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionUpsertDB inserts or replaces an entity in the database.
	ActionUpsertDB ActionType = "upsert_db"
	// ActionDeleteDB deletes an entity from the database.
	ActionDeleteDB ActionType = "delete_db"
)

// Action represents a planned mutation operation.
type Action[K cmp.Ordered, V any] struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the entity identifier.
	Key K `json:"key"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`

	// Item stores the source value for upsert actions.
	Item V `json:"item,omitempty"`
}

// Plan contains the planned mutations of one cycle.
type Plan[K cmp.Ordered, V any] struct {
	// Actions contains planned mutation operations, upserts first.
	Actions []Action[K, V] `json:"actions"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate statistics for a plan.
type Summary struct {
	// Upserts counts planned insert-or-replace actions.
	Upserts int `json:"upserts"`

	// Deletes counts planned delete actions.
	Deletes int `json:"deletes"`

	// SkippedDeletes counts deletions withheld by the caller.
	SkippedDeletes int `json:"skipped_deletes"`
}

// Options controls whether a plan is executed.
type Options struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// Confirmed indicates the caller accepted the plan.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool
}

// Mutator applies single actions to the target store.
// Each call is an independent unit of work.
type Mutator[K cmp.Ordered, V any] interface {
	// UpsertDB inserts or replaces the entity stored under key.
	UpsertDB(ctx context.Context, key K, item V) error

	// DeleteDB removes the entity stored under key.
	DeleteDB(ctx context.Context, key K) error
}

// Failure records one action that did not complete.
type Failure[K cmp.Ordered] struct {
	Type  ActionType `json:"type"`
	Key   K          `json:"key"`
	Error string     `json:"error"`
}

// ApplyResult reports the outcome of ApplyPlan.
type ApplyResult[K cmp.Ordered] struct {
	// Executed counts actions that completed.
	Executed int `json:"executed"`

	// Failed lists actions that returned an error or panicked.
	Failed []Failure[K] `json:"failed"`
}

// FailedKeys returns the keys of failed actions of the given type.
func (r ApplyResult[K]) FailedKeys(t ActionType) map[K]struct{} {
	keys := make(map[K]struct{})
	for _, f := range r.Failed {
		if f.Type == t {
			keys[f.Key] = struct{}{}
		}
	}
	return keys
}
