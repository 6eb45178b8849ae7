package reconcile

import (
	"context"
	"time"

	"employee-sync/core/reconcile"
	"employee-sync/feature/employees/codec"
	"employee-sync/feature/employees/models"
)

// PreviewResult is what a cycle would do against the current state of both sides.
type PreviewResult struct {
	GeneratedAt  time.Time                             `json:"generated_at"`
	InitialLoad  bool                                  `json:"initial_load"`
	InvalidRows  []InvalidRow                          `json:"invalid_rows"`
	DuplicateIDs []int64                               `json:"duplicate_ids"`
	SheetChanges reconcile.Changes[int64]              `json:"sheet_changes"`
	Plan         *reconcile.Plan[int64, models.Record] `json:"plan"`
	// MergedGrid is the sheet content after the cycle, header included.
	MergedGrid [][]string `json:"merged_grid"`
	// WouldWrite is false when the merged grid matches the live sheet.
	WouldWrite bool `json:"would_write"`
}

// Preview reads both sides and computes the plan and the merged grid without mutating anything.
// Database writes are simulated in memory and assumed to succeed.
func (r *Reconciler) Preview(ctx context.Context, state State) (*PreviewResult, error) {
	snap, err := r.readBoth(ctx)
	if err != nil {
		return nil, err
	}

	db := snap.db.Index()
	changes, plan := r.planSheetChanges(state, snap.decoded, db)

	for _, action := range plan.Actions {
		switch action.Type {
		case reconcile.ActionUpsertDB:
			db[action.Key] = action.Item
		case reconcile.ActionDeleteDB:
			delete(db, action.Key)
		}
	}

	merged := buildMergedGrid(mergeInput{
		sheet:            snap.decoded,
		db:               db,
		propagateDeletes: r.cfg.PropagateDBDeletes,
	})

	return &PreviewResult{
		GeneratedAt:  r.now(),
		InitialLoad:  state.IsInitial(),
		InvalidRows:  invalidRows(snap.decoded.Invalid),
		DuplicateIDs: snap.decoded.Duplicates,
		SheetChanges: changes,
		Plan:         plan,
		MergedGrid:   merged,
		WouldWrite:   !codec.GridsEqual(merged, snap.grid),
	}, nil
}
