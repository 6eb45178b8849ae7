package reconcile

import (
	"time"

	"employee-sync/feature/employees/models"
)

// State is the reconciler memory carried from one cycle to the next.
// It holds the last-known snapshot of each side.
type State struct {
	Sheet    models.Snapshot `json:"sheet"`
	Database models.Snapshot `json:"database"`
	SyncedAt time.Time       `json:"synced_at"`
}

// IsInitial reports whether no cycle has completed yet.
func (s State) IsInitial() bool {
	return s.SyncedAt.IsZero()
}

// Phase names a step of the reconciliation cycle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseReadBoth   Phase = "read_both"
	PhaseDiffSheet  Phase = "diff_sheet"
	PhaseApplyDB    Phase = "apply_db"
	PhaseDiffDB     Phase = "diff_db"
	PhaseApplySheet Phase = "apply_sheet"
	PhasePersist    Phase = "persist"
	PhaseAborted    Phase = "aborted"
)
