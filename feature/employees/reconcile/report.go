package reconcile

import (
	"time"

	"employee-sync/core/reconcile"
	"employee-sync/feature/employees/codec"
)

// InvalidRow is a spreadsheet row skipped by the codec.
type InvalidRow struct {
	Row    int      `json:"row"`
	Cells  []string `json:"cells"`
	Reason string   `json:"reason"`
}

// CycleReport describes one reconciliation cycle.
type CycleReport struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	// Phase is PhaseIdle after a completed cycle and PhaseAborted otherwise.
	Phase Phase `json:"phase"`
	// AbortedIn is the phase that failed.
	AbortedIn Phase  `json:"aborted_in,omitempty"`
	Error     string `json:"error,omitempty"`

	InitialLoad  bool         `json:"initial_load"`
	InvalidRows  []InvalidRow `json:"invalid_rows"`
	DuplicateIDs []int64      `json:"duplicate_ids"`

	// SheetChanges is the spreadsheet diff against its last-known snapshot.
	SheetChanges reconcile.Changes[int64] `json:"sheet_changes"`
	// DatabaseChanges is the database diff against its last-known snapshot, before this cycle wrote.
	DatabaseChanges reconcile.Changes[int64] `json:"database_changes"`
	// OutgoingChanges is the database diff against the live sheet after this cycle wrote.
	OutgoingChanges reconcile.Changes[int64] `json:"outgoing_changes"`

	Plan            reconcile.Summary          `json:"plan"`
	Executed        int                        `json:"executed"`
	FailedMutations []reconcile.Failure[int64] `json:"failed_mutations"`

	SheetWritten    bool   `json:"sheet_written"`
	CellsUpdated    int64  `json:"cells_updated"`
	SheetWriteError string `json:"sheet_write_error,omitempty"`

	err error
}

// Err returns the error that aborted the cycle, or nil.
func (r *CycleReport) Err() error {
	return r.err
}

// Aborted reports whether the cycle was abandoned.
func (r *CycleReport) Aborted() bool {
	return r.Phase == PhaseAborted
}

// Duration returns the wall time of the cycle.
func (r *CycleReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

func invalidRows(rows []*codec.RowError) []InvalidRow {
	out := make([]InvalidRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, InvalidRow{Row: r.Row, Cells: r.Cells, Reason: r.Reason()})
	}
	return out
}
