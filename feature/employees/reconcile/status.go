package reconcile

import (
	"sync"
	"time"
)

// StatusSnapshot is a point-in-time view of the poll loop.
type StatusSnapshot struct {
	Running       bool         `json:"running"`
	Cycles        int          `json:"cycles"`
	AbortedCycles int          `json:"aborted_cycles"`
	LastSuccess   time.Time    `json:"last_success"`
	NextRunAt     time.Time    `json:"next_run_at"`
	SheetRows     int          `json:"sheet_rows"`
	DatabaseRows  int          `json:"database_rows"`
	LastReport    *CycleReport `json:"last_report"`
}

// Status tracks cycle outcomes for the status API.
type Status struct {
	mu   sync.RWMutex
	snap StatusSnapshot
}

// NewStatus creates an empty tracker.
func NewStatus() *Status {
	return &Status{}
}

// Start marks a cycle as running.
func (s *Status) Start() {
	s.mu.Lock()
	s.snap.Running = true
	s.mu.Unlock()
}

// Record stores the report of a finished cycle and the state it produced.
func (s *Status) Record(report *CycleReport, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Running = false
	s.snap.Cycles++
	s.snap.LastReport = report
	if report.Aborted() {
		s.snap.AbortedCycles++
		return
	}
	s.snap.LastSuccess = report.FinishedAt
	s.snap.SheetRows = len(state.Sheet)
	s.snap.DatabaseRows = len(state.Database)
}

// ScheduleNext records when the next cycle starts.
func (s *Status) ScheduleNext(at time.Time) {
	s.mu.Lock()
	s.snap.NextRunAt = at
	s.mu.Unlock()
}

// Snapshot returns a copy of the current status.
func (s *Status) Snapshot() StatusSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
