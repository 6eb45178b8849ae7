package reconcile

import (
	"testing"
	"time"

	"employee-sync/feature/employees/models"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	s := NewStatus()
	s.Start()
	assert.True(t, s.Snapshot().Running)

	state := State{Sheet: models.Snapshot{rec(1, "", "", "")}, Database: models.Snapshot{rec(1, "", "", ""), rec(2, "", "", "")}}
	s.Record(completed(), state)
	s.Record(abortedWith(ErrReadFailure), State{})
	s.ScheduleNext(testTime.Add(time.Minute))

	snap := s.Snapshot()
	assert.False(t, snap.Running)
	assert.Equal(t, 2, snap.Cycles)
	assert.Equal(t, 1, snap.AbortedCycles)
	assert.Equal(t, 1, snap.SheetRows)
	assert.Equal(t, 2, snap.DatabaseRows)
	assert.Equal(t, testTime, snap.LastSuccess)
	assert.True(t, snap.LastReport.Aborted())
	assert.Equal(t, testTime.Add(time.Minute), snap.NextRunAt)
}
