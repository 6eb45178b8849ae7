package reconcile

import (
	"context"
	"errors"
	"testing"

	"employee-sync/core/reconcile"
	"employee-sync/core/sheets/mocks"
	"employee-sync/feature/employees/codec"
	"employee-sync/feature/employees/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testRange = "Sheet1"

func newTestReconciler(repo *fakeRepo, sheet *fakeSheet, cfg Config) *Reconciler {
	return New(repo, sheet, testRange, cfg, zap.NewNop())
}

func TestRunCycle_InitialLoad(t *testing.T) {
	repo := newFakeRepo()
	sheet := newFakeSheet(
		header(),
		[]string{"1", "Bob", "Eng", "90000.00"},
		[]string{"2", "Ann", "", "12.50"},
	)
	r := newTestReconciler(repo, sheet, Config{})

	state, report := r.RunCycle(context.Background(), State{})

	require.False(t, report.Aborted())
	assert.True(t, report.InitialLoad)
	assert.Equal(t, []int64{1, 2}, report.SheetChanges.Inserted)
	assert.Equal(t, []int64{1, 2}, repo.upserts)
	assert.Equal(t, 2, report.Executed)
	assert.Empty(t, sheet.writes)
	assert.False(t, report.SheetWritten)
	assert.Equal(t, PhaseIdle, report.Phase)

	assert.Equal(t, []int64{1, 2}, state.Sheet.IDs())
	assert.Equal(t, []int64{1, 2}, state.Database.IDs())
	assert.False(t, state.IsInitial())
}

func TestRunCycle_Idempotent(t *testing.T) {
	repo := newFakeRepo(rec(1, "Bob", "Eng", "90000"))
	sheet := newFakeSheet(
		header(),
		[]string{"1", "Bob", "Eng", "90000.00"},
		[]string{"2", "Ann", "Ops", "10"},
	)
	r := newTestReconciler(repo, sheet, Config{})

	state, first := r.RunCycle(context.Background(), State{})
	require.False(t, first.Aborted())
	// id 1 already matches the database
	assert.Equal(t, []int64{2}, repo.upserts)

	_, second := r.RunCycle(context.Background(), state)
	require.False(t, second.Aborted())
	assert.True(t, second.SheetChanges.IsEmpty())
	assert.Equal(t, []int64{2}, repo.upserts, "no second database mutation")
	assert.Empty(t, repo.deletes)
	assert.Empty(t, sheet.writes, "no overwrite")
}

func TestRunCycle_RoundedSalaryReachesSheet(t *testing.T) {
	repo := newFakeRepo()
	sheet := newFakeSheet(header(), []string{"1", "Bob", "Eng", "12.345"})
	r := newTestReconciler(repo, sheet, Config{})

	state, first := r.RunCycle(context.Background(), State{})
	require.False(t, first.Aborted())

	stored, err := repo.SelectAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "12.35", codec.FormatSalary(stored[0].Salary))
	assert.True(t, first.SheetWritten)
	assert.Equal(t, [][]string{{"1", "Bob", "Eng", "12.35"}}, sheet.data())

	_, second := r.RunCycle(context.Background(), state)
	require.False(t, second.Aborted())
	assert.Len(t, sheet.writes, 1, "both sides agree after one cycle")
	assert.Equal(t, []int64{1}, repo.upserts)
}

func TestRunCycle_Conflict(t *testing.T) {
	repo := newFakeRepo(rec(1, "Bob", "Eng", "90000.00"))
	sheet := newFakeSheet(header(), []string{"1", "Bob", "Manager", "90000.00"})
	r := newTestReconciler(repo, sheet, Config{})

	_, report := r.RunCycle(context.Background(), State{})

	require.False(t, report.Aborted())
	assert.Equal(t, "Manager", *repo.rows[1].Role)
	assert.Equal(t, [][]string{{"1", "Bob", "Manager", "90000.00"}}, sheet.data())
	assert.Empty(t, sheet.writes)
}

func TestRunCycle_SheetEditWinsOverBaseline(t *testing.T) {
	baseline := State{
		Sheet:    models.Snapshot{rec(1, "Bob", "Eng", "90000")},
		Database: models.Snapshot{rec(1, "Bob", "Eng", "90000")},
	}
	repo := newFakeRepo(rec(1, "Bob", "Eng", "90000"))
	sheet := newFakeSheet(header(), []string{"1", "Bob", "Manager", "90000.00"})
	r := newTestReconciler(repo, sheet, Config{})

	next, report := r.RunCycle(context.Background(), baseline)

	assert.Equal(t, []int64{1}, report.SheetChanges.Updated)
	assert.Equal(t, []int64{1}, repo.upserts)
	assert.Equal(t, "Manager", *next.Database[0].Role)
	assert.Equal(t, "Manager", *next.Sheet[0].Role)
}

func TestRunCycle_DeletionPropagation(t *testing.T) {
	baseline := State{
		Sheet: models.Snapshot{rec(1, "A", "", ""), rec(2, "B", "", ""), rec(3, "C", "", "")},
	}
	repo := newFakeRepo(rec(1, "A", "", ""), rec(2, "B", "", ""), rec(3, "C", "", ""))
	sheet := newFakeSheet(header(), []string{"1", "A"}, []string{"2", "B"})
	r := newTestReconciler(repo, sheet, Config{})

	next, report := r.RunCycle(context.Background(), baseline)

	require.False(t, report.Aborted())
	assert.Equal(t, []int64{3}, repo.deletes, "exactly one delete")
	assert.Empty(t, repo.upserts)
	assert.Equal(t, []int64{1, 2}, next.Sheet.IDs())
	assert.Equal(t, []int64{1, 2}, next.Database.IDs())
	assert.Empty(t, sheet.writes)
}

func TestRunCycle_LogsChangeCounts(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	repo := newFakeRepo(rec(5, "Eve", "", ""))
	sheet := newFakeSheet(header(), []string{"1", "Bob", "Eng", "1"})
	r := New(repo, sheet, testRange, Config{}, zap.New(core))

	_, report := r.RunCycle(context.Background(), State{})
	require.False(t, report.Aborted())

	completed := logs.FilterMessage("Cycle completed").All()
	require.Len(t, completed, 1)
	fields := completed[0].ContextMap()
	assert.Equal(t, reconcile.Counts{Inserted: 1}, fields["sheet_changes"])
	assert.Equal(t, reconcile.Counts{Inserted: 1}, fields["outgoing_changes"])
}

func TestRunCycle_InvalidIDSkipped(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	repo := newFakeRepo()
	sheet := newFakeSheet(
		header(),
		[]string{"", "Alice", "Eng", "100.00"},
		[]string{"2", "Ann", "Ops", "10.00"},
	)
	r := New(repo, sheet, testRange, Config{}, zap.New(core))

	next, report := r.RunCycle(context.Background(), State{})

	require.False(t, report.Aborted())
	assert.Equal(t, []int64{2}, repo.upserts)
	require.Len(t, report.InvalidRows, 1)
	assert.Equal(t, 2, report.InvalidRows[0].Row)
	assert.Contains(t, report.InvalidRows[0].Reason, "invalid id")
	assert.Equal(t, 1, logs.FilterMessage("Skipping spreadsheet row").Len())

	// The invalid row is kept after the valid rows
	assert.Equal(t, [][]string{
		{"2", "Ann", "Ops", "10.00"},
		{"", "Alice", "Eng", "100.00"},
	}, sheet.data())
	assert.Len(t, sheet.writes, 1)
	assert.Equal(t, []int64{2}, next.Sheet.IDs())
}

func TestRunCycle_NoOpWriteAvoided(t *testing.T) {
	sheet := new(mocks.Client)
	sheet.On("GetAllRows", mock.Anything, testRange).Return([][]string{
		header(),
		{"1", "Bob", "Eng", "90000"},
		{"2", "Ann"},
	}, nil)
	repo := newFakeRepo(rec(1, "Bob", "Eng", "90000"), rec(2, "Ann", "", ""))
	r := New(repo, sheet, testRange, Config{}, zap.NewNop())

	state, report := r.RunCycle(context.Background(), State{})
	_, again := r.RunCycle(context.Background(), state)

	assert.False(t, report.SheetWritten)
	assert.False(t, again.SheetWritten)
	sheet.AssertNotCalled(t, "OverwriteRange", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, repo.upserts)
}

func TestRunCycle_DatabaseChangeReachesSheet(t *testing.T) {
	baseline := State{
		Sheet:    models.Snapshot{rec(1, "Bob", "Eng", "10"), rec(2, "Ann", "Ops", "20")},
		Database: models.Snapshot{rec(1, "Bob", "Eng", "10"), rec(2, "Ann", "Ops", "20")},
	}
	repo := newFakeRepo(rec(1, "Bob", "Eng", "10"), rec(2, "Ann", "Lead", "25"), rec(4, "New", "", ""))
	sheet := newFakeSheet(header(), []string{"1", "Bob", "Eng", "10.00"}, []string{"2", "Ann", "Ops", "20.00"})
	r := newTestReconciler(repo, sheet, Config{})

	next, report := r.RunCycle(context.Background(), baseline)

	assert.Equal(t, []int64{2}, report.DatabaseChanges.Updated)
	assert.Equal(t, []int64{4}, report.DatabaseChanges.Inserted)
	assert.Equal(t, []int64{4}, report.OutgoingChanges.Inserted)
	assert.True(t, report.SheetWritten)
	assert.Equal(t, int64(16), report.CellsUpdated)
	assert.Equal(t, [][]string{
		{"1", "Bob", "Eng", "10.00"},
		{"2", "Ann", "Lead", "25.00"},
		{"4", "New"},
	}, sheet.data())
	assert.Empty(t, repo.upserts)
	assert.Equal(t, []int64{1, 2, 4}, next.Sheet.IDs())
}

func TestRunCycle_ShorterTableClearsStaleRows(t *testing.T) {
	repo := newFakeRepo(rec(1, "Bob", "", ""))
	sheet := newFakeSheet(header(), []string{"1", "Bob", "", "", "note"}, []string{"5", "Old", "Role", "1"})
	r := newTestReconciler(repo, sheet, Config{PropagateDBDeletes: true})
	baseline := State{
		Sheet:    models.Snapshot{rec(1, "Bob", "", ""), rec(5, "Old", "Role", "1")},
		Database: models.Snapshot{rec(1, "Bob", "", ""), rec(5, "Old", "Role", "1")},
	}

	_, report := r.RunCycle(context.Background(), baseline)

	require.True(t, report.SheetWritten)
	written := sheet.writes[0]
	require.Len(t, written, 3, "padded to the live extent")
	for _, row := range written {
		assert.Len(t, row, 5)
	}
	assert.Equal(t, []string{"", "", "", "", ""}, written[2])
	assert.Equal(t, [][]string{{"1", "Bob", "", "", "note"}}, sheet.data())
	assert.Empty(t, repo.deletes)
}

func TestRunCycle_KeepsSheetOnlyRowsByDefault(t *testing.T) {
	baseline := State{
		Sheet:    models.Snapshot{rec(1, "Bob", "", ""), rec(5, "Old", "", "")},
		Database: models.Snapshot{rec(1, "Bob", "", ""), rec(5, "Old", "", "")},
	}
	repo := newFakeRepo(rec(1, "Bob", "", ""))
	sheet := newFakeSheet(header(), []string{"1", "Bob"}, []string{"5", "Old"})
	r := newTestReconciler(repo, sheet, Config{})

	next, report := r.RunCycle(context.Background(), baseline)

	assert.Equal(t, []int64{5}, report.DatabaseChanges.Deleted)
	assert.Empty(t, sheet.writes)
	assert.Equal(t, []int64{1, 5}, next.Sheet.IDs())
	assert.Empty(t, repo.upserts, "a database deletion does not come back")
}

func TestRunCycle_PendingUpsertRetried(t *testing.T) {
	repo := newFakeRepo(rec(1, "Bob", "Eng", "10"))
	repo.failUpsert[1] = errors.New("lock wait timeout")
	sheet := newFakeSheet(header(), []string{"1", "Bob", "Manager", "10"}, []string{"2", "Ann"})
	baseline := State{
		Sheet:    models.Snapshot{rec(1, "Bob", "Eng", "10")},
		Database: models.Snapshot{rec(1, "Bob", "Eng", "10")},
	}
	r := newTestReconciler(repo, sheet, Config{})

	next, report := r.RunCycle(context.Background(), baseline)

	require.False(t, report.Aborted())
	require.Len(t, report.FailedMutations, 1)
	assert.Equal(t, reconcile.ActionUpsertDB, report.FailedMutations[0].Type)
	assert.Contains(t, report.FailedMutations[0].Error, ErrWriteFailure.Error())
	assert.Equal(t, []int64{2}, repo.upserts, "other rows are unaffected")
	// The user's edit stays on the sheet and the baseline keeps the old value
	assert.Equal(t, "Manager", sheet.data()[0][2])
	assert.Equal(t, "Eng", *next.Sheet.Index()[1].Role)

	delete(repo.failUpsert, 1)
	_, retry := r.RunCycle(context.Background(), next)

	assert.Equal(t, []int64{1}, retry.SheetChanges.Updated)
	assert.Equal(t, []int64{2, 1}, repo.upserts)
	assert.Equal(t, "Manager", *repo.rows[1].Role)
}

func TestRunCycle_PendingInsertRetried(t *testing.T) {
	repo := newFakeRepo()
	repo.failUpsert[7] = errors.New("deadlock")
	sheet := newFakeSheet(header(), []string{"7", "Gus"})
	r := newTestReconciler(repo, sheet, Config{})

	next, _ := r.RunCycle(context.Background(), State{})
	assert.Empty(t, next.Sheet, "failed insert is not part of the baseline")
	assert.Equal(t, [][]string{{"7", "Gus"}}, sheet.data())

	delete(repo.failUpsert, 7)
	_, retry := r.RunCycle(context.Background(), next)
	assert.Equal(t, []int64{7}, retry.SheetChanges.Inserted)
	assert.Equal(t, []int64{7}, repo.upserts)
}

func TestRunCycle_PendingDeleteRetried(t *testing.T) {
	baseline := State{Sheet: models.Snapshot{rec(1, "A", "", ""), rec(3, "C", "", "")}}
	repo := newFakeRepo(rec(1, "A", "", ""), rec(3, "C", "", ""))
	repo.failDelete[3] = errors.New("foreign key")
	sheet := newFakeSheet(header(), []string{"1", "A"})
	r := newTestReconciler(repo, sheet, Config{})

	next, report := r.RunCycle(context.Background(), baseline)

	require.Len(t, report.FailedMutations, 1)
	assert.Equal(t, reconcile.ActionDeleteDB, report.FailedMutations[0].Type)
	assert.Equal(t, [][]string{{"1", "A"}}, sheet.data(), "deleted row is not written back")
	assert.Equal(t, []int64{1, 3}, next.Sheet.IDs())

	delete(repo.failDelete, 3)
	_, retry := r.RunCycle(context.Background(), next)
	assert.Equal(t, []int64{3}, retry.SheetChanges.Deleted)
	assert.Equal(t, []int64{3}, repo.deletes)
}

func TestRunCycle_EmptySheetGuard(t *testing.T) {
	baseline := State{
		Sheet:    models.Snapshot{rec(1, "A", "", ""), rec(2, "B", "", "")},
		Database: models.Snapshot{rec(1, "A", "", ""), rec(2, "B", "", "")},
	}
	repo := newFakeRepo(rec(1, "A", "", ""), rec(2, "B", "", ""))
	sheet := newFakeSheet()
	r := newTestReconciler(repo, sheet, Config{})

	next, report := r.RunCycle(context.Background(), baseline)

	require.False(t, report.Aborted())
	assert.Equal(t, []int64{1, 2}, report.SheetChanges.Deleted)
	assert.Equal(t, 2, report.Plan.SkippedDeletes)
	assert.Empty(t, repo.deletes)
	assert.True(t, report.SheetWritten)
	assert.Equal(t, models.Header, codecHeader(sheet))
	assert.Equal(t, []int64{1, 2}, next.Sheet.IDs())
}

func codecHeader(s *fakeSheet) []string {
	if len(s.grid) == 0 {
		return nil
	}
	return s.grid[0]
}

func TestRunCycle_SheetReadFailure(t *testing.T) {
	repo := newFakeRepo(rec(1, "A", "", ""))
	sheet := newFakeSheet()
	sheet.readErr = errors.New("503 backend error")
	r := newTestReconciler(repo, sheet, Config{})
	state := State{Sheet: models.Snapshot{rec(1, "A", "", "")}}

	next, report := r.RunCycle(context.Background(), state)

	assert.True(t, report.Aborted())
	assert.Equal(t, PhaseReadBoth, report.AbortedIn)
	assert.ErrorIs(t, report.Err(), ErrReadFailure)
	assert.Equal(t, 0, repo.selectCalls, "database untouched")
	assert.Equal(t, state, next)
}

func TestRunCycle_DatabaseRereadFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.failSelectAt = 2
	sheet := newFakeSheet(header(), []string{"1", "A"})
	r := newTestReconciler(repo, sheet, Config{})

	next, report := r.RunCycle(context.Background(), State{})

	assert.True(t, report.Aborted())
	assert.Equal(t, PhaseDiffDB, report.AbortedIn)
	assert.ErrorIs(t, report.Err(), ErrReadFailure)
	assert.True(t, next.IsInitial(), "state is not persisted")
	assert.Empty(t, sheet.writes)

	// The next cycle diffs against the old baseline again; the row already landed
	_, retry := r.RunCycle(context.Background(), next)
	assert.False(t, retry.Aborted())
	assert.Equal(t, []int64{1}, retry.SheetChanges.Inserted)
	assert.Equal(t, []int64{1}, repo.upserts)
}

func TestRunCycle_SheetWriteFailure(t *testing.T) {
	repo := newFakeRepo(rec(1, "A", "Eng", ""))
	sheet := newFakeSheet(header(), []string{"1", "A", "Ops"})
	sheet.writeErr = errors.New("quota exceeded")
	baseline := State{Sheet: models.Snapshot{rec(1, "A", "Ops", "")}}
	r := newTestReconciler(repo, sheet, Config{})

	next, report := r.RunCycle(context.Background(), baseline)

	assert.False(t, report.Aborted())
	assert.False(t, report.SheetWritten)
	assert.Contains(t, report.SheetWriteError, "quota exceeded")

	sheet.writeErr = nil
	_, retry := r.RunCycle(context.Background(), next)
	assert.True(t, retry.SheetWritten)
	assert.Equal(t, [][]string{{"1", "A", "Eng"}}, sheet.data())
}

func TestRunCycle_DuplicateIDs(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	repo := newFakeRepo()
	sheet := newFakeSheet(header(), []string{"1", "First"}, []string{"1", "Second"})
	r := New(repo, sheet, testRange, Config{}, zap.New(core))

	_, report := r.RunCycle(context.Background(), State{})

	assert.Equal(t, []int64{1}, report.DuplicateIDs)
	assert.Equal(t, "Second", *repo.rows[1].Name)
	assert.Equal(t, 1, logs.FilterMessage("Duplicate id in spreadsheet, later row wins").Len())
	assert.Equal(t, [][]string{{"1", "Second"}}, sheet.data())
}

func TestPreview(t *testing.T) {
	baseline := State{
		Sheet:    models.Snapshot{rec(1, "A", "", ""), rec(3, "C", "", "")},
		Database: models.Snapshot{rec(1, "A", "", ""), rec(3, "C", "", "")},
		SyncedAt: testTime,
	}
	repo := newFakeRepo(rec(1, "A", "", ""), rec(3, "C", "", ""))
	sheet := newFakeSheet(header(), []string{"1", "A2"}, []string{"4", "D"})
	r := newTestReconciler(repo, sheet, Config{})

	preview, err := r.Preview(context.Background(), baseline)
	require.NoError(t, err)

	assert.False(t, preview.InitialLoad)
	assert.Equal(t, reconcile.Summary{Upserts: 2, Deletes: 1}, preview.Plan.Summary)
	assert.Equal(t, [][]string{header(), {"1", "A2"}, {"4", "D"}}, preview.MergedGrid)
	assert.False(t, preview.WouldWrite)

	assert.Empty(t, repo.upserts)
	assert.Empty(t, repo.deletes)
	assert.Empty(t, sheet.writes)
}

func TestPreview_ReadFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.selectErr = errors.New("too many connections")
	r := newTestReconciler(repo, newFakeSheet(), Config{})

	_, err := r.Preview(context.Background(), State{})
	assert.ErrorIs(t, err, ErrReadFailure)
}
