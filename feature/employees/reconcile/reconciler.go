package reconcile

import (
	"context"
	"fmt"
	"time"

	"employee-sync/core/reconcile"
	"employee-sync/core/sheets"
	"employee-sync/feature/employees/codec"
	"employee-sync/feature/employees/models"
	"employee-sync/feature/employees/store"

	"go.uber.org/zap"
)

// Reconciler runs bidirectional cycles between the employees table and the spreadsheet.
// It is not safe for concurrent cycles; the Poller runs one at a time.
type Reconciler struct {
	repo   store.Repository
	sheet  sheets.Client
	rng    string
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// New creates a reconciler over the given collaborators.
// sheetRange is the A1 range holding the table, header row included.
func New(repo store.Repository, sheet sheets.Client, sheetRange string, cfg Config, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		repo:   repo,
		sheet:  sheet,
		rng:    sheetRange,
		cfg:    cfg.withDefaults(),
		logger: logger,
		now:    time.Now,
	}
}

// snapshots holds what READ_BOTH produced.
type snapshots struct {
	grid    [][]string
	decoded codec.Decoded
	db      models.Snapshot
}

// RunCycle performs one reconciliation cycle and returns the state for the next one.
// When the cycle aborts the input state is returned unchanged, so the work is retried.
func (r *Reconciler) RunCycle(ctx context.Context, state State) (State, *CycleReport) {
	report := &CycleReport{StartedAt: r.now(), InitialLoad: state.IsInitial()}
	phase := PhaseIdle
	enter := func(p Phase) {
		phase = p
		r.logger.Debug("Entering phase", zap.String("phase", string(p)))
	}
	abort := func(err error) (State, *CycleReport) {
		report.Phase = PhaseAborted
		report.AbortedIn = phase
		report.Error = err.Error()
		report.err = err
		report.FinishedAt = r.now()
		r.logger.Error("Cycle aborted", zap.String("phase", string(phase)), zap.Error(err))
		return state, report
	}

	// 1. READ_BOTH
	enter(PhaseReadBoth)
	snap, err := r.readBoth(ctx)
	if err != nil {
		return abort(err)
	}
	r.recordSkippedRows(report, snap.decoded)

	// 2. DIFF_SHEET
	enter(PhaseDiffSheet)
	dbBefore := snap.db.Index()
	report.DatabaseChanges = reconcile.Diff(state.Database.Index(), dbBefore, models.EqualRecords)
	changes, plan := r.planSheetChanges(state, snap.decoded, dbBefore)
	report.SheetChanges = changes
	report.Plan = plan.Summary

	// 3. APPLY_DB
	enter(PhaseApplyDB)
	mutator := &dbMutator{repo: r.repo, logger: r.logger}
	result := reconcile.ApplyPlan(ctx, mutator, plan, reconcile.Options{Confirmed: true})
	report.Executed = result.Executed
	report.FailedMutations = result.Failed
	for _, f := range result.Failed {
		r.logger.Error("Mutation failed, will retry next cycle",
			zap.Int64("id", f.Key),
			zap.String("action", string(f.Type)),
			zap.String("error", f.Error),
		)
	}
	pending := pendingUnits{
		upserts: result.FailedKeys(reconcile.ActionUpsertDB),
		deletes: result.FailedKeys(reconcile.ActionDeleteDB),
	}

	// 4. DIFF_DB
	enter(PhaseDiffDB)
	dbAfter, err := r.repo.SelectAll(ctx)
	if err != nil {
		return abort(fmt.Errorf("%w: database: %w", ErrReadFailure, err))
	}
	dbIndex := dbAfter.Index()
	report.OutgoingChanges = reconcile.Diff(snap.decoded.Index(), dbIndex, models.EqualRecords)
	merged := buildMergedGrid(mergeInput{
		sheet:            snap.decoded,
		db:               dbIndex,
		pending:          pending,
		propagateDeletes: r.cfg.PropagateDBDeletes,
	})

	// 5. APPLY_SHEET
	enter(PhaseApplySheet)
	finalGrid := snap.grid
	if codec.GridsEqual(merged, snap.grid) {
		r.logger.Debug("Spreadsheet already up to date")
	} else {
		rows, cols := codec.Extent(snap.grid)
		cells, err := r.sheet.OverwriteRange(ctx, r.rng, codec.PadGrid(merged, rows, cols))
		if err != nil {
			werr := fmt.Errorf("%w: spreadsheet: %w", ErrWriteFailure, err)
			report.SheetWriteError = werr.Error()
			r.logger.Error("Spreadsheet write failed, will retry next cycle", zap.Error(werr))
		} else {
			finalGrid = merged
			report.SheetWritten = true
			report.CellsUpdated = cells
			r.logger.Info("Spreadsheet updated", zap.Int64("cells", cells), zap.Int("rows", len(merged)-1))
		}
	}

	// 6. PERSIST
	enter(PhasePersist)
	next := State{
		Sheet:    sheetBaseline(finalGrid, state.Sheet.Index(), pending),
		Database: dbAfter,
		SyncedAt: r.now(),
	}

	report.Phase = PhaseIdle
	report.FinishedAt = r.now()
	r.logger.Info("Cycle completed",
		zap.Any("sheet_changes", changes.Counts()),
		zap.Any("outgoing_changes", report.OutgoingChanges.Counts()),
		zap.Int("executed", report.Executed),
		zap.Int("failed", len(report.FailedMutations)),
		zap.Bool("sheet_written", report.SheetWritten),
		zap.Duration("took", report.Duration()),
	)
	return next, report
}

// readBoth reads the spreadsheet first so a sheet failure never reaches the database.
func (r *Reconciler) readBoth(ctx context.Context) (snapshots, error) {
	grid, err := r.sheet.GetAllRows(ctx, r.rng)
	if err != nil {
		return snapshots{}, fmt.Errorf("%w: spreadsheet: %w", ErrReadFailure, err)
	}

	db, err := r.repo.SelectAll(ctx)
	if err != nil {
		return snapshots{}, fmt.Errorf("%w: database: %w", ErrReadFailure, err)
	}

	return snapshots{grid: grid, decoded: codec.DecodeSheet(grid), db: db}, nil
}

func (r *Reconciler) recordSkippedRows(report *CycleReport, decoded codec.Decoded) {
	report.InvalidRows = invalidRows(decoded.Invalid)
	report.DuplicateIDs = decoded.Duplicates
	for _, row := range decoded.Invalid {
		r.logger.Warn("Skipping spreadsheet row", zap.Int("row", row.Row), zap.Error(row))
	}
	for _, id := range decoded.Duplicates {
		r.logger.Warn("Duplicate id in spreadsheet, later row wins", zap.Int64("id", id))
	}
}

// planSheetChanges diffs the live sheet against its baseline and plans database actions.
// Upserts whose value the database already holds are dropped.
func (r *Reconciler) planSheetChanges(state State, decoded codec.Decoded, db map[int64]models.Record) (reconcile.Changes[int64], *reconcile.Plan[int64, models.Record]) {
	live := decoded.Index()
	changes := reconcile.Diff(state.Sheet.Index(), live, models.EqualRecords)

	allowDeletes := decoded.HasHeader
	if !allowDeletes && len(changes.Deleted) > 0 {
		r.logger.Warn("Spreadsheet is empty, skipping deletions", zap.Int("deletions", len(changes.Deleted)))
	}

	lookup := func(id int64) (models.Record, bool) {
		record, ok := live[id]
		if !ok {
			return models.Record{}, false
		}
		if current, exists := db[id]; exists && current.Equal(record) {
			return models.Record{}, false
		}
		return record, true
	}

	return changes, reconcile.BuildPlan(changes, lookup, allowDeletes)
}

// sheetBaseline decodes the grid the sheet holds after the cycle.
// Pending ids keep their previous baseline value so the next cycle sees them as changed again.
func sheetBaseline(grid [][]string, prev map[int64]models.Record, pending pendingUnits) models.Snapshot {
	baseline := codec.DecodeSheet(grid).Index()
	for _, ids := range []map[int64]struct{}{pending.upserts, pending.deletes} {
		for id := range ids {
			if old, ok := prev[id]; ok {
				baseline[id] = old
			} else {
				delete(baseline, id)
			}
		}
	}
	return models.SnapshotFromIndex(baseline)
}

// dbMutator adapts the repository to the action executor.
type dbMutator struct {
	repo   store.Repository
	logger *zap.Logger
}

func (m *dbMutator) UpsertDB(ctx context.Context, id int64, record models.Record) error {
	record.ID = id
	if err := m.repo.Upsert(ctx, record); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	m.logger.Info("Upserted employee", zap.Int64("id", id), zap.String("action", string(reconcile.ActionUpsertDB)))
	return nil
}

func (m *dbMutator) DeleteDB(ctx context.Context, id int64) error {
	if err := m.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	m.logger.Info("Deleted employee", zap.Int64("id", id), zap.String("action", string(reconcile.ActionDeleteDB)))
	return nil
}
