package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"employee-sync/core/config"
	"employee-sync/core/logger"
	corereconcile "employee-sync/core/reconcile"
	"employee-sync/feature/employees/models"
	"employee-sync/feature/employees/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	dryRunSync bool
	yesConfirm bool
	resetState bool
)

// syncCmd runs a single reconciliation cycle.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one reconciliation cycle (report + optionally apply)",
	Long: `Runs a single cycle between the spreadsheet and the database, then exits.

The plan is printed first. Cycles that delete database rows ask for confirmation.

Examples:
  # Show what a cycle would do
  sync --dry-run

  # Run a cycle, confirming deletions interactively
  sync

  # Run a cycle non-interactively
  sync --yes

  # Forget the saved snapshots; the next cycle is an initial load
  sync --reset-state`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Print the plan and merged sheet without writing")
	syncCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm database deletions (non-interactive)")
	syncCmd.Flags().BoolVar(&resetState, "reset-state", false, "Delete the persisted state and exit")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	d, err := buildDeps(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer d.Close()

	if resetState {
		if err := d.states.Reset(ctx); err != nil {
			return err
		}
		l.Info("Persisted state removed")
		return nil
	}

	if err := d.poller.Restore(ctx); err != nil {
		return fmt.Errorf("failed to restore state: %w", err)
	}

	// Step 1: Plan (always runs)
	preview, err := d.reconciler.Preview(ctx, d.poller.State())
	if err != nil {
		return fmt.Errorf("failed to plan cycle: %w", err)
	}
	printPreview(l, preview)

	if dryRunSync {
		printGrid(os.Stdout, preview.MergedGrid)
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	// Step 2: Confirm deletions
	if ids := deleteActions(preview.Plan); len(ids) > 0 {
		l.Warn("Cycle deletes database rows", zap.Int64s("ids", ids))
		if !confirmDestructiveAction(os.Stdin, os.Stdout, yesConfirm) {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
	}

	// Step 3: Run the cycle; it re-reads both sides, so the plan may have moved on
	report := d.poller.RunOnce(ctx)
	if report.Aborted() {
		return fmt.Errorf("cycle aborted in %s: %w", report.AbortedIn, report.Err())
	}

	l.Info("Cycle completed",
		zap.Int("executed", report.Executed),
		zap.Int("failed", len(report.FailedMutations)),
		zap.Bool("sheet_written", report.SheetWritten),
		zap.Int64("cells_updated", report.CellsUpdated),
	)
	for _, f := range report.FailedMutations {
		l.Warn("Mutation failed, retried next cycle",
			zap.String("type", string(f.Type)),
			zap.Int64("id", f.Key),
			zap.String("error", f.Error),
		)
	}
	return nil
}

// printPreview logs a summary of the plan and a sample of its actions.
func printPreview(l *zap.Logger, p *reconcile.PreviewResult) {
	l.Info("Reconciliation plan",
		zap.Bool("initial_load", p.InitialLoad),
		zap.Int("sheet_inserted", len(p.SheetChanges.Inserted)),
		zap.Int("sheet_updated", len(p.SheetChanges.Updated)),
		zap.Int("sheet_deleted", len(p.SheetChanges.Deleted)),
		zap.Int("upserts", p.Plan.Summary.Upserts),
		zap.Int("deletes", p.Plan.Summary.Deletes),
		zap.Int("skipped_deletes", p.Plan.Summary.SkippedDeletes),
		zap.Bool("sheet_write", p.WouldWrite),
	)

	for _, row := range p.InvalidRows {
		l.Warn("Invalid row skipped", zap.Int("row", row.Row), zap.String("reason", row.Reason))
	}
	if len(p.DuplicateIDs) > 0 {
		l.Warn("Duplicate ids, last row wins", zap.Int64s("ids", p.DuplicateIDs))
	}

	maxShow := min(len(p.Plan.Actions), 5)
	for _, action := range p.Plan.Actions[:maxShow] {
		l.Info("Sample action",
			zap.String("type", string(action.Type)),
			zap.Int64("id", action.Key),
			zap.String("reason", action.Reason),
		)
	}
	if len(p.Plan.Actions) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(p.Plan.Actions)-maxShow))
	}
}

// printGrid writes the merged sheet as tab separated rows.
func printGrid(w io.Writer, grid [][]string) {
	for _, row := range grid {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction(in io.Reader, out io.Writer, yes bool) bool {
	if yes {
		fmt.Fprintln(out, "\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Fprint(out, "\n⚠️  Type 'yes' to confirm deleting database rows: ")
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}

// deleteActions lists the ids a plan deletes.
func deleteActions(plan *corereconcile.Plan[int64, models.Record]) []int64 {
	var ids []int64
	for _, a := range plan.Actions {
		if a.Type == corereconcile.ActionDeleteDB {
			ids = append(ids, a.Key)
		}
	}
	return ids
}
