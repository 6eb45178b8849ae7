package reconcile

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CycleRunner runs one reconciliation cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context, state State) (State, *CycleReport)
}

// Poller invokes the reconciler at a fixed interval and owns the state between cycles.
type Poller struct {
	runner CycleRunner
	store  StateStore
	status *Status
	cfg    Config
	logger *zap.Logger

	runMu sync.Mutex
	mu    sync.RWMutex
	state State
	after func(time.Duration) <-chan time.Time
}

// NewPoller creates a poller. A nil store keeps state in memory only.
func NewPoller(runner CycleRunner, store StateStore, status *Status, cfg Config, logger *zap.Logger) *Poller {
	if store == nil {
		store = NopStateStore{}
	}
	if status == nil {
		status = NewStatus()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		runner: runner,
		store:  store,
		status: status,
		cfg:    cfg.withDefaults(),
		logger: logger,
		after:  time.After,
	}
}

// Restore loads the persisted state, if any.
func (p *Poller) Restore(ctx context.Context) error {
	state, found, err := p.store.Load(ctx)
	if err != nil {
		return err
	}
	if !found {
		p.logger.Info("No saved state, next cycle is an initial load")
		return nil
	}

	p.mu.Lock()
	p.state = state
	p.mu.Unlock()
	p.logger.Info("Restored state",
		zap.Time("synced_at", state.SyncedAt),
		zap.Int("sheet_rows", len(state.Sheet)),
		zap.Int("database_rows", len(state.Database)),
	)
	return nil
}

// State returns the last-known snapshots.
func (p *Poller) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Status returns the tracker the poller reports to.
func (p *Poller) Status() *Status {
	return p.status
}

// RunOnce runs a single cycle to completion, even if ctx is cancelled meanwhile.
// The state is replaced and persisted only when the cycle completed.
func (p *Poller) RunOnce(ctx context.Context) *CycleReport {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	cycleCtx := context.WithoutCancel(ctx)
	p.status.Start()

	next, report := p.runner.RunCycle(cycleCtx, p.State())
	if report.Aborted() {
		p.status.Record(report, p.State())
		return report
	}

	p.mu.Lock()
	p.state = next
	p.mu.Unlock()
	if err := p.store.Save(cycleCtx, next); err != nil {
		p.logger.Error("Failed to persist state", zap.Error(err))
	}

	p.status.Record(report, next)
	return report
}

// Run loops until ctx is cancelled. Cancellation is observed between cycles only.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("Starting poll loop",
		zap.Duration("interval", p.cfg.Interval),
		zap.Duration("retry_interval", p.cfg.RetryInterval),
	)

	for {
		report := p.RunOnce(ctx)

		delay := p.cfg.Interval
		if errors.Is(report.Err(), ErrReadFailure) {
			delay = p.cfg.RetryInterval
			p.logger.Warn("Read failure, backing off", zap.Duration("delay", delay))
		}
		p.status.ScheduleNext(time.Now().Add(delay))

		select {
		case <-ctx.Done():
			p.logger.Info("Poll loop stopped")
			return nil
		case <-p.after(delay):
		}
	}
}
