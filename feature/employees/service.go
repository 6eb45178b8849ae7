package employees

import (
	"context"

	corereconcile "employee-sync/core/reconcile"
	"employee-sync/feature/employees/reconcile"

	"go.uber.org/zap"
)

const previewKey = "preview"

// Previewer computes what the next cycle would do.
type Previewer interface {
	Preview(ctx context.Context, state reconcile.State) (*reconcile.PreviewResult, error)
}

// Service exposes the reconciliation loop to the status API.
type Service struct {
	poller    *reconcile.Poller
	previewer Previewer
	previews  *corereconcile.Cache[*reconcile.PreviewResult]
	logger    *zap.Logger
}

// NewService creates a service over a running poller.
func NewService(poller *reconcile.Poller, previewer Previewer, cfg reconcile.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		poller:    poller,
		previewer: previewer,
		previews:  corereconcile.NewCache[*reconcile.PreviewResult](cfg.PreviewTTL),
		logger:    logger,
	}
}

// Status returns the poll loop status.
func (s *Service) Status() reconcile.StatusSnapshot {
	return s.poller.Status().Snapshot()
}

// Preview returns the dry-run plan for the next cycle, cached for the preview TTL.
func (s *Service) Preview(ctx context.Context, refresh bool) (*reconcile.PreviewResult, error) {
	if refresh {
		s.previews.Invalidate(previewKey)
	}
	return s.previews.GetOrBuild(ctx, previewKey, func(ctx context.Context) (*reconcile.PreviewResult, error) {
		return s.previewer.Preview(ctx, s.poller.State())
	})
}

// RunNow runs a cycle immediately. It waits for a cycle already in progress.
func (s *Service) RunNow(ctx context.Context) *reconcile.CycleReport {
	report := s.poller.RunOnce(ctx)
	s.previews.Invalidate(previewKey)
	return report
}
