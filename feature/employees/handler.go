package employees

import (
	"employee-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the sync status API.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Get("/status", h.HandleStatus)
	group.Get("/preview", h.HandlePreview)
	group.Post("/run", h.HandleRun)
}

// HandleStatus returns the poll loop status.
// @Summary Sync Status
// @Description Returns the state of the reconciliation loop and the report of the last cycle.
// @Tags sync
// @Produce json
// @Success 200 {object} reconcile.StatusSnapshot
// @Router /sync/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}

// HandlePreview returns what the next cycle would do.
// @Summary Preview Next Cycle
// @Description Reads the spreadsheet and the database and returns the plan and merged grid without writing. Results are cached briefly.
// @Tags sync
// @Produce json
// @Param refresh query bool false "Bypass the cache"
// @Success 200 {object} reconcile.PreviewResult
// @Failure 502 {object} map[string]string "Read failure"
// @Router /sync/preview [get]
func (h *Handler) HandlePreview(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	preview, err := h.service.Preview(c.UserContext(), c.QueryBool("refresh"))
	if err != nil {
		l.Error("Preview failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(preview)
}

// HandleRun runs a cycle immediately.
// @Summary Run Cycle
// @Description Runs a reconciliation cycle now and returns its report. Waits for a cycle already in progress.
// @Tags sync
// @Produce json
// @Success 200 {object} reconcile.CycleReport
// @Failure 503 {object} reconcile.CycleReport "Cycle aborted"
// @Router /sync/run [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering reconciliation cycle")

	report := h.service.RunNow(c.UserContext())
	if report.Aborted() {
		l.Warn("Triggered cycle aborted", zap.String("phase", string(report.AbortedIn)), zap.String("error", report.Error))
		return c.Status(fiber.StatusServiceUnavailable).JSON(report)
	}
	return c.JSON(report)
}
