package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"employee-sync/core/config"
	"employee-sync/core/loader"
	"employee-sync/core/logger"
	"employee-sync/core/middleware/auth"
	"employee-sync/core/middleware/rayid"

	"employee-sync/feature/employees"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "employee-sync/docs/swagger"
)

// @title Employee Sync API
// @version 1.0
// @description Status API of the employee database and spreadsheet reconciler.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the reconciliation loop",
	Long: `Polls the spreadsheet and the database at a fixed interval and reconciles them.
When the status API is enabled it is served alongside the loop.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 3. Connect collaborators
		d, err := buildDeps(ctx, cfg, logg)
		if err != nil {
			logg.Fatal("Failed to initialize", zap.Error(err))
		}
		defer d.Close()

		if err := d.poller.Restore(ctx); err != nil {
			logg.Warn("Failed to restore state, starting with an initial load", zap.Error(err))
		}

		// 4. Status API (Optional)
		var app *fiber.App
		if cfg.Server.Enabled {
			app = newStatusApp(cfg, logg, employees.NewFeature(d.poller, d.reconciler, cfg.Sync, logg))
			go func() {
				logg.Info("Starting status server", zap.String("port", cfg.Server.Port))
				if err := app.Listen(cfg.Server.Address()); err != nil {
					logg.Error("Status server stopped", zap.Error(err))
				}
			}()
		}

		// 5. Poll until a signal arrives; the cycle in progress completes first
		if err := d.poller.Run(ctx); err != nil {
			logg.Error("Poll loop failed", zap.Error(err))
		}

		if app != nil {
			logg.Info("Shutting down status server...")
			_ = app.Shutdown()
		}
	},
}

// newStatusApp builds the fiber app serving the status API.
func newStatusApp(cfg *config.Config, logg *zap.Logger, features ...loader.Feature) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// 1. RayID (Must be first to trace everything)
	app.Use(rayid.New())

	// 2. Request logging
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Debug("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	// 3. Public routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/swagger/*", swagger.HandlerDefault)

	// 4. Auth
	if !cfg.Server.IsProtected() {
		logg.Warn("Status API has no API key configured and is unprotected")
	}
	app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Skip: []string{"/health"}}))

	// 5. Features
	mgr := loader.NewManager(logg)
	for _, f := range features {
		mgr.Register(f)
	}
	if err := mgr.LoadAll(app); err != nil {
		logg.Fatal("Failed to load features", zap.Error(err))
	}

	return app
}

func init() {
	RootCmd.AddCommand(startCmd)
}
