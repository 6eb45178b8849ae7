package cmd

import (
	"context"
	"fmt"
	"os"

	"employee-sync/core/config"
	"employee-sync/core/database"
	"employee-sync/core/sheets"
	"employee-sync/core/storage"
	"employee-sync/feature/employees/reconcile"
	"employee-sync/feature/employees/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// deps are the collaborators shared by the commands that run cycles.
type deps struct {
	db         *gorm.DB
	reconciler *reconcile.Reconciler
	states     reconcile.StateStore
	poller     *reconcile.Poller
}

// Close releases the database connection.
func (d *deps) Close() {
	_ = database.Close(d.db)
}

// buildDeps connects to the database, the spreadsheet and, when enabled, the state bucket.
// When the oauth token is missing the user is asked for consent on the terminal.
func buildDeps(ctx context.Context, cfg *config.Config, l *zap.Logger) (*deps, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	l.Info("Connected to database", zap.String("driver", cfg.Database.Driver), zap.String("name", cfg.Database.Name))

	if cfg.Sync.CreateTable {
		err = store.EnsureSchema(ctx, db)
	} else {
		err = store.CheckSchema(db)
	}
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	httpClient, err := sheets.NewHTTPClient(ctx, cfg.Sheets, sheets.StdinAuthorizer(os.Stdin, os.Stdout))
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}
	sheet, err := sheets.NewClient(ctx, cfg.Sheets, httpClient)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	states, err := buildStateStore(ctx, cfg, l)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	r := reconcile.New(store.New(db), sheet, cfg.Sheets.Range, cfg.Sync, l)
	return &deps{
		db:         db,
		reconciler: r,
		states:     states,
		poller:     reconcile.NewPoller(r, states, nil, cfg.Sync, l),
	}, nil
}

func buildStateStore(ctx context.Context, cfg *config.Config, l *zap.Logger) (reconcile.StateStore, error) {
	if !cfg.Sync.PersistState {
		l.Info("State persistence disabled, every start is an initial load")
		return reconcile.NopStateStore{}, nil
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
		return nil, err
	}
	l.Info("Persisting state",
		zap.String("bucket", cfg.Storage.Bucket),
		zap.String("object", cfg.Sync.StateObject),
	)
	return reconcile.NewObjectStateStore(client, cfg.Storage.Bucket, cfg.Sync.StateObject), nil
}
