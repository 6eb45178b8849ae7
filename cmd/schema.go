package cmd

import (
	"context"
	"fmt"

	"employee-sync/core/config"
	"employee-sync/core/database"
	"employee-sync/core/logger"
	"employee-sync/feature/employees/models"
	"employee-sync/feature/employees/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkOnly bool

// schemaCmd creates or checks the employees table.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create or check the employees table",
	Long:  `Creates the employees table when it is missing and reports its columns.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close(db)

		if checkOnly {
			err = store.CheckSchema(db)
		} else {
			err = store.EnsureSchema(ctx, db)
		}
		if err != nil {
			return err
		}

		table := models.Record{}.TableName()
		columns, err := database.GetTableColumns(db, table)
		if err != nil {
			return err
		}
		for _, c := range columns {
			l.Info("Column", zap.String("table", table), zap.String("field", c.Field), zap.String("type", c.Type), zap.String("key", c.Key))
		}
		l.Info("Schema ok", zap.String("table", table), zap.Int("columns", len(columns)))
		return nil
	},
}

func init() {
	schemaCmd.Flags().BoolVar(&checkOnly, "check", false, "Only check the table, never create it")
	RootCmd.AddCommand(schemaCmd)
}
