package cmd

import (
	"context"
	"fmt"
	"os"

	"employee-sync/core/config"
	"employee-sync/core/sheets"

	"github.com/spf13/cobra"
)

// authCmd runs the oauth consent flow and stores the token.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize access to the spreadsheet",
	Long: `Runs the installed-app consent flow for oauth credentials and writes the token file.
Service account credentials need no authorization.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.Sheets.CredentialsType == sheets.CredentialsServiceAccount {
			fmt.Println("Service account credentials need no authorization.")
			return nil
		}

		// Ignore any saved token so consent always runs
		_ = os.Remove(cfg.Sheets.TokenFile)

		httpClient, err := sheets.NewHTTPClient(ctx, cfg.Sheets, sheets.StdinAuthorizer(os.Stdin, os.Stdout))
		if err != nil {
			return err
		}
		client, err := sheets.NewClient(ctx, cfg.Sheets, httpClient)
		if err != nil {
			return err
		}
		rows, err := client.GetAllRows(ctx, cfg.Sheets.Range)
		if err != nil {
			return err
		}

		fmt.Printf("Token saved to %s, %d rows readable in %s\n", cfg.Sheets.TokenFile, len(rows), cfg.Sheets.Range)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(authCmd)
}
