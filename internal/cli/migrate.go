package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seuros/ecodash/internal/database"
)

var errNoDatabaseURL = errors.New("DATABASE_URL is not set; ecodash is running memory-only")

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return errNoDatabaseURL
		}

		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ Migrations completed")
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current migration version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return errNoDatabaseURL
		}

		version, dirty, err := database.GetMigrationVersion(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		latest, err := database.LatestMigrationVersion()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "Current version: %d\n", version)
		_, _ = fmt.Fprintf(out, "Latest version:  %d\n", latest)
		if dirty {
			_, _ = fmt.Fprintln(out, "State:           dirty")
		}
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
	RootCmd.AddCommand(migrateCmd)
}
