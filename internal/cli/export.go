package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/seuros/ecodash/internal/config"
	"github.com/seuros/ecodash/internal/dashboard"
	"github.com/seuros/ecodash/internal/database"
	"github.com/seuros/ecodash/internal/export"
	"github.com/seuros/ecodash/internal/wastedata"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export dashboard data as CSV",
}

var exportWasteCmd = &cobra.Command{
	Use:   "waste",
	Short: "Export the waste data grid",
	Long: `Export the waste data grid as CSV.

Reads from PostgreSQL when DATABASE_URL is set, otherwise exports the demo rows.

Example:
  ecodash export waste --output waste_data.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		entries, err := loadWasteEntries(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return writeExport(cmd, export.WasteCSV(entries))
	},
}

var exportSurveysCmd = &cobra.Command{
	Use:   "surveys",
	Short: "Export survey responses",
	Long: `Export the survey responses of a seeded store as CSV, newest first.

Example:
  ecodash export surveys --seed 42 --output survey_responses.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var opts []dashboard.Option
		if cfg.Seed != 0 {
			opts = append(opts, dashboard.WithSeed(cfg.Seed))
		}
		store := dashboard.NewStore(opts...)
		return writeExport(cmd, export.SurveyCSV(store.SurveyQuestions(), store.SurveyResponses()))
	},
}

func loadWasteEntries(ctx context.Context, cfg *config.Config) ([]wastedata.WasteEntry, error) {
	if cfg.DatabaseURL == "" {
		return wastedata.NewMemoryRepository(wastedata.DemoEntries()...).List(ctx)
	}

	if err := database.Connect(cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	defer func() { _ = database.Close() }()

	return database.NewWasteRepository(database.DB).List(ctx)
}

func writeExport(cmd *cobra.Command, body string) error {
	output, _ := cmd.Flags().GetString("output")

	var w io.Writer = cmd.OutOrStdout()
	if output != "" && output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if _, err := io.WriteString(w, body+"\n"); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if output != "" && output != "-" {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s\n", output)
	}
	return nil
}

func init() {
	exportCmd.PersistentFlags().StringP("output", "o", "", "Write to file instead of stdout")
	exportCmd.AddCommand(exportWasteCmd)
	exportCmd.AddCommand(exportSurveysCmd)
	RootCmd.AddCommand(exportCmd)
}
