package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/seuros/ecodash/internal/config"
)

var Version string

// errHandled ends a run early once a flag such as --self-upgrade has done
// all the work; Execute reports it as success.
var errHandled = errors.New("command handled")

// Flag values shared by every command that loads configuration
var (
	flagDatabaseURL string
	flagPort        string
	flagSeed        uint64
)

// RootCmd represents the root command
var RootCmd = &cobra.Command{
	Use:   "ecodash",
	Short: "Community waste-management dashboard",
	Long: `ecodash - a community waste-management dashboard.

ecodash serves visitor, brochure and survey analytics for a recycling
programme, with an admin area for charts and daily collection figures.
Data lives in memory; PostgreSQL is optional and keeps snapshots and the
waste data grid across restarts.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	// Default to serve command if no subcommand provided
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runServe(cmd)
		}
		return cmd.Help()
	},
}

// Execute is called by main
func Execute(version string) error {
	Version = version
	RootCmd.Version = version
	if err := RootCmd.Execute(); err != nil && !errors.Is(err, errHandled) {
		return err
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	return config.LoadWithOverrides(config.Overrides{
		DatabaseURL: flagDatabaseURL,
		Port:        flagPort,
		Seed:        flagSeed,
	})
}

func init() {
	RootCmd.PersistentFlags().StringVar(&flagDatabaseURL, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	RootCmd.PersistentFlags().StringVarP(&flagPort, "port", "p", "", "HTTP port (overrides PORT)")
	RootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "Seed for the generated demo data (0 = time based)")

	RootCmd.AddCommand(serveCmd)
}
