package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/seuros/ecodash/internal/config"
	"github.com/seuros/ecodash/internal/database"
)

const minPostgresMajor = 14

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks on the ecodash installation",
	Long: `Run health checks on the ecodash installation.

Checks performed:
  - Admin password is not the demo password
  - Trusted origins configured
  - Database connection (when DATABASE_URL is set)
  - PostgreSQL version ≥14
  - Database migrations completed
  - Saved dashboard snapshot

Example:
  ecodash doctor
  ecodash doctor --json`,
	RunE: runDoctor,
}

type CheckResult struct {
	Name       string `json:"name"`
	Pass       bool   `json:"pass"`
	Error      string `json:"error,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Details    string `json:"details,omitempty"`
}

func passed(name, details string) CheckResult {
	return CheckResult{Name: name, Pass: true, Details: details}
}

func failed(name, problem, hint string) CheckResult {
	return CheckResult{Name: name, Error: problem, Suggestion: hint}
}

const (
	hashPasswordHint = "Generate a hash with: ecodash user hash-password"
	migrateHint      = "Run migrations with: ecodash migrate up"
)

// migrationVersion is replaced in tests; the real lookup opens its own connection.
var migrationVersion = database.GetMigrationVersion

func checkAdminPassword(cfg *config.Config) CheckResult {
	const name = "Admin Password"
	authn, err := newAuthenticator(cfg)
	switch {
	case err != nil:
		return failed(name, err.Error(), hashPasswordHint)
	case authn.UsesDemoPassword():
		return failed(name, "Admin account uses the demo password", hashPasswordHint)
	}
	return passed(name, cfg.AdminEmail)
}

func checkTrustedOrigins(cfg *config.Config) CheckResult {
	const name = "Trusted Origins"
	if len(cfg.TrustedOrigins) == 0 {
		return failed(name, "No trusted origins configured", "Set trusted_origins or TRUSTED_ORIGINS to the dashboard host")
	}
	return passed(name, strings.Join(cfg.TrustedOrigins, ", "))
}

func checkDatabaseConnection(ctx context.Context, db *sql.DB) CheckResult {
	const name = "Database Connection"
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return failed(name, err.Error(), "Verify DATABASE_URL and ensure PostgreSQL is running")
	}
	return passed(name, "")
}

// serverMajor extracts the major release from a server_version string such
// as "17.1 (Debian 17.1-1)".
func serverMajor(version string) (string, int, error) {
	release, _, _ := strings.Cut(strings.TrimSpace(version), " ")
	majorStr, _, _ := strings.Cut(release, ".")
	major, err := strconv.Atoi(majorStr)
	if err != nil {
		return release, 0, fmt.Errorf("unrecognised server version %q", version)
	}
	return release, major, nil
}

func checkPostgreSQLVersion(ctx context.Context, db *sql.DB) CheckResult {
	const name = "PostgreSQL Version"
	var version string
	if err := db.QueryRowContext(ctx, "SHOW server_version").Scan(&version); err != nil {
		return failed(name, err.Error(), "")
	}

	release, major, err := serverMajor(version)
	if err != nil {
		return failed(name, err.Error(), "")
	}
	if major < minPostgresMajor {
		return failed(name,
			fmt.Sprintf("Version %s found, need ≥%d", release, minPostgresMajor),
			fmt.Sprintf("Upgrade PostgreSQL to version %d or higher", minPostgresMajor))
	}
	return passed(name, release)
}

func checkMigrations(cfg *config.Config) CheckResult {
	const name = "Database Migrations"
	version, dirty, err := migrationVersion(cfg.DatabaseURL)
	if err != nil {
		return failed(name, err.Error(), migrateHint)
	}

	latest, err := database.LatestMigrationVersion()
	if err != nil {
		return failed(name, err.Error(), "")
	}
	switch {
	case version != latest:
		return failed(name, fmt.Sprintf("Migration version %d, expected %d", version, latest), migrateHint)
	case dirty:
		return failed(name, "Migration state is dirty", "Fix dirty migration state, may need manual intervention")
	}
	return passed(name, fmt.Sprintf("v%d", version))
}

func checkSnapshot(ctx context.Context, db *sql.DB) CheckResult {
	const name = "Dashboard Snapshot"
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	snap, err := database.NewSnapshotRepository(db).Load(ctx)
	switch {
	case errors.Is(err, database.ErrNoSnapshot):
		return passed(name, "none saved yet")
	case err != nil:
		return failed(name, err.Error(), "The stored snapshot is unreadable; it is replaced on the next save")
	}
	return passed(name, snap.TakenAt.Format(time.RFC3339))
}

// databaseChecks runs the checks that need a server. Later checks are
// skipped when the server cannot be reached.
func databaseChecks(ctx context.Context, cfg *config.Config) []CheckResult {
	if cfg.DatabaseURL == "" {
		return []CheckResult{passed("Database", "not configured, memory-only")}
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return []CheckResult{failed("Database Connection", err.Error(), "Verify DATABASE_URL is valid")}
	}
	defer func() { _ = db.Close() }()

	conn := checkDatabaseConnection(ctx, db)
	if !conn.Pass {
		return []CheckResult{conn}
	}
	return []CheckResult{
		conn,
		checkPostgreSQLVersion(ctx, db),
		checkMigrations(cfg),
		checkSnapshot(ctx, db),
	}
}

func runDoctor(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	results := append([]CheckResult{
		checkAdminPassword(cfg),
		checkTrustedOrigins(cfg),
	}, databaseChecks(cmd.Context(), cfg)...)

	out := cmd.OutOrStdout()
	if jsonOutput {
		outputDoctorJSON(out, results)
	} else {
		outputDoctorHuman(out, results)
	}

	if failures := len(results) - countPassed(results); failures > 0 {
		return fmt.Errorf("%d health check(s) failed", failures)
	}
	return nil
}

func countPassed(results []CheckResult) int {
	n := 0
	for _, r := range results {
		if r.Pass {
			n++
		}
	}
	return n
}

func outputDoctorHuman(w io.Writer, results []CheckResult) {
	_, _ = fmt.Fprintln(w, "\necodash health check")

	for _, r := range results {
		line := "✓ " + r.Name
		if !r.Pass {
			line = "✗ " + r.Name
		}
		if r.Details != "" {
			line += " (" + r.Details + ")"
		}
		_, _ = fmt.Fprintln(w, line)

		if r.Pass {
			continue
		}
		if r.Error != "" {
			_, _ = fmt.Fprintf(w, "  Error: %s\n", r.Error)
		}
		if r.Suggestion != "" {
			_, _ = fmt.Fprintf(w, "  Hint: %s\n", r.Suggestion)
		}
	}

	_, _ = fmt.Fprintf(w, "\n%d/%d checks passed\n\n", countPassed(results), len(results))
}

func outputDoctorJSON(w io.Writer, results []CheckResult) {
	data, _ := json.MarshalIndent(results, "", "  ")
	_, _ = fmt.Fprintln(w, string(data))
}

func init() {
	doctorCmd.Flags().Bool("json", false, "Output results as JSON")
	RootCmd.AddCommand(doctorCmd)
}
