package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seuros/ecodash/internal/auth"
	"github.com/seuros/ecodash/internal/config"
	"github.com/seuros/ecodash/internal/dashboard"
)

func TestCheckAdminPassword(t *testing.T) {
	demo := checkAdminPassword(&config.Config{AdminEmail: "admin@example.com"})
	assert.False(t, demo.Pass)
	assert.Contains(t, demo.Suggestion, "hash-password")

	hash, err := auth.HashPassword("a-better-secret")
	require.NoError(t, err)
	custom := checkAdminPassword(&config.Config{AdminEmail: "admin@example.com", AdminPasswordHash: hash})
	assert.True(t, custom.Pass)

	broken := checkAdminPassword(&config.Config{AdminEmail: "admin@example.com", AdminPasswordHash: "nope"})
	assert.False(t, broken.Pass)
	assert.NotEmpty(t, broken.Error)
}

func TestCheckTrustedOrigins(t *testing.T) {
	assert.False(t, checkTrustedOrigins(&config.Config{}).Pass)

	ok := checkTrustedOrigins(&config.Config{TrustedOrigins: []string{"a.example", "b.example"}})
	assert.True(t, ok.Pass)
	assert.Equal(t, "a.example, b.example", ok.Details)
}

func TestCheckPostgreSQLVersion(t *testing.T) {
	tests := []struct {
		version string
		pass    bool
	}{
		{"17.1 (Debian 17.1-1.pgdg120+1)", true},
		{"14.12", true},
		{"12.4", false},
		{"devel", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			mock.ExpectQuery("SHOW server_version").
				WillReturnRows(sqlmock.NewRows([]string{"server_version"}).AddRow(tt.version))

			result := checkPostgreSQLVersion(context.Background(), db)
			assert.Equal(t, tt.pass, result.Pass, result.Error)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestServerMajor(t *testing.T) {
	release, major, err := serverMajor("16.4 (Ubuntu 16.4-1.pgdg22.04+1)")
	require.NoError(t, err)
	assert.Equal(t, "16.4", release)
	assert.Equal(t, 16, major)

	_, _, err = serverMajor("")
	assert.Error(t, err)
}

func TestCheckDatabaseConnection(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(assert.AnError)

	assert.True(t, checkDatabaseConnection(context.Background(), db).Pass)

	down := checkDatabaseConnection(context.Background(), db)
	assert.False(t, down.Pass)
	assert.Contains(t, down.Suggestion, "DATABASE_URL")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseChecksMemoryOnly(t *testing.T) {
	results := databaseChecks(context.Background(), &config.Config{})
	require.Len(t, results, 1)
	assert.Equal(t, passed("Database", "not configured, memory-only"), results[0])
}

func stubMigrationVersion(t *testing.T, version uint, dirty bool, err error) {
	t.Helper()
	original := migrationVersion
	migrationVersion = func(string) (uint, bool, error) { return version, dirty, err }
	t.Cleanup(func() {
		migrationVersion = original
	})
}

func TestCheckMigrations(t *testing.T) {
	cfg := &config.Config{DatabaseURL: "postgres://example"}

	stubMigrationVersion(t, 2, false, nil)
	assert.True(t, checkMigrations(cfg).Pass)

	stubMigrationVersion(t, 1, false, nil)
	behind := checkMigrations(cfg)
	assert.False(t, behind.Pass)
	assert.Contains(t, behind.Error, "expected 2")

	stubMigrationVersion(t, 2, true, nil)
	assert.Equal(t, "Migration state is dirty", checkMigrations(cfg).Error)

	stubMigrationVersion(t, 0, false, assert.AnError)
	assert.False(t, checkMigrations(cfg).Pass)
}

func TestCheckSnapshot(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	taken := time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)
	data, err := json.Marshal(dashboard.Snapshot{TakenAt: taken})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT data FROM dashboard_snapshot").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))
	mock.ExpectQuery("SELECT data FROM dashboard_snapshot").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(data))

	empty := checkSnapshot(context.Background(), db)
	assert.True(t, empty.Pass)
	assert.Equal(t, "none saved yet", empty.Details)

	saved := checkSnapshot(context.Background(), db)
	assert.True(t, saved.Pass)
	assert.Equal(t, "2024-05-10T12:00:00Z", saved.Details)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutputDoctorHuman(t *testing.T) {
	var buf bytes.Buffer
	outputDoctorHuman(&buf, []CheckResult{
		{Name: "Database", Pass: true, Details: "not configured, memory-only"},
		{Name: "Admin Password", Pass: false, Error: "demo", Suggestion: "hash it"},
	})

	out := buf.String()
	assert.Contains(t, out, "✓ Database (not configured, memory-only)")
	assert.Contains(t, out, "✗ Admin Password")
	assert.Contains(t, out, "Hint: hash it")
	assert.Contains(t, out, "1/2 checks passed")
}

func TestDoctorCommandMemoryOnlyReportsDemoPassword(t *testing.T) {
	out, err := executeCommand(t, "doctor", "--json")
	require.Error(t, err)

	var results []CheckResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 3)
	assert.Equal(t, "Admin Password", results[0].Name)
	assert.False(t, results[0].Pass)
	assert.Equal(t, "Database", results[2].Name)
	assert.True(t, results[2].Pass)
}
