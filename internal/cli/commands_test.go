package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/seuros/ecodash/internal/dashboard"
)

func TestSeedCommandJSON(t *testing.T) {
	out, err := executeCommand(t, "seed", "--seed", "42")
	require.NoError(t, err)

	var snap dashboard.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Len(t, snap.Brochures, 3)
	assert.Len(t, snap.SurveyResponses, dashboard.SeedResponses)
	assert.Len(t, snap.Visitors.History, dashboard.HistoryDays)
	assert.Len(t, snap.Charts, 3)
}

func TestSeedCommandYAML(t *testing.T) {
	out, err := executeCommand(t, "seed", "--seed", "42", "--format", "yaml")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "survey_questions")
	assert.Contains(t, doc, "analytics")
}

func TestSeedCommandUnknownFormat(t *testing.T) {
	_, err := executeCommand(t, "seed", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestExportSurveysToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey_responses.csv")

	_, err := executeCommand(t, "export", "surveys", "--seed", "3", "--output", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "Name,Email,Date,"))
	assert.Len(t, lines, dashboard.SeedResponses+1)
}

func TestExportWasteMemoryOnly(t *testing.T) {
	out, err := executeCommand(t, "export", "waste")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "id,date,pet_amount"))
	assert.True(t, strings.HasPrefix(lines[1], "3,2025-05-03,"))
}

func TestMigrateRequiresDatabaseURL(t *testing.T) {
	_, err := executeCommand(t, "migrate", "up")
	assert.ErrorIs(t, err, errNoDatabaseURL)
}

func stubReadPassword(t *testing.T, answers ...string) {
	t.Helper()
	original := readPassword
	readPassword = func(string) (string, error) {
		if len(answers) == 0 {
			return "", errors.New("no more input")
		}
		next := answers[0]
		answers = answers[1:]
		return next, nil
	}
	t.Cleanup(func() {
		readPassword = original
	})
}

func TestUserHashPassword(t *testing.T) {
	stubReadPassword(t, "compost-heap", "compost-heap")

	out, err := executeCommand(t, "user", "hash-password")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("compost-heap")))
}

func TestUserHashPasswordFromStdin(t *testing.T) {
	stubReadPassword(t)
	RootCmd.SetIn(strings.NewReader("compost-heap\nignored\n"))

	out, err := executeCommand(t, "user", "hash-password", "--stdin")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("compost-heap")))
}

func TestUserHashPasswordRejects(t *testing.T) {
	tests := []struct {
		name    string
		answers []string
		want    string
	}{
		{"mismatch", []string{"compost-heap", "compost-pile"}, "passwords do not match"},
		{"too short", []string{"short", "short"}, "at least 8 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubReadPassword(t, tt.answers...)
			_, err := executeCommand(t, "user", "hash-password")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
