package main

import (
	_ "embed"
	"strings"

	"go.uber.org/zap"

	"github.com/seuros/ecodash/internal/cli"
	"github.com/seuros/ecodash/internal/logging"
)

//go:embed VERSION
var versionFile string

var executeCLI = cli.Execute

// version is the embedded release number, or "dev" for untagged builds.
func version() string {
	if v := strings.TrimSpace(versionFile); v != "" {
		return v
	}
	return "dev"
}

func run() error {
	return executeCLI(version())
}

func main() {
	if err := run(); err != nil {
		logging.Fatal("ecodash exited with an error", zap.Error(err))
	}
}
