//go:build !docker

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/spf13/cobra"
)

const releaseRepository = "seuros/ecodash"

var (
	selfUpgradeRequested bool
	selfUpgradeCheckOnly bool
	selfUpgradeAutoYes   bool
)

// Release lookups, replaced in tests.
var (
	detectLatest = selfupdate.DetectLatest
	updateTo     = selfupdate.UpdateTo
)

func setupSelfUpgrade() {
	RootCmd.PersistentFlags().BoolVar(&selfUpgradeRequested, "self-upgrade", false, "Upgrade ecodash to the latest release and exit")
	RootCmd.PersistentFlags().BoolVar(&selfUpgradeCheckOnly, "self-upgrade-check", false, "Only check whether a newer ecodash release is available")
	RootCmd.PersistentFlags().BoolVar(&selfUpgradeAutoYes, "self-upgrade-yes", false, "Skip confirmation prompts when running --self-upgrade")

	existingPreRun := RootCmd.PersistentPreRunE
	RootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if existingPreRun != nil {
			if err := existingPreRun(cmd, args); err != nil {
				return err
			}
		}
		if !selfUpgradeRequested && !selfUpgradeCheckOnly {
			return nil
		}

		if err := runSelfUpgrade(cmd.OutOrStdout(), cmd.InOrStdin(), selfUpgradeCheckOnly, selfUpgradeAutoYes); err != nil {
			return err
		}
		return errHandled
	}
}

func init() {
	setupSelfUpgrade()
}

// releaseVersion parses a build version such as "v1.2.3". Development builds
// carry no version and cannot upgrade.
func releaseVersion(raw string) (semver.Version, error) {
	versionStr := strings.TrimSpace(strings.TrimPrefix(raw, "v"))
	if versionStr == "" || versionStr == "dev" {
		return semver.Version{}, errors.New("self-upgrade is only available for release builds")
	}

	v, err := semver.Parse(versionStr)
	if err != nil {
		return semver.Version{}, fmt.Errorf("invalid current version %q: %w", raw, err)
	}
	return v, nil
}

// confirm asks a yes/no question; an empty answer means yes.
func confirm(w io.Writer, in io.Reader, question string) (bool, error) {
	_, _ = fmt.Fprintf(w, "%s [Y/n] ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read input: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "", "y", "yes":
		return true, nil
	}
	return false, nil
}

func runSelfUpgrade(w io.Writer, in io.Reader, checkOnly, autoYes bool) error {
	current, err := releaseVersion(Version)
	if err != nil {
		return err
	}

	latest, found, err := detectLatest(releaseRepository)
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found || latest == nil {
		return errors.New("no releases found for ecodash")
	}

	if !latest.Version.GT(current) {
		_, _ = fmt.Fprintf(w, "ecodash v%s is up to date\n", current)
		return nil
	}
	_, _ = fmt.Fprintf(w, "New release found: v%s --> v%s\n", current, latest.Version)
	if checkOnly {
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to determine executable path: %w", err)
	}
	_, _ = fmt.Fprintf(w, "  binary:   %s\n  platform: %s/%s\n", exe, runtime.GOOS, runtime.GOARCH)
	if latest.AssetURL != "" {
		_, _ = fmt.Fprintf(w, "  download: %s\n", latest.AssetURL)
	}

	if !autoYes {
		ok, err := confirm(w, in, "Replace the current binary?")
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(w, "Update cancelled.")
			return nil
		}
	}

	if err := updateTo(latest.AssetURL, exe); err != nil {
		return fmt.Errorf("self-upgrade failed: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Updated ecodash to v%s\n", latest.Version)
	return nil
}
