package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var healthcheckTimeout time.Duration

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Probe the local /up endpoint",
	Long: `Requests http://localhost:<port>/up and exits non-zero unless the server
answers 200. With a database configured, /up also pings it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), healthcheckTimeout)
		defer cancel()

		if err := probeUp(ctx, "http://localhost:"+cfg.Port+"/up"); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Healthcheck failed: %v\n", err)
			return err
		}
		return nil
	},
}

// probeUp succeeds only on a 200. Other statuses carry the start of the body,
// which names the failing dependency.
func probeUp(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	if reason := strings.TrimSpace(string(body)); reason != "" {
		return fmt.Errorf("status %d: %s", resp.StatusCode, reason)
	}
	return fmt.Errorf("status %d", resp.StatusCode)
}

func init() {
	healthcheckCmd.Flags().DurationVar(&healthcheckTimeout, "timeout", 2*time.Second, "How long to wait for the server")
	RootCmd.AddCommand(healthcheckCmd)
}
