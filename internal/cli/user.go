package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/seuros/ecodash/internal/auth"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage the admin account",
	Long:  `Manage the ecodash admin account. The account itself lives in the configuration file.`,
}

var userHashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Hash a new admin password",
	Long: `Prompt for a password and print its bcrypt hash.

Put the hash in ecodash.toml as admin_password_hash, or export it as
ECODASH_ADMIN_PASSWORD_HASH, then restart the server. With --stdin the
password is read from the first line of standard input instead, for use
in provisioning scripts.

Example:
  ecodash user hash-password
  printf '%s\n' "$ADMIN_PASSWORD" | ecodash user hash-password --stdin`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fromStdin, _ := cmd.Flags().GetBool("stdin")

		var (
			password string
			err      error
		)
		if fromStdin {
			password, err = readFirstLine(cmd.InOrStdin())
		} else {
			password, err = promptNewPassword()
		}
		if err != nil {
			return err
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

// readPassword reads a password from the terminal without echoing
var readPassword = func(prompt string) (string, error) {
	_, _ = fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func promptNewPassword() (string, error) {
	password, err := readPassword("New password: ")
	if err != nil {
		return "", err
	}
	confirmation, err := readPassword("Confirm password: ")
	if err != nil {
		return "", err
	}
	if password != confirmation {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}

func readFirstLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	userHashPasswordCmd.Flags().Bool("stdin", false, "Read the password from standard input")
	userCmd.AddCommand(userHashPasswordCmd)
	RootCmd.AddCommand(userCmd)
}
