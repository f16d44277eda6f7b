package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmynk/jobbook/internal/service"
	"github.com/mmynk/jobbook/internal/storage/jsonfile"
)

func newSetCredentialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-credentials",
		Short: "Set the login username and password",
		Long: `Set the login username and password stored in settings.json.

The password is read from the terminal without echo and stored as a bcrypt
hash. When stdin is not a terminal the first line is used as the password.

Examples:
  jobbook set-credentials --username owner
  echo 's3cret' | jobbook set-credentials --username owner --data-dir /var/lib/jobbook`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			username, _ := cmd.Flags().GetString("username")
			if strings.TrimSpace(username) == "" {
				return errors.New("--username is required")
			}

			password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			files, err := jsonfile.New(cfg.Storage.DataDir)
			if err != nil {
				return err
			}
			settings, err := service.NewSettingsService(cmd.Context(), files)
			if err != nil {
				return err
			}
			if err := settings.SetCredentials(cmd.Context(), username, password); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Credentials for %q saved to %s\n", username, files.SettingsPath())
			return nil
		},
	}
	cmd.Flags().String("username", "", "login username")
	return cmd
}

// readPassword prompts twice on a terminal, otherwise reads one line.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		fmt.Fprint(prompt, "Enter password:   ")
		password, err := term.ReadPassword(fd)
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprint(prompt, "Confirm password: ")
		confirm, err := term.ReadPassword(fd)
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		if string(password) != string(confirm) {
			return "", errors.New("passwords do not match")
		}
		if len(password) == 0 {
			return "", errors.New("password cannot be empty")
		}
		return string(password), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	return password, nil
}
