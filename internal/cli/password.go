package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ImGajeed76/shellpath/pkg/shellpath/config"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/console"
)

func (a *app) passwordCommand() *cobra.Command {
	var (
		fromStdin bool
		remove    bool
	)

	cmd := &cobra.Command{
		Use:   "password [user@host]",
		Short: "Store an SFTP password in the system keyring",
		Long: `Stores the password used for sftp:// locations of user@host. Without an
argument the sftp_user and sftp_host settings are used. The
SHELLPATH_SFTP_PASSWORD and SHELLPATH_SFTP_PASSWORD_FILE variables take
precedence over stored passwords.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, host := a.settings.SFTPUser, a.settings.SFTPHost
			if len(args) == 1 {
				var ok bool
				if user, host, ok = strings.Cut(args[0], "@"); !ok {
					return fmt.Errorf("expected user@host, got %q", args[0])
				}
			}
			if user == "" || host == "" {
				return errors.New("user and host are required")
			}
			key := config.PasswordKey(user, host)

			if remove {
				if err := a.secrets.Delete(key); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed password for %s@%s\n", user, host)
				return nil
			}

			if fromStdin || !a.interactive() {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				line = strings.TrimRight(line, "\r\n")
				if line == "" {
					if err != nil {
						return fmt.Errorf("reading password: %w", err)
					}
					return errors.New("empty password")
				}
				if err := a.secrets.Set(key, line); err != nil {
					return err
				}
			} else if _, err := a.secrets.SetFromInput(key, console.InputOptions{
				Prompt:    fmt.Sprintf("Password for %s@%s:", user, host),
				CharLimit: 256,
				Width:     32,
				Required:  true,
				Secret:    true,
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "stored password for %s@%s\n", user, host)
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the password from the first line of stdin")
	cmd.Flags().BoolVar(&remove, "delete", false, "Remove the stored password")
	return cmd
}
