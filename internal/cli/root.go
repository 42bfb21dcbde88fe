package cli

import (
	"context"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ImGajeed76/shellpath/pkg/shellpath/backend"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/config"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/path"
	sftpmanager "github.com/ImGajeed76/shellpath/pkg/shellpath/sftp"
)

// app is the state shared by every command of one invocation.
type app struct {
	settings *config.Settings
	secrets  *config.Secrets
	logger   *log.Logger
	// manager pools SFTP connections; nil means the global one
	manager *sftpmanager.Manager
	// interactive reports whether prompts may be shown
	interactive func() bool

	convention string
	verbose    bool
}

func newApp() *app {
	return &app{
		interactive: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
}

func (a *app) rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shellpath",
		Short: "Normalize, match, glob and copy paths on local disks and SFTP servers",
		Long: `shellpath works with paths the way a shell does. It normalizes POSIX and
Windows paths, matches names against fnmatch patterns, expands globs with
recursive ** segments and copies the matches into a directory as one
all-or-nothing operation.

Paths may be local or sftp://user@host:port/path locations.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVar(&a.convention, "convention", "", "Path convention: auto, posix or windows (overrides the convention setting)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log progress to stderr")

	rootCmd.AddCommand(
		a.normalizeCommand(),
		a.splitCommand(),
		a.matchCommand(),
		a.globCommand(),
		a.cpCommand(),
		a.configCommand(),
		a.passwordCommand(),
		a.patternsCommand(),
		a.versionCommand(),
	)
	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return newApp().rootCommand().Execute()
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}
	if a.convention != "" {
		if err := settings.Set("convention", a.convention); err != nil {
			return err
		}
		if err := settings.Validate(); err != nil {
			return err
		}
	}
	a.settings = settings

	a.logger = log.New(io.Discard, "", 0)
	if a.verbose || settings.Verbose {
		a.logger = log.New(cmd.ErrOrStderr(), "shellpath: ", log.LstdFlags)
	}

	a.secrets, err = config.NewSecrets(config.KeyringService)
	return err
}

// conventionFor is the configured convention, or the one of b when the
// setting is auto.
func (a *app) conventionFor(b backend.Backend) path.Convention {
	if strings.EqualFold(a.settings.Convention, "auto") && b != nil {
		return b.Convention()
	}
	return a.settings.PathConvention()
}

// locate parses arg as a location. Plain paths belong to the configured
// default backend; file:// always means the local disk.
func (a *app) locate(arg string) (backend.Location, error) {
	loc, err := backend.ParseLocation(arg)
	if err != nil {
		return loc, err
	}
	if loc.Tag == backend.LocalTag && !strings.HasPrefix(strings.ToLower(arg), "file://") {
		loc.Tag = a.settings.Backend
	}
	if loc.Tag == backend.SFTPTag {
		opts := &loc.Options
		if opts.Host == "" {
			opts.Host = a.settings.SFTPHost
		}
		if opts.Port == 0 {
			opts.Port = a.settings.SFTPPort
		}
		if opts.Username == "" {
			opts.Username = a.settings.SFTPUser
		}
	}
	return loc, nil
}

func (a *app) open(ctx context.Context, loc backend.Location) (backend.Backend, error) {
	opts := loc.Options
	if loc.Tag == backend.SFTPTag && opts.Password == "" {
		opts.Password = a.secrets.SFTPPassword(opts.Username, opts.Host)
	}
	opts.Manager = a.manager
	opts.Logger = a.logger

	a.logger.Printf("opening %s", loc)
	return backend.Open(ctx, loc.Tag, opts)
}

// sameBackend reports whether two locations are served by one connection.
func sameBackend(x, y backend.Location) bool {
	return x.Tag == y.Tag &&
		strings.EqualFold(x.Options.Host, y.Options.Host) &&
		x.Options.Port == y.Options.Port &&
		x.Options.Username == y.Options.Username
}
