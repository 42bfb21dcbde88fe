package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ImGajeed76/shellpath/pkg/shellpath/backend"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/glob"
)

type globFlags struct {
	recursive      bool
	hidden         bool
	maxDepth       int
	ignore         []string
	ignoreCase     bool
	followSymlinks bool
	skipUnreadable bool
}

func (f *globFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.recursive, "recursive", "r", true, "Let ** descend any number of directories")
	cmd.Flags().BoolVar(&f.hidden, "hidden", true, "Let wildcards match dot files (overrides the include_hidden setting)")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", -1, "Deepest level ** descends to, -1 for no limit (overrides the max_depth setting)")
	cmd.Flags().StringSliceVar(&f.ignore, "ignore", nil, "Skip names matching this pattern (repeatable)")
	cmd.Flags().BoolVarP(&f.ignoreCase, "ignore-case", "i", false, "Ignore case (overrides the case_insensitive setting)")
	cmd.Flags().BoolVarP(&f.followSymlinks, "follow-symlinks", "L", false, "Let ** descend into symlinked directories")
	cmd.Flags().BoolVar(&f.skipUnreadable, "skip-unreadable", false, "Skip directories that cannot be listed instead of failing")
}

// globOptions merges the flags the user set with the settings.
func (a *app) globOptions(cmd *cobra.Command, f *globFlags, b backend.Backend) []glob.Option {
	hidden := a.settings.IncludeHidden
	if cmd.Flags().Changed("hidden") {
		hidden = f.hidden
	}
	maxDepth := a.settings.MaxDepth
	if cmd.Flags().Changed("max-depth") {
		maxDepth = f.maxDepth
	}

	opts := []glob.Option{
		glob.WithConvention(a.conventionFor(b)),
		glob.WithHidden(hidden),
		glob.WithMaxDepth(maxDepth),
		glob.WithFollowSymlinks(f.followSymlinks),
		glob.WithLogger(a.logger),
	}
	if len(f.ignore) > 0 {
		opts = append(opts, glob.WithIgnore(f.ignore...))
	}
	if f.ignoreCase || (!cmd.Flags().Changed("ignore-case") && a.settings.CaseInsensitive) {
		opts = append(opts, glob.WithCaseInsensitive())
	}
	if f.skipUnreadable {
		opts = append(opts, glob.WithErrorHandler(glob.SkipUnreadable))
	}
	return opts
}

// expand starts walking pattern on b.
func (a *app) expand(cmd *cobra.Command, f *globFlags, b backend.Backend, pattern string) (*glob.Matches, error) {
	opts := a.globOptions(cmd, f, b)
	if f.recursive {
		return glob.Expand(pattern, b, opts...)
	}
	return glob.Glob(pattern, b, opts...)
}

func (a *app) globCommand() *cobra.Command {
	var (
		flags globFlags
		null  bool
	)

	cmd := &cobra.Command{
		Use:   "glob <pattern>...",
		Short: "Print the paths matching each pattern",
		Long: `Expands each pattern against the local disk or an sftp:// location and
prints the matches as they are found. A ** segment matches any number of
directories, including none; a pattern ending in ** yields directories only.
Patterns without matches print nothing.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sep := "\n"
			if null {
				sep = "\x00"
			}

			for _, arg := range args {
				loc, err := a.locate(arg)
				if err != nil {
					return err
				}
				b, err := a.open(cmd.Context(), loc)
				if err != nil {
					return err
				}

				m, err := a.expand(cmd, &flags, b, loc.Path)
				if err != nil {
					b.Close()
					return err
				}
				for p := range m.All() {
					fmt.Fprint(cmd.OutOrStdout(), p, sep)
				}
				b.Close()
				if err := m.Err(); err != nil {
					return fmt.Errorf("glob %s: %w", arg, err)
				}
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVarP(&null, "null", "0", false, "Separate paths with NUL instead of newline")
	return cmd
}
