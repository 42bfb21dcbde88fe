package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ImGajeed76/shellpath/pkg/shellpath/fnmatch"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/path"
)

var errNoMatch = errors.New("no name matches")

func (a *app) normalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <path>...",
		Short: "Print each path in normal form",
		Long: `Collapses repeated separators, drops "." segments and resolves ".."
against the segment before it. ".." never climbs above the root of an
absolute path.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conv := a.conventionFor(nil)
			for _, arg := range args {
				fmt.Fprintln(cmd.OutOrStdout(), path.Normalize(arg, conv))
			}
			return nil
		},
	}
}

type splitOutput struct {
	Path     string   `json:"path"`
	Prefix   string   `json:"prefix"`
	Absolute bool     `json:"absolute"`
	Segments []string `json:"segments"`
}

func (a *app) splitCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "split <path>...",
		Short: "Show the prefix, root and segments of each path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conv := a.conventionFor(nil)
			out := make([]splitOutput, 0, len(args))
			for _, arg := range args {
				prefix, segments, absolute := path.Split(arg, conv)
				out = append(out, splitOutput{Path: arg, Prefix: prefix, Absolute: absolute, Segments: segments})
			}

			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(out)
			}
			for _, o := range out {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tprefix=%q absolute=%t segments=%q\n", o.Path, o.Prefix, o.Absolute, o.Segments)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func (a *app) matchCommand() *cobra.Command {
	var (
		ignoreCase bool
		noEscape   bool
		unicode    bool
	)

	cmd := &cobra.Command{
		Use:   "match <pattern> <name>...",
		Short: "Print the names that match an fnmatch pattern",
		Long: `Matches whole names against a pattern made of *, ?, [...] classes and
\ escapes. Exits with an error when no name matches. Run "shellpath patterns"
for the full syntax.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []fnmatch.Option
			if ignoreCase || (!cmd.Flags().Changed("ignore-case") && a.settings.CaseInsensitive) {
				opts = append(opts, fnmatch.CaseInsensitive())
			}
			if noEscape {
				opts = append(opts, fnmatch.WithoutEscapes())
			}
			if unicode {
				opts = append(opts, fnmatch.NormalizeUnicode())
			}

			m, err := fnmatch.Compile(args[0], opts...)
			if err != nil {
				return err
			}

			var matched []string
			for _, name := range args[1:] {
				if m.Match(name) {
					matched = append(matched, name)
				}
			}
			a.logger.Printf("%d of %d names match %s", len(matched), len(args)-1, m)
			if len(matched) == 0 {
				return errNoMatch
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(matched, "\n"))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "Ignore case (overrides the case_insensitive setting)")
	cmd.Flags().BoolVar(&noEscape, "no-escape", false, "Treat \\ as an ordinary character")
	cmd.Flags().BoolVar(&unicode, "nfc", false, "Compare Unicode NFC forms")
	return cmd
}
