package cli

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

const patternsHelp = `# Patterns

## Names

| Pattern | Matches |
|---------|---------|
| ` + "`*`" + ` | any run of characters, the empty one included |
| ` + "`?`" + ` | exactly one character |
| ` + "`[abc]`" + ` | one of the listed characters |
| ` + "`[a-z]`" + ` | one character in the range |
| ` + "`[!a-z]`" + ` or ` + "`[^a-z]`" + ` | one character outside the range |
| ` + "`\\*`" + ` | a literal ` + "`*`" + ` |

A ` + "`]`" + ` right after the opening bracket is part of the class. A bracket
that is never closed is a malformed pattern.

## Paths

Patterns are split into segments at the separator of the path convention
and each segment is matched against one name.

- ` + "`**`" + ` on its own matches any number of directories, none included.
  ` + "`src/**/*.go`" + ` finds ` + "`src/a.go`" + ` and ` + "`src/x/y/b.go`" + `.
- A pattern ending in ` + "`**`" + ` yields the directories below its root,
  the root included.
- A path is yielded at most once, however many ways the pattern reaches it.
- Wildcards do not match names starting with ` + "`.`" + ` when hidden files
  are excluded, unless the segment itself starts with ` + "`.`" + `.

## Examples

    shellpath glob '**/*.scala'
    shellpath glob 'sftp://deploy@example.com/var/log/**/*.gz'
    shellpath cp -p 'build/**/*.jar' dist
`

func (a *app) patternsCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Explain the pattern syntax",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if raw {
				fmt.Fprint(cmd.OutOrStdout(), patternsHelp)
				return nil
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(80),
			)
			if err != nil {
				return err
			}
			out, err := renderer.Render(patternsHelp)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the Markdown source")
	return cmd
}
