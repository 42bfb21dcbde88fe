package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	constants "github.com/ImGajeed76/shellpath/pkg"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/backend"
)

func (a *app) versionCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(map[string]any{
					"version":  constants.Version,
					"go":       runtime.Version(),
					"platform": runtime.GOOS + "/" + runtime.GOARCH,
					"backends": backend.Tags(),
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "shellpath version %s\n", constants.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
