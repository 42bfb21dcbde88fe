package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ImGajeed76/shellpath/pkg/shellpath/backend"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/config"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/console"
)

func (a *app) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change settings",
		Long: `Settings are read from the config file, then ./.env.local (searched up to
the home directory), then SHELLPATH_<KEY> environment variables. Later
sources win. "config set" writes the config file.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print every setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Key", "Value"})
			table.SetBorder(false)
			table.SetAutoWrapText(false)
			for _, key := range config.Keys() {
				value, err := a.settings.Get(key)
				if err != nil {
					return err
				}
				table.Append([]string{key, value})
			}
			table.Render()
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := a.settings.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting in the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.saveSetting(cmd, args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print where the config file lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.Path()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "backend [tag]",
		Short: "Choose the backend plain paths refer to",
		Long:  "Without a tag, pick one of the registered backends from a list.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags := backend.Tags()
			if len(args) == 1 {
				if !slices.Contains(tags, args[0]) {
					return fmt.Errorf("%w %q", backend.ErrUnknownBackend, args[0])
				}
				return a.saveSetting(cmd, "backend", args[0])
			}

			if !a.interactive() {
				return errors.New("no backend given and no terminal to ask on")
			}
			i, err := console.ListSelect(tags, console.ListSelectOptions{
				Title:    "Default backend:",
				Selected: max(0, slices.Index(tags, a.settings.Backend)),
			})
			if err != nil {
				return err
			}
			return a.saveSetting(cmd, "backend", tags[i])
		},
	})

	return cmd
}

// saveSetting changes key in the config file. Values from the environment
// stay out of the file.
func (a *app) saveSetting(cmd *cobra.Command, key, value string) error {
	file, err := config.LoadFile()
	if err != nil {
		return err
	}
	if err := file.Set(key, value); err != nil {
		return err
	}
	if err := file.Validate(); err != nil {
		return err
	}
	if err := file.Save(); err != nil {
		return err
	}
	if err := a.settings.Set(key, value); err != nil {
		return err
	}
	a.logger.Printf("set %s to %s", key, value)
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
	return nil
}
