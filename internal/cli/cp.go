package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ImGajeed76/shellpath/pkg/shellpath/backend"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/bulkcopy"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/console"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/glob"
)

var errMixedBackends = errors.New("sources and destination must be on the same backend")

type cpFlags struct {
	glob            globFlags
	create          bool
	jobs            int
	continueOnError bool
	progress        bool
	yes             bool
	timeout         time.Duration
}

func (a *app) cpCommand() *cobra.Command {
	var flags cpFlags

	cmd := &cobra.Command{
		Use:   "cp <source>... <destination>",
		Short: "Copy files into a directory",
		Long: `Copies every source into the destination directory, keeping base names.
Sources may be glob patterns; a pattern without matches is an error.

Nothing is copied unless every source exists, is a regular file and has a
base name no other source shares, and the destination is a directory. Files
are written under a temporary name and renamed into place once complete.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCp(cmd, &flags, args[:len(args)-1], args[len(args)-1])
		},
	}

	flags.glob.register(cmd)
	cmd.Flags().BoolVarP(&flags.create, "create", "p", false, "Create the destination directory and its parents")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 1, "Files copied at once (overrides the copy_jobs setting)")
	cmd.Flags().BoolVar(&flags.continueOnError, "continue-on-error", false, "Keep copying after a file fails")
	cmd.Flags().BoolVar(&flags.progress, "progress", false, "Show a progress bar")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Do not ask before creating the destination")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Give up on a single file after this long")
	return cmd
}

func (a *app) runCp(cmd *cobra.Command, flags *cpFlags, sourceArgs []string, destArg string) error {
	ctx := cmd.Context()

	destLoc, err := a.locate(destArg)
	if err != nil {
		return err
	}
	b, err := a.open(ctx, destLoc)
	if err != nil {
		return err
	}
	defer b.Close()

	sources, err := a.resolveSources(cmd, &flags.glob, b, destLoc, sourceArgs)
	if err != nil {
		return err
	}

	create := flags.create
	if !create && !flags.yes && a.interactive() {
		if _, err := b.Stat(destLoc.Path); errors.Is(err, fs.ErrNotExist) {
			create, err = console.YesNo(console.YesNoOptions{
				Prompt:     fmt.Sprintf("%s does not exist. Create it?", destLoc),
				DefaultYes: true,
				YesText:    "Create",
				NoText:     "Cancel",
			})
			if err != nil {
				return err
			}
		}
	}

	jobs := a.settings.CopyJobs
	if cmd.Flags().Changed("jobs") {
		jobs = flags.jobs
	}
	opts := bulkcopy.Options{
		CreateDestination: create,
		Jobs:              jobs,
		ContinueOnError:   flags.continueOnError,
		Convention:        a.conventionFor(b),
		Timeout:           flags.timeout,
		Logger:            a.logger,
	}

	var bar *console.ProgressBar
	if flags.progress {
		bar = console.NewProgressBar(console.ProgressOptions{
			GradientColors: console.DefaultProgressOptions().GradientColors,
			Width:          60,
			Padding:        2,
			Label:          fmt.Sprintf("Copying %d files to %s", len(sources), destLoc),
		})
		opts.ProgressFunc = progressReporter(b, sources, bar.Update)
	}

	result, err := bulkcopy.Copy(ctx, b, sources, destLoc.Path, opts)
	if bar != nil {
		if err == nil {
			bar.Finish()
		} else {
			bar.Close()
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "copied %d of %d files (%s)\n",
		result.Succeeded, result.TotalItems, humanize.Bytes(uint64(result.Copied)))
	if err != nil {
		for _, cerr := range result.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %v\n", cerr)
		}
		if result.Skipped > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %d files skipped\n", result.Skipped)
		}
		return err
	}
	return nil
}

// resolveSources expands the source arguments on b. Arguments without
// wildcards are passed through so that a missing file is reported by the
// copy itself.
func (a *app) resolveSources(cmd *cobra.Command, f *globFlags, b backend.Backend, dest backend.Location, args []string) ([]string, error) {
	var sources []string
	for _, arg := range args {
		loc, err := a.locate(arg)
		if err != nil {
			return nil, err
		}
		if !sameBackend(loc, dest) {
			return nil, fmt.Errorf("%w: %s and %s", errMixedBackends, loc, dest)
		}

		p, err := glob.Compile(loc.Path, a.globOptions(cmd, f, b)...)
		if err != nil {
			return nil, err
		}
		if !p.HasWildcards() {
			sources = append(sources, loc.Path)
			continue
		}

		m, err := a.expand(cmd, f, b, loc.Path)
		if err != nil {
			return nil, err
		}
		matches, err := glob.Collect(m)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no match for %s", arg)
		}
		a.logger.Printf("%s matched %d paths", arg, len(matches))
		sources = append(sources, matches...)
	}
	return sources, nil
}

// progressReporter sums the per-file progress of a copy into one total.
func progressReporter(b backend.Backend, sources []string, update func(total, count int64)) func(source string, total, copied int64) {
	var (
		mu     sync.Mutex
		sum    int64
		counts = make(map[string]int64, len(sources))
		done   int64
	)
	for _, src := range sources {
		if info, err := b.Stat(src); err == nil {
			sum += info.Size
		}
	}

	return func(source string, _, copied int64) {
		mu.Lock()
		done += copied - counts[source]
		counts[source] = copied
		total, count := sum, done
		mu.Unlock()
		update(total, count)
	}
}
