package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/typeorder/runner"
)

func newCheckCmd(opts *globalOptions) *cobra.Command {
	var watch bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report types whose members are out of order",
		Long: `Check analyses every Java file under the given paths (default: the
working directory) and reports each type whose members are not ordered as
static fields, instance fields, static initializers, instance initializers,
constructors, methods, nested types. It exits with status 1 when any type
is misordered. With --watch it keeps running and re-checks files as they
change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{"."}
			}

			rep := newReporter(cmd)
			run := runner.New(cfg)

			if watch {
				fmt.Fprintf(cmd.OutOrStdout(), "watching %d path(s), press Ctrl-C to stop\n", len(args))
				return run.NewWatcher(args, interval).Run(cmd.Context(), func(results []runner.FileResult) {
					rep.Findings(results)
					rep.CheckSummary(results)
				})
			}

			results, err := run.Check(cmd.Context(), args)
			if err != nil {
				return err
			}

			rep.Findings(results)
			rep.CheckSummary(results)

			if runner.Findings(results) > 0 {
				return runner.ErrFindings
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and re-check files when they change")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "polling interval for --watch")

	return cmd
}
