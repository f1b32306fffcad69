package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/typeorder/runner"
)

func newFixCmd(opts *globalOptions) *cobra.Command {
	var showDiff bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Reorder type members in place",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{"."}
			}

			write := !dryRun && !showDiff
			results, err := runner.New(cfg).Fix(cmd.Context(), args, write)
			if err != nil {
				return err
			}

			rep := newReporter(cmd)
			if showDiff {
				return rep.Diffs(results)
			}

			verb := "reordered"
			if dryRun {
				verb = "would reorder"
			}
			rep.Changes(results, verb)
			rep.FixSummary(results)

			if runner.Findings(results) > 0 {
				return runner.ErrFindings
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a unified diff instead of writing files")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report the files that would change without writing them")

	return cmd
}
