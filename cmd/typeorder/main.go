package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/typeorder/config"
	"github.com/dhamidi/typeorder/runner"
)

const version = "0.1.0"

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	configPath string
	verbose    int
	logFile    string
	jobs       int
}

// loadConfig reads the config file and applies flag overrides.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.jobs != 0 {
		cfg.Run.Jobs = o.jobs
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *globalOptions) configureLogging() {
	var path *string
	if o.logFile != "" {
		path = &o.logFile
	}
	commonlog.Configure(o.verbose, path)
}

// newReporter colours output only when it goes to the terminal.
func newReporter(cmd *cobra.Command) *runner.Reporter {
	w := cmd.OutOrStdout()
	return runner.NewReporter(w, w == os.Stdout && !color.NoColor)
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "typeorder",
		Short:         "Check and fix the order of Java type members",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.configureLogging()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to the config file (default: typeorder.yml in the working directory)")
	flags.CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of stderr")
	flags.IntVar(&opts.jobs, "jobs", 0, "number of files analysed in parallel (default: number of CPUs)")

	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newFixCmd(opts))
	rootCmd.AddCommand(newDumpCmd(opts))
	rootCmd.AddCommand(newLSPCmd(opts))

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, runner.ErrFindings) {
			fmt.Fprintf(os.Stderr, "typeorder: %s\n", err)
		}
		stop()
		os.Exit(1)
	}
}
