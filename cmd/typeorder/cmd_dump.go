package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/typeorder/java/parser"
	"github.com/dhamidi/typeorder/order"
)

func newDumpCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dump <file.java>",
		Short: "Show how each type's members are classified and ordered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			filename := args[0]
			src, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}
			unit := parser.Parse(src, parser.WithFile(filename))

			if asJSON {
				data, err := json.MarshalIndent(unit, "", "  ")
				if err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			analyzer := order.NewAnalyzer(cfg.Order(), order.ModeDiagnose)
			return dumpPlans(cmd.OutOrStdout(), analyzer, src, unit)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the declaration tree as JSON instead")

	return cmd
}

func dumpPlans(w io.Writer, analyzer *order.Analyzer, src []byte, unit *parser.Node) error {
	var firstErr error
	parser.Walk(unit, func(decl *parser.Node) bool {
		plan, err := analyzer.Plan(src, decl)
		if err != nil {
			firstErr = err
			return false
		}
		dumpPlan(w, plan)
		return plan.Skip != "suppressed"
	})
	return firstErr
}

func dumpPlan(w io.Writer, plan *order.Plan) {
	decl := plan.Decl
	fmt.Fprintf(w, "%s %s (line %d)\n", decl.Kind, decl.Name(), decl.Span.Start.Line)
	if plan.Body == nil {
		fmt.Fprintf(w, "  skipped: %s\n\n", plan.Skip)
		return
	}

	for _, m := range plan.Body.Members {
		var flags string
		switch {
		case m.Suppressed:
			flags = " pinned"
		case m.LifecycleOverride:
			flags = " lifecycle"
		}
		line := m.Decl.Syntax().Span.Start.Line
		fmt.Fprintf(w, "  %2d -> %-2d  %-22s rank %d  line %-4d %s%s\n",
			m.Index, plan.Permutation.Target(m.Index), m.EffectiveKind(), m.EffectiveKind().Rank(), line, displayName(m), flags)
	}

	switch {
	case plan.Skip != "":
		fmt.Fprintf(w, "  skipped: %s\n", plan.Skip)
	case plan.Permutation.IsIdentity():
		fmt.Fprintln(w, "  in order")
	default:
		fmt.Fprintf(w, "  permutation %s\n", plan.Permutation)
	}
	fmt.Fprintln(w)
}

func displayName(m order.Member) string {
	if m.Name != "" {
		return m.Name
	}
	return "<" + m.Kind.String() + ">"
}
