package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gatework-labs/gatesim/internal/bench"
)

// NewBenchCommand creates the bench command.
func NewBenchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bench <circuit> <bench>",
		Short: "Run a scripted test bench against a circuit",
		Long: `Run a YAML test bench against a circuit and report every expectation.

A bench is a sequence of steps; each step sets switch levels, runs a number
of cycles, and checks the resulting signal levels. The command exits
non-zero when any expectation fails, so benches can run in CI.`,
		Example: `  # Run a bench
  gatesim bench adder.def adder_bench.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, args[0], args[1])
		},
	}
}

func runBench(cmd *cobra.Command, circuitPath, benchPath string) error {
	cmdCtx := NewCommandContext(cmd)
	out := cmd.OutOrStdout()

	s, diags, err := loadSimulator(circuitPath)
	renderDiagnostics(cmd.ErrOrStderr(), diags, cmdCtx.Color)
	if err != nil {
		return err
	}

	b, err := bench.Load(benchPath)
	if err != nil {
		return err
	}

	cmdCtx.Logger.Info("running bench",
		"bench", b.Name, "circuit", circuitPath, "steps", len(b.Steps))

	res, err := b.Run(s)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Step", "Signal", "Want", "Got", "Result"})
	for _, check := range res.Checks {
		t.AppendRow(table.Row{
			check.Step,
			check.Signal,
			levelString(check.Want),
			levelString(check.Got),
			passLabel(check.Passed(), cmdCtx.Color),
		})
	}
	t.Render()

	if res.Failed > 0 {
		return fmt.Errorf("%d of %d checks failed", res.Failed, len(res.Checks))
	}
	_, _ = fmt.Fprintf(out, "%d checks passed\n", len(res.Checks))
	return nil
}

func levelString(high bool) string {
	if high {
		return "1"
	}
	return "0"
}

func passLabel(passed, color bool) string {
	if passed {
		if color {
			return ansiGreen + "pass" + ansiReset
		}
		return "pass"
	}
	if color {
		return ansiRed + "FAIL" + ansiReset
	}
	return "FAIL"
}
