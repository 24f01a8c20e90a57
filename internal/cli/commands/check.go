package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gatework-labs/gatesim/internal/analysis"
	"github.com/gatework-labs/gatesim/pkg/names"
	"github.com/gatework-labs/gatesim/pkg/parser"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	JSON bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check <circuit>",
		Short: "Validate a circuit without simulating it",
		Long: `Parse a circuit definition file and run static checks on the network.

check reports parse errors, unconnected input pins, and combinational
feedback loops (gate cycles with no flip-flop in the path). Floating pins
are errors because the simulator refuses to run such a network. Loops are
warnings: a loop can settle, like a NOR latch, but it can also oscillate.

The command exits non-zero when errors are found, so it can gate CI.`,
		Example: `  # Check a circuit
  gatesim check counter.def

  # Machine-readable report
  gatesim check counter.def --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output the report as JSON")

	return cmd
}

// checkReport is the JSON shape of a check run.
type checkReport struct {
	Circuit  string          `json:"circuit"`
	Devices  int             `json:"devices"`
	Monitors int             `json:"monitors"`
	Errors   []string        `json:"errors"`
	Warnings []string        `json:"warnings"`
	Floating []checkFloating `json:"floating_inputs"`
	Loops    [][]string      `json:"loops"`
	OK       bool            `json:"ok"`
}

type checkFloating struct {
	Device string `json:"device"`
	Pin    string `json:"pin"`
}

func runCheck(cmd *cobra.Command, path string, opts *CheckOptions) error {
	cmdCtx := NewCommandContext(cmd)
	out := cmd.OutOrStdout()

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading circuit: %w", err)
	}

	tbl := names.NewTable()
	res, diags, ok := parser.BuildNetwork(tbl, string(source))

	report := checkReport{
		Circuit:  path,
		Errors:   []string{},
		Warnings: []string{},
		Floating: []checkFloating{},
		Loops:    [][]string{},
	}
	for _, d := range diags {
		if d.Severity == parser.SeverityError {
			report.Errors = append(report.Errors, d.Error())
		} else {
			report.Warnings = append(report.Warnings, d.Error())
		}
	}

	if ok {
		report.Devices = res.Devices.Len()
		report.Monitors = res.Monitors.Len()

		inspection := analysis.Inspect(res.Devices)
		for _, pin := range inspection.Floating {
			report.Floating = append(report.Floating, checkFloating{Device: pin.Device, Pin: pin.Pin})
		}
		report.Loops = inspection.Loops
	}
	report.OK = ok && len(report.Floating) == 0

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		renderCheckText(cmd, cmdCtx, &report, diags)
	}

	if !report.OK {
		problems := len(report.Errors) + len(report.Floating)
		return fmt.Errorf("%s: %d problems found", path, problems)
	}
	return nil
}

func renderCheckText(cmd *cobra.Command, cmdCtx *CommandContext, report *checkReport, diags []parser.Diagnostic) {
	out := cmd.OutOrStdout()

	renderDiagnostics(cmd.ErrOrStderr(), diags, cmdCtx.Color)

	if len(report.Errors) > 0 {
		return
	}

	_, _ = fmt.Fprintf(out, "%s: %d devices, %d monitors\n",
		report.Circuit, report.Devices, report.Monitors)

	for _, pin := range report.Floating {
		line := fmt.Sprintf("error: floating input: %s.%s is not connected", pin.Device, pin.Pin)
		if cmdCtx.Color {
			line = ansiRed + line + ansiReset
		}
		_, _ = fmt.Fprintln(out, line)
	}
	for _, loop := range report.Loops {
		line := fmt.Sprintf("warning: combinational loop: %s", strings.Join(loop, " > "))
		if cmdCtx.Color {
			line = ansiYellow + line + ansiReset
		}
		_, _ = fmt.Fprintln(out, line)
	}

	if report.OK && len(report.Loops) == 0 {
		_, _ = fmt.Fprintln(out, "no problems found")
	}
}
