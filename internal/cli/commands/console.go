package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gatework-labs/gatesim/internal/cli/config"
	"github.com/gatework-labs/gatesim/pkg/sim"
)

// NewConsoleCommand creates the console command.
func NewConsoleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "console <circuit>",
		Short: "Explore a circuit interactively",
		Long: `Open an interactive console on a circuit: run cycles, flip switches,
manage monitors, and inspect traces without rebuilding the simulator.

The console keeps one simulation alive between commands, so .continue
extends the recorded traces where .run restarts from a cold network.`,
		Example: `  gatesim console counter.def`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd, args[0])
		},
	}
}

func runConsole(cmd *cobra.Command, path string) error {
	cmdCtx := NewCommandContext(cmd)
	out := cmd.OutOrStdout()

	s, diags, err := loadSimulator(path)
	renderDiagnostics(cmd.ErrOrStderr(), diags, cmdCtx.Color)
	if err != nil {
		return err
	}

	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".gatesim_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "gatesim> ",
		HistoryFile:     historyFile,
		AutoComplete:    newConsoleCompleter(s),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize console: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(out, "gatesim console (circuit: %s)\n", path)
	_, _ = fmt.Fprintln(out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".quit" || line == ".exit" {
			break
		}

		handleConsoleCommand(cmd, cmdCtx, s, line)
	}

	return nil
}

// handleConsoleCommand dispatches one console line. Simulation errors are
// printed, not fatal: an oscillating circuit should not end the session.
func handleConsoleCommand(cmd *cobra.Command, cmdCtx *CommandContext, s *sim.Simulator, line string) {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".help":
		printConsoleHelp(out)

	case ".run":
		n, err := cycleArg(parts, cmdCtx.Cfg.Cycles)
		if err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
			return
		}
		if err := s.Run(n); err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
			return
		}
		_, _ = fmt.Fprintf(out, "ran %d cycles from cold start\n", s.CyclesCompleted())

	case ".continue", ".c":
		n, err := cycleArg(parts, cmdCtx.Cfg.Cycles)
		if err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
			return
		}
		if err := s.Continue(n); err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
			return
		}
		_, _ = fmt.Fprintf(out, "%d cycles completed\n", s.CyclesCompleted())

	case ".switch":
		if len(parts) != 3 {
			_, _ = fmt.Fprintln(errOut, "Usage: .switch <name> <0|1>")
			return
		}
		on := parts[2] == "1"
		if parts[2] != "0" && parts[2] != "1" {
			_, _ = fmt.Fprintf(errOut, "Error: switch level must be 0 or 1, got %q\n", parts[2])
			return
		}
		if err := s.SetSwitch(parts[1], on); err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
			return
		}
		_, _ = fmt.Fprintf(out, "%s = %s\n", parts[1], parts[2])

	case ".monitor":
		if len(parts) != 2 {
			_, _ = fmt.Fprintln(errOut, "Usage: .monitor <signal>")
			return
		}
		if err := s.AddMonitor(parts[1]); err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
			return
		}
		_, _ = fmt.Fprintf(out, "monitoring %s\n", parts[1])

	case ".unmonitor":
		if len(parts) != 2 {
			_, _ = fmt.Fprintln(errOut, "Usage: .unmonitor <signal>")
			return
		}
		if err := s.RemoveMonitor(parts[1]); err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
			return
		}
		_, _ = fmt.Fprintf(out, "stopped monitoring %s\n", parts[1])

	case ".monitors":
		monitors := s.Monitors()
		if len(monitors) == 0 {
			_, _ = fmt.Fprintln(out, "(no monitors)")
			return
		}
		for _, m := range monitors {
			_, _ = fmt.Fprintln(out, m)
		}

	case ".devices":
		printConsoleDevices(out, s)

	case ".probe":
		if len(parts) != 2 {
			_, _ = fmt.Fprintln(errOut, "Usage: .probe <signal>")
			return
		}
		high, err := s.Probe(parts[1])
		if err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
			return
		}
		level := "0"
		if high {
			level = "1"
		}
		_, _ = fmt.Fprintf(out, "%s = %s\n", parts[1], level)

	case ".trace":
		format := cmdCtx.Cfg.Format
		if len(parts) > 1 {
			format = parts[1]
		}
		if err := renderTraces(out, "", s.CyclesCompleted(), s.Traces(), format); err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		}

	case ".reset":
		if err := s.Run(0); err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
			return
		}
		_, _ = fmt.Fprintln(out, "cold start: all devices reset, traces cleared")

	default:
		_, _ = fmt.Fprintf(errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
}

// cycleArg parses the optional cycle-count argument of .run and .continue.
func cycleArg(parts []string, defaultCycles int) (int, error) {
	if len(parts) < 2 {
		return defaultCycles, nil
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("cycle count must be a non-negative number, got %q", parts[1])
	}
	return n, nil
}

func printConsoleDevices(w io.Writer, s *sim.Simulator) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Device", "Kind", "Inputs", "Outputs"})

	for _, d := range s.Devices() {
		inputs := fmt.Sprintf("%d/%d", d.Inputs, d.Needs)
		outputs := make([]string, 0, len(d.Outputs))
		for _, signal := range d.Outputs {
			high, err := s.Probe(signal)
			if err != nil {
				continue
			}
			level := "0"
			if high {
				level = "1"
			}
			outputs = append(outputs, fmt.Sprintf("%s=%s", signal, level))
		}
		t.AppendRow(table.Row{d.Name, d.Kind.String(), inputs, strings.Join(outputs, " ")})
	}
	t.Render()
}

func printConsoleHelp(w io.Writer) {
	help := `
Commands:
  .help                  Show this help message
  .run [n]               Cold start, then run n cycles (default from config)
  .continue [n]          Run n more cycles without resetting
  .switch <name> <0|1>   Set a switch level
  .monitor <signal>      Start monitoring a signal
  .unmonitor <signal>    Stop monitoring a signal
  .monitors              List monitored signals
  .devices               List devices with connection and output state
  .probe <signal>        Print the current level of a signal
  .trace [format]        Print recorded traces (wave, table, csv, json, markdown)
  .reset                 Cold start without running any cycles
  .quit / .exit          Exit the console

Tips:
  - Use arrow keys to navigate history
  - Tab completion works for commands and signal names
`
	_, _ = fmt.Fprintln(w, help)
}

// newConsoleCompleter creates a readline completer for console commands and
// signal names.
func newConsoleCompleter(s *sim.Simulator) *readline.PrefixCompleter {
	signals := readline.PcItemDynamic(func(string) []string {
		var items []string
		for _, d := range s.Devices() {
			items = append(items, d.Outputs...)
		}
		return items
	})
	switches := readline.PcItemDynamic(func(string) []string {
		return s.Switches()
	})
	formats := make([]readline.PrefixCompleterInterface, 0, len(config.Formats))
	for _, f := range config.Formats {
		formats = append(formats, readline.PcItem(f))
	}

	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".run"),
		readline.PcItem(".continue"),
		readline.PcItem(".switch", switches),
		readline.PcItem(".monitor", signals),
		readline.PcItem(".unmonitor", signals),
		readline.PcItem(".monitors"),
		readline.PcItem(".devices"),
		readline.PcItem(".probe", signals),
		readline.PcItem(".trace", formats...),
		readline.PcItem(".reset"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
