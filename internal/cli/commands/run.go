package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	Switches []string
	Watch    bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run <circuit>",
		Short: "Simulate a circuit and print monitored traces",
		Long: `Parse a circuit definition file, simulate it for the configured number
of clock cycles, and print the recorded traces of all monitored signals.

Switches can be preset before the run with --switch; otherwise the levels
declared in the DEVICES section apply. With --watch the circuit is
re-simulated every time the file is saved.`,
		Example: `  # Run with defaults (10 cycles, waveform output)
  gatesim run counter.def

  # Run 50 cycles and emit CSV for a spreadsheet
  gatesim run counter.def --cycles 50 --format csv

  # Preset switches before the first cycle
  gatesim run counter.def --switch enable=1 --switch reset=0

  # Re-simulate on every save
  gatesim run counter.def --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Switches, "switch", "s", nil, "Preset a switch before the run (name=0 or name=1, repeatable)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run the simulation when the circuit file changes")

	return cmd
}

func runRun(cmd *cobra.Command, path string, opts *RunOptions) error {
	cmdCtx := NewCommandContext(cmd)

	if opts.Watch {
		return watchAndRun(cmd, cmdCtx, path, opts)
	}
	return simulateOnce(cmd, cmdCtx, path, opts)
}

// simulateOnce builds the circuit, runs it cold, and renders the traces.
func simulateOnce(cmd *cobra.Command, cmdCtx *CommandContext, path string, opts *RunOptions) error {
	cfg := cmdCtx.Cfg
	out := cmd.OutOrStdout()

	runID := uuid.NewString()[:8]
	cmdCtx.Logger.Info("starting run",
		"run_id", runID, "circuit", path, "cycles", cfg.Cycles)

	s, diags, err := loadSimulator(path)
	renderDiagnostics(cmd.ErrOrStderr(), diags, cmdCtx.Color)
	if err != nil {
		return err
	}

	// Cold start first so that switch presets land on a fresh network.
	if err := s.Run(0); err != nil {
		return err
	}
	for _, arg := range opts.Switches {
		name, on, err := parseSwitchFlag(arg)
		if err != nil {
			return err
		}
		if err := s.SetSwitch(name, on); err != nil {
			return err
		}
	}
	if err := s.Continue(cfg.Cycles); err != nil {
		return err
	}

	cmdCtx.Logger.Info("run complete",
		"run_id", runID, "cycles", s.CyclesCompleted(), "monitors", len(s.Monitors()))
	if cfg.Verbose {
		_, _ = fmt.Fprintf(out, "run %s: %s, %d cycles, %d monitors\n",
			runID, path, s.CyclesCompleted(), len(s.Monitors()))
	}
	return renderTraces(out, runID, s.CyclesCompleted(), s.Traces(), cfg.Format)
}

// watchAndRun re-simulates the circuit whenever the file is written.
func watchAndRun(cmd *cobra.Command, cmdCtx *CommandContext, path string, opts *RunOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory rather than the file: editors that replace the
	// file on save would otherwise drop the watch.
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		cancel()
	}()

	out := cmd.OutOrStdout()
	rerun := func() {
		if err := simulateOnce(cmd, cmdCtx, path, opts); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}

	rerun()
	_, _ = fmt.Fprintf(out, "\nWatching %s for changes. Press Ctrl+C to stop.\n", path)

	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if abs, err := filepath.Abs(event.Name); err != nil || abs != target {
				continue
			}

			// Debounce: editors fire several events per save.
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(100*time.Millisecond, func() {
				_, _ = fmt.Fprintf(out, "\nChange detected: %s\n", filepath.Base(target))
				rerun()
			})
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdCtx.Logger.Error("watcher error", "error", werr)
		}
	}
}
