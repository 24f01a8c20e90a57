package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gatework-labs/gatesim/internal/cli/config"
	"github.com/gatework-labs/gatesim/pkg/parser"
	"github.com/gatework-labs/gatesim/pkg/sim"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Color  bool
}

// NewCommandContext creates a CommandContext from the command's context and
// the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:    cfg,
		Logger: config.GetLogger(cmd.Context()),
		Color:  colorEnabled(cfg),
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to
// environment variables. The fallback keeps commands usable when they are
// constructed outside the root command, as in tests.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	cycles := config.DefaultCycles
	if v, err := strconv.Atoi(os.Getenv("GATESIM_CYCLES")); err == nil && v >= 0 {
		cycles = v
	}
	return &config.Config{
		Cycles:  cycles,
		Format:  getEnvOrDefault("GATESIM_FORMAT", config.DefaultFormat),
		Verbose: os.Getenv("GATESIM_VERBOSE") == "true",
		NoColor: os.Getenv("GATESIM_NO_COLOR") == "true",
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// colorEnabled reports whether output should carry ANSI color codes.
func colorEnabled(cfg *config.Config) bool {
	if cfg.NoColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// loadSimulator parses a circuit file into a simulator. Diagnostics are
// returned even on success so that warnings can be shown.
func loadSimulator(path string) (*sim.Simulator, []parser.Diagnostic, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading circuit: %w", err)
	}
	return sim.New(string(source))
}

// parseSwitchFlag splits a --switch argument of the form name=LEVEL.
func parseSwitchFlag(arg string) (string, bool, error) {
	name, level, ok := strings.Cut(arg, "=")
	if !ok || name == "" {
		return "", false, fmt.Errorf("invalid switch setting %q (want name=0 or name=1)", arg)
	}
	switch level {
	case "0":
		return name, false, nil
	case "1":
		return name, true, nil
	}
	return "", false, fmt.Errorf("switch %s level must be 0 or 1, got %q", name, level)
}
