package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// exampleCircuit is a small but complete circuit: a clocked D flip-flop with
// switch-driven SET/CLEAR and an XOR comparing Q against a signal generator.
const exampleCircuit = `# A rising-edge D flip-flop driven by a clock. The XOR flags every cycle
# where the latched value disagrees with the stimulus pattern.

DEVICES:
    CLOCK clk 2,
    SWITCH sw_data 1,
    SWITCH sw_set 0,
    SWITCH sw_clear 0,
    DTYPE ff,
    SIGGEN stim 0110,
    XOR x1;

CONNECT:
    sw_data > ff.DATA,
    clk > ff.CLK,
    sw_set > ff.SET,
    sw_clear > ff.CLEAR,
    ff.Q > x1.I1,
    stim > x1.I2;

MONITOR:
    clk,
    ff.Q,
    stim,
    x1;

END;
`

// exampleBench scripts the flip-flop through latch, relatch, and SET.
const exampleBench = `name: flip-flop latches data on rising clock edges
steps:
  - name: data high is latched
    switches: {sw_data: 1}
    cycles: 4
    expect: {ff.Q: 1}
  - name: data low is latched
    switches: {sw_data: 0}
    cycles: 4
    expect: {ff.Q: 0}
  - name: set forces q high
    switches: {sw_set: 1}
    cycles: 1
    expect: {ff.Q: 1}
`

const exampleConfig = `# gatesim configuration. Command-line flags and GATESIM_* environment
# variables override these values.
cycles: 12
format: wave
verbose: false
no_color: false
`

// projectFiles lists everything init writes, in creation order.
var projectFiles = []struct {
	name    string
	content string
}{
	{"gatesim.yaml", exampleConfig},
	{"example.def", exampleCircuit},
	{"example_bench.yaml", exampleBench},
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new gatesim project",
		Long: `Initialize a new gatesim project with a configuration file and a working
example.

This creates:
  - gatesim.yaml configuration file
  - example.def, a clocked D flip-flop circuit
  - example_bench.yaml, a scripted test bench for the example`,
		Example: `  # Initialize in the current directory
  gatesim init

  # Initialize in a new directory
  gatesim init my-circuits

  # Force overwrite of existing files
  gatesim init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	out := cmd.OutOrStdout()

	// Create directory if specified and doesn't exist
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// Check if config already exists
	configPath := filepath.Join(dir, "gatesim.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("gatesim.yaml already exists. Use --force to overwrite")
	}

	for _, f := range projectFiles {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		_, _ = fmt.Fprintf(out, "  created %s\n", path)
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "gatesim project initialized!")
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "Next steps:")
	_, _ = fmt.Fprintln(out, "  gatesim run example.def                     Simulate the example")
	_, _ = fmt.Fprintln(out, "  gatesim check example.def                   Static checks only")
	_, _ = fmt.Fprintln(out, "  gatesim bench example.def example_bench.yaml  Run the test bench")
	_, _ = fmt.Fprintln(out, "  gatesim console example.def                 Explore interactively")

	return nil
}
