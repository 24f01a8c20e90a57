// Package bench runs scripted test benches against a circuit: set switches,
// run cycles, check signal levels, step after step, the way a hardware test
// bench exercises a device under test.
package bench

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/gatework-labs/gatesim/pkg/sim"
)

// Step is one phase of a bench: switch settings applied first, then cycles
// executed, then expectations probed.
type Step struct {
	Name     string         `yaml:"name"`
	Switches map[string]int `yaml:"switches"`
	Cycles   int            `yaml:"cycles"`
	Expect   map[string]int `yaml:"expect"`
}

// Bench is a named sequence of steps loaded from YAML.
type Bench struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// ErrInvalidBench is returned for a bench file that parses but makes no
// sense.
var ErrInvalidBench = errors.New("invalid bench")

// Load reads and validates a bench file.
func Load(path string) (*Bench, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bench: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates bench YAML.
func Parse(data []byte) (*Bench, error) {
	var b Bench
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing bench: %w", err)
	}
	if len(b.Steps) == 0 {
		return nil, fmt.Errorf("%w: no steps", ErrInvalidBench)
	}
	for i := range b.Steps {
		step := &b.Steps[i]
		if step.Name == "" {
			step.Name = fmt.Sprintf("step %d", i+1)
		}
		if step.Cycles < 0 {
			return nil, fmt.Errorf("%w: %s: negative cycle count", ErrInvalidBench, step.Name)
		}
		for name, level := range step.Switches {
			if level != 0 && level != 1 {
				return nil, fmt.Errorf("%w: %s: switch %s must be 0 or 1, got %d",
					ErrInvalidBench, step.Name, name, level)
			}
		}
		for signal, level := range step.Expect {
			if level != 0 && level != 1 {
				return nil, fmt.Errorf("%w: %s: expected level of %s must be 0 or 1, got %d",
					ErrInvalidBench, step.Name, signal, level)
			}
		}
	}
	return &b, nil
}

// Check is the outcome of one expectation.
type Check struct {
	Step   string
	Signal string
	Want   bool
	Got    bool
}

// Passed reports whether the probed level matched.
func (c Check) Passed() bool {
	return c.Want == c.Got
}

// Result collects every expectation outcome of a bench run.
type Result struct {
	Checks []Check
	Failed int
}

// Run executes the bench against a fresh cold start of s. It stops early on
// a simulation or setup error; expectation mismatches are not errors, they
// are recorded in the result.
func (b *Bench) Run(s *sim.Simulator) (*Result, error) {
	if err := s.Run(0); err != nil {
		return nil, err
	}

	res := &Result{}
	for _, step := range b.Steps {
		for _, name := range sortedKeys(step.Switches) {
			if err := s.SetSwitch(name, step.Switches[name] == 1); err != nil {
				return nil, fmt.Errorf("%s: %w", step.Name, err)
			}
		}
		if err := s.Continue(step.Cycles); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name, err)
		}
		for _, signal := range sortedKeys(step.Expect) {
			got, err := s.Probe(signal)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", step.Name, err)
			}
			check := Check{
				Step:   step.Name,
				Signal: signal,
				Want:   step.Expect[signal] == 1,
				Got:    got,
			}
			if !check.Passed() {
				res.Failed++
			}
			res.Checks = append(res.Checks, check)
		}
	}
	return res, nil
}

// sortedKeys keeps map-driven steps deterministic.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
