package bench

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatework-labs/gatesim/pkg/sim"
)

const andSource = `
DEVICES: SWITCH a 0, SWITCH b 0, AND g 2;
CONNECT: a > g.I1, b > g.I2;
MONITOR: g;
END;
`

func newSim(t *testing.T, source string) *sim.Simulator {
	t.Helper()
	s, diags, err := sim.New(source)
	require.NoError(t, err, "diagnostics: %v", diags)
	return s
}

func TestParse(t *testing.T) {
	data := []byte(`
name: and gate
steps:
  - name: both high
    switches: {a: 1, b: 1}
    cycles: 1
    expect: {g: 1}
  - switches: {a: 0}
    cycles: 1
    expect: {g: 0}
`)
	b, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "and gate", b.Name)
	require.Len(t, b.Steps, 2)
	assert.Equal(t, "both high", b.Steps[0].Name)
	assert.Equal(t, "step 2", b.Steps[1].Name, "unnamed steps get positional names")
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, b.Steps[0].Switches)
	assert.Equal(t, 1, b.Steps[0].Cycles)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"no steps", `name: empty`, "no steps"},
		{"bad switch level", "steps:\n  - switches: {a: 2}\n    cycles: 1", "must be 0 or 1"},
		{"bad expect level", "steps:\n  - cycles: 1\n    expect: {g: 7}", "must be 0 or 1"},
		{"negative cycles", "steps:\n  - cycles: -1", "negative cycle count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidBench)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Parse([]byte("steps: [not a step"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidBench, "YAML errors are reported as such")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	data := "name: file bench\nsteps:\n  - cycles: 1\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	b, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file bench", b.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestRun(t *testing.T) {
	b, err := Parse([]byte(`
name: and gate
steps:
  - name: both high
    switches: {a: 1, b: 1}
    cycles: 1
    expect: {g: 1}
  - name: drop one
    switches: {a: 0}
    cycles: 1
    expect: {g: 0}
`))
	require.NoError(t, err)

	res, err := b.Run(newSim(t, andSource))
	require.NoError(t, err)

	require.Len(t, res.Checks, 2)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, Check{Step: "both high", Signal: "g", Want: true, Got: true}, res.Checks[0])
	assert.Equal(t, Check{Step: "drop one", Signal: "g", Want: false, Got: false}, res.Checks[1])
}

func TestRun_RecordsFailures(t *testing.T) {
	b, err := Parse([]byte(`
steps:
  - switches: {a: 1}
    cycles: 1
    expect: {g: 1}
`))
	require.NoError(t, err)

	// Only one input raised, so the AND stays low and the check fails.
	res, err := b.Run(newSim(t, andSource))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Checks, 1)
	assert.False(t, res.Checks[0].Passed())
	assert.True(t, res.Checks[0].Want)
	assert.False(t, res.Checks[0].Got)
}

func TestRun_ErrorsNameTheStep(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown switch", "steps:\n  - name: boom\n    switches: {zz: 1}\n    cycles: 1"},
		{"unknown signal", "steps:\n  - name: boom\n    cycles: 1\n    expect: {zz: 0}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Parse([]byte(tt.data))
			require.NoError(t, err)

			_, err = b.Run(newSim(t, andSource))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "boom")
		})
	}
}

func TestRun_ColdStartsFirst(t *testing.T) {
	s := newSim(t, andSource)
	require.NoError(t, s.SetSwitch("a", true))
	require.NoError(t, s.SetSwitch("b", true))
	require.NoError(t, s.Run(2))

	// The bench resets the simulator, so the earlier presets are gone and
	// the declared levels (both low) apply again.
	b, err := Parse([]byte("steps:\n  - cycles: 1\n    expect: {g: 0}\n"))
	require.NoError(t, err)

	res, err := b.Run(s)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Failed)
}
