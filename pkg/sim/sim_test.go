package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatework-labs/gatesim/pkg/circuit"
)

const andGateSource = `DEVICES: SWITCH s1 1, SWITCH s2 1, AND a1 2;
CONNECT: s1 > a1.I1, s2 > a1.I2;
MONITOR: a1;
END;`

const latchSource = `DEVICES:
    SWITCH data 0, SWITCH set 0, SWITCH clear 0, CLOCK clk 1, DTYPE ff;
CONNECT:
    data > ff.DATA, clk > ff.CLK, set > ff.SET, clear > ff.CLEAR;
MONITOR: ff.Q;
END;`

func mustNew(t *testing.T, source string) *Simulator {
	t.Helper()
	s, diags, err := New(source)
	require.NoError(t, err, "diags: %v", diags)
	return s
}

func trace(t *testing.T, s *Simulator, signal string) Trace {
	t.Helper()
	for _, tr := range s.Traces() {
		if tr.Signal == signal {
			return tr
		}
	}
	t.Fatalf("no trace for %s", signal)
	return Trace{}
}

func TestNew_BuildFailure(t *testing.T) {
	s, diags, err := New("DEVICES: CLOCK c 0; CONNECT: ; MONITOR: ; END;")
	assert.ErrorIs(t, err, ErrBuildFailed)
	assert.Nil(t, s)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "period")
}

func TestSimulator_AndGateFollowsSwitches(t *testing.T) {
	s := mustNew(t, andGateSource)

	require.NoError(t, s.Run(3))
	assert.Equal(t, []bool{true, true, true}, trace(t, s, "a1").Samples)

	require.NoError(t, s.SetSwitch("s1", false))
	require.NoError(t, s.Continue(1))
	got := trace(t, s, "a1")
	assert.Equal(t, []bool{true, true, true, false}, got.Samples,
		"a switch change shows up in the next cycle")
	assert.Equal(t, 4, s.CyclesCompleted())
}

func TestSimulator_RunRestartsFromTimeZero(t *testing.T) {
	s := mustNew(t, andGateSource)

	require.NoError(t, s.Run(5))
	require.NoError(t, s.SetSwitch("s1", false))
	require.NoError(t, s.Run(3))

	got := trace(t, s, "a1")
	assert.Equal(t, 3, s.CyclesCompleted())
	assert.Equal(t, []bool{true, true, true}, got.Samples,
		"cold start restores the declared switch level")
	assert.Equal(t, 0, got.Offset)
}

func TestSimulator_DeterministicRuns(t *testing.T) {
	s1 := mustNew(t, latchSource)
	s2 := mustNew(t, latchSource)

	require.NoError(t, s1.Run(20))
	require.NoError(t, s2.Run(20))
	assert.Equal(t, s1.Traces(), s2.Traces())
}

func TestSimulator_LateMonitorHasNoPast(t *testing.T) {
	s := mustNew(t, andGateSource)

	require.NoError(t, s.Run(4))
	require.NoError(t, s.AddMonitor("s2"))
	require.NoError(t, s.Continue(2))

	late := trace(t, s, "s2")
	assert.Equal(t, 4, late.Offset)
	assert.Equal(t, []bool{true, true}, late.Samples)

	early := trace(t, s, "a1")
	assert.Equal(t, 0, early.Offset)
	assert.Len(t, early.Samples, 6)
}

func TestSimulator_MonitorManagement(t *testing.T) {
	s := mustNew(t, andGateSource)

	assert.Equal(t, []string{"a1"}, s.Monitors())
	require.NoError(t, s.AddMonitor("s1"))
	assert.Equal(t, []string{"a1", "s1"}, s.Monitors())

	assert.ErrorIs(t, s.AddMonitor("a1"), circuit.ErrMonitorExists)
	assert.ErrorIs(t, s.AddMonitor("nope"), ErrUnknownSignal)
	assert.ErrorIs(t, s.AddMonitor("a1.Q"), circuit.ErrInvalidPin)

	require.NoError(t, s.RemoveMonitor("a1"))
	assert.Equal(t, []string{"s1"}, s.Monitors())
	assert.ErrorIs(t, s.RemoveMonitor("a1"), circuit.ErrNotMonitored)
}

func TestSimulator_DTypeSetOverridesClear(t *testing.T) {
	s := mustNew(t, latchSource)

	require.NoError(t, s.SetSwitch("set", true))
	require.NoError(t, s.SetSwitch("clear", true))
	require.NoError(t, s.Run(1))

	// Run's cold start reverts the preset switches, so set them after it.
	got := trace(t, s, "ff.Q")
	assert.Equal(t, []bool{false}, got.Samples)

	require.NoError(t, s.SetSwitch("set", true))
	require.NoError(t, s.SetSwitch("clear", true))
	require.NoError(t, s.Continue(1))
	got = trace(t, s, "ff.Q")
	assert.Equal(t, []bool{false, true}, got.Samples, "SET wins over CLEAR")
}

func TestSimulator_Probe(t *testing.T) {
	s := mustNew(t, latchSource)
	require.NoError(t, s.Run(0))

	q, err := s.Probe("ff.Q")
	require.NoError(t, err)
	assert.False(t, q)
	qbar, err := s.Probe("ff.QBAR")
	require.NoError(t, err)
	assert.True(t, qbar)

	clk, err := s.Probe("clk")
	require.NoError(t, err)
	assert.False(t, clk)

	_, err = s.Probe("ghost")
	assert.ErrorIs(t, err, ErrUnknownSignal)
	_, err = s.Probe("ff")
	assert.ErrorIs(t, err, circuit.ErrInvalidPin, "a bare DTYPE name is not a signal")
}

func TestSimulator_SetSwitchErrors(t *testing.T) {
	s := mustNew(t, latchSource)

	assert.ErrorIs(t, s.SetSwitch("ghost", true), circuit.ErrUnknownDevice)
	assert.ErrorIs(t, s.SetSwitch("clk", true), circuit.ErrNotSwitch)
}

func TestSimulator_FloatingPinSurfacesWithCycle(t *testing.T) {
	src := `DEVICES: SWITCH s1 1, AND g 2;
CONNECT: s1 > g.I1;
MONITOR: g;
END;`
	s := mustNew(t, src)

	err := s.Run(5)
	require.Error(t, err)
	var fp *circuit.FloatingPinError
	require.ErrorAs(t, err, &fp)
	assert.Equal(t, "g", fp.Device)
	assert.Equal(t, "I2", fp.Pin)
	assert.Contains(t, err.Error(), "cycle 1:")
	assert.Equal(t, 0, s.CyclesCompleted())
}

func TestSimulator_SelfFeedingOrLatches(t *testing.T) {
	src := `DEVICES: SWITCH hold 0, OR loop 2;
CONNECT: hold > loop.I1, loop > loop.I2;
MONITOR: loop;
END;`
	s := mustNew(t, src)

	// The self-feed has a stable fixed point at every step, so it settles.
	require.NoError(t, s.Run(2))
	assert.Equal(t, []bool{false, false}, trace(t, s, "loop").Samples)

	require.NoError(t, s.SetSwitch("hold", true))
	require.NoError(t, s.Continue(1))
	require.NoError(t, s.SetSwitch("hold", false))
	require.NoError(t, s.Continue(2))
	assert.Equal(t, []bool{false, false, true, true, true}, trace(t, s, "loop").Samples,
		"a raised OR with a self-feed stays raised")
}

func TestSimulator_OscillationKeepsCompletedPrefix(t *testing.T) {
	src := `DEVICES: CLOCK c 1, NAND n 1;
CONNECT: n > n.I1;
MONITOR: c;
END;`
	s := mustNew(t, src)

	err := s.Run(3)
	require.Error(t, err)
	var osc *circuit.OscillationError
	require.ErrorAs(t, err, &osc)
	assert.Contains(t, err.Error(), "cycle 1:")
	assert.Equal(t, 0, s.CyclesCompleted())
	assert.Empty(t, trace(t, s, "c").Samples, "no cycle completed, nothing recorded")
}

func TestSimulator_DevicesAndSwitches(t *testing.T) {
	s := mustNew(t, latchSource)

	devs := s.Devices()
	require.Len(t, devs, 5)
	assert.Equal(t, "data", devs[0].Name)
	assert.Equal(t, circuit.KindSwitch, devs[0].Kind)
	assert.Equal(t, []string{"data"}, devs[0].Outputs)

	ff := devs[4]
	assert.Equal(t, "ff", ff.Name)
	assert.Equal(t, 4, ff.Inputs)
	assert.Equal(t, 4, ff.Needs)
	assert.Equal(t, []string{"ff.Q", "ff.QBAR"}, ff.Outputs)

	assert.Equal(t, []string{"data", "set", "clear"}, s.Switches())
}
