package commands

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatework-labs/gatesim/internal/cli/config"
	"github.com/gatework-labs/gatesim/internal/cli/testutil"
)

const andCircuit = `
DEVICES: SWITCH a 0, SWITCH b 0, AND g 2;
CONNECT: a > g.I1, b > g.I2;
MONITOR: g;
END;
`

func TestRunCommand_CSV(t *testing.T) {
	t.Setenv("GATESIM_CYCLES", "3")
	t.Setenv("GATESIM_FORMAT", "csv")
	path := testutil.WriteCircuit(t, andCircuit)

	cmd := NewRunCommand()
	cmd.SetContext(context.WithValue(context.Background(), config.LoggerKey(), testutil.NewTestLogger(t)))
	out, _, err := testutil.ExecuteCommand(t, cmd, path, "--switch", "a=1", "--switch", "b=1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "cycle,g", lines[0])
	assert.Equal(t, "1,1", lines[1])
	assert.Equal(t, "2,1", lines[2])
	assert.Equal(t, "3,1", lines[3])
}

func TestRunCommand_DeclaredLevelsApply(t *testing.T) {
	t.Setenv("GATESIM_CYCLES", "2")
	t.Setenv("GATESIM_FORMAT", "csv")
	path := testutil.WriteCircuit(t, andCircuit)

	// No presets: the declared low levels keep the gate low.
	out, _, err := testutil.ExecuteCommand(t, NewRunCommand(), path)
	require.NoError(t, err)
	assert.Contains(t, out, "1,0")
	assert.Contains(t, out, "2,0")
}

func TestRunCommand_JSON(t *testing.T) {
	t.Setenv("GATESIM_CYCLES", "2")
	t.Setenv("GATESIM_FORMAT", "json")
	path := testutil.WriteCircuit(t, andCircuit)

	out, _, err := testutil.ExecuteCommand(t, NewRunCommand(), path)
	require.NoError(t, err)

	assert.Contains(t, out, `"run_id"`)
	assert.Contains(t, out, `"cycles": 2`)
	assert.Contains(t, out, `"signal": "g"`)
}

func TestRunCommand_BuildFailure(t *testing.T) {
	path := testutil.WriteCircuit(t, "DEVICES: SWITCH a 2;\nCONNECT:;\nMONITOR:;\nEND;\n")

	_, errOut, err := testutil.ExecuteCommand(t, NewRunCommand(), path)
	require.Error(t, err)
	assert.Contains(t, errOut, "error at line 1")
}

func TestRunCommand_Oscillation(t *testing.T) {
	t.Setenv("GATESIM_CYCLES", "2")
	source := `
DEVICES: NAND n 1;
CONNECT: n > n.I1;
MONITOR: n;
END;
`
	path := testutil.WriteCircuit(t, source)

	_, _, err := testutil.ExecuteCommand(t, NewRunCommand(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to settle")
}

func TestRunCommand_MissingFile(t *testing.T) {
	_, _, err := testutil.ExecuteCommand(t, NewRunCommand(), "no_such_circuit.def")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading circuit")
}

func TestRunCommand_SwitchFlagErrors(t *testing.T) {
	path := testutil.WriteCircuit(t, andCircuit)

	_, _, err := testutil.ExecuteCommand(t, NewRunCommand(), path, "--switch", "a=2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be 0 or 1")

	_, _, err = testutil.ExecuteCommand(t, NewRunCommand(), path, "--switch", "zz=1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown device")
}
