package circuit

import "github.com/gatework-labs/gatesim/pkg/names"

// Gate input count limits for AND, NAND, OR, and NOR devices.
const (
	MinGateInputs = 1
	MaxGateInputs = 16
)

// Source identifies the driving end of a connection: a device output pin.
// Pin is names.NoID for the single unnamed output of non-DTYPE devices.
type Source struct {
	Device names.ID
	Pin    names.ID
}

// Device is one circuit element. Which fields are meaningful depends on
// Kind; the unexported state fields evolve only inside the edge phase of a
// cycle and are reset by Registry.ColdStartup.
type Device struct {
	ID        names.ID
	Kind      Kind
	NumInputs int // gate input count; 2 for XOR, 4 for DTYPE, else 0

	// Inputs maps a connected input pin to the output that drives it.
	// A pin absent from the map is floating.
	Inputs map[names.ID]Source

	// Outputs holds the current level of every output pin.
	Outputs map[names.ID]bool

	InitialOn bool   // SWITCH: level declared in source, restored on cold start
	Period    int    // CLOCK: cycles between toggles; RC: cycles output stays high
	Waveform  []bool // SIGGEN: levels emitted cyclically

	counter   int  // CLOCK: cycles since the last toggle
	memQ      bool // DTYPE: latched value
	lastClk   bool // DTYPE: CLK level seen at the previous cycle edge
	remaining int  // RC: high cycles left
	cursor    int  // SIGGEN: next waveform index to emit
}

// Output returns the level of pin, and whether the device has such a pin.
func (d *Device) Output(pin names.ID) (bool, bool) {
	level, ok := d.Outputs[pin]
	return level, ok
}
