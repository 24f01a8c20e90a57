// Package sim drives built circuits: it owns the parse-build-run loop and
// exposes the operations interactive front ends need, addressing devices
// and signals by their source-text names.
package sim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gatework-labs/gatesim/pkg/circuit"
	"github.com/gatework-labs/gatesim/pkg/names"
	"github.com/gatework-labs/gatesim/pkg/parser"
)

// ErrBuildFailed is returned by New when the source has errors. The
// diagnostics carry the detail.
var ErrBuildFailed = errors.New("circuit build failed")

// ErrUnknownSignal is returned for a signal reference that names no device
// output.
var ErrUnknownSignal = errors.New("unknown signal")

// Simulator holds one built circuit and its execution state.
type Simulator struct {
	tbl    *names.Table
	reg    *circuit.Registry
	net    *circuit.Network
	mons   *circuit.MonitorSet
	cycles int // completed since the last cold start
}

// New parses source and returns a ready simulator along with all build
// diagnostics in source order. If the build fails the simulator is nil and
// the error is ErrBuildFailed; warnings alone do not fail it.
func New(source string) (*Simulator, []parser.Diagnostic, error) {
	tbl := names.NewTable()
	res, diags, ok := parser.BuildNetwork(tbl, source)
	if !ok {
		return nil, diags, ErrBuildFailed
	}
	return &Simulator{
		tbl:  tbl,
		reg:  res.Devices,
		net:  res.Network,
		mons: res.Monitors,
	}, diags, nil
}

// Run cold-starts the circuit, clears monitor histories, and executes n
// cycles from time zero. Run(0) is a plain reset.
func (s *Simulator) Run(n int) error {
	s.reg.ColdStartup()
	s.mons.Reset()
	s.cycles = 0
	return s.Continue(n)
}

// Continue executes n further cycles, keeping all state and histories. On a
// cycle error the completed prefix stays recorded and the failing cycle has
// no effect; the caller may adjust switches and call Continue again.
func (s *Simulator) Continue(n int) error {
	for i := 0; i < n; i++ {
		if err := s.net.ExecuteCycle(); err != nil {
			return fmt.Errorf("cycle %d: %w", s.cycles+1, err)
		}
		s.mons.RecordCycle()
		s.cycles++
	}
	return nil
}

// CyclesCompleted returns the number of cycles executed since the last cold
// start.
func (s *Simulator) CyclesCompleted() int {
	return s.cycles
}

// SetSwitch sets a switch's live level. The change is seen by the next
// executed cycle.
func (s *Simulator) SetSwitch(name string, on bool) error {
	id := s.tbl.Query(name)
	if id == names.NoID {
		return fmt.Errorf("%q: %w", name, circuit.ErrUnknownDevice)
	}
	return s.reg.SetSwitch(id, on)
}

// AddMonitor registers a signal ("dev" or "dev.PIN") for recording from the
// next executed cycle on.
func (s *Simulator) AddMonitor(signal string) error {
	p, err := s.parseSignal(signal)
	if err != nil {
		return err
	}
	return s.mons.Add(p)
}

// RemoveMonitor unregisters a signal and discards its history.
func (s *Simulator) RemoveMonitor(signal string) error {
	p, err := s.parseSignal(signal)
	if err != nil {
		return err
	}
	return s.mons.Remove(p)
}

// Probe returns the current level of a signal.
func (s *Simulator) Probe(signal string) (bool, error) {
	p, err := s.parseSignal(signal)
	if err != nil {
		return false, err
	}
	d, ok := s.reg.Get(p.Device)
	if !ok {
		return false, fmt.Errorf("%q: %w", signal, circuit.ErrUnknownDevice)
	}
	level, ok := d.Output(p.Pin)
	if !ok {
		return false, fmt.Errorf("%q: %w", signal, circuit.ErrInvalidPin)
	}
	return level, nil
}

// parseSignal resolves "dev" or "dev.PIN" to a monitor point. Names are
// looked up without interning so misspellings stay out of the table.
func (s *Simulator) parseSignal(signal string) (circuit.Point, error) {
	devName, pinName, hasPin := strings.Cut(signal, ".")
	dev := s.tbl.Query(devName)
	if dev == names.NoID {
		return circuit.Point{}, fmt.Errorf("%q: %w", signal, ErrUnknownSignal)
	}
	pin := names.NoID
	if hasPin {
		pin = s.tbl.Query(pinName)
		if pin == names.NoID {
			return circuit.Point{}, fmt.Errorf("%q: %w", signal, ErrUnknownSignal)
		}
	}
	return circuit.Point{Device: dev, Pin: pin}, nil
}

// Trace is one monitored signal's recorded history. Offset is the number of
// cycles that had already completed when the monitor was registered; those
// samples do not exist.
type Trace struct {
	Signal  string
	Offset  int
	Samples []bool
}

// Traces returns the recorded histories in monitor registration order.
func (s *Simulator) Traces() []Trace {
	points := s.mons.Points()
	out := make([]Trace, 0, len(points))
	for _, p := range points {
		hist, _ := s.mons.History(p)
		samples := make([]bool, len(hist))
		copy(samples, hist)
		out = append(out, Trace{
			Signal:  s.reg.SignalName(p.Device, p.Pin),
			Offset:  s.cycles - len(hist),
			Samples: samples,
		})
	}
	return out
}

// Monitors returns the monitored signal names in registration order.
func (s *Simulator) Monitors() []string {
	points := s.mons.Points()
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = s.reg.SignalName(p.Device, p.Pin)
	}
	return out
}

// DeviceInfo describes one device for listings.
type DeviceInfo struct {
	Name    string
	Kind    circuit.Kind
	Inputs  int      // connected inputs
	Needs   int      // required inputs
	Outputs []string // monitorable signal names
}

// Devices lists the circuit's devices in creation order.
func (s *Simulator) Devices() []DeviceInfo {
	devs := s.reg.Devices()
	out := make([]DeviceInfo, 0, len(devs))
	for _, d := range devs {
		info := DeviceInfo{
			Name:   s.tbl.MustText(d.ID),
			Kind:   d.Kind,
			Inputs: len(d.Inputs),
			Needs:  len(s.reg.RequiredInputs(d)),
		}
		for _, pin := range s.reg.OutputPins(d) {
			info.Outputs = append(info.Outputs, s.reg.SignalName(d.ID, pin))
		}
		out = append(out, info)
	}
	return out
}

// Switches lists the circuit's switch names in creation order.
func (s *Simulator) Switches() []string {
	ids := s.reg.FindKind(circuit.KindSwitch)
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = s.tbl.MustText(id)
	}
	return out
}

// Registry exposes the device registry for read-only inspection, such as
// static analysis over the connection graph.
func (s *Simulator) Registry() *circuit.Registry {
	return s.reg
}
