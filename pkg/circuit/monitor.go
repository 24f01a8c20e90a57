package circuit

import (
	"fmt"

	"github.com/gatework-labs/gatesim/pkg/names"
)

// Point identifies a monitorable signal: a device output pin. Pin is
// names.NoID for the unnamed output of non-DTYPE devices.
type Point struct {
	Device names.ID
	Pin    names.ID
}

// MonitorSet records the history of monitored signals. Registration order
// is preserved and is the display order everywhere. A monitor added after
// the run started has a shorter history; samples from before its
// registration are never backfilled.
type MonitorSet struct {
	reg    *Registry
	order  []Point
	traces map[Point][]bool
}

// NewMonitorSet returns an empty monitor set over the devices in reg.
func NewMonitorSet(reg *Registry) *MonitorSet {
	return &MonitorSet{
		reg:    reg,
		traces: make(map[Point][]bool),
	}
}

// Add registers a signal for recording, starting with the next recorded
// cycle.
func (m *MonitorSet) Add(p Point) error {
	d, ok := m.reg.Get(p.Device)
	if !ok {
		return fmt.Errorf("%q: %w", m.reg.tbl.MustText(p.Device), ErrUnknownDevice)
	}
	if !m.reg.ValidOutput(d, p.Pin) {
		return fmt.Errorf("%s: %w", m.reg.SignalName(p.Device, p.Pin), ErrInvalidPin)
	}
	if _, exists := m.traces[p]; exists {
		return fmt.Errorf("%s: %w", m.reg.SignalName(p.Device, p.Pin), ErrMonitorExists)
	}
	m.order = append(m.order, p)
	m.traces[p] = nil
	return nil
}

// Remove unregisters a signal and discards its history.
func (m *MonitorSet) Remove(p Point) error {
	if _, exists := m.traces[p]; !exists {
		return fmt.Errorf("%s: %w", m.reg.SignalName(p.Device, p.Pin), ErrNotMonitored)
	}
	delete(m.traces, p)
	for i, q := range m.order {
		if q == p {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// RecordCycle appends the current level of every monitored signal to its
// history. The driver calls it once per executed cycle, after the cycle
// completes.
func (m *MonitorSet) RecordCycle() {
	for _, p := range m.order {
		d, _ := m.reg.Get(p.Device)
		m.traces[p] = append(m.traces[p], d.Outputs[p.Pin])
	}
}

// Reset discards all recorded histories but keeps the registrations.
func (m *MonitorSet) Reset() {
	for p := range m.traces {
		m.traces[p] = nil
	}
}

// Points returns the monitored signals in registration order.
func (m *MonitorSet) Points() []Point {
	out := make([]Point, len(m.order))
	copy(out, m.order)
	return out
}

// History returns the recorded samples for a signal and whether the signal
// is monitored. The slice is the live history; callers must not modify it.
func (m *MonitorSet) History(p Point) ([]bool, bool) {
	t, ok := m.traces[p]
	return t, ok
}

// Len returns the number of monitored signals.
func (m *MonitorSet) Len() int {
	return len(m.order)
}
