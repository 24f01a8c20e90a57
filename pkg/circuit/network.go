package circuit

import (
	"maps"

	"github.com/gatework-labs/gatesim/pkg/names"
)

// Network evaluates a registry's devices as a connected circuit, one cycle
// at a time.
type Network struct {
	reg *Registry
}

// NewNetwork returns a network over the devices in reg.
func NewNetwork(reg *Registry) *Network {
	return &Network{reg: reg}
}

// Registry returns the registry the network runs on.
func (n *Network) Registry() *Registry {
	return n.reg
}

// ExecuteCycle advances the circuit by one cycle: a combinational settle
// phase first, then the edge phase where stateful devices move. A failed
// cycle leaves no trace: connectivity is checked before anything mutates,
// and a settle that oscillates is rolled back.
func (n *Network) ExecuteCycle() error {
	if err := n.checkConnected(); err != nil {
		return err
	}
	snap := n.snapshot()
	if err := n.settle(); err != nil {
		n.restore(snap)
		return err
	}
	n.edge()
	return nil
}

// checkConnected verifies every required input pin has a source and returns
// a FloatingPinError for the first one that does not, scanning devices in
// creation order and pins in declared order.
func (n *Network) checkConnected() error {
	for _, d := range n.reg.Devices() {
		for _, pin := range n.reg.RequiredInputs(d) {
			if _, ok := d.Inputs[pin]; !ok {
				return &FloatingPinError{
					Device: n.reg.tbl.MustText(d.ID),
					Pin:    n.reg.tbl.MustText(pin),
				}
			}
		}
	}
	return nil
}

func (n *Network) snapshot() []map[names.ID]bool {
	devs := n.reg.Devices()
	snap := make([]map[names.ID]bool, len(devs))
	for i, d := range devs {
		snap[i] = maps.Clone(d.Outputs)
	}
	return snap
}

// restore puts back the outputs saved by snapshot. Internal device state
// needs no restoring: only the edge phase mutates it, and the edge phase
// never runs on a failed settle.
func (n *Network) restore(snap []map[names.ID]bool) {
	for i, d := range n.reg.Devices() {
		d.Outputs = snap[i]
	}
}

// settle recomputes gate outputs in full sweeps until none changes. The
// pass bound is generous for any loop-free circuit, so reaching it means a
// zero-delay combinational loop.
func (n *Network) settle() error {
	devs := n.reg.Devices()
	maxPasses := 2*len(devs) + 10
	for pass := 0; pass < maxPasses; pass++ {
		if !n.sweep(devs) {
			return nil
		}
	}
	return &OscillationError{Passes: maxPasses, Unstable: n.unstable(devs)}
}

// sweep evaluates every gate once in creation order and reports whether any
// output moved.
func (n *Network) sweep(devs []*Device) bool {
	changed := false
	for _, d := range devs {
		if n.evalGate(d) {
			changed = true
		}
	}
	return changed
}

// evalGate recomputes a combinational device's output from the current
// levels on its inputs and reports whether it changed. Other kinds hold
// their output constant within a cycle; the edge phase owns them.
func (n *Network) evalGate(d *Device) bool {
	var out bool
	switch d.Kind {
	case KindAnd:
		out = n.allInputs(d)
	case KindNand:
		out = !n.allInputs(d)
	case KindOr:
		out = n.anyInput(d)
	case KindNor:
		out = !n.anyInput(d)
	case KindXor:
		out = n.level(d, n.reg.gatePins[0]) != n.level(d, n.reg.gatePins[1])
	default:
		return false
	}
	if d.Outputs[names.NoID] == out {
		return false
	}
	d.Outputs[names.NoID] = out
	return true
}

func (n *Network) allInputs(d *Device) bool {
	for _, pin := range n.reg.gatePins[:d.NumInputs] {
		if !n.level(d, pin) {
			return false
		}
	}
	return true
}

func (n *Network) anyInput(d *Device) bool {
	for _, pin := range n.reg.gatePins[:d.NumInputs] {
		if n.level(d, pin) {
			return true
		}
	}
	return false
}

// level reads the level driving an input pin of d. checkConnected has
// already verified the source exists.
func (n *Network) level(d *Device, pin names.ID) bool {
	src := d.Inputs[pin]
	return n.reg.devices[src.Device].Outputs[src.Pin]
}

// unstable runs one more sweep and lists the devices whose outputs are
// still moving. The extra mutation is fine: the caller restores the
// snapshot on the error path.
func (n *Network) unstable(devs []*Device) []string {
	var out []string
	for _, d := range devs {
		if n.evalGate(d) {
			out = append(out, n.reg.tbl.MustText(d.ID))
		}
	}
	return out
}

// edge applies the per-cycle state transitions after the network has
// settled. DTYPE latches are computed from the settled values first and
// applied together, so flip-flop chains shift one stage per cycle. Clocks,
// RC timers, and signal generators advance afterwards; their new outputs
// are first seen by the next cycle's settle.
func (n *Network) edge() {
	devs := n.reg.Devices()

	type latch struct {
		d       *Device
		memQ    bool
		lastClk bool
	}
	var latches []latch
	for _, d := range devs {
		if d.Kind != KindDType {
			continue
		}
		clk := n.level(d, n.reg.pinClk)
		next := latch{d: d, memQ: d.memQ, lastClk: clk}
		switch {
		case n.level(d, n.reg.pinSet):
			next.memQ = true
		case n.level(d, n.reg.pinClear):
			next.memQ = false
		case clk && !d.lastClk:
			next.memQ = n.level(d, n.reg.pinData)
		}
		latches = append(latches, next)
	}
	for _, l := range latches {
		l.d.memQ = l.memQ
		l.d.lastClk = l.lastClk
		l.d.Outputs[n.reg.pinQ] = l.memQ
		l.d.Outputs[n.reg.pinQBar] = !l.memQ
	}

	for _, d := range devs {
		switch d.Kind {
		case KindClock:
			d.counter++
			if d.counter >= d.Period {
				d.counter = 0
				d.Outputs[names.NoID] = !d.Outputs[names.NoID]
			}
		case KindRC:
			if d.remaining > 0 {
				d.remaining--
				if d.remaining == 0 {
					d.Outputs[names.NoID] = false
				}
			}
		case KindSigGen:
			d.Outputs[names.NoID] = d.Waveform[d.cursor]
			d.cursor = (d.cursor + 1) % len(d.Waveform)
		}
	}
}
