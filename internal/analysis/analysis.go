// Package analysis runs static checks over a built circuit: input pins
// nobody drives and combinational loops that can never settle. The checks
// need no simulation, so a front end can flag a doomed circuit before
// running it.
package analysis

import (
	"github.com/gatework-labs/gatesim/pkg/circuit"
	"github.com/gatework-labs/gatesim/pkg/names"
)

// PinRef names one device input pin.
type PinRef struct {
	Device string
	Pin    string
}

// Report holds everything Inspect found.
type Report struct {
	// Floating lists unconnected input pins, devices in creation order and
	// pins in declared order. The network refuses to run while any exist.
	Floating []PinRef

	// Loops lists combinational cycles: closed gate paths where a signal
	// feeds back into itself without passing a flip-flop. Each path starts
	// and ends with the same gate. These settle only by luck of their
	// stable states; an odd inversion count oscillates.
	Loops [][]string
}

// Clean reports whether nothing was found.
func (r *Report) Clean() bool {
	return len(r.Floating) == 0 && len(r.Loops) == 0
}

// Inspect checks every device in reg. A cycle through a DTYPE is sequential
// feedback and legal; only pure gate loops are reported.
func Inspect(reg *circuit.Registry) *Report {
	rep := &Report{}
	tbl := reg.Names()

	for _, d := range reg.Devices() {
		for _, pin := range reg.RequiredInputs(d) {
			if _, ok := d.Inputs[pin]; !ok {
				rep.Floating = append(rep.Floating, PinRef{
					Device: tbl.MustText(d.ID),
					Pin:    tbl.MustText(pin),
				})
			}
		}
	}

	rep.Loops = gateLoops(reg)
	return rep
}

// gateLoops runs a DFS over the gate-to-gate subgraph in device creation
// order. One loop is reported per back edge: distinct loops are all found,
// and a single loop is not re-reported from every gate on it.
func gateLoops(reg *circuit.Registry) [][]string {
	tbl := reg.Names()

	succ := make(map[names.ID][]names.ID)
	seen := make(map[[2]names.ID]bool)
	var gates []names.ID
	for _, d := range reg.Devices() {
		if !d.Kind.IsGate() {
			continue
		}
		gates = append(gates, d.ID)
		for _, pin := range reg.RequiredInputs(d) {
			src, ok := d.Inputs[pin]
			if !ok {
				continue
			}
			from, found := reg.Get(src.Device)
			if !found || !from.Kind.IsGate() {
				continue
			}
			edge := [2]names.ID{from.ID, d.ID}
			if !seen[edge] {
				seen[edge] = true
				succ[from.ID] = append(succ[from.ID], d.ID)
			}
		}
	}

	visited := make(map[names.ID]bool)
	onStack := make(map[names.ID]bool)
	path := make(map[names.ID]names.ID) // child -> parent in the DFS tree
	var loops [][]string

	var dfs func(id names.ID)
	dfs = func(id names.ID) {
		visited[id] = true
		onStack[id] = true
		for _, next := range succ[id] {
			if !visited[next] {
				path[next] = id
				dfs(next)
			} else if onStack[next] {
				loop := []string{tbl.MustText(next)}
				for cur := id; cur != next; cur = path[cur] {
					loop = append([]string{tbl.MustText(cur)}, loop...)
				}
				loop = append([]string{tbl.MustText(next)}, loop...)
				loops = append(loops, loop)
			}
		}
		onStack[id] = false
	}

	for _, id := range gates {
		if !visited[id] {
			dfs(id)
		}
	}
	return loops
}
