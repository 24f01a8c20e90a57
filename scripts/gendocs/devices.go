package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gatework-labs/gatesim/pkg/circuit"
	"github.com/gatework-labs/gatesim/pkg/names"
)

// deviceEntry pairs a device kind with the documentation that cannot be
// derived from the registry: what the parameter means and how the device
// behaves over time.
type deviceEntry struct {
	Kind        circuit.Kind
	Param       string // parameter meaning, empty for kinds without one
	SampleParam string // valid parameter used to build the probe device
	Description string
}

// deviceCatalog lists every device kind in keyword order. Pin names come
// from the registry itself, so the generated table cannot drift from the
// simulator.
func deviceCatalog() []deviceEntry {
	return []deviceEntry{
		{circuit.KindSwitch, "initial level, 0 or 1", "1",
			"Manually settable level source. A cold start restores the declared level."},
		{circuit.KindClock, "half period in cycles", "2",
			"Starts low and inverts its output every N cycles."},
		{circuit.KindAnd, "input count, 1 to 16", "2",
			"High while every input is high."},
		{circuit.KindNand, "input count, 1 to 16", "2",
			"Low while every input is high."},
		{circuit.KindOr, "input count, 1 to 16", "2",
			"High while any input is high."},
		{circuit.KindNor, "input count, 1 to 16", "2",
			"Low while any input is high."},
		{circuit.KindXor, "", "",
			"High while exactly one of its two inputs is high."},
		{circuit.KindDType, "", "",
			"Latches DATA into Q on a rising CLK edge. SET and CLEAR override asynchronously, SET winning when both are high."},
		{circuit.KindRC, "high time in cycles", "3",
			"One-shot power-on pulse: high for N cycles after a cold start, then low."},
		{circuit.KindSigGen, "waveform of 0s and 1s", "0110",
			"Emits the waveform one level per cycle and repeats it from the start."},
	}
}

// generateDeviceDocs generates the device reference page.
func generateDeviceDocs(outDir string) error {
	log.Printf("Generating device docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := generateDevicesPage(outDir); err != nil {
		return fmt.Errorf("failed to generate devices.md: %w", err)
	}
	log.Printf("  Generated devices.md")

	return nil
}

func generateDevicesPage(outDir string) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Devices", "Device reference for the gatesim circuit language")
	w.GeneratedMarker()

	w.Header(1, "Devices")
	w.Paragraph("Every device is declared in the DEVICES section as keyword, name, and parameter. Input pins are addressed as `name.PIN`; a device's single unnamed output is addressed by the bare device name, and the DTYPE outputs as `name.Q` and `name.QBAR`.")

	// Probe one device of each kind and read its pins back out of the
	// registry.
	tbl := names.NewTable()
	reg := circuit.NewRegistry(tbl)

	headers := []string{"Keyword", "Parameter", "Inputs", "Outputs", "Behavior"}
	var rows [][]string
	for i, e := range deviceCatalog() {
		d, err := reg.Create(e.Kind, tbl.Intern(fmt.Sprintf("probe%d", i)), e.SampleParam)
		if err != nil {
			return fmt.Errorf("probe device for %s: %w", e.Kind, err)
		}

		param := "-"
		if e.Param != "" {
			param = e.Param
		}
		rows = append(rows, []string{
			InlineCode(e.Kind.String()),
			param,
			inputPinList(reg, d),
			outputPinList(reg, d),
			cleanDescription(e.Description),
		})
	}
	w.Table(headers, rows)

	w.Header(2, "Cycle Timing")
	w.Paragraph("A cycle has two phases. First the gates settle: combinational outputs are recomputed until nothing changes. Then the edge phase runs: DTYPE devices latch against the clock levels of the settled network, and clocks, RC devices, and signal generators advance. A network that cannot settle fails the cycle and is rolled back.")

	w.Header(2, "Example")
	w.CodeBlock("gatesim", `DEVICES:
    CLOCK clk 2,
    SWITCH data 1,
    SWITCH lo 0,
    DTYPE ff;

CONNECT:
    data > ff.DATA,
    clk > ff.CLK,
    lo > ff.SET,
    lo > ff.CLEAR;

MONITOR:
    clk,
    ff.Q;

END;`)

	filename := filepath.Join(outDir, "devices.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}

// inputPinList renders a device's required input pins. Gates with a
// parameter-driven input count are collapsed to the general form.
func inputPinList(reg *circuit.Registry, d *circuit.Device) string {
	if d.Kind.IsGate() && d.Kind.HasParam() {
		return "I1..In"
	}
	pins := reg.RequiredInputs(d)
	if len(pins) == 0 {
		return "-"
	}
	tbl := reg.Names()
	parts := make([]string, 0, len(pins))
	for _, p := range pins {
		parts = append(parts, tbl.MustText(p))
	}
	return strings.Join(parts, ", ")
}

// outputPinList renders a device's output pins, naming the unnamed single
// output the way source refers to it.
func outputPinList(reg *circuit.Registry, d *circuit.Device) string {
	tbl := reg.Names()
	parts := make([]string, 0, 2)
	for _, p := range reg.OutputPins(d) {
		if p == names.NoID {
			parts = append(parts, "(device name)")
			continue
		}
		parts = append(parts, tbl.MustText(p))
	}
	return strings.Join(parts, ", ")
}
