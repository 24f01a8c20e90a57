package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/gatework-labs/gatesim/pkg/parser"
	"github.com/gatework-labs/gatesim/pkg/sim"
)

// ANSI escapes used for severity and pass/fail highlighting. Taken from the
// table renderer's text package so the two stay in step.
var (
	ansiRed    = text.FgRed.EscapeSeq()
	ansiGreen  = text.FgGreen.EscapeSeq()
	ansiYellow = text.FgYellow.EscapeSeq()
	ansiReset  = text.Reset.EscapeSeq()
)

// renderDiagnostics prints build diagnostics, colored by severity.
func renderDiagnostics(w io.Writer, diags []parser.Diagnostic, color bool) {
	for _, d := range diags {
		line := d.Error()
		if color {
			code := ansiYellow
			if d.Severity == parser.SeverityError {
				code = ansiRed
			}
			line = code + line + ansiReset
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

// traceReport is the JSON shape of a simulation run.
type traceReport struct {
	RunID   string        `json:"run_id,omitempty"`
	Cycles  int           `json:"cycles"`
	Signals []traceSignal `json:"signals"`
}

type traceSignal struct {
	Signal  string `json:"signal"`
	Offset  int    `json:"offset,omitempty"`
	Samples []int  `json:"samples"`
}

// renderTraces writes recorded traces in the requested format.
func renderTraces(w io.Writer, runID string, cycles int, traces []sim.Trace, format string) error {
	switch format {
	case "json":
		return renderTracesJSON(w, runID, cycles, traces)
	case "csv":
		return renderTracesCSV(w, cycles, traces)
	case "table":
		renderTracesTable(w, cycles, traces, false)
	case "md", "markdown":
		renderTracesTable(w, cycles, traces, true)
	default:
		renderTracesWave(w, traces)
	}
	return nil
}

// waveString draws one trace as a horizontal waveform, one character per
// cycle: '-' for high, '_' for low, spaces before the monitor was added.
func waveString(tr sim.Trace) string {
	var b strings.Builder
	b.Grow(tr.Offset + len(tr.Samples))
	for i := 0; i < tr.Offset; i++ {
		b.WriteByte(' ')
	}
	for _, high := range tr.Samples {
		if high {
			b.WriteByte('-')
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func renderTracesWave(w io.Writer, traces []sim.Trace) {
	if len(traces) == 0 {
		_, _ = fmt.Fprintln(w, "(no monitors)")
		return
	}
	width := 0
	for _, tr := range traces {
		if len(tr.Signal) > width {
			width = len(tr.Signal)
		}
	}
	for _, tr := range traces {
		_, _ = fmt.Fprintf(w, "%-*s  %s\n", width, tr.Signal, waveString(tr))
	}
}

// sampleCell returns "0" or "1" for cycle c (1-based), or "" for cycles
// before the monitor was registered.
func sampleCell(tr sim.Trace, c int) string {
	i := c - 1 - tr.Offset
	if i < 0 || i >= len(tr.Samples) {
		return ""
	}
	if tr.Samples[i] {
		return "1"
	}
	return "0"
}

func renderTracesTable(w io.Writer, cycles int, traces []sim.Trace, markdown bool) {
	if len(traces) == 0 {
		_, _ = fmt.Fprintln(w, "(no monitors)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, 0, len(traces)+1)
	header = append(header, "cycle")
	for _, tr := range traces {
		header = append(header, tr.Signal)
	}
	t.AppendHeader(header)

	for c := 1; c <= cycles; c++ {
		row := make(table.Row, 0, len(traces)+1)
		row = append(row, c)
		for _, tr := range traces {
			row = append(row, sampleCell(tr, c))
		}
		t.AppendRow(row)
	}

	if markdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}

func renderTracesCSV(w io.Writer, cycles int, traces []sim.Trace) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(traces)+1)
	header = append(header, "cycle")
	for _, tr := range traces {
		header = append(header, tr.Signal)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for c := 1; c <= cycles; c++ {
		rec := make([]string, 0, len(traces)+1)
		rec = append(rec, strconv.Itoa(c))
		for _, tr := range traces {
			rec = append(rec, sampleCell(tr, c))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func renderTracesJSON(w io.Writer, runID string, cycles int, traces []sim.Trace) error {
	report := traceReport{RunID: runID, Cycles: cycles, Signals: []traceSignal{}}
	for _, tr := range traces {
		sig := traceSignal{
			Signal:  tr.Signal,
			Offset:  tr.Offset,
			Samples: make([]int, 0, len(tr.Samples)),
		}
		for _, high := range tr.Samples {
			if high {
				sig.Samples = append(sig.Samples, 1)
			} else {
				sig.Samples = append(sig.Samples, 0)
			}
		}
		report.Signals = append(report.Signals, sig)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
