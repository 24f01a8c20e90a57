// Package parser builds runnable circuits from source text.
//
// # Grammar Overview
//
//	circuit     = devices, connections, monitors, "END", ";"
//	devices     = "DEVICES", ":", device, {",", device}, ";"
//	connections = "CONNECT", ":", [connection, {",", connection}], ";"
//	monitors    = "MONITOR", ":", [signal, {",", signal}], ";"
//	connection  = signal, ">", name, ".", name
//	signal      = name, [".", name]
//
// Parsing is recursive descent with a single token of lookahead. A syntax
// error abandons the statement it occurred in and resynchronizes at the next
// comma, semicolon, or section keyword, so one pass reports the first
// problem of every malformed statement. Statements that parse cleanly are
// checked semantically and applied to the registries even when neighboring
// statements failed; the build is usable only if no error-severity
// diagnostic was produced.
//
// Semantic checks run in a fixed priority per statement and only the
// highest-priority problem is reported: duplicate device, undefined device,
// invalid pin, input already connected, invalid parameter. Monitoring the
// same signal twice is a warning, not an error.
package parser

import (
	"errors"
	"fmt"

	"github.com/gatework-labs/gatesim/pkg/circuit"
	"github.com/gatework-labs/gatesim/pkg/lexer"
	"github.com/gatework-labs/gatesim/pkg/names"
	"github.com/gatework-labs/gatesim/pkg/token"
)

// Result holds the registries of a successfully built circuit.
type Result struct {
	Devices  *circuit.Registry
	Network  *circuit.Network
	Monitors *circuit.MonitorSet
}

// Parser consumes a token stream and populates fresh circuit registries.
type Parser struct {
	lex *lexer.Lexer
	tbl *names.Table
	tok token.Token

	reg   *circuit.Registry
	mons  *circuit.MonitorSet
	diags []Diagnostic
}

// New creates a parser over source. Names are interned in tbl; the built
// registries share it.
func New(tbl *names.Table, source string) *Parser {
	p := &Parser{
		lex: lexer.New(tbl, source),
		tbl: tbl,
	}
	p.reg = circuit.NewRegistry(tbl)
	p.mons = circuit.NewMonitorSet(p.reg)
	p.nextToken()
	return p
}

// BuildNetwork parses source and builds a circuit over tbl. It returns the
// populated registries, every diagnostic in source order, and whether the
// build is usable: true only when no diagnostic is an error. On a failed
// build the Result is nil.
func BuildNetwork(tbl *names.Table, source string) (*Result, []Diagnostic, bool) {
	return New(tbl, source).Build()
}

// Build runs the parse. It must be called once.
func (p *Parser) Build() (*Result, []Diagnostic, bool) {
	p.parseCircuit()
	if HasErrors(p.diags) {
		return nil, p.diags, false
	}
	return &Result{
		Devices:  p.reg,
		Network:  circuit.NewNetwork(p.reg),
		Monitors: p.mons,
	}, p.diags, true
}

// ---------- Token Helpers ----------

func (p *Parser) nextToken() {
	p.tok = p.lex.NextToken()
}

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	p.diags = append(p.diags, Diagnostic{
		Severity: SeverityError,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (p *Parser) warnf(pos token.Position, format string, args ...any) {
	p.diags = append(p.diags, Diagnostic{
		Severity: SeverityWarning,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
	})
}

// syntaxError records an unexpected-token error at the current token.
func (p *Parser) syntaxError(expected string) {
	p.errorf(p.tok.Pos, ErrUnexpectedToken, describe(p.tok), expected)
}

// ---------- Recovery ----------

// syncStatement discards tokens after a malformed statement. It stops past
// a comma, ready for the next statement, and reports true; it stops at a
// semicolon, section keyword, or EOF without consuming and reports false.
func (p *Parser) syncStatement() bool {
	for {
		switch {
		case p.tok.Type == token.COMMA:
			p.nextToken()
			return true
		case p.tok.Type == token.SEMICOLON || p.tok.Type == token.EOF || p.tok.Type.IsSection():
			return false
		default:
			p.nextToken()
		}
	}
}

// skipToSection discards tokens until kw is current and reports true. It
// gives up at EOF or at any other section keyword, which then stays current.
func (p *Parser) skipToSection(kw token.Type) bool {
	for {
		switch {
		case p.tok.Type == kw:
			return true
		case p.tok.Type == token.EOF || p.tok.Type.IsSection():
			return false
		default:
			p.nextToken()
		}
	}
}

// ---------- Sections ----------

func (p *Parser) parseCircuit() {
	p.parseSection(token.DEVICES, false, p.parseDevice)
	p.parseSection(token.CONNECT, true, p.parseConnection)
	p.parseSection(token.MONITOR, true, p.parseMonitor)
	p.parseEnd()
}

// parseSection parses one "KEYWORD: stmt, stmt, ... ;" section. Statements
// are separated by commas; the section ends at its semicolon. A section
// keyword seen early ends the section too, so a missing semicolon costs one
// error instead of derailing the next section.
func (p *Parser) parseSection(kw token.Type, allowEmpty bool, stmt func() bool) {
	if p.tok.Type != kw {
		p.syntaxError(kw.String())
		if !p.skipToSection(kw) {
			return
		}
	}
	p.nextToken()
	if p.tok.Type == token.COLON {
		p.nextToken()
	} else {
		p.syntaxError(`":"`)
	}

	if p.tok.Type == token.SEMICOLON {
		if !allowEmpty {
			p.errorf(p.tok.Pos, ErrEmptySection, kw)
		}
		p.nextToken()
		return
	}

	for {
		if !stmt() {
			if p.syncStatement() {
				continue
			}
			break
		}
		if p.tok.Type == token.COMMA {
			p.nextToken()
			continue
		}
		if p.tok.Type == token.SEMICOLON || p.tok.Type == token.EOF || p.tok.Type.IsSection() {
			break
		}
		p.syntaxError(`"," or ";"`)
		if !p.syncStatement() {
			break
		}
	}

	if p.tok.Type == token.SEMICOLON {
		p.nextToken()
	} else {
		p.syntaxError(`";"`)
	}
}

func (p *Parser) parseEnd() {
	if p.tok.Type != token.END {
		p.syntaxError("END")
		if !p.skipToSection(token.END) {
			return
		}
	}
	p.nextToken()
	if p.tok.Type != token.SEMICOLON {
		p.syntaxError(`";"`)
		return
	}
	p.nextToken()
	if p.tok.Type != token.EOF {
		p.errorf(p.tok.Pos, ErrTrailingInput, describe(p.tok))
	}
}

// ---------- Devices ----------

// parseDevice parses one device declaration and, if it is syntactically
// sound, applies it to the registry. The duplicate-name check runs before
// parameter validation so a statement reports its dominant problem only.
func (p *Parser) parseDevice() bool {
	if !p.tok.Type.IsKind() {
		p.syntaxError("a device kind (CLOCK, SWITCH, AND, NAND, OR, NOR, XOR, DTYPE, RC, SIGGEN)")
		return false
	}
	kind := deviceKind(p.tok.Type)
	p.nextToken()

	if p.tok.Type != token.NAME {
		p.syntaxError("a device name")
		return false
	}
	nameTok := p.tok
	p.nextToken()

	var paramTok token.Token
	param := ""
	if kind.HasParam() {
		if p.tok.Type != token.NUMBER {
			p.syntaxError(paramHint(kind))
			return false
		}
		paramTok = p.tok
		if kind != circuit.KindSigGen && len(paramTok.Literal) > 1 && paramTok.Literal[0] == '0' {
			p.errorf(paramTok.Pos, ErrLeadingZero)
			return false
		}
		param = paramTok.Literal
		p.nextToken()
	}

	name := names.ID(nameTok.ID)
	if _, exists := p.reg.Get(name); exists {
		p.errorf(nameTok.Pos, ErrDuplicateDevice, nameTok.Literal)
		return true
	}
	if _, err := p.reg.Create(kind, name, param); err != nil {
		pos := nameTok.Pos
		if kind.HasParam() {
			pos = paramTok.Pos
		}
		p.errorf(pos, "%s", err)
		return true
	}
	return true
}

func deviceKind(t token.Type) circuit.Kind {
	switch t {
	case token.CLOCK:
		return circuit.KindClock
	case token.SWITCH:
		return circuit.KindSwitch
	case token.AND:
		return circuit.KindAnd
	case token.NAND:
		return circuit.KindNand
	case token.OR:
		return circuit.KindOr
	case token.NOR:
		return circuit.KindNor
	case token.XOR:
		return circuit.KindXor
	case token.DTYPE:
		return circuit.KindDType
	case token.RC:
		return circuit.KindRC
	default:
		return circuit.KindSigGen
	}
}

func paramHint(kind circuit.Kind) string {
	switch kind {
	case circuit.KindSwitch:
		return "a switch level (0 or 1)"
	case circuit.KindClock, circuit.KindRC:
		return "a period"
	case circuit.KindSigGen:
		return "a waveform of 0s and 1s"
	default:
		return "an input count (1 to 16)"
	}
}

// ---------- Connections ----------

// signal is a parsed "name" or "name.pin" reference.
type signal struct {
	dev    token.Token
	pin    token.Token
	hasPin bool
}

func (p *Parser) parseSignal(what string) (signal, bool) {
	var s signal
	if p.tok.Type != token.NAME {
		p.syntaxError(what)
		return s, false
	}
	s.dev = p.tok
	p.nextToken()
	if p.tok.Type == token.DOT {
		p.nextToken()
		if p.tok.Type != token.NAME {
			p.syntaxError("a pin name")
			return s, false
		}
		s.pin = p.tok
		s.hasPin = true
		p.nextToken()
	}
	return s, true
}

func (s signal) pinID() names.ID {
	if !s.hasPin {
		return names.NoID
	}
	return names.ID(s.pin.ID)
}

func (p *Parser) parseConnection() bool {
	src, ok := p.parseSignal("a source device name")
	if !ok {
		return false
	}
	if p.tok.Type != token.ARROW {
		p.syntaxError(`">"`)
		return false
	}
	p.nextToken()
	dst, ok := p.parseSignal("a target device name")
	if !ok {
		return false
	}
	if !dst.hasPin {
		p.syntaxError(`"." and an input pin`)
		return false
	}

	srcDev, found := p.reg.Get(names.ID(src.dev.ID))
	if !found {
		p.errorf(src.dev.Pos, ErrUndefinedDevice, src.dev.Literal)
		return true
	}
	dstDev, found := p.reg.Get(names.ID(dst.dev.ID))
	if !found {
		p.errorf(dst.dev.Pos, ErrUndefinedDevice, dst.dev.Literal)
		return true
	}
	if !p.reg.ValidOutput(srcDev, src.pinID()) {
		if src.hasPin {
			p.errorf(src.pin.Pos, ErrNoOutputPin, src.dev.Literal, src.pin.Literal)
		} else {
			p.errorf(src.dev.Pos, ErrAmbiguousOutput, src.dev.Literal)
		}
		return true
	}
	if !p.reg.ValidInput(dstDev, dst.pinID()) {
		p.errorf(dst.pin.Pos, ErrNoInputPin, dst.dev.Literal, dst.pin.Literal)
		return true
	}
	if err := p.reg.Connect(srcDev.ID, src.pinID(), dstDev.ID, dst.pinID()); err != nil {
		if errors.Is(err, circuit.ErrPinConnected) {
			p.errorf(dst.pin.Pos, ErrInputConnected, p.reg.SignalName(dstDev.ID, dst.pinID()))
		} else {
			p.errorf(dst.pin.Pos, "%s", err)
		}
		return true
	}
	return true
}

// ---------- Monitors ----------

func (p *Parser) parseMonitor() bool {
	sig, ok := p.parseSignal("a device name")
	if !ok {
		return false
	}
	dev, found := p.reg.Get(names.ID(sig.dev.ID))
	if !found {
		p.errorf(sig.dev.Pos, ErrUndefinedDevice, sig.dev.Literal)
		return true
	}
	if !p.reg.ValidOutput(dev, sig.pinID()) {
		if sig.hasPin {
			p.errorf(sig.pin.Pos, ErrNoOutputPin, sig.dev.Literal, sig.pin.Literal)
		} else {
			p.errorf(sig.dev.Pos, ErrAmbiguousOutput, sig.dev.Literal)
		}
		return true
	}
	if err := p.mons.Add(circuit.Point{Device: dev.ID, Pin: sig.pinID()}); err != nil {
		if errors.Is(err, circuit.ErrMonitorExists) {
			p.warnf(sig.dev.Pos, ErrDuplicateMonitor, p.reg.SignalName(dev.ID, sig.pinID()))
		} else {
			p.errorf(sig.dev.Pos, "%s", err)
		}
	}
	return true
}
