package parser

import (
	"fmt"

	"github.com/gatework-labs/gatesim/pkg/token"
)

// Severity grades a diagnostic. Errors make the build fail; warnings do not.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one problem found while building a circuit, tied to the
// source position of the offending token.
type Diagnostic struct {
	Severity Severity
	Pos      token.Position
	Message  string
}

// Error implements the error interface so a diagnostic can travel as one.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s at line %d, column %d: %s", d.Severity, d.Pos.Line, d.Pos.Column, d.Message)
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Diagnostic message formats.
const (
	ErrUnexpectedToken  = "unexpected %s, expected %s"
	ErrEmptySection     = "%s section must not be empty"
	ErrTrailingInput    = "unexpected %s after END;"
	ErrLeadingZero      = "number must not start with 0"
	ErrDuplicateDevice  = "device %s is already defined"
	ErrUndefinedDevice  = "device %s is not defined"
	ErrNoInputPin       = "device %s has no input pin %s"
	ErrNoOutputPin      = "device %s has no output pin %s"
	ErrAmbiguousOutput  = "device %s has two outputs; name .Q or .QBAR"
	ErrInputConnected   = "input %s is already connected; the first connection stands"
	ErrDuplicateMonitor = "%s is already monitored"
)

// describe renders a token for a diagnostic message.
func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of file"
	case token.ILLEGAL:
		return fmt.Sprintf("illegal character %q", tok.Literal)
	case token.NAME:
		return fmt.Sprintf("name %q", tok.Literal)
	case token.NUMBER:
		return fmt.Sprintf("number %q", tok.Literal)
	default:
		return fmt.Sprintf("%q", tok.Literal)
	}
}
