// Package token defines the lexical symbols of the circuit description
// language.
package token

import "fmt"

// Type identifies the lexical class of a token.
type Type int

const (
	EOF Type = iota
	ILLEGAL

	NAME   // identifier: a letter followed by letters, digits, and underscores
	NUMBER // unsigned digit run; the literal is preserved verbatim

	COLON     // :
	SEMICOLON // ;
	COMMA     // ,
	DOT       // .
	ARROW     // >

	// Section keywords.
	DEVICES
	CONNECT
	MONITOR
	END

	// Device kind keywords.
	CLOCK
	SWITCH
	AND
	NAND
	OR
	NOR
	XOR
	DTYPE
	RC
	SIGGEN
)

// Token is one lexical symbol with its source position. Name tokens also
// carry the interned id of their literal.
type Token struct {
	Type    Type
	Literal string
	ID      int // names.ID of the literal for NAME tokens, -1 otherwise
	Pos     Position
}

// Position is a location in source text.
type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // 0-based byte offset
}

// String returns the position in "line L, column C" form.
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

var tokenNames = map[Type]string{
	EOF:       "end of file",
	ILLEGAL:   "illegal character",
	NAME:      "name",
	NUMBER:    "number",
	COLON:     ":",
	SEMICOLON: ";",
	COMMA:     ",",
	DOT:       ".",
	ARROW:     ">",
	DEVICES:   "DEVICES",
	CONNECT:   "CONNECT",
	MONITOR:   "MONITOR",
	END:       "END",
	CLOCK:     "CLOCK",
	SWITCH:    "SWITCH",
	AND:       "AND",
	NAND:      "NAND",
	OR:        "OR",
	NOR:       "NOR",
	XOR:       "XOR",
	DTYPE:     "DTYPE",
	RC:        "RC",
	SIGGEN:    "SIGGEN",
}

// String returns a human-readable form of the token type, suitable for
// diagnostics.
func (t Type) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// keywords maps reserved words to their token types. Only the uppercase
// spellings are reserved; lowercase forms are ordinary names.
var keywords = map[string]Type{
	"DEVICES": DEVICES,
	"CONNECT": CONNECT,
	"MONITOR": MONITOR,
	"END":     END,
	"CLOCK":   CLOCK,
	"SWITCH":  SWITCH,
	"AND":     AND,
	"NAND":    NAND,
	"OR":      OR,
	"NOR":     NOR,
	"XOR":     XOR,
	"DTYPE":   DTYPE,
	"RC":      RC,
	"SIGGEN":  SIGGEN,
}

// LookupName returns the keyword type for an identifier, or NAME if the
// identifier is not reserved.
func LookupName(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return NAME
}

// IsKind reports whether t is a device kind keyword.
func (t Type) IsKind() bool {
	return t >= CLOCK && t <= SIGGEN
}

// IsSection reports whether t opens or closes a section of a circuit
// description.
func (t Type) IsSection() bool {
	return t >= DEVICES && t <= END
}
