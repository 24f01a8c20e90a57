// Package circuit models a network of logic devices: creating them,
// connecting them, stepping the network one cycle at a time, and recording
// monitored signals.
//
// The device set is closed. Behavior is dispatched by exhaustive switches on
// Kind rather than through an interface, so every simulation rule for a kind
// lives in one arm and the compiler-visible case list matches the language's
// device keywords.
package circuit

// Kind identifies what a device is and how it behaves.
type Kind uint8

const (
	KindSwitch Kind = iota
	KindClock
	KindAnd
	KindNand
	KindOr
	KindNor
	KindXor
	KindDType
	KindRC
	KindSigGen
)

var kindNames = map[Kind]string{
	KindSwitch: "SWITCH",
	KindClock:  "CLOCK",
	KindAnd:    "AND",
	KindNand:   "NAND",
	KindOr:     "OR",
	KindNor:    "NOR",
	KindXor:    "XOR",
	KindDType:  "DTYPE",
	KindRC:     "RC",
	KindSigGen: "SIGGEN",
}

// String returns the device keyword for k, as written in source.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "KIND?"
}

// IsGate reports whether k computes its output combinationally from its
// input pins. Gates settle within a cycle; every other kind only changes
// output at the cycle edge.
func (k Kind) IsGate() bool {
	switch k {
	case KindAnd, KindNand, KindOr, KindNor, KindXor:
		return true
	default:
		return false
	}
}

// HasParam reports whether devices of kind k take a parameter in source.
func (k Kind) HasParam() bool {
	switch k {
	case KindDType, KindXor:
		return false
	default:
		return true
	}
}
