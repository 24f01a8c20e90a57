package token

import "testing"

func TestLookupName(t *testing.T) {
	tests := []struct {
		ident string
		want  Type
	}{
		{"DEVICES", DEVICES},
		{"END", END},
		{"NAND", NAND},
		{"SIGGEN", SIGGEN},
		{"devices", NAME},
		{"Nand", NAME},
		{"clk1", NAME},
		{"Q", NAME},
	}
	for _, tt := range tests {
		if got := LookupName(tt.ident); got != tt.want {
			t.Errorf("LookupName(%q) = %v, want %v", tt.ident, got, tt.want)
		}
	}
}

func TestTypePredicates(t *testing.T) {
	for _, k := range []Type{CLOCK, SWITCH, AND, NAND, OR, NOR, XOR, DTYPE, RC, SIGGEN} {
		if !k.IsKind() {
			t.Errorf("%v: expected IsKind", k)
		}
		if k.IsSection() {
			t.Errorf("%v: kind keyword must not be a section keyword", k)
		}
	}
	for _, s := range []Type{DEVICES, CONNECT, MONITOR, END} {
		if !s.IsSection() {
			t.Errorf("%v: expected IsSection", s)
		}
		if s.IsKind() {
			t.Errorf("%v: section keyword must not be a kind keyword", s)
		}
	}
	for _, other := range []Type{EOF, ILLEGAL, NAME, NUMBER, SEMICOLON, ARROW} {
		if other.IsKind() || other.IsSection() {
			t.Errorf("%v: expected neither kind nor section", other)
		}
	}
}

func TestTypeString(t *testing.T) {
	if got := SEMICOLON.String(); got != ";" {
		t.Errorf("SEMICOLON.String() = %q", got)
	}
	if got := DTYPE.String(); got != "DTYPE" {
		t.Errorf("DTYPE.String() = %q", got)
	}
	if got := Type(999).String(); got != "token(999)" {
		t.Errorf("unknown type String() = %q", got)
	}
}
