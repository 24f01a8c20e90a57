// Package names provides string interning shared by the lexer, parser, and
// circuit registries. Every device and pin name is interned once and referred
// to by its ID everywhere else, so identity checks are integer comparisons.
package names

import (
	"errors"
	"fmt"
)

// ID identifies an interned string. IDs are dense, start at zero, and are
// stable for the lifetime of the Table that issued them.
type ID int

// NoID marks the absence of a name, such as the unnamed output pin of a gate.
const NoID ID = -1

// ErrUnknownID is returned when an id was never issued by the table.
var ErrUnknownID = errors.New("unknown name id")

// Table interns strings to small integer ids with bidirectional lookup.
// A Table is not safe for concurrent use; each loaded circuit owns one.
type Table struct {
	ids   map[string]ID
	texts []string
}

// NewTable returns an empty interning table.
func NewTable() *Table {
	return &Table{ids: make(map[string]ID)}
}

// Intern returns the id for text, issuing a new one on first sight.
// Equal strings always map to the same id.
func (t *Table) Intern(text string) ID {
	if id, ok := t.ids[text]; ok {
		return id
	}
	id := ID(len(t.texts))
	t.ids[text] = id
	t.texts = append(t.texts, text)
	return id
}

// Lookup interns every string in texts and returns the ids in the same order.
func (t *Table) Lookup(texts ...string) []ID {
	ids := make([]ID, len(texts))
	for i, s := range texts {
		ids[i] = t.Intern(s)
	}
	return ids
}

// Query returns the id for text without interning it, or NoID if text has
// never been interned.
func (t *Table) Query(text string) ID {
	if id, ok := t.ids[text]; ok {
		return id
	}
	return NoID
}

// Text returns the string for id.
func (t *Table) Text(id ID) (string, error) {
	if id < 0 || int(id) >= len(t.texts) {
		return "", fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	return t.texts[int(id)], nil
}

// MustText returns the string for id and panics if the id was never issued.
// It is for ids that have already been validated, such as device ids held by
// a registry.
func (t *Table) MustText(id ID) string {
	text, err := t.Text(id)
	if err != nil {
		panic(err)
	}
	return text
}

// Len returns the number of interned strings.
func (t *Table) Len() int {
	return len(t.texts)
}
