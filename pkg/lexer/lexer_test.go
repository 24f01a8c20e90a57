package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatework-labs/gatesim/pkg/names"
	"github.com/gatework-labs/gatesim/pkg/token"
)

func TestNextToken_DeviceLine(t *testing.T) {
	input := "DEVICES: CLOCK clk 10, SWITCH sw1 0;"

	expected := []struct {
		typ token.Type
		lit string
	}{
		{token.DEVICES, "DEVICES"},
		{token.COLON, ":"},
		{token.CLOCK, "CLOCK"},
		{token.NAME, "clk"},
		{token.NUMBER, "10"},
		{token.COMMA, ","},
		{token.SWITCH, "SWITCH"},
		{token.NAME, "sw1"},
		{token.NUMBER, "0"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	}

	toks := Tokenize(names.NewTable(), input)
	require.Len(t, toks, len(expected))
	for i, want := range expected {
		assert.Equal(t, want.typ, toks[i].Type, "token %d type", i)
		assert.Equal(t, want.lit, toks[i].Literal, "token %d literal", i)
	}
}

func TestNextToken_Positions(t *testing.T) {
	input := "DEVICES:\n  a1 > b.I1\n"

	expected := []struct {
		typ          token.Type
		line, column int
		offset       int
	}{
		{token.DEVICES, 1, 1, 0},
		{token.COLON, 1, 8, 7},
		{token.NAME, 2, 3, 11},
		{token.ARROW, 2, 6, 14},
		{token.NAME, 2, 8, 16},
		{token.DOT, 2, 9, 17},
		{token.NAME, 2, 10, 18},
		{token.EOF, 3, 1, 21},
	}

	toks := Tokenize(names.NewTable(), input)
	require.Len(t, toks, len(expected))
	for i, want := range expected {
		require.Equal(t, want.typ, toks[i].Type, "token %d type", i)
		assert.Equal(t, want.line, toks[i].Pos.Line, "token %d line", i)
		assert.Equal(t, want.column, toks[i].Pos.Column, "token %d column", i)
		assert.Equal(t, want.offset, toks[i].Pos.Offset, "token %d offset", i)
	}
}

func TestNextToken_LineComment(t *testing.T) {
	input := "AND a1 2 # two-input gate\n, OR o1 3"

	toks := Tokenize(names.NewTable(), input)
	var types []token.Type
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []token.Type{
		token.AND, token.NAME, token.NUMBER,
		token.COMMA, token.OR, token.NAME, token.NUMBER,
		token.EOF,
	}, types)
}

func TestNextToken_BlockComment(t *testing.T) {
	input := "NAND ! spans\nseveral\nlines ! n1 2"

	toks := Tokenize(names.NewTable(), input)
	require.Len(t, toks, 4)
	assert.Equal(t, token.NAND, toks[0].Type)
	assert.Equal(t, token.NAME, toks[1].Type)
	assert.Equal(t, "n1", toks[1].Literal)
	assert.Equal(t, 3, toks[1].Pos.Line, "names after the comment keep real line numbers")
	assert.Equal(t, token.NUMBER, toks[2].Type)
}

func TestNextToken_UnterminatedBlockComment(t *testing.T) {
	input := "XOR x1 ! never closed"

	toks := Tokenize(names.NewTable(), input)
	require.Len(t, toks, 3)
	assert.Equal(t, token.XOR, toks[0].Type)
	assert.Equal(t, token.NAME, toks[1].Type)
	assert.Equal(t, token.EOF, toks[2].Type)
}

func TestNextToken_IllegalCharacter(t *testing.T) {
	input := "a ? b"

	toks := Tokenize(names.NewTable(), input)
	require.Len(t, toks, 4)
	assert.Equal(t, token.ILLEGAL, toks[1].Type)
	assert.Equal(t, "?", toks[1].Literal)
	assert.Equal(t, token.NAME, toks[2].Type, "lexing continues past an illegal character")
}

func TestNextToken_LeadingUnderscore(t *testing.T) {
	toks := Tokenize(names.NewTable(), "_x a_b")
	require.Len(t, toks, 4)
	assert.Equal(t, token.ILLEGAL, toks[0].Type)
	assert.Equal(t, "_", toks[0].Literal)
	assert.Equal(t, "x", toks[1].Literal)
	assert.Equal(t, "a_b", toks[2].Literal, "underscores are legal after the first letter")
}

func TestNextToken_KeywordsAreCaseSensitive(t *testing.T) {
	toks := Tokenize(names.NewTable(), "CLOCK clock Clock")
	require.Len(t, toks, 4)
	assert.Equal(t, token.CLOCK, toks[0].Type)
	assert.Equal(t, token.NAME, toks[1].Type)
	assert.Equal(t, token.NAME, toks[2].Type)
}

func TestNextToken_NameInterning(t *testing.T) {
	tbl := names.NewTable()
	toks := Tokenize(tbl, "CLOCK clk, clk")

	require.Len(t, toks, 5)
	assert.Equal(t, -1, toks[0].ID, "keywords carry no id")
	assert.GreaterOrEqual(t, toks[1].ID, 0)
	assert.Equal(t, toks[1].ID, toks[3].ID, "equal names carry equal ids")
	assert.Equal(t, names.ID(toks[1].ID), tbl.Query("clk"))
}

func TestNextToken_NumberLiteralVerbatim(t *testing.T) {
	toks := Tokenize(names.NewTable(), "0110 007")
	require.Len(t, toks, 3)
	assert.Equal(t, "0110", toks[0].Literal)
	assert.Equal(t, "007", toks[1].Literal)
}

func TestNextToken_EOFForever(t *testing.T) {
	l := New(names.NewTable(), ";")
	require.Equal(t, token.SEMICOLON, l.NextToken().Type)
	for i := 0; i < 3; i++ {
		assert.Equal(t, token.EOF, l.NextToken().Type)
	}
}
