// Package lexer turns circuit description source into a stream of tokens.
//
// The lexer is lazy: callers pull one token at a time with NextToken, and no
// input is examined before the parser asks for it. Two comment forms are
// skipped as whitespace: "#" to the end of the line, and "!" to the next "!".
package lexer

import (
	"github.com/gatework-labs/gatesim/pkg/names"
	"github.com/gatework-labs/gatesim/pkg/token"
)

// Lexer tokenizes circuit description input.
type Lexer struct {
	tbl     *names.Table
	input   string
	pos     int  // current position in input
	readPos int  // next position to read
	ch      byte // current character, 0 at end of input
	line    int
	col     int
}

// New creates a lexer over input. Name literals are interned in tbl as they
// are read, so tokens of equal names carry equal ids.
func New(tbl *names.Table, input string) *Lexer {
	l := &Lexer{tbl: tbl, input: input, line: 1}
	l.readChar()
	return l
}

// Tokenize scans all of input and returns every token up to and including
// EOF. It is a convenience for tests and tools; the parser pulls tokens
// lazily instead.
func Tokenize(tbl *names.Table, input string) []token.Token {
	l := New(tbl, input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

// NextToken returns the next token in the input. After the input is
// exhausted it returns EOF tokens forever.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()
	switch l.ch {
	case 0:
		return newToken(token.EOF, "", pos)
	case ':':
		l.readChar()
		return newToken(token.COLON, ":", pos)
	case ';':
		l.readChar()
		return newToken(token.SEMICOLON, ";", pos)
	case ',':
		l.readChar()
		return newToken(token.COMMA, ",", pos)
	case '.':
		l.readChar()
		return newToken(token.DOT, ".", pos)
	case '>':
		l.readChar()
		return newToken(token.ARROW, ">", pos)
	}

	switch {
	case isLetter(l.ch):
		lit := l.readIdentifier()
		tok := newToken(token.LookupName(lit), lit, pos)
		if tok.Type == token.NAME {
			tok.ID = int(l.tbl.Intern(lit))
		}
		return tok
	case isDigit(l.ch):
		return newToken(token.NUMBER, l.readNumber(), pos)
	default:
		lit := string(l.ch)
		l.readChar()
		return newToken(token.ILLEGAL, lit, pos)
	}
}

func newToken(t token.Type, lit string, pos token.Position) token.Token {
	return token.Token{Type: t, Literal: lit, ID: -1, Pos: pos}
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.pos}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '#':
			l.skipLineComment()
		case l.ch == '!':
			l.skipBlockComment()
		default:
			return
		}
	}
}

func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// skipBlockComment consumes "!" comments. An unterminated comment swallows
// the rest of the input.
func (l *Lexer) skipBlockComment() {
	l.readChar()
	for l.ch != '!' && l.ch != 0 {
		l.readChar()
	}
	if l.ch == '!' {
		l.readChar()
	}
}

// readIdentifier reads a letter-led run of letters, digits, and underscores.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
