package tacc

import "fmt"

// TokenKind is the lexical class of a token.
type TokenKind string

const (
	NUMBER      TokenKind = "NUMBER"
	IDENTIFIER  TokenKind = "IDENTIFIER"
	OPERATOR    TokenKind = "OPERATOR"
	PUNCTUATION TokenKind = "PUNCTUATION"
	KEYWORD     TokenKind = "KEYWORD"
)

// Token is a classified piece of source text.
// Pos is the byte offset of Text in the source.
type Token struct {
	Kind TokenKind `yaml:"kind"`
	Text string    `yaml:"text"`
	Pos  int       `yaml:"pos"`
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}

// LexError reports a character no lexer rule accepts.
type LexError struct {
	Pos  int
	Char rune
}

func (e *LexError) Error() string {
	return fmt.Sprintf("error: invalid character %q at offset %d", e.Char, e.Pos)
}

// Position returns the offset the error refers to.
func (e *LexError) Position() int { return e.Pos }

// LineCol converts a byte offset into 1-based line and column numbers.
// Columns count bytes. Offsets past the end clamp to the end of source.
func LineCol(source string, pos int) (line, col int) {
	if pos > len(source) {
		pos = len(source)
	}

	line = 1
	lineStart := 0
	for i := 0; i < pos; i++ {
		if source[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}

	return line, pos - lineStart + 1
}
