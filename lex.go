package tacc

import (
	"unicode"
	"unicode/utf8"
)

// Keywords recognized by the KEYWORD rule.
var keywords = map[string]bool{
	"if":       true,
	"else":     true,
	"while":    true,
	"for":      true,
	"function": true,
	"var":      true,
	"return":   true,
}

// LexOptions tunes rule ordering.
type LexOptions struct {
	// KeywordsFirst tries KEYWORD before IDENTIFIER. By default IDENTIFIER
	// comes first, so keywords lex as identifiers.
	KeywordsFirst bool
}

// lexRule matches a prefix of the remaining input and returns its length,
// or 0 if the rule does not apply. A rule with an empty kind is skipped
// over without emitting a token.
type lexRule struct {
	kind  TokenKind
	match func(s string) int
}

var (
	numberRule      = lexRule{NUMBER, matchNumber}
	identifierRule  = lexRule{IDENTIFIER, matchIdentifier}
	operatorRule    = lexRule{OPERATOR, matchOperator}
	punctuationRule = lexRule{PUNCTUATION, matchPunctuation}
	keywordRule     = lexRule{KEYWORD, matchKeyword}
	whitespaceRule  = lexRule{"", matchWhitespace}
)

var (
	defaultRules = []lexRule{
		numberRule,
		identifierRule,
		operatorRule,
		punctuationRule,
		keywordRule,
		whitespaceRule,
	}

	keywordsFirstRules = []lexRule{
		numberRule,
		keywordRule,
		identifierRule,
		operatorRule,
		punctuationRule,
		whitespaceRule,
	}
)

func (o LexOptions) rules() []lexRule {
	if o.KeywordsFirst {
		return keywordsFirstRules
	}

	return defaultRules
}

// Tokenize splits source into tokens using the default rule order.
func Tokenize(source string) ([]Token, error) {
	return LexOptions{}.Tokenize(source)
}

// Tokenize splits source into tokens. At every offset the first rule in
// priority order that matches wins; whitespace is dropped.
func (o LexOptions) Tokenize(source string) ([]Token, error) {
	rules := o.rules()
	tokens := []Token{}

	pos := 0
	for pos < len(source) {
		rest := source[pos:]

		n := 0
		var kind TokenKind
		for _, r := range rules {
			if n = r.match(rest); n > 0 {
				kind = r.kind
				break
			}
		}

		if n == 0 {
			c, _ := utf8.DecodeRuneInString(rest)
			return nil, &LexError{Pos: pos, Char: c}
		}

		if kind != "" {
			tokens = append(tokens, Token{Kind: kind, Text: rest[:n], Pos: pos})
		}

		pos += n
	}

	return tokens, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

// matchNumber accepts a run of digits that does not run into a word
// character: "12" matches, "12ab" does not.
func matchNumber(s string) int {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}

	if i < len(s) && isLetter(s[i]) {
		return 0
	}

	return i
}

func matchIdentifier(s string) int {
	if len(s) == 0 || !isLetter(s[0]) {
		return 0
	}

	i := 1
	for i < len(s) && (isLetter(s[i]) || isDigit(s[i])) {
		i++
	}

	return i
}

// matchKeyword accepts a whole word from the keyword set.
func matchKeyword(s string) int {
	n := matchIdentifier(s)
	if n == 0 || !keywords[s[:n]] {
		return 0
	}

	return n
}

func matchOperator(s string) int {
	switch s[0] {
	case '+', '-', '*', '/':
		return 1
	}

	return 0
}

func matchPunctuation(s string) int {
	switch s[0] {
	case '(', ')', '{', '}', '[', ']', ';', ',', '=', '.':
		return 1
	}

	return 0
}

func matchWhitespace(s string) int {
	i := 0
	for i < len(s) {
		c, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(c) {
			break
		}
		i += size
	}

	return i
}
