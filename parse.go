package tacc

import "fmt"

// ParseError reports a token the grammar did not allow at that point.
type ParseError struct {
	Expected string
	Found    string
	Pos      int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error: expected %s but found %s at offset %d", e.Expected, e.Found, e.Pos)
}

// Position returns the offset the error refers to.
func (e *ParseError) Position() int { return e.Pos }

// parser is the cursor over a token sequence. Each top-level call owns
// its own parser, so parses never share state.
type parser struct {
	tokens []Token
	pos    int
}

// Parse parses one expression from the front of tokens and returns it with
// the number of tokens consumed. Tokens after the expression are left alone.
//
//	Expression := Term ('+' Expression)?
//	Term       := Factor ('*' Term)?
//	Factor     := NUMBER | IDENTIFIER | '(' Expression ')'
//
// Both levels recurse on the right, so "1+2+3" parses as 1+(2+3).
func Parse(tokens []Token) (Node, int, error) {
	p := &parser{tokens: tokens}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, p.pos, err
	}

	return expr, p.pos, nil
}

// ParseProgram parses a whole token sequence as a list of statements.
//
//	Program   := Statement* EOF
//	Statement := '{' Statement* '}'
//	           | 'var' IDENTIFIER ';'?
//	           | IDENTIFIER '=' Expression ';'?
//	           | Expression ';'?
//
// The right side of an assignment must be a binary expression; the
// assigned name becomes its ResultName.
func ParseProgram(tokens []Token) (*Program, error) {
	p := &parser{tokens: tokens}
	prog := &Program{Statements: []Node{}}

	for !p.atEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		prog.Statements = append(prog.Statements, stmt)
	}

	return prog, nil
}

func (p *parser) parseExpression() (Node, error) {
	term, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	if !p.match(OPERATOR, "+") {
		return term, nil
	}

	op, _ := OperatorFromSymbol(p.consume().Text)

	rest, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &BinaryExpression{Operator: op, Left: term, Right: rest}, nil
}

func (p *parser) parseTerm() (Node, error) {
	factor, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	if !p.match(OPERATOR, "*") {
		return factor, nil
	}

	op, _ := OperatorFromSymbol(p.consume().Text)

	rest, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	return &BinaryExpression{Operator: op, Left: factor, Right: rest}, nil
}

func (p *parser) parseFactor() (Node, error) {
	switch {
	case p.match(NUMBER, ""):
		return &Literal{Value: p.consume().Text}, nil
	case p.match(IDENTIFIER, ""):
		return &Identifier{Name: p.consume().Text}, nil
	case p.match(PUNCTUATION, "("):
		p.consume()

		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		if !p.match(PUNCTUATION, ")") {
			return nil, p.unexpected("')'")
		}

		p.consume()

		return expr, nil
	default:
		return nil, p.unexpected("number, identifier or '('")
	}
}

func (p *parser) parseStatement() (Node, error) {
	var stmt Node

	switch {
	case p.match(PUNCTUATION, "{"):
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}

		return block, nil
	case p.matchWord("var"):
		p.consume()

		if !p.match(IDENTIFIER, "") {
			return nil, p.unexpected("identifier")
		}

		stmt = &VariableDeclaration{Name: p.consume().Text}
	case p.match(IDENTIFIER, "") && p.matchAt(1, PUNCTUATION, "="):
		name := p.consume().Text
		p.consume()

		start := p.pos

		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		bin, ok := expr.(*BinaryExpression)
		if !ok {
			return nil, &ParseError{
				Expected: "binary expression",
				Found:    describeNode(expr),
				Pos:      p.tokens[start].Pos,
			}
		}

		bin.ResultName = name
		stmt = bin
	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		stmt = expr
	}

	if p.match(PUNCTUATION, ";") {
		p.consume()
	}

	return stmt, nil
}

func (p *parser) parseBlock() (*Block, error) {
	p.consume() // '{'

	block := &Block{Statements: []Node{}}

	for !p.match(PUNCTUATION, "}") {
		if p.atEnd() {
			return nil, p.unexpected("'}'")
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		block.Statements = append(block.Statements, stmt)
	}

	p.consume() // '}'

	return block, nil
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

// match reports whether the current token has the given kind and,
// if text is not empty, the given text. It does not advance.
func (p *parser) match(kind TokenKind, text string) bool {
	return p.matchAt(0, kind, text)
}

func (p *parser) matchAt(offset int, kind TokenKind, text string) bool {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return false
	}

	t := p.tokens[i]

	return t.Kind == kind && (text == "" || t.Text == text)
}

// matchWord matches a word whether it lexed as a keyword or an identifier.
func (p *parser) matchWord(word string) bool {
	return p.match(KEYWORD, word) || p.match(IDENTIFIER, word)
}

// consume returns the current token and advances past it.
func (p *parser) consume() Token {
	t := p.tokens[p.pos]
	p.pos++

	return t
}

func (p *parser) unexpected(expected string) *ParseError {
	if p.atEnd() {
		pos := 0
		if n := len(p.tokens); n > 0 {
			last := p.tokens[n-1]
			pos = last.Pos + len(last.Text)
		}

		return &ParseError{Expected: expected, Found: "end of input", Pos: pos}
	}

	t := p.tokens[p.pos]

	return &ParseError{Expected: expected, Found: fmt.Sprintf("%q", t.Text), Pos: t.Pos}
}

func describeNode(n Node) string {
	switch n := n.(type) {
	case *Literal:
		return fmt.Sprintf("literal %q", n.Value)
	case *Identifier:
		return fmt.Sprintf("identifier %q", n.Name)
	default:
		return string(n.Kind())
	}
}
