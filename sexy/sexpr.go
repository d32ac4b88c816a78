package sexy

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// NodeType represents the type of a Node
type NodeType int

const (
	NodeSymbol NodeType = iota
	NodeString
	NodeInteger
	NodeEllipsis
	NodeList
)

func (t NodeType) String() string {
	switch t {
	case NodeSymbol:
		return "symbol"
	case NodeString:
		return "string"
	case NodeInteger:
		return "integer"
	case NodeEllipsis:
		return "ellipsis"
	case NodeList:
		return "list"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// Node is a parsed Sexy datum.
type Node struct {
	Type NodeType

	Text  string  // NodeSymbol, NodeString, NodeInteger
	Items []*Node // NodeList
}

func (n *Node) String() string {
	switch n.Type {
	case NodeString:
		return strconv.Quote(n.Text)
	case NodeEllipsis:
		return "..."
	case NodeList:
		parts := make([]string, len(n.Items))
		for i, item := range n.Items {
			parts[i] = item.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return n.Text
	}
}

func NewSymbol(name string) *Node  { return &Node{Type: NodeSymbol, Text: name} }
func NewString(value string) *Node { return &Node{Type: NodeString, Text: value} }
func NewInteger(text string) *Node { return &Node{Type: NodeInteger, Text: text} }
func NewEllipsis() *Node           { return &Node{Type: NodeEllipsis} }
func NewList(items ...*Node) *Node { return &Node{Type: NodeList, Items: items} }

// IsAtom reports whether n is not a list.
func (n *Node) IsAtom() bool { return n.Type != NodeList }

// IsWildcard reports whether n is the symbol _, which matches anything.
func (n *Node) IsWildcard() bool { return n.Type == NodeSymbol && n.Text == "_" }

// Head returns the leading symbol of a list, or "".
func (n *Node) Head() string {
	if n.Type != NodeList || len(n.Items) == 0 || n.Items[0].Type != NodeSymbol {
		return ""
	}

	return n.Items[0].Text
}

// Parse parses exactly one datum. Comments run from ';' to end of line.
func Parse(input string) (*Node, error) {
	p := &parser{input: input}

	p.skipSpace()
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("expected datum but got EOF")
	}

	n, err := p.parseDatum()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if p.pos < len(p.input) {
		return nil, fmt.Errorf("offset %d: expected EOF but got %q", p.pos, p.input[p.pos])
	}

	return n, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch {
		case c == ';':
			for p.pos < len(p.input) && p.input[p.pos] != '\n' {
				p.pos++
			}
		case unicode.IsSpace(rune(c)):
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) parseDatum() (*Node, error) {
	c := p.input[p.pos]

	switch {
	case c == '(':
		return p.parseList()
	case c == ')':
		return nil, fmt.Errorf("offset %d: unexpected ')'", p.pos)
	case c == '"':
		return p.parseString()
	case strings.HasPrefix(p.input[p.pos:], "..."):
		p.pos += 3
		return NewEllipsis(), nil
	case isDigit(c) || (c == '-' || c == '+') && p.pos+1 < len(p.input) && isDigit(p.input[p.pos+1]):
		start := p.pos
		p.pos++
		for p.pos < len(p.input) && isDigit(p.input[p.pos]) {
			p.pos++
		}
		return NewInteger(p.input[start:p.pos]), nil
	case isSymbolChar(c):
		start := p.pos
		for p.pos < len(p.input) && isSymbolChar(p.input[p.pos]) {
			p.pos++
		}
		return NewSymbol(p.input[start:p.pos]), nil
	default:
		return nil, fmt.Errorf("offset %d: unexpected character %q", p.pos, c)
	}
}

func (p *parser) parseList() (*Node, error) {
	p.pos++ // '('

	list := NewList()

	for {
		p.skipSpace()

		if p.pos >= len(p.input) {
			return nil, fmt.Errorf("expected ')' but got EOF")
		}

		if p.input[p.pos] == ')' {
			p.pos++
			return list, nil
		}

		item, err := p.parseDatum()
		if err != nil {
			return nil, err
		}

		list.Items = append(list.Items, item)
	}
}

func (p *parser) parseString() (*Node, error) {
	start := p.pos
	p.pos++ // opening quote

	var b strings.Builder

	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch c {
		case '"':
			p.pos++
			return NewString(b.String()), nil
		case '\\':
			if p.pos+1 >= len(p.input) {
				return nil, fmt.Errorf("offset %d: unterminated string", start)
			}
			switch e := p.input[p.pos+1]; e {
			case '"', '\\':
				b.WriteByte(e)
			case 'n':
				b.WriteByte('\n')
			default:
				return nil, fmt.Errorf("offset %d: invalid escape sequence: \\%c", p.pos, e)
			}
			p.pos += 2
		default:
			b.WriteByte(c)
			p.pos++
		}
	}

	return nil, fmt.Errorf("offset %d: unterminated string", start)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSymbolChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', isDigit(c):
		return true
	}

	return strings.IndexByte("_-+*/<>=!?%&.", c) >= 0
}
