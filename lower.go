package tacc

import (
	"fmt"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"
)

// Dialect selects the text form of lowered instructions.
type Dialect string

const (
	// DialectTAC renders "alloc x" and "z = add x, 5".
	DialectTAC Dialect = "tac"

	// DialectLLVM renders "%x = alloca i32" and "%z = add i32 %x, 5".
	DialectLLVM Dialect = "llvm"
)

// ParseDialect accepts "tac", "llvm" or "" (tac).
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case "", DialectTAC:
		return DialectTAC, nil
	case DialectLLVM:
		return DialectLLVM, nil
	default:
		return "", errors.New("unknown dialect %q", s)
	}
}

// LoweringErrorKind classifies a LoweringError.
type LoweringErrorKind string

const (
	NestedExpressionUnsupported LoweringErrorKind = "NestedExpressionUnsupported"
	MissingResultName           LoweringErrorKind = "MissingResultName"
	UnsupportedNode             LoweringErrorKind = "UnsupportedNode"
)

// LoweringError reports an AST shape the lowering rules do not cover.
// Node is the kind of the offending node.
type LoweringError struct {
	Kind LoweringErrorKind
	Node NodeKind
}

func (e *LoweringError) Error() string {
	switch e.Kind {
	case NestedExpressionUnsupported:
		return "error: nested binary expression operands are not supported"
	case MissingResultName:
		return "error: binary expression statement has no result name"
	default:
		return fmt.Sprintf("error: cannot lower %s node", e.Node)
	}
}

var mnemonics = [...]string{
	Add: "add",
	Sub: "sub",
	Mul: "mul",
	Div: "sdiv",
}

// Mnemonic returns the IR instruction name for op.
func (op Operator) Mnemonic() string {
	if op < 0 || int(op) >= len(mnemonics) {
		return ""
	}

	return mnemonics[op]
}

// LowerOptions configures lowering.
type LowerOptions struct {
	Dialect Dialect
}

type lowerer struct {
	dialect Dialect
	out     []byte
}

// Lower translates an analyzed AST to IR text in the TAC dialect.
func Lower(root Node) (string, error) {
	return LowerOptions{}.Lower(root)
}

// Lower translates an analyzed AST to IR text, one instruction per line
// in traversal order. An empty Dialect means DialectTAC; any other value
// not accepted by ParseDialect is an error.
func (o LowerOptions) Lower(root Node) (string, error) {
	dialect, err := ParseDialect(string(o.Dialect))
	if err != nil {
		return "", err
	}

	l := &lowerer{dialect: dialect}

	if err = l.lowerStatement(root); err != nil {
		return "", err
	}

	return string(l.out), nil
}

func (l *lowerer) lowerStatement(node Node) error {
	switch node := node.(type) {
	case *Program:
		return l.lowerStatements(node.Statements)

	case *Block:
		return l.lowerStatements(node.Statements)

	case *VariableDeclaration:
		if l.dialect == DialectLLVM {
			l.out = hfmt.Appendf(l.out, "%%%s = alloca i32\n", node.Name)
		} else {
			l.out = hfmt.Appendf(l.out, "alloc %s\n", node.Name)
		}

		return nil

	case *BinaryExpression:
		return l.lowerBinary(node)

	default:
		return &LoweringError{Kind: UnsupportedNode, Node: kindOf(node)}
	}
}

func (l *lowerer) lowerStatements(statements []Node) error {
	for _, stmt := range statements {
		if err := l.lowerStatement(stmt); err != nil {
			return err
		}
	}

	return nil
}

func (l *lowerer) lowerBinary(node *BinaryExpression) error {
	left, err := l.operand(node.Left)
	if err != nil {
		return err
	}

	right, err := l.operand(node.Right)
	if err != nil {
		return err
	}

	if node.ResultName == "" {
		return &LoweringError{Kind: MissingResultName, Node: NodeBinaryExpression}
	}

	mnemonic := node.Operator.Mnemonic()
	if mnemonic == "" {
		return &LoweringError{Kind: UnsupportedNode, Node: NodeBinaryExpression}
	}

	if l.dialect == DialectLLVM {
		l.out = hfmt.Appendf(l.out, "%%%s = %s i32 %s, %s\n", node.ResultName, mnemonic, left, right)
	} else {
		l.out = hfmt.Appendf(l.out, "%s = %s %s, %s\n", node.ResultName, mnemonic, left, right)
	}

	return nil
}

// operand renders an expression used as an instruction operand.
func (l *lowerer) operand(node Node) (string, error) {
	switch node := node.(type) {
	case *Identifier:
		if l.dialect == DialectLLVM {
			return "%" + node.Name, nil
		}

		return node.Name, nil

	case *Literal:
		return node.Value, nil

	case *BinaryExpression:
		return "", &LoweringError{Kind: NestedExpressionUnsupported, Node: NodeBinaryExpression}

	default:
		return "", &LoweringError{Kind: UnsupportedNode, Node: kindOf(node)}
	}
}

func kindOf(node Node) NodeKind {
	if node == nil {
		return "nil"
	}

	return node.Kind()
}
