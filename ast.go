package tacc

import "fmt"

// Operator is a binary arithmetic operator.
type Operator int

const (
	Add Operator = iota
	Sub
	Mul
	Div
)

var operatorSymbols = [...]string{
	Add: "+",
	Sub: "-",
	Mul: "*",
	Div: "/",
}

func (op Operator) String() string {
	if op < 0 || int(op) >= len(operatorSymbols) {
		return fmt.Sprintf("Operator(%d)", int(op))
	}

	return operatorSymbols[op]
}

// OperatorFromSymbol maps "+", "-", "*" or "/" to its Operator.
func OperatorFromSymbol(sym string) (Operator, bool) {
	for op, s := range operatorSymbols {
		if s == sym {
			return Operator(op), true
		}
	}

	return 0, false
}

// Node is an AST node. The set of implementations is closed:
// *Literal, *Identifier, *BinaryExpression, *VariableDeclaration,
// *Block and *Program.
type Node interface {
	Kind() NodeKind
	node()
}

// NodeKind names a Node variant.
type NodeKind string

const (
	NodeLiteral             NodeKind = "Literal"
	NodeIdentifier          NodeKind = "Identifier"
	NodeBinaryExpression    NodeKind = "BinaryExpression"
	NodeVariableDeclaration NodeKind = "VariableDeclaration"
	NodeBlock               NodeKind = "Block"
	NodeProgram             NodeKind = "Program"
)

type (
	// Literal is a numeric literal kept as its source text.
	Literal struct {
		Value string
	}

	// Identifier is a use of a variable.
	Identifier struct {
		Name string
	}

	// BinaryExpression applies Operator to Left and Right.
	// ResultName is the variable the result is stored to when the
	// expression is lowered as a statement; empty means none.
	BinaryExpression struct {
		Operator   Operator
		Left       Node
		Right      Node
		ResultName string
	}

	VariableDeclaration struct {
		Name string
	}

	// Block opens a new scope for its statements.
	Block struct {
		Statements []Node
	}

	Program struct {
		Statements []Node
	}
)

func (*Literal) Kind() NodeKind             { return NodeLiteral }
func (*Identifier) Kind() NodeKind          { return NodeIdentifier }
func (*BinaryExpression) Kind() NodeKind    { return NodeBinaryExpression }
func (*VariableDeclaration) Kind() NodeKind { return NodeVariableDeclaration }
func (*Block) Kind() NodeKind               { return NodeBlock }
func (*Program) Kind() NodeKind             { return NodeProgram }

func (*Literal) node()             {}
func (*Identifier) node()          {}
func (*BinaryExpression) node()    {}
func (*VariableDeclaration) node() {}
func (*Block) node()               {}
func (*Program) node()             {}
