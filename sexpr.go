package tacc

import (
	"strconv"
	"strings"
)

// ToSExpr converts an AST node to s-expression string representation
func ToSExpr(node Node) string {
	switch node := node.(type) {
	case *Literal:
		return "(literal " + strconv.Quote(node.Value) + ")"
	case *Identifier:
		return "(ident " + strconv.Quote(node.Name) + ")"
	case *BinaryExpression:
		result := "(binary " + strconv.Quote(node.Operator.String()) + " " + ToSExpr(node.Left) + " " + ToSExpr(node.Right)
		if node.ResultName != "" {
			result += " " + strconv.Quote(node.ResultName)
		}
		return result + ")"
	case *VariableDeclaration:
		return "(var " + strconv.Quote(node.Name) + ")"
	case *Block:
		return listSExpr("block", node.Statements)
	case *Program:
		return listSExpr("program", node.Statements)
	case nil:
		return "()"
	default:
		return "(unknown " + strconv.Quote(string(node.Kind())) + ")"
	}
}

func listSExpr(head string, statements []Node) string {
	var b strings.Builder

	b.WriteString("(")
	b.WriteString(head)
	for _, stmt := range statements {
		b.WriteString(" ")
		b.WriteString(ToSExpr(stmt))
	}
	b.WriteString(")")

	return b.String()
}
