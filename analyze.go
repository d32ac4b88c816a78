package tacc

import "fmt"

// SemanticErrorKind classifies a SemanticError.
type SemanticErrorKind string

const (
	DuplicateDeclaration SemanticErrorKind = "DuplicateDeclaration"
	UndeclaredVariable   SemanticErrorKind = "UndeclaredVariable"
)

// SemanticError reports the first scoping violation found in an AST.
type SemanticError struct {
	Kind SemanticErrorKind
	Name string
}

func (e *SemanticError) Error() string {
	switch e.Kind {
	case DuplicateDeclaration:
		return fmt.Sprintf("error: variable '%s' already declared", e.Name)
	case UndeclaredVariable:
		return fmt.Sprintf("error: variable '%s' used before declaration", e.Name)
	default:
		return fmt.Sprintf("error: %s: '%s'", e.Kind, e.Name)
	}
}

type analyzer struct {
	scopes scopeArena
}

// Analyze checks that every variable is declared once per scope and that
// every use resolves to a declaration in the current scope or an enclosing
// one. The result name of an assignment counts as a use, checked after
// both operands. It stops at the first violation. The AST is not modified.
func Analyze(root Node) error {
	var a analyzer

	global := a.scopes.push(NoScope)
	defer a.scopes.pop(global)

	return a.analyzeNode(root, global)
}

func (a *analyzer) analyzeNode(node Node, scope ScopeID) error {
	switch node := node.(type) {
	case *Program:
		return a.analyzeStatements(node.Statements, scope)

	case *Block:
		inner := a.scopes.push(scope)
		err := a.analyzeStatements(node.Statements, inner)
		a.scopes.pop(inner)

		return err

	case *VariableDeclaration:
		if !a.scopes.declare(scope, node.Name) {
			return &SemanticError{Kind: DuplicateDeclaration, Name: node.Name}
		}

		return nil

	case *Identifier:
		if _, ok := a.scopes.lookup(scope, node.Name); !ok {
			return &SemanticError{Kind: UndeclaredVariable, Name: node.Name}
		}

		return nil

	case *BinaryExpression:
		if err := a.analyzeNode(node.Left, scope); err != nil {
			return err
		}
		if err := a.analyzeNode(node.Right, scope); err != nil {
			return err
		}

		if node.ResultName == "" {
			return nil
		}

		if _, ok := a.scopes.lookup(scope, node.ResultName); !ok {
			return &SemanticError{Kind: UndeclaredVariable, Name: node.ResultName}
		}

		return nil

	case *Literal, nil:
		return nil

	default:
		panic(fmt.Sprintf("analyze: unsupported node %T", node))
	}
}

func (a *analyzer) analyzeStatements(statements []Node, scope ScopeID) error {
	for _, stmt := range statements {
		if err := a.analyzeNode(stmt, scope); err != nil {
			return err
		}
	}

	return nil
}
