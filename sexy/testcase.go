package sexy

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputType is the language of the input fence of a test case.
type InputType string

const (
	InputTypeExpr    InputType = "tac-expr"
	InputTypeProgram InputType = "tac-program"
)

// AssertionType is the language of an assertion fence.
type AssertionType string

const (
	AssertionTypeAST          AssertionType = "ast"
	AssertionTypeTokens       AssertionType = "tokens"
	AssertionTypeIR           AssertionType = "ir"
	AssertionTypeIRLLVM       AssertionType = "ir-llvm"
	AssertionTypeCompileError AssertionType = "compile-error"
)

// Assertion is one expectation about a test case's input.
type Assertion struct {
	Type       AssertionType
	Content    string // fence body without the trailing newline
	ParsedSexy *Node  // set for AssertionTypeAST
	Line       int
}

// TestCase is a "Test: <name>" section of a Markdown document.
type TestCase struct {
	Name       string
	Input      string
	InputType  InputType
	Assertions []Assertion
	Line       int
}

// ExtractTestCases collects the test cases of a Markdown document.
//
// A heading whose text starts with "Test: " opens a test case. It must be
// followed by exactly one input fence and at least one assertion fence.
// Fences without a language are ignored; any other fence language is an
// error.
func ExtractTestCases(markdownContent string) ([]TestCase, error) {
	source := []byte(markdownContent)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var testCases []TestCase
	var current *TestCase

	flush := func() error {
		if current == nil {
			return nil
		}
		if err := validateTestCase(current); err != nil {
			return err
		}
		testCases = append(testCases, *current)
		current = nil
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := extractTextFromNode(n, source)
			name, ok := strings.CutPrefix(heading, "Test: ")
			if !ok {
				return ast.WalkContinue, nil
			}

			if err := flush(); err != nil {
				return ast.WalkStop, err
			}

			current = &TestCase{
				Name: name,
				Line: getLineNumber(n, source),
			}

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			lineNum := getLineNumber(n, source)

			if language == "" {
				return ast.WalkContinue, nil
			}

			if !isInputFence(language) && !isAssertionFence(language) {
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s'", lineNum, language)
			}

			if current == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of test case", lineNum, language)
			}

			content := strings.TrimRight(extractCodeBlockContent(n, source), "\n")

			if isInputFence(language) {
				if current.InputType != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple input fences found in test '%s'", lineNum, current.Name)
				}

				current.Input = content
				current.InputType = InputType(language)

				return ast.WalkContinue, nil
			}

			assertion := Assertion{
				Type:    AssertionType(language),
				Content: content,
				Line:    lineNum,
			}

			if assertion.Type == AssertionTypeAST {
				parsed, err := Parse(content)
				if err != nil {
					return ast.WalkStop, fmt.Errorf("line %d: failed to parse Sexy assertion in test '%s': %w", lineNum, current.Name, err)
				}
				assertion.ParsedSexy = parsed
			}

			current.Assertions = append(current.Assertions, assertion)
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if err := flush(); err != nil {
		return nil, err
	}

	return testCases, nil
}

// extractTextFromNode extracts plain text content from a markdown node
func extractTextFromNode(node ast.Node, source []byte) string {
	var buf bytes.Buffer

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})

	return buf.String()
}

func extractCodeBlockContent(codeBlock *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer

	lines := codeBlock.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}

	return buf.String()
}

func isInputFence(language string) bool {
	switch InputType(language) {
	case InputTypeExpr, InputTypeProgram:
		return true
	}
	return false
}

func isAssertionFence(language string) bool {
	switch AssertionType(language) {
	case AssertionTypeAST, AssertionTypeTokens, AssertionTypeIR, AssertionTypeIRLLVM, AssertionTypeCompileError:
		return true
	}
	return false
}

// validateTestCase ensures a test case has an input and at least one assertion.
// An empty input fence is allowed.
func validateTestCase(tc *TestCase) error {
	if tc.InputType == "" {
		return fmt.Errorf("test '%s' has no input fence", tc.Name)
	}
	if len(tc.Assertions) == 0 {
		return fmt.Errorf("test '%s' has no assertion fences", tc.Name)
	}
	return nil
}

// getLineNumber returns the 1-based line of the node's first line.
func getLineNumber(node ast.Node, source []byte) int {
	var start int

	switch n := node.(type) {
	case *ast.FencedCodeBlock:
		// Lines() starts after the opening fence.
		if n.Info != nil {
			start = n.Info.Segment.Start
		} else if n.Lines().Len() > 0 {
			start = n.Lines().At(0).Start
		}
	default:
		if node.Lines().Len() == 0 {
			return 1
		}
		start = node.Lines().At(0).Start
	}

	return 1 + bytes.Count(source[:start], []byte("\n"))
}
