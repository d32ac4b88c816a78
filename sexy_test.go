package tacc

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/tacc/sexy"
)

func TestSexyAllTests(t *testing.T) {
	// Find all test files in the test/ directory
	testFiles, err := filepath.Glob("test/*_test.md")
	be.Err(t, err, nil)
	be.True(t, len(testFiles) > 0)

	for _, testFile := range testFiles {
		testName := strings.TrimSuffix(filepath.Base(testFile), ".md")

		t.Run(testName, func(t *testing.T) {
			content, err := os.ReadFile(testFile)
			be.Err(t, err, nil)

			testCases, err := sexy.ExtractTestCases(string(content))
			be.Err(t, err, nil)

			for _, tc := range testCases {
				t.Run(tc.Name, func(t *testing.T) {
					for i, assertion := range tc.Assertions {
						t.Run("assertion_"+string(rune('a'+i)), func(t *testing.T) {
							runAssertion(t, tc, assertion)
						})
					}
				})
			}
		})
	}
}

func runAssertion(t *testing.T, tc sexy.TestCase, assertion sexy.Assertion) {
	t.Helper()

	switch assertion.Type {
	case sexy.AssertionTypeAST:
		ast, err := parseTestInput(tc)
		if err != nil {
			t.Fatalf("line %d: parse: %v", assertion.Line, err)
		}

		actual, err := sexy.Parse(ToSExpr(ast))
		be.Err(t, err, nil)

		if err := sexy.Match(assertion.ParsedSexy, actual); err != nil {
			t.Errorf("line %d: %v", assertion.Line, err)
		}

	case sexy.AssertionTypeTokens:
		tokens, err := Tokenize(tc.Input)
		if err != nil {
			t.Fatalf("line %d: tokenize: %v", assertion.Line, err)
		}

		lines := make([]string, len(tokens))
		for i, tok := range tokens {
			lines[i] = tok.String()
		}

		be.Equal(t, strings.Join(lines, "\n"), assertion.Content)

	case sexy.AssertionTypeIR, sexy.AssertionTypeIRLLVM:
		opts := testOptions(tc)
		if assertion.Type == sexy.AssertionTypeIRLLVM {
			opts.Lower.Dialect = DialectLLVM
		}

		res, err := Compile(context.Background(), tc.Name, tc.Input, opts)
		if err != nil {
			t.Fatalf("line %d: compile: %v", assertion.Line, err)
		}

		be.Equal(t, strings.TrimRight(res.IR, "\n"), assertion.Content)

	case sexy.AssertionTypeCompileError:
		_, err := Compile(context.Background(), tc.Name, tc.Input, testOptions(tc))
		be.Err(t, err, assertion.Content)

	default:
		t.Fatalf("line %d: unsupported assertion %s", assertion.Line, assertion.Type)
	}
}

func testOptions(tc sexy.TestCase) Options {
	if tc.InputType == sexy.InputTypeExpr {
		return Options{Mode: ModeExpression}
	}

	return Options{Mode: ModeProgram}
}

// parseTestInput parses without analysis, so AST assertions also apply to
// inputs with scoping errors.
func parseTestInput(tc sexy.TestCase) (Node, error) {
	tokens, err := Tokenize(tc.Input)
	if err != nil {
		return nil, err
	}

	if tc.InputType == sexy.InputTypeExpr {
		ast, _, err := Parse(tokens)
		return ast, err
	}

	return ParseProgram(tokens)
}
