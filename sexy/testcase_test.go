package sexy

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

const fence = "```"

func TestExtractTestCases_BasicTest(t *testing.T) {
	markdown := `# Expressions

## Test: addition
` + fence + `tac-expr
1 + 2
` + fence + `
` + fence + `ast
(binary "+" (literal "1") (literal "2"))
` + fence + `

## Test: multiplication
` + fence + `tac-expr
3 * x
` + fence + `
` + fence + `ast
(binary "*" (literal "3") (ident "x"))
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 2)

	tc1 := testCases[0]
	be.Equal(t, tc1.Name, "addition")
	be.Equal(t, tc1.Input, "1 + 2")
	be.Equal(t, tc1.InputType, InputTypeExpr)
	be.Equal(t, len(tc1.Assertions), 1)
	be.Equal(t, tc1.Assertions[0].Type, AssertionTypeAST)
	be.Equal(t, tc1.Assertions[0].Content, `(binary "+" (literal "1") (literal "2"))`)
	be.Equal(t, tc1.Assertions[0].ParsedSexy.String(), `(binary "+" (literal "1") (literal "2"))`)

	tc2 := testCases[1]
	be.Equal(t, tc2.Name, "multiplication")
	be.Equal(t, tc2.Input, "3 * x")
	be.Equal(t, tc2.Assertions[0].ParsedSexy.Head(), "binary")
}

func TestExtractTestCases_AllAssertionTypes(t *testing.T) {
	markdown := `## Test: everything
` + fence + `tac-program
var x
z = x + 5
` + fence + `
` + fence + `tokens
IDENTIFIER var
IDENTIFIER x
` + fence + `
` + fence + `ast
(program (var "x") ...)
` + fence + `
` + fence + `ir
alloc x
z = add x, 5
` + fence + `
` + fence + `ir-llvm
%x = alloca i32
` + fence + `
` + fence + `compile-error
already declared
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)

	tc := testCases[0]
	be.Equal(t, tc.InputType, InputTypeProgram)
	be.Equal(t, tc.Input, "var x\nz = x + 5")
	be.Equal(t, len(tc.Assertions), 5)
	be.Equal(t, tc.Assertions[0].Type, AssertionTypeTokens)
	be.Equal(t, tc.Assertions[0].Content, "IDENTIFIER var\nIDENTIFIER x")
	be.True(t, tc.Assertions[0].ParsedSexy == nil)
	be.Equal(t, tc.Assertions[1].Type, AssertionTypeAST)
	be.True(t, tc.Assertions[1].ParsedSexy != nil)
	be.Equal(t, tc.Assertions[2].Type, AssertionTypeIR)
	be.Equal(t, tc.Assertions[2].Content, "alloc x\nz = add x, 5")
	be.Equal(t, tc.Assertions[3].Type, AssertionTypeIRLLVM)
	be.Equal(t, tc.Assertions[4].Type, AssertionTypeCompileError)
}

func TestExtractTestCases_EmptyFile(t *testing.T) {
	testCases, err := ExtractTestCases("")
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 0)
}

func TestExtractTestCases_NoTestCases(t *testing.T) {
	markdown := `# Notes

Some prose with a plain fence:

` + fence + `
not a test
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 0)
}

func TestExtractTestCases_EmptyInput(t *testing.T) {
	markdown := `## Test: empty program
` + fence + `tac-program
` + fence + `
` + fence + `ir
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.Equal(t, testCases[0].Input, "")
	be.Equal(t, testCases[0].Assertions[0].Content, "")
}

func TestExtractTestCases_Errors(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{
			name: "invalid sexy",
			markdown: `## Test: bad
` + fence + `tac-expr
1
` + fence + `
` + fence + `ast
(literal "1"
` + fence,
			want: "failed to parse Sexy assertion in test 'bad'",
		},
		{
			name: "fence outside test",
			markdown: `# Intro
` + fence + `tac-expr
1
` + fence,
			want: "line 2: tac-expr fence found outside of test case",
		},
		{
			name: "unknown fence",
			markdown: `## Test: unknown
` + fence + `tac-expr
1
` + fence + `
` + fence + `wasm
` + fence,
			want: "unknown fence language 'wasm'",
		},
		{
			name: "missing input",
			markdown: `## Test: no input
` + fence + `ir
alloc x
` + fence,
			want: "test 'no input' has no input fence",
		},
		{
			name: "missing assertion",
			markdown: `## Test: no assertion
` + fence + `tac-expr
1
` + fence,
			want: "test 'no assertion' has no assertion fences",
		},
		{
			name: "multiple inputs",
			markdown: `## Test: twice
` + fence + `tac-expr
1
` + fence + `
` + fence + `tac-expr
2
` + fence,
			want: "multiple input fences found in test 'twice'",
		},
		{
			name: "error in second test",
			markdown: `## Test: first
` + fence + `tac-expr
1
` + fence + `
` + fence + `ast
(literal "1")
` + fence + `

## Test: second
` + fence + `ast
(literal "2")
` + fence,
			want: "test 'second' has no input fence",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ExtractTestCases(test.markdown)
			be.True(t, err != nil)
			be.True(t, strings.Contains(err.Error(), test.want))
		})
	}
}

func TestExtractTestCases_LineNumbers(t *testing.T) {
	markdown := `# Title

## Test: lines
` + fence + `tac-expr
x
` + fence + `
` + fence + `ast
(ident "x")
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, testCases[0].Line, 3)
	be.Equal(t, testCases[0].Assertions[0].Line, 7)
}
