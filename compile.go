package tacc

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

// Mode selects the grammar entry point used by Compile.
type Mode string

const (
	// ModeProgram parses statements with ParseProgram.
	ModeProgram Mode = "program"

	// ModeExpression parses a single expression with Parse and requires
	// it to consume every token.
	ModeExpression Mode = "expression"
)

// Options configures a pipeline run.
type Options struct {
	Mode  Mode
	Lex   LexOptions
	Lower LowerOptions
}

// Unit is one independent piece of source.
type Unit struct {
	Name   string
	Source string
}

// Result holds the output of every stage of a successful run.
type Result struct {
	Name   string
	Tokens []Token
	AST    Node
	IR     string
}

// CompileFile reads name and compiles its contents.
func CompileFile(ctx context.Context, name string, opts Options) (*Result, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, string(text), opts)
}

// Compile runs source through lexing, parsing, analysis and lowering.
// The first failing stage stops the run; its typed error is wrapped with
// the stage name and stays reachable with errors.As.
func Compile(ctx context.Context, name, source string, opts Options) (*Result, error) {
	tr := tlog.SpanFromContext(ctx)

	res, err := Front(ctx, name, source, opts)
	if err != nil {
		return nil, err
	}

	res.IR, err = opts.Lower.Lower(res.AST)
	if err != nil {
		return nil, errors.Wrap(err, "lower")
	}

	tr.Printw("lowered", "name", name, "ir_bytes", len(res.IR))

	return res, nil
}

// Front runs lexing, parsing and analysis without lowering.
func Front(ctx context.Context, name, source string, opts Options) (*Result, error) {
	tr := tlog.SpanFromContext(ctx)

	tokens, err := opts.Lex.Tokenize(source)
	if err != nil {
		return nil, errors.Wrap(err, "tokenize")
	}

	tr.Printw("tokenized", "name", name, "tokens", len(tokens))

	var root Node

	switch opts.Mode {
	case ModeExpression:
		expr, n, err := Parse(tokens)
		if err == nil && n < len(tokens) {
			p := &parser{tokens: tokens, pos: n}
			err = p.unexpected("end of input")
		}
		if err != nil {
			return nil, errors.Wrap(err, "parse")
		}

		root = expr
	case ModeProgram, "":
		prog, err := ParseProgram(tokens)
		if err != nil {
			return nil, errors.Wrap(err, "parse")
		}

		root = prog
	default:
		return nil, errors.New("unknown mode %q", opts.Mode)
	}

	tr.Printw("parsed", "name", name, "ast", ToSExpr(root))

	err = Analyze(root)
	if err != nil {
		return nil, errors.Wrap(err, "analyze")
	}

	tr.Printw("analyzed", "name", name)

	return &Result{
		Name:   name,
		Tokens: tokens,
		AST:    root,
	}, nil
}

// UnitError is a failure of one unit in CompileAll.
type UnitError struct {
	Name   string
	Source string
	Err    error
}

func (e *UnitError) Error() string { return e.Name + ": " + e.Err.Error() }
func (e *UnitError) Unwrap() error { return e.Err }

// CompileAll compiles units in parallel, at most limit at a time
// (no limit if limit <= 0). Results are in the order of units. The first
// failure cancels the units not yet started and is returned; a failing
// unit is reported as a *UnitError.
func CompileAll(ctx context.Context, units []Unit, opts Options, limit int) ([]*Result, error) {
	results := make([]*Result, len(units))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, u := range units {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res, err := Compile(ctx, u.Name, u.Source, opts)
			if err != nil {
				return &UnitError{Name: u.Name, Source: u.Source, Err: err}
			}

			results[i] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
