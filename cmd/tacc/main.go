package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/strager/tacc"
)

var errFailed = errors.New("compilation failed")

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func main() {
	tokensCmd := &cli.Command{
		Name:        "tokens",
		Description: "print the tokens of source files",
		Action:      tokensAct,
		Args:        cli.Args{},
		Flags: commonFlags(
			cli.NewFlag("format", "text", "output format: text or yaml"),
		),
	}

	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "print the syntax tree of source files",
		Action:      parseAct,
		Args:        cli.Args{},
		Flags: commonFlags(
			cli.NewFlag("dump", false, "print a structural dump instead of an s-expression"),
		),
	}

	checkCmd := &cli.Command{
		Name:        "check",
		Description: "parse and check scoping of source files",
		Action:      checkAct,
		Args:        cli.Args{},
		Flags:       commonFlags(),
	}

	buildCmd := &cli.Command{
		Name:        "build",
		Description: "compile source files to IR",
		Action:      buildAct,
		Args:        cli.Args{},
		Flags: commonFlags(
			cli.NewFlag("dialect", "tac", "IR dialect: tac or llvm"),
			cli.NewFlag("jobs,j", 0, "files compiled in parallel (0 means no limit)"),
			cli.NewFlag("output,o", "", "write IR of a single file here"),
		),
	}

	evalCmd := &cli.Command{
		Name:        "eval",
		Description: "compile inline source and print IR",
		Action:      evalAct,
		Args:        cli.Args{},
		Flags: commonFlags(
			cli.NewFlag("dialect", "tac", "IR dialect: tac or llvm"),
		),
	}

	app := &cli.Command{
		Name:        "tacc",
		Description: "tacc compiles a small block-scoped language to three-address code",
		Commands: []*cli.Command{
			tokensCmd,
			parseCmd,
			checkCmd,
			buildCmd,
			evalCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func commonFlags(extra ...*cli.Flag) []*cli.Flag {
	return append([]*cli.Flag{
		cli.NewFlag("verbose,v", false, "log pipeline stages"),
		cli.NewFlag("keywords-first", false, "lex keywords before identifiers"),
		cli.NewFlag("expr", false, "parse input as a single expression"),
		cli.HelpFlag,
	}, extra...)
}

func tokensAct(c *cli.Command) error {
	r, ctx := newRunner(c)

	return r.tokens(ctx, c.Args, c.String("format"))
}

func parseAct(c *cli.Command) error {
	r, ctx := newRunner(c)

	return r.parse(ctx, c.Args, c.Bool("dump"))
}

func checkAct(c *cli.Command) error {
	r, ctx := newRunner(c)

	return r.check(ctx, c.Args)
}

func buildAct(c *cli.Command) (err error) {
	r, ctx := newRunner(c)

	r.opts.Lower.Dialect, err = tacc.ParseDialect(c.String("dialect"))
	if err != nil {
		return err
	}

	return r.build(ctx, c.Args, c.Int("jobs"), c.String("output"))
}

func evalAct(c *cli.Command) (err error) {
	r, ctx := newRunner(c)

	r.opts.Lower.Dialect, err = tacc.ParseDialect(c.String("dialect"))
	if err != nil {
		return err
	}

	if len(c.Args) != 1 {
		return errors.New("expected exactly one code argument")
	}

	return r.eval(ctx, c.Args[0])
}

func newRunner(c *cli.Command) (*runner, context.Context) {
	ctx := context.Background()
	if c.Bool("verbose") {
		ctx = tlog.ContextWithSpan(ctx, tlog.Root())
	}

	r := &runner{
		stdout: os.Stdout,
		stderr: os.Stderr,
		color:  term.IsTerminal(int(os.Stderr.Fd())),
	}

	r.opts.Lex.KeywordsFirst = c.Bool("keywords-first")
	if c.Bool("expr") {
		r.opts.Mode = tacc.ModeExpression
	}

	return r, ctx
}

type runner struct {
	stdout io.Writer
	stderr io.Writer
	color  bool
	opts   tacc.Options
}

type fileTokens struct {
	File   string       `yaml:"file"`
	Tokens []tacc.Token `yaml:"tokens"`
}

func (r *runner) tokens(ctx context.Context, files []string, format string) error {
	if format != "text" && format != "yaml" {
		return errors.New("unknown format %q", format)
	}

	var enc *yaml.Encoder
	if format == "yaml" {
		enc = yaml.NewEncoder(r.stdout)
		defer enc.Close()
	}

	failed := false

	for _, name := range files {
		src, err := readSource(name)
		if err != nil {
			return err
		}

		tokens, err := r.opts.Lex.Tokenize(src)
		if err != nil {
			r.report(name, src, err)
			failed = true
			continue
		}

		tlog.SpanFromContext(ctx).Printw("tokens", "name", name, "count", len(tokens))

		if enc != nil {
			err = enc.Encode(fileTokens{File: name, Tokens: tokens})
			if err != nil {
				return errors.Wrap(err, "encode %v", name)
			}

			continue
		}

		for _, tok := range tokens {
			line, col := tacc.LineCol(src, tok.Pos)
			fmt.Fprintf(r.stdout, "%s:%d:%d\t%v\n", name, line, col, tok)
		}
	}

	if failed {
		return errFailed
	}

	return nil
}

func (r *runner) parse(ctx context.Context, files []string, dump bool) error {
	failed := false

	for _, name := range files {
		src, err := readSource(name)
		if err != nil {
			return err
		}

		ast, err := r.parseSource(src)
		if err != nil {
			r.report(name, src, err)
			failed = true
			continue
		}

		tlog.SpanFromContext(ctx).Printw("parsed", "name", name)

		if dump {
			dumper.Fdump(r.stdout, ast)
		} else {
			fmt.Fprintf(r.stdout, "%s\n", tacc.ToSExpr(ast))
		}
	}

	if failed {
		return errFailed
	}

	return nil
}

func (r *runner) parseSource(src string) (tacc.Node, error) {
	tokens, err := r.opts.Lex.Tokenize(src)
	if err != nil {
		return nil, err
	}

	if r.opts.Mode == tacc.ModeExpression {
		ast, _, err := tacc.Parse(tokens)
		return ast, err
	}

	return tacc.ParseProgram(tokens)
}

func (r *runner) check(ctx context.Context, files []string) error {
	failed := false

	for _, name := range files {
		src, err := readSource(name)
		if err != nil {
			return err
		}

		_, err = tacc.Front(ctx, name, src, r.opts)
		if err != nil {
			r.report(name, src, err)
			failed = true
			continue
		}

		fmt.Fprintf(r.stdout, "%s: ok\n", name)
	}

	if failed {
		return errFailed
	}

	return nil
}

func (r *runner) build(ctx context.Context, files []string, jobs int, output string) error {
	if output != "" && len(files) != 1 {
		return errors.New("-output needs exactly one file, got %d", len(files))
	}

	units := make([]tacc.Unit, len(files))
	for i, name := range files {
		src, err := readSource(name)
		if err != nil {
			return err
		}

		units[i] = tacc.Unit{Name: name, Source: src}
	}

	tlog.SpanFromContext(ctx).Printw("build", "files", len(units), "jobs", jobs, "dialect", r.opts.Lower.Dialect)

	results, err := tacc.CompileAll(ctx, units, r.opts, jobs)
	if err != nil {
		var unitErr *tacc.UnitError
		if !errors.As(err, &unitErr) {
			return err
		}

		r.report(unitErr.Name, unitErr.Source, unitErr.Err)

		return errFailed
	}

	if output != "" {
		err = os.WriteFile(output, []byte(results[0].IR), 0o644)
		if err != nil {
			return errors.Wrap(err, "write %v", output)
		}

		fmt.Fprintf(r.stdout, "Generated %s (%d bytes)\n", output, len(results[0].IR))

		return nil
	}

	for _, res := range results {
		if len(results) > 1 {
			fmt.Fprintf(r.stdout, "; %s\n", res.Name)
		}

		io.WriteString(r.stdout, res.IR)
	}

	return nil
}

func (r *runner) eval(ctx context.Context, code string) error {
	const name = "<eval>"

	res, err := tacc.Compile(ctx, name, code, r.opts)
	if err != nil {
		r.report(name, code, err)
		return errFailed
	}

	_, err = io.WriteString(r.stdout, res.IR)

	return err
}

// report prints a diagnostic for err; the first line is red on terminals.
func (r *runner) report(name, src string, err error) {
	diag := tacc.Diagnostic(name, src, err)

	if r.color {
		first, rest, _ := strings.Cut(diag, "\n")
		diag = "\x1b[1;31m" + first + "\x1b[0m\n" + rest
	}

	io.WriteString(r.stderr, diag)
}

func readSource(name string) (string, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return "", errors.Wrap(err, "read %v", name)
	}

	return string(text), nil
}
