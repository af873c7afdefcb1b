package transform

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/scanner"

	"casestudy-mapper/internal/value"
)

var (
	// ErrUnknownOp is returned when a pipeline names an operation outside
	// the closed set.
	ErrUnknownOp = errors.New("unknown pipeline operation")
	// ErrSyntax is returned for malformed pipeline source.
	ErrSyntax = errors.New("pipeline syntax error")
)

// Pipeline is a parsed custom transformation such as
//
//	pluck("name") | join($separator)
//
// Stages run left to right. Arguments are literals (strings, numbers,
// true, false, null) or $option references resolved from the mapping
// options at run time; absent options resolve to null, which selects the
// operation's default.
type Pipeline struct {
	stages []stage
}

type stage struct {
	name string
	spec opSpec
	args []arg
}

type arg struct {
	lit    value.Value
	option string
}

func (a arg) resolve(opts Options) value.Value {
	if a.option == "" {
		return a.lit
	}

	v, _ := opts.Get(a.option)

	return v
}

func (a arg) String() string {
	if a.option != "" {
		return "$" + a.option
	}

	return a.lit.String()
}

// Parse parses pipeline source.
func Parse(src string) (*Pipeline, error) {
	var (
		s       scanner.Scanner
		scanErr error
	)

	s.Init(strings.NewReader(src))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanStrings | scanner.ScanRawStrings
	s.Error = func(_ *scanner.Scanner, msg string) {
		if scanErr == nil {
			scanErr = fmt.Errorf("%w: %s", ErrSyntax, msg)
		}
	}

	p := &Pipeline{}

	tok := s.Scan()
	if tok == scanner.EOF {
		return nil, fmt.Errorf("%w: empty pipeline", ErrSyntax)
	}

	for {
		if tok != scanner.Ident {
			return nil, syntaxErr(&s, "expected operation name, got %s", scanner.TokenString(tok))
		}

		name := s.TokenText()

		spec, ok := ops[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOp, name)
		}

		st := stage{name: name, spec: spec}

		tok = s.Scan()
		if tok == '(' {
			args, next, err := parseArgs(&s)
			if err != nil {
				return nil, err
			}

			st.args = args
			tok = next
		}

		if n := len(st.args); n < spec.minArgs || n > spec.maxArgs {
			return nil, fmt.Errorf("%w: %s takes %s, got %d", ErrSyntax, name, spec.arity(), n)
		}

		if scanErr != nil {
			return nil, scanErr
		}

		p.stages = append(p.stages, st)

		if tok == scanner.EOF {
			return p, nil
		}

		if tok != '|' {
			return nil, syntaxErr(&s, "expected '|' or end of pipeline, got %s", scanner.TokenString(tok))
		}

		tok = s.Scan()
	}
}

// MustParse is like Parse but panics on error. For built-in pipelines.
func MustParse(src string) *Pipeline {
	p, err := Parse(src)
	if err != nil {
		panic(err)
	}

	return p
}

func parseArgs(s *scanner.Scanner) ([]arg, rune, error) {
	var args []arg

	tok := s.Scan()
	if tok == ')' {
		return nil, s.Scan(), nil
	}

	for {
		a, err := parseArg(s, tok)
		if err != nil {
			return nil, 0, err
		}

		args = append(args, a)

		switch tok = s.Scan(); tok {
		case ')':
			return args, s.Scan(), nil
		case ',':
			tok = s.Scan()
		default:
			return nil, 0, syntaxErr(s, "expected ',' or ')', got %s", scanner.TokenString(tok))
		}
	}
}

func parseArg(s *scanner.Scanner, tok rune) (arg, error) {
	switch tok {
	case scanner.String, scanner.RawString:
		str, err := strconv.Unquote(s.TokenText())
		if err != nil {
			return arg{}, syntaxErr(s, "bad string literal %s", s.TokenText())
		}

		return arg{lit: value.String(str)}, nil
	case scanner.Int, scanner.Float:
		return parseNumber(s, s.TokenText())
	case '-':
		if next := s.Scan(); next != scanner.Int && next != scanner.Float {
			return arg{}, syntaxErr(s, "expected number after '-'")
		}

		return parseNumber(s, "-"+s.TokenText())
	case '$':
		if s.Scan() != scanner.Ident {
			return arg{}, syntaxErr(s, "expected option name after '$'")
		}

		return arg{option: s.TokenText()}, nil
	case scanner.Ident:
		switch s.TokenText() {
		case "true":
			return arg{lit: value.Bool(true)}, nil
		case "false":
			return arg{lit: value.Bool(false)}, nil
		case "null":
			return arg{lit: value.Null()}, nil
		}
	}

	return arg{}, syntaxErr(s, "unexpected argument %s", scanner.TokenString(tok))
}

func parseNumber(s *scanner.Scanner, text string) (arg, error) {
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return arg{}, syntaxErr(s, "bad number %s", text)
	}

	return arg{lit: value.Number(n)}, nil
}

func syntaxErr(s *scanner.Scanner, format string, a ...any) error {
	return fmt.Errorf("%w: col %d: %s", ErrSyntax, s.Position.Column, fmt.Sprintf(format, a...))
}

// Run applies the stages to v. The context is checked between stages.
func (p *Pipeline) Run(ctx context.Context, v value.Value, opts Options) (value.Value, error) {
	cur := v

	for _, st := range p.stages {
		if err := ctx.Err(); err != nil {
			return value.Null(), err
		}

		args := make([]value.Value, len(st.args))
		for i, a := range st.args {
			args[i] = a.resolve(opts)
		}

		out, err := st.spec.fn(cur, args)
		if err != nil {
			return value.Null(), fmt.Errorf("%s: %w", st.name, err)
		}

		cur = out
	}

	return cur, nil
}

// Ops returns the operation names in stage order.
func (p *Pipeline) Ops() []string {
	names := make([]string, len(p.stages))
	for i, st := range p.stages {
		names[i] = st.name
	}

	return names
}

// String returns the canonical source form.
func (p *Pipeline) String() string {
	parts := make([]string, len(p.stages))

	for i, st := range p.stages {
		if len(st.args) == 0 {
			parts[i] = st.name
			continue
		}

		args := make([]string, len(st.args))
		for j, a := range st.args {
			args[j] = a.String()
		}

		parts[i] = st.name + "(" + strings.Join(args, ", ") + ")"
	}

	return strings.Join(parts, " | ")
}

// Compile parses def.Pipeline and binds it as def's Execute function.
func Compile(def Definition) (Definition, error) {
	p, err := Parse(def.Pipeline)
	if err != nil {
		return Definition{}, fmt.Errorf("transformation %s: %w", def.ID, err)
	}

	def.Pipeline = p.String()
	def.Execute = p.Run

	return def, nil
}
