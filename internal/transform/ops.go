package transform

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"casestudy-mapper/internal/value"
)

var errMissingArg = errors.New("missing argument")

type opFunc func(v value.Value, args []value.Value) (value.Value, error)

type opSpec struct {
	minArgs int
	maxArgs int
	fn      opFunc
}

func (o opSpec) arity() string {
	if o.minArgs == o.maxArgs {
		return fmt.Sprintf("%d argument(s)", o.minArgs)
	}

	return fmt.Sprintf("%d to %d arguments", o.minArgs, o.maxArgs)
}

// ops is the closed set of pipeline operations.
var ops = map[string]opSpec{
	"extract_text": {0, 0, func(v value.Value, _ []value.Value) (value.Value, error) {
		return value.String(extractText(v)), nil
	}},
	"pluck":  {1, 1, opPluck},
	"join":   {0, 1, opJoin},
	"split":  {0, 1, opSplit},
	"trim":   {0, 0, stringOp(strings.TrimSpace)},
	"lower":  {0, 0, stringOp(strings.ToLower)},
	"upper":  {0, 0, stringOp(strings.ToUpper)},
	"first":  {0, 0, opFirst},
	"count":  {0, 0, opCount},
	"url_of": {0, 0, func(v value.Value, _ []value.Value) (value.Value, error) {
		return urlOf(v), nil
	}},
	"format_date": {0, 1, opFormatDate},
	"default":     {1, 1, opDefault},
	"truncate":    {1, 1, opTruncate},
	"replace":     {2, 2, opReplace},
	"equals":      {1, 1, opEquals},
	"to_string":   {0, 0, cast(ToString)},
	"to_number":   {0, 0, cast(ToNumber)},
	"to_bool":     {0, 0, cast(ToBool)},
	"to_date":     {0, 0, cast(ToDate)},
	"to_list":     {0, 0, cast(ToList)},
}

// OpNames returns the names of all pipeline operations, sorted.
func OpNames() []string {
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func argOr(args []value.Value, i int, def value.Value) value.Value {
	if i < len(args) && !args[i].IsNull() {
		return args[i]
	}

	return def
}

func requireArg(args []value.Value, i int) (value.Value, error) {
	if i >= len(args) || args[i].IsNull() {
		return value.Null(), errMissingArg
	}

	return args[i], nil
}

func cast(fn func(value.Value) value.Value) opFunc {
	return func(v value.Value, _ []value.Value) (value.Value, error) {
		return fn(v), nil
	}
}

// extractText flattens rich text (lists of text runs) into plain text.
func extractText(v value.Value) string {
	switch v.Kind() {
	case value.KindNull:
		return ""
	case value.KindString:
		s, _ := v.AsString()
		return s
	case value.KindList:
		var b strings.Builder
		for _, it := range v.Items() {
			b.WriteString(extractText(it))
		}

		return b.String()
	case value.KindRecord:
		for _, key := range []string{"plain_text", "text", "content", "name"} {
			if f, ok := v.Field(key); ok {
				return extractText(f)
			}
		}

		return ""
	default:
		return v.Text()
	}
}

func opPluck(v value.Value, args []value.Value) (value.Value, error) {
	keyArg, err := requireArg(args, 0)
	if err != nil {
		return value.Null(), err
	}

	key := keyArg.Text()

	switch v.Kind() {
	case value.KindList:
		var out []value.Value

		for _, it := range v.Items() {
			switch it.Kind() {
			case value.KindRecord:
				if f, ok := it.Field(key); ok {
					out = append(out, f)
				}
			case value.KindString:
				out = append(out, it)
			default:
			}
		}

		return value.List(out...), nil
	case value.KindRecord:
		f, ok := v.Field(key)
		if !ok {
			return value.Null(), nil
		}

		return f, nil
	default:
		return v, nil
	}
}

func opJoin(v value.Value, args []value.Value) (value.Value, error) {
	sep := argOr(args, 0, value.String(", ")).Text()

	switch v.Kind() {
	case value.KindNull:
		return value.String(""), nil
	case value.KindList:
		parts := make([]string, 0, v.Len())
		for _, it := range v.Items() {
			if it.IsNull() {
				continue
			}

			parts = append(parts, it.Text())
		}

		return value.String(strings.Join(parts, sep)), nil
	default:
		return value.String(v.Text()), nil
	}
}

func opSplit(v value.Value, args []value.Value) (value.Value, error) {
	sep := argOr(args, 0, value.String(",")).Text()

	switch v.Kind() {
	case value.KindList:
		return v, nil
	case value.KindNull:
		return value.List(), nil
	}

	var out []value.Value

	for _, part := range strings.Split(v.Text(), sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, value.String(part))
		}
	}

	return value.List(out...), nil
}

func stringOp(fn func(string) string) opFunc {
	var apply func(v value.Value) value.Value

	apply = func(v value.Value) value.Value {
		switch v.Kind() {
		case value.KindString:
			s, _ := v.AsString()
			return value.String(fn(s))
		case value.KindList:
			items := v.Items()
			for i, it := range items {
				items[i] = apply(it)
			}

			return value.List(items...)
		default:
			return v
		}
	}

	return func(v value.Value, _ []value.Value) (value.Value, error) {
		return apply(v), nil
	}
}

func opFirst(v value.Value, _ []value.Value) (value.Value, error) {
	if v.Kind() != value.KindList {
		return v, nil
	}

	if v.Len() == 0 {
		return value.Null(), nil
	}

	return v.Items()[0], nil
}

func opCount(v value.Value, _ []value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.KindNull:
		return value.Int(0), nil
	case value.KindString:
		s, _ := v.AsString()
		return value.Int(utf8.RuneCountInString(s)), nil
	case value.KindList, value.KindRecord:
		return value.Int(v.Len()), nil
	default:
		return value.Int(1), nil
	}
}

// urlOf reads the url out of file objects: {"url"}, {"external": {"url"}}
// or {"file": {"url"}}. Lists map item by item and drop files without one.
func urlOf(v value.Value) value.Value {
	switch v.Kind() {
	case value.KindString:
		return v
	case value.KindList:
		var out []value.Value

		for _, it := range v.Items() {
			if u := urlOf(it); !u.IsNull() {
				out = append(out, u)
			}
		}

		return value.List(out...)
	case value.KindRecord:
		if u, ok := v.Field("url"); ok && u.Kind() == value.KindString {
			return u
		}

		for _, key := range []string{"external", "file"} {
			if nested, ok := v.Field(key); ok && nested.Kind() == value.KindRecord {
				return urlOf(nested)
			}
		}

		return value.Null()
	default:
		return value.Null()
	}
}

func opFormatDate(v value.Value, args []value.Value) (value.Value, error) {
	layout := argOr(args, 0, value.String("2006-01-02")).Text()

	d := ToDate(v)
	if d.IsNull() {
		return value.Null(), nil
	}

	t, _ := d.AsDate()

	return value.String(t.Format(layout)), nil
}

func opDefault(v value.Value, args []value.Value) (value.Value, error) {
	if !v.IsEmpty() {
		return v, nil
	}

	return argOr(args, 0, v), nil
}

func opTruncate(v value.Value, args []value.Value) (value.Value, error) {
	nArg, err := requireArg(args, 0)
	if err != nil {
		return value.Null(), err
	}

	f, ok := nArg.AsNumber()
	if !ok || f < 0 {
		return value.Null(), fmt.Errorf("length must be a non-negative number, got %s", nArg)
	}

	n := int(f)

	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		if utf8.RuneCountInString(s) <= n {
			return v, nil
		}

		return value.String(string([]rune(s)[:n])), nil
	case value.KindList:
		items := v.Items()
		if len(items) <= n {
			return v, nil
		}

		return value.List(items[:n]...), nil
	default:
		return v, nil
	}
}

func opReplace(v value.Value, args []value.Value) (value.Value, error) {
	oldArg, err := requireArg(args, 0)
	if err != nil {
		return value.Null(), err
	}

	oldStr := oldArg.Text()
	newStr := argOr(args, 1, value.String("")).Text()

	return stringOp(func(s string) string {
		return strings.ReplaceAll(s, oldStr, newStr)
	})(v, nil)
}

func opEquals(v value.Value, args []value.Value) (value.Value, error) {
	want := argOr(args, 0, value.Null())
	if v.Equal(want) {
		return value.Bool(true), nil
	}

	scalar := v.Kind() != value.KindList && v.Kind() != value.KindRecord && !v.IsNull()

	return value.Bool(scalar && v.Text() == want.Text()), nil
}
