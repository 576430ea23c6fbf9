package schema

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/reoring/goprops/types"
)

var scalars = map[string]func() types.Type{
	"Any":     types.Any,
	"Integer": types.Integer,
	"Float":   types.Float,
	"Numeric": types.Numeric,
	"String":  types.String,
	"Boolean": types.Bool,
	"Bool":    types.Bool,
}

// typeParser reads type expressions such as Hash[String, Array[Inner]].
type typeParser struct {
	src string
	pos int
	reg *Registry
}

func (p *typeParser) errorf(format string, args ...any) error {
	return fmt.Errorf("offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *typeParser) accept(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if r != '_' && !unicode.IsLetter(r) && !(p.pos > start && unicode.IsDigit(r)) {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *typeParser) parse() (types.Type, error) {
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return t, nil
}

func (p *typeParser) parseType() (types.Type, error) {
	name := p.ident()
	if name == "" {
		return nil, p.errorf("expected a type name")
	}
	if !p.accept('[') {
		return p.leaf(name)
	}
	if name == "Enum" {
		vals, err := p.literals()
		if err != nil {
			return nil, err
		}
		return types.EnumOf(vals...), nil
	}
	var args []types.Type
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, t)
		if p.accept(']') {
			break
		}
		if !p.accept(',') {
			return nil, p.errorf("expected ',' or ']'")
		}
	}
	arity := func(n int) error {
		if len(args) != n {
			return p.errorf("%s takes %d type argument(s), got %d", name, n, len(args))
		}
		return nil
	}
	switch name {
	case "Array", "Set", "Range", "Nilable":
		if err := arity(1); err != nil {
			return nil, err
		}
		switch name {
		case "Array":
			return types.ArrayOf(args[0]), nil
		case "Set":
			return types.SetOf(args[0]), nil
		case "Range":
			return types.RangeOf(args[0]), nil
		}
		return types.Nilable(args[0]), nil
	case "Hash":
		if err := arity(2); err != nil {
			return nil, err
		}
		return types.HashOf(args[0], args[1]), nil
	case "Union":
		return types.Union(args...), nil
	}
	return nil, p.errorf("%s is not a generic type", name)
}

func (p *typeParser) leaf(name string) (types.Type, error) {
	if mk, ok := scalars[name]; ok {
		return mk(), nil
	}
	switch name {
	case "Array":
		return types.UntypedArray(), nil
	case "Hash":
		return types.UntypedHash(), nil
	}
	if p.reg != nil {
		if st, ok := p.reg.structs[name]; ok {
			return types.StructRef(st), nil
		}
		if c, ok := p.reg.customs[name]; ok {
			return types.Custom(c), nil
		}
	}
	return nil, p.errorf("unknown type %s", name)
}

// literals reads the comma separated members of Enum[...] up to the closing
// bracket. Bare words are strings.
func (p *typeParser) literals() ([]any, error) {
	var out []any
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated Enum")
		}
		var v any
		switch c := p.src[p.pos]; {
		case c == '"' || c == '\'':
			end := strings.IndexByte(p.src[p.pos+1:], c)
			if end < 0 {
				return nil, p.errorf("unterminated string")
			}
			raw := p.src[p.pos : p.pos+end+2]
			p.pos += end + 2
			if c == '\'' {
				v = raw[1 : len(raw)-1]
				break
			}
			s, err := strconv.Unquote(raw)
			if err != nil {
				return nil, p.errorf("bad string %s", raw)
			}
			v = s
		default:
			start := p.pos
			for p.pos < len(p.src) && !strings.ContainsRune(",] \t", rune(p.src[p.pos])) {
				p.pos++
			}
			if start == p.pos {
				return nil, p.errorf("expected an Enum value")
			}
			v = word(p.src[start:p.pos])
		}
		out = append(out, v)
		if p.accept(']') {
			break
		}
		if !p.accept(',') {
			return nil, p.errorf("expected ',' or ']'")
		}
	}
	return out, nil
}

func word(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	case "nil", "null":
		return nil
	}
	return s
}
