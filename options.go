package goprops

import (
	"fmt"
	"regexp"
	"sort"
)

// DeclKind is the declaration keyword a prop was introduced with.
type DeclKind uint8

const (
	DeclProp     DeclKind = iota // prop: mutable, presence from options.
	DeclConst                    // const: immutable.
	DeclOptional                 // optional: nilable.
)

func (k DeclKind) String() string {
	switch k {
	case DeclConst:
		return "const"
	case DeclOptional:
		return "optional"
	}
	return "prop"
}

// Optionality is the value of the optional option.
type Optionality uint8

const (
	OptionalUnspecified Optionality = iota
	NotOptional                     // optional: false
	OptionalNil                     // optional: true / nilable
	OptionalWithDefault             // optional: default
)

// Options is the closed set of prop options.
type Options struct {
	Optional Optionality
	// Default is shared by every instance that does not override it. It is
	// only consulted when HasDefault is set, so nil can be a default.
	Default    any
	HasDefault bool
	// Factory produces a fresh default per instance.
	Factory func() any
	// Immutable is nil when the option was not given.
	Immutable *bool
}

// Option keys recognized by OptionsFromBag.
const (
	OptOptional  = "optional"
	OptDefault   = "default"
	OptImmutable = "immutable"
)

var (
	identRe   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	knownOpts = map[string]struct{}{OptOptional: {}, OptDefault: {}, OptImmutable: {}}
)

// OptionsFromBag converts a data-driven option bag into Options. A default
// holding a func() any becomes the Factory. Keys must be
// identifier strings (a type-category failure, CodeOptionKeyType) naming a
// recognized option (optional, default or immutable) (CodeInvalidOption, listing every offending key).
// The returned DeclarationError has no Struct or Field set; DeclFromBag
// fills in the field.
func OptionsFromBag(bag map[any]any) (Options, error) {
	var opts Options
	var badType, unknown []string
	for k := range bag {
		ks, ok := k.(string)
		if !ok || !identRe.MatchString(ks) {
			badType = append(badType, fmt.Sprintf("%#v", k))
			continue
		}
		if _, ok := knownOpts[ks]; !ok {
			unknown = append(unknown, ks)
		}
	}
	if len(badType) > 0 {
		sort.Strings(badType)
		return opts, &DeclarationError{Code: CodeOptionKeyType, Keys: badType}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return opts, &DeclarationError{Code: CodeInvalidOption, Keys: unknown}
	}
	if v, ok := bag[OptOptional]; ok {
		o, err := parseOptionality(v)
		if err != nil {
			return opts, err
		}
		opts.Optional = o
	}
	if v, ok := bag[OptDefault]; ok {
		if fn, ok := v.(func() any); ok {
			opts.Factory = fn
		} else {
			opts.Default = v
			opts.HasDefault = true
		}
	}
	if v, ok := bag[OptImmutable]; ok {
		b, ok := v.(bool)
		if !ok {
			return opts, &DeclarationError{Code: CodeInvalidCombination, Reason: fmt.Sprintf("immutable must be a boolean, got %#v", v)}
		}
		opts.Immutable = &b
	}
	return opts, nil
}

func parseOptionality(v any) (Optionality, error) {
	switch t := v.(type) {
	case bool:
		if t {
			return OptionalNil, nil
		}
		return NotOptional, nil
	case string:
		switch t {
		case "false":
			return NotOptional, nil
		case "true", "nilable":
			return OptionalNil, nil
		case "default":
			return OptionalWithDefault, nil
		}
	case Optionality:
		if t <= OptionalWithDefault {
			return t, nil
		}
	}
	return 0, &DeclarationError{Code: CodeInvalidCombination, Reason: fmt.Sprintf("optional must be one of [false, true, nilable, default], got %#v", v)}
}
