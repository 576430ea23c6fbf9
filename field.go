package goprops

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/reoring/goprops/types"
)

// Decl is one raw prop declaration, in source order.
type Decl struct {
	Kind    DeclKind
	Name    string
	Type    any // A types.Type, *StructType, types.Struct or types.CustomType.
	Options Options
}

// Prop declares a mutable prop.
func Prop(name string, typ any, opts ...Options) Decl {
	return Decl{Kind: DeclProp, Name: name, Type: typ, Options: firstOptions(opts)}
}

// Const declares an immutable prop.
func Const(name string, typ any, opts ...Options) Decl {
	return Decl{Kind: DeclConst, Name: name, Type: typ, Options: firstOptions(opts)}
}

// Optional declares a nilable prop.
func Optional(name string, typ any, opts ...Options) Decl {
	return Decl{Kind: DeclOptional, Name: name, Type: typ, Options: firstOptions(opts)}
}

// DeclFromBag builds a Decl from a data-driven option bag.
func DeclFromBag(kind DeclKind, name string, typ any, bag map[any]any) (Decl, error) {
	opts, err := OptionsFromBag(bag)
	if err != nil {
		if de, ok := err.(*DeclarationError); ok {
			de.Field = name
		}
		return Decl{}, err
	}
	return Decl{Kind: kind, Name: name, Type: typ, Options: opts}, nil
}

func firstOptions(opts []Options) Options {
	if len(opts) == 0 {
		return Options{}
	}
	return opts[0]
}

// FieldSpec is the frozen contract of one declared prop.
type FieldSpec struct {
	name    string
	kind    DeclKind
	typ     types.Type
	mutable bool
	policy  PresencePolicy
	def     any
	factory func() any
}

func (f *FieldSpec) Name() string           { return f.name }
func (f *FieldSpec) Kind() DeclKind         { return f.kind }
func (f *FieldSpec) Type() types.Type       { return f.typ }
func (f *FieldSpec) Mutable() bool          { return f.mutable }
func (f *FieldSpec) Policy() PresencePolicy { return f.policy }

// HasFactory reports whether the default is produced per instance.
func (f *FieldSpec) HasFactory() bool { return f.factory != nil }

// Default computes the default value. The static default is shared, not
// copied; a factory is called on every invocation.
func (f *FieldSpec) Default() any {
	if f.factory != nil {
		return f.factory()
	}
	return f.def
}

// ResolveType turns a type expression into a descriptor.
func ResolveType(expr any) (types.Type, error) {
	switch t := expr.(type) {
	case types.Type:
		return t, nil
	case *StructType:
		if t == nil {
			break
		}
		return types.StructRef(t), nil
	case types.Struct:
		return types.StructRef(t), nil
	case types.CustomType:
		return types.Custom(t), nil
	}
	return nil, &DeclarationError{Code: CodeInvalidTypeConstraint, Got: fmt.Sprintf("%T(%#v)", expr, expr)}
}

func checkName(name string) string {
	switch {
	case name == "":
		return "name must not be empty"
	case strings.IndexFunc(name, unicode.IsSpace) >= 0:
		return "name must not contain whitespace"
	case strings.HasSuffix(name, "="):
		return "name looks like a setter"
	case strings.HasSuffix(name, "!"), strings.HasSuffix(name, "?"):
		return "name looks like a checked accessor"
	}
	return ""
}

// newFieldSpec validates a declaration and freezes it.
func newFieldSpec(structName string, d Decl) (*FieldSpec, error) {
	fail := func(code, reason string) error {
		return &DeclarationError{Struct: structName, Field: d.Name, Code: code, Reason: reason}
	}
	if reason := checkName(d.Name); reason != "" {
		return nil, fail(CodeInvalidName, reason)
	}
	o := d.Options
	if d.Kind == DeclOptional && o.Optional != OptionalUnspecified {
		return nil, fail(CodeInvalidCombination, "Cannot pass 'optional' argument when declaring an optional prop")
	}
	if d.Kind == DeclConst && o.Immutable != nil {
		return nil, fail(CodeInvalidCombination, "Cannot pass 'immutable' argument when declaring a const prop")
	}
	typ, err := ResolveType(d.Type)
	if err != nil {
		de := err.(*DeclarationError)
		de.Struct, de.Field = structName, d.Name
		return nil, de
	}
	hasDefault := o.HasDefault || o.Factory != nil
	switch {
	case o.HasDefault && o.Factory != nil:
		return nil, fail(CodeInvalidCombination, "a default value and a default factory are mutually exclusive")
	case o.Optional == NotOptional && hasDefault:
		return nil, fail(CodeInvalidCombination, "a required prop cannot declare a default")
	case o.Optional == OptionalWithDefault && !hasDefault:
		return nil, fail(CodeInvalidCombination, "optional: default requires a default value")
	case o.Optional == NotOptional && types.AcceptsNil(typ):
		return nil, fail(CodeInvalidCombination, "a required prop cannot have the nilable type "+typ.Name())
	}
	nilable := d.Kind == DeclOptional || o.Optional == OptionalNil
	if nilable {
		typ = types.Nilable(typ)
	}
	f := &FieldSpec{
		name:    d.Name,
		kind:    d.Kind,
		typ:     typ,
		mutable: d.Kind != DeclConst && (o.Immutable == nil || !*o.Immutable),
		def:     o.Default,
		factory: o.Factory,
	}
	switch {
	case hasDefault:
		f.policy = PolicyDefault
	case o.Optional == NotOptional:
		f.policy = PolicyStrict
	case types.AcceptsNil(typ):
		f.policy = PolicyNilable
	default:
		f.policy = PolicyRequired
	}
	if o.HasDefault && !typ.Valid(o.Default) {
		return nil, fail(CodeInvalidCombination, fmt.Sprintf("default %s does not satisfy %s", typ.Describe(o.Default), typ.Name()))
	}
	return f, nil
}
