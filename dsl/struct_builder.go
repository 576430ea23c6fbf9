package dsl

import (
	goprops "github.com/reoring/goprops"
)

type structBuilder struct {
	name  string
	decls []goprops.Decl
	cfg   goprops.Config
}

type propStep struct {
	b *structBuilder
	i int
}

// Struct creates a new struct builder. Unknown keys are stripped and the weak
// constructor is off until enabled.
func Struct(name string) *structBuilder {
	return &structBuilder{name: name}
}

func (b *structBuilder) add(kind goprops.DeclKind, name string, typ any) *propStep {
	b.decls = append(b.decls, goprops.Decl{Kind: kind, Name: name, Type: typ})
	return &propStep{b: b, i: len(b.decls) - 1}
}

// Prop declares a mutable prop. typ is a types.Type, a *goprops.StructType or
// a types.CustomType.
func (b *structBuilder) Prop(name string, typ any) *propStep { return b.add(goprops.DeclProp, name, typ) }

// Const declares a prop that can only be set by the constructor.
func (b *structBuilder) Const(name string, typ any) *propStep {
	return b.add(goprops.DeclConst, name, typ)
}

// Optional declares a nilable prop.
func (b *structBuilder) Optional(name string, typ any) *propStep {
	return b.add(goprops.DeclOptional, name, typ)
}

func (s *propStep) opts() *goprops.Options { return &s.b.decls[s.i].Options }

// Required marks the prop optional: false. Loading data without it fails.
func (s *propStep) Required() *propStep {
	s.opts().Optional = goprops.NotOptional
	return s
}

// Nilable marks the prop as accepting nil.
func (s *propStep) Nilable() *propStep {
	s.opts().Optional = goprops.OptionalNil
	return s
}

// Default sets a static default, shared by every instance.
func (s *propStep) Default(v any) *propStep {
	o := s.opts()
	o.Default, o.HasDefault = v, true
	return s
}

// Factory sets a default computed once per instance on first read.
func (s *propStep) Factory(fn func() any) *propStep {
	s.opts().Factory = fn
	return s
}

// Immutable forbids writes after construction.
func (s *propStep) Immutable() *propStep {
	yes := true
	s.opts().Immutable = &yes
	return s
}

func (s *propStep) Prop(name string, typ any) *propStep     { return s.b.Prop(name, typ) }
func (s *propStep) Const(name string, typ any) *propStep    { return s.b.Const(name, typ) }
func (s *propStep) Optional(name string, typ any) *propStep { return s.b.Optional(name, typ) }
func (s *propStep) WeakConstructor() *structBuilder         { return s.b.WeakConstructor() }
func (s *propStep) UnknownStrict() *structBuilder           { return s.b.UnknownStrict() }
func (s *propStep) UnknownStrip() *structBuilder            { return s.b.UnknownStrip() }
func (s *propStep) UnknownPassthrough() *structBuilder      { return s.b.UnknownPassthrough() }
func (s *propStep) Refine(name string, fn func(*goprops.Instance) error) *structBuilder {
	return s.b.Refine(name, fn)
}
func (s *propStep) Build() (*goprops.StructType, error) { return s.b.Build() }
func (s *propStep) MustBuild() *goprops.StructType      { return s.b.MustBuild() }

// WeakConstructor enables NewWeak on the built struct type.
func (b *structBuilder) WeakConstructor() *structBuilder {
	b.cfg.WeakConstructor = true
	return b
}

// UnknownStrict rejects unknown keys in FromHash.
func (b *structBuilder) UnknownStrict() *structBuilder {
	b.cfg.Unknown = goprops.UnknownStrict
	return b
}

// UnknownStrip drops unknown keys in FromHash.
func (b *structBuilder) UnknownStrip() *structBuilder {
	b.cfg.Unknown = goprops.UnknownStrip
	return b
}

// UnknownPassthrough keeps unknown keys on the instance and emits them again
// from Serialize.
func (b *structBuilder) UnknownPassthrough() *structBuilder {
	b.cfg.Unknown = goprops.UnknownPassthrough
	return b
}

// Refine adds a struct-level rule. It runs after the constructor and after
// FromHash.
func (b *structBuilder) Refine(name string, fn func(*goprops.Instance) error) *structBuilder {
	if fn == nil {
		return b
	}
	b.cfg.Refines = append(b.cfg.Refines, goprops.Refine{Name: name, Fn: fn})
	return b
}

// Build validates the declarations and freezes the struct type.
func (b *structBuilder) Build() (*goprops.StructType, error) {
	return goprops.Declare(b.name, b.cfg, b.decls...)
}

// MustBuild is like Build but panics on error.
func (b *structBuilder) MustBuild() *goprops.StructType {
	st, err := b.Build()
	if err != nil {
		panic(err)
	}
	return st
}
