package goprops

import (
	"fmt"

	"github.com/reoring/goprops/types"
)

// Refine is a struct-level rule checked after construction and FromHash.
type Refine struct {
	Name string
	Fn   func(*Instance) error
}

// Config carries the struct-wide options of a declaration.
type Config struct {
	// WeakConstructor enables NewWeak.
	WeakConstructor bool
	// Unknown decides what FromHash does with keys that name no prop.
	Unknown UnknownPolicy
	Refines []Refine
}

// StructType is the frozen runtime contract of a declared struct. It is
// immutable after Declare returns and safe for concurrent use; its Instances
// are not.
type StructType struct {
	name      string
	cfg       Config
	fields    []*FieldSpec
	index     map[string]int
	accessors []*Accessor
}

var _ types.Struct = (*StructType)(nil)

// Declare validates decls in order and freezes them into a struct type. The
// first invalid declaration aborts with a *DeclarationError.
func Declare(name string, cfg Config, decls ...Decl) (*StructType, error) {
	st := &StructType{
		name:   name,
		cfg:    cfg,
		fields: make([]*FieldSpec, 0, len(decls)),
		index:  make(map[string]int, len(decls)),
	}
	st.cfg.Refines = append([]Refine(nil), cfg.Refines...)
	for _, d := range decls {
		f, err := newFieldSpec(name, d)
		if err != nil {
			return nil, err
		}
		if _, dup := st.index[f.name]; dup {
			return nil, &DeclarationError{Struct: name, Field: f.name, Code: CodeDuplicateProp}
		}
		st.index[f.name] = len(st.fields)
		st.fields = append(st.fields, f)
	}
	st.accessors = make([]*Accessor, len(st.fields))
	for i, f := range st.fields {
		st.accessors[i] = &Accessor{st: st, f: f, i: i}
	}
	return st, nil
}

// MustDeclare is like Declare but panics on error.
func MustDeclare(name string, cfg Config, decls ...Decl) *StructType {
	st, err := Declare(name, cfg, decls...)
	if err != nil {
		panic(err)
	}
	return st
}

func (st *StructType) Name() string { return st.name }

// Fields returns the prop specifications in declaration order.
func (st *StructType) Fields() []*FieldSpec { return append([]*FieldSpec(nil), st.fields...) }

// Field looks up a prop by name.
func (st *StructType) Field(name string) (*FieldSpec, bool) {
	i, ok := st.index[name]
	if !ok {
		return nil, false
	}
	return st.fields[i], true
}

// Accessor returns the reader/writer pair generated for a prop.
func (st *StructType) Accessor(name string) (*Accessor, error) {
	i, ok := st.index[name]
	if !ok {
		return nil, unknownPropError(st.name, name)
	}
	return st.accessors[i], nil
}

// WeakConstructor reports whether NewWeak is enabled.
func (st *StructType) WeakConstructor() bool { return st.cfg.WeakConstructor }

// UnknownKeys reports the policy applied to unknown FromHash keys.
func (st *StructType) UnknownKeys() UnknownPolicy { return st.cfg.Unknown }

// New is the strict constructor: every required prop must be present in
// values. Immutable props may be set here and nowhere else.
func (st *StructType) New(values map[string]any) (*Instance, error) {
	return st.construct(values, false)
}

// NewWeak accepts a partial bag. Required props left out stay unset until
// written, and only Serialize complains about them.
func (st *StructType) NewWeak(values map[string]any) (*Instance, error) {
	if !st.cfg.WeakConstructor {
		return nil, fmt.Errorf("%w: %s", ErrNoWeakConstructor, st.name)
	}
	return st.construct(values, true)
}

func (st *StructType) construct(values map[string]any, weak bool) (*Instance, error) {
	for _, k := range sortedKeys(values) {
		if _, ok := st.index[k]; !ok {
			return nil, unknownPropError(st.name, k)
		}
	}
	in := newInstance(st)
	for i, f := range st.fields {
		v, ok := values[f.name]
		if ok && v == nil && !f.typ.Valid(nil) && (weak || f.policy == PolicyDefault) {
			// nil stands for "not given" when the type cannot hold it.
			ok = false
		}
		if !ok {
			if !weak && f.policy.Required() {
				return nil, &MissingPropertyError{Struct: st.name, Field: f.name, Phase: PhaseConstruct}
			}
			continue
		}
		if err := st.accessors[i].write(in, v, true); err != nil {
			return nil, err
		}
	}
	if err := st.refine(in); err != nil {
		return nil, err
	}
	return in, nil
}

func (st *StructType) refine(in *Instance) error {
	for _, r := range st.cfg.Refines {
		if r.Fn == nil {
			continue
		}
		if err := r.Fn(in); err != nil {
			return &RefineError{Struct: st.name, Rule: r.Name, Cause: err}
		}
	}
	return nil
}

// IsInstance reports whether v is an *Instance of this struct type.
func (st *StructType) IsInstance(v any) bool {
	in, ok := v.(*Instance)
	return ok && in != nil && in.st == st
}

// SerializeValue serializes an instance held in a StructRef slot.
func (st *StructType) SerializeValue(v any) (map[string]any, error) {
	if !st.IsInstance(v) {
		return nil, &types.ValueError{Type: types.StructRef(st), Value: v}
	}
	return v.(*Instance).Serialize()
}

// DeserializeValue loads a nested mapping with FromHash.
func (st *StructType) DeserializeValue(plain map[string]any) (any, error) {
	return st.FromHash(plain)
}

// Accessor is the generated reader and writer of one prop.
type Accessor struct {
	st *StructType
	f  *FieldSpec
	i  int
}

func (a *Accessor) Field() *FieldSpec { return a.f }

// Get reads the prop. A defaulted prop that was never written receives its
// default on first read.
func (a *Accessor) Get(in *Instance) (any, error) {
	if err := a.check(in); err != nil {
		return nil, err
	}
	return a.read(in)
}

// Set writes the prop outside the constructor path.
func (a *Accessor) Set(in *Instance, v any) error {
	if err := a.check(in); err != nil {
		return err
	}
	return a.write(in, v, false)
}

// IsSet reports whether the slot holds a value, explicit nil included.
func (a *Accessor) IsSet(in *Instance) bool {
	return a.check(in) == nil && in.slots[a.i].set
}

func (a *Accessor) check(in *Instance) error {
	if in == nil || in.st != a.st {
		return fmt.Errorf("goprops: accessor %s.%s used on a foreign instance", a.st.name, a.f.name)
	}
	return nil
}

func (a *Accessor) read(in *Instance) (any, error) {
	s := &in.slots[a.i]
	if !s.set && a.f.policy == PolicyDefault {
		v, err := defaultFor(a.st.name, a.f)
		if err != nil {
			return nil, err
		}
		s.v, s.set = v, true
	}
	return s.v, nil
}

// defaultFor produces the prop's default. Static defaults were checked at
// declaration; factory results are checked on every call.
func defaultFor(st string, f *FieldSpec) (any, error) {
	v := f.Default()
	if f.factory != nil && !f.typ.Valid(v) {
		return nil, &InvalidValueError{
			Struct:   st,
			Field:    f.name,
			Path:     types.JoinPointer("", f.name),
			Expected: f.typ.Name(),
			Got:      f.typ.Describe(v),
		}
	}
	return v, nil
}

// write applies the mutability check first, then the nil check, then the
// type check.
func (a *Accessor) write(in *Instance, v any, constructing bool) error {
	f := a.f
	if !f.mutable && !constructing {
		return &ImmutablePropertyError{Struct: a.st.name, Field: f.name}
	}
	if v == nil && !f.typ.Valid(nil) {
		return &NilAssignmentError{Struct: a.st.name, Field: f.name}
	}
	if !f.typ.Valid(v) {
		return &InvalidValueError{
			Struct:   a.st.name,
			Field:    f.name,
			Path:     types.JoinPointer("", f.name),
			Expected: f.typ.Name(),
			Got:      f.typ.Describe(v),
		}
	}
	in.slots[a.i] = slot{v: v, set: true}
	return nil
}
