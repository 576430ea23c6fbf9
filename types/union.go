package types

import "strings"

type nilableType struct{ inner Type }

// Nilable accepts nil or any value accepted by t.
func Nilable(t Type) Type {
	if _, ok := t.(nilableType); ok {
		return t
	}
	return nilableType{inner: t}
}

func (n nilableType) Inner() Type { return n.inner }

func (n nilableType) Name() string { return "Nilable[" + n.inner.Name() + "]" }

func (n nilableType) Valid(v any) bool { return v == nil || n.inner.Valid(v) }

func (n nilableType) Describe(v any) string { return n.inner.Describe(v) }

// NonNil strips a Nilable wrapper.
func NonNil(t Type) Type {
	if n, ok := t.(nilableType); ok {
		return n.inner
	}
	return t
}

type unionType struct{ branches []Type }

// Union accepts values accepted by at least one branch. Serialization and
// deserialization pick the first matching branch.
func Union(branches ...Type) Type {
	return unionType{branches: append([]Type(nil), branches...)}
}

func (u unionType) Branches() []Type { return append([]Type(nil), u.branches...) }

func (u unionType) Name() string {
	names := make([]string, len(u.branches))
	for i, b := range u.branches {
		names[i] = b.Name()
	}
	return "Union[" + strings.Join(names, ", ") + "]"
}

func (u unionType) Valid(v any) bool {
	for _, b := range u.branches {
		if b.Valid(v) {
			return true
		}
	}
	return false
}

func (u unionType) Describe(v any) string { return describe(v) }

// SubtypeOf reports whether every value of a is also a value of b, as far as
// the descriptors can tell structurally.
func SubtypeOf(a, b Type) bool {
	if a.Name() == b.Name() {
		return true
	}
	switch bt := b.(type) {
	case scalarType:
		if bt.kind == KindAny {
			return true
		}
		if at, ok := a.(scalarType); ok && bt.kind == KindNumeric {
			return at.kind == KindInteger || at.kind == KindFloat
		}
	case nilableType:
		return SubtypeOf(NonNil(a), bt.inner)
	case unionType:
		if _, ok := a.(unionType); !ok {
			for _, br := range bt.branches {
				if SubtypeOf(a, br) {
					return true
				}
			}
			return false
		}
	}
	switch at := a.(type) {
	case EnumType:
		return at.SubtypeOf(b)
	case unionType:
		for _, br := range at.branches {
			if !SubtypeOf(br, b) {
				return false
			}
		}
		return true
	case arrayType:
		if bt, ok := b.(arrayType); ok {
			return SubtypeOf(at.elem, bt.elem)
		}
	case setType:
		if bt, ok := b.(setType); ok {
			return SubtypeOf(at.elem, bt.elem)
		}
	case hashType:
		if bt, ok := b.(hashType); ok {
			return SubtypeOf(at.key, bt.key) && SubtypeOf(at.val, bt.val)
		}
	}
	return false
}
