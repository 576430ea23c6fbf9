package types

import "fmt"

type arrayType struct{ elem Type }

// ArrayOf accepts slices whose every element satisfies elem.
func ArrayOf(elem Type) Type { return arrayType{elem: elem} }

// Elem returns the element descriptor.
func (a arrayType) Elem() Type { return a.elem }

func (a arrayType) Name() string { return "Array[" + a.elem.Name() + "]" }

func (a arrayType) Valid(v any) bool {
	rv, ok := sliceValue(v)
	if !ok {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if !a.elem.Valid(rv.Index(i).Interface()) {
			return false
		}
	}
	return true
}

func (a arrayType) Describe(v any) string { return describe(v) }

// Set is the unordered collection accepted by SetOf. Elements must be
// comparable.
type Set map[any]struct{}

// NewSet builds a Set holding vals.
func NewSet(vals ...any) Set {
	s := make(Set, len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s Set) Has(v any) bool {
	_, ok := s[v]
	return ok
}

type setType struct{ elem Type }

// SetOf accepts a Set whose every element satisfies elem.
func SetOf(elem Type) Type { return setType{elem: elem} }

func (s setType) Elem() Type { return s.elem }

func (s setType) Name() string { return "Set[" + s.elem.Name() + "]" }

func (s setType) Valid(v any) bool {
	set, ok := v.(Set)
	if !ok {
		return false
	}
	for e := range set {
		if !s.elem.Valid(e) {
			return false
		}
	}
	return true
}

func (s setType) Describe(v any) string { return describe(v) }

type hashType struct {
	key Type
	val Type
}

// HashOf accepts maps whose keys satisfy key and values satisfy val.
func HashOf(key, val Type) Type { return hashType{key: key, val: val} }

func (h hashType) Key() Type   { return h.key }
func (h hashType) Value() Type { return h.val }

func (h hashType) Name() string { return "Hash[" + h.key.Name() + ", " + h.val.Name() + "]" }

func (h hashType) Valid(v any) bool {
	rv, ok := mapValue(v)
	if !ok {
		return false
	}
	iter := rv.MapRange()
	for iter.Next() {
		if !h.key.Valid(iter.Key().Interface()) || !h.val.Valid(iter.Value().Interface()) {
			return false
		}
	}
	return true
}

func (h hashType) Describe(v any) string { return describe(v) }

// Range is a bounded interval. ExcludeEnd marks a half-open interval.
type Range struct {
	Begin      any
	End        any
	ExcludeEnd bool
}

func (r Range) String() string {
	op := ".."
	if r.ExcludeEnd {
		op = "..."
	}
	return fmt.Sprintf("%v%s%v", r.Begin, op, r.End)
}

// RangeType is the descriptor returned by RangeOf.
type RangeType struct{ elem Type }

// RangeOf accepts a Range (or *Range) whose endpoints satisfy elem.
func RangeOf(elem Type) RangeType { return RangeType{elem: elem} }

func (r RangeType) Elem() Type { return r.elem }

func (r RangeType) Name() string { return "Range[" + r.elem.Name() + "]" }

func (r RangeType) Valid(v any) bool {
	rg, ok := asRange(v)
	if !ok {
		return false
	}
	return r.elem.Valid(rg.Begin) && r.elem.Valid(rg.End)
}

func (r RangeType) Describe(v any) string { return describe(v) }

// New builds the inclusive interval begin..end, rejecting endpoints that do
// not satisfy the element type.
func (r RangeType) New(begin, end any) (Range, error) {
	for _, p := range [...]struct {
		path string
		v    any
	}{{"/begin", begin}, {"/end", end}} {
		if !r.elem.Valid(p.v) {
			return Range{}, &ValueError{Path: p.path, Type: r.elem, Value: p.v}
		}
	}
	return Range{Begin: begin, End: end}, nil
}

func asRange(v any) (Range, bool) {
	switch t := v.(type) {
	case Range:
		return t, true
	case *Range:
		if t == nil {
			return Range{}, false
		}
		return *t, true
	}
	return Range{}, false
}
