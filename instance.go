package goprops

import (
	"errors"
	"sort"
	"strings"

	"github.com/reoring/goprops/types"
)

// slot is tri-state: unset, set to nil, set to a value.
type slot struct {
	v   any
	set bool
}

// Instance is one value of a StructType. It is not safe for concurrent
// mutation.
type Instance struct {
	st    *StructType
	slots []slot
	extra map[string]any
}

func newInstance(st *StructType) *Instance {
	return &Instance{st: st, slots: make([]slot, len(st.fields))}
}

func (in *Instance) Type() *StructType { return in.st }

// Get reads a prop by name.
func (in *Instance) Get(name string) (any, error) {
	a, err := in.st.Accessor(name)
	if err != nil {
		return nil, err
	}
	return a.read(in)
}

// Set writes a prop by name.
func (in *Instance) Set(name string, v any) error {
	a, err := in.st.Accessor(name)
	if err != nil {
		return err
	}
	return a.write(in, v, false)
}

// IsSet reports whether a prop slot has been written or defaulted.
func (in *Instance) IsSet(name string) bool {
	i, ok := in.st.index[name]
	return ok && in.slots[i].set
}

// Extra returns a copy of the unknown keys kept under UnknownPassthrough.
func (in *Instance) Extra() map[string]any {
	if len(in.extra) == 0 {
		return nil
	}
	out := make(map[string]any, len(in.extra))
	for k, v := range in.extra {
		out[k] = v
	}
	return out
}

// Serialize produces the plain mapping of the instance in declaration order.
// Nil props are omitted; an unset required prop fails with a
// *MissingPropertyError; an unset defaulted prop receives its default.
func (in *Instance) Serialize() (map[string]any, error) {
	st := in.st
	out := make(map[string]any, len(st.fields)+len(in.extra))
	for i, f := range st.fields {
		if !in.slots[i].set && f.policy.Required() {
			return nil, &MissingPropertyError{Struct: st.name, Field: f.name, Phase: PhaseSerialize}
		}
		v, err := st.accessors[i].read(in)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		pv, err := types.Serialize(f.typ, v)
		if err != nil {
			return nil, invalidValue(st.name, f.name, err)
		}
		out[f.name] = pv
	}
	for k, v := range in.extra {
		if _, taken := out[k]; !taken {
			out[k] = v
		}
	}
	return out, nil
}

// String renders the instance for debugging, e.g. Point{x: 1, y: <unset>}.
func (in *Instance) String() string {
	var b strings.Builder
	b.WriteString(in.st.name)
	b.WriteByte('{')
	for i, f := range in.st.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.name)
		b.WriteString(": ")
		if s := in.slots[i]; s.set {
			b.WriteString(f.typ.Describe(s.v))
		} else {
			b.WriteString("<unset>")
		}
	}
	b.WriteByte('}')
	return b.String()
}

// invalidValue re-roots a descriptor failure under the prop that holds it.
func invalidValue(st, field string, err error) error {
	base := types.JoinPointer("", field)
	var ve *types.ValueError
	if !errors.As(err, &ve) {
		return &InvalidValueError{Struct: st, Field: field, Path: base, Cause: err}
	}
	return &InvalidValueError{
		Struct:   st,
		Field:    field,
		Path:     base + ve.Path,
		Expected: ve.Type.Name(),
		Got:      ve.Type.Describe(ve.Value),
		Cause:    ve.Cause,
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
