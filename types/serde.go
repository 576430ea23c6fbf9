package types

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// ValueError reports a value that does not satisfy a descriptor. Path is a
// JSON Pointer relative to the value handed to Serialize or Deserialize; it is
// empty when the value itself is at fault.
type ValueError struct {
	Path  string
	Type  Type
	Value any
	Cause error
}

func (e *ValueError) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "expected %s, got %s", e.Type.Name(), e.Type.Describe(e.Value))
	if e.Cause != nil {
		b.WriteString(" (")
		b.WriteString(e.Cause.Error())
		b.WriteString(")")
	}
	return b.String()
}

func (e *ValueError) Unwrap() error { return e.Cause }

// Serialize converts v into plain data according to t. A nil v serializes to
// nil.
func Serialize(t Type, v any) (any, error) { return serialize(t, v, "") }

func serialize(t Type, v any, path string) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch tt := t.(type) {
	case scalarType:
		switch tt.kind {
		case KindAny, KindArray, KindHash:
			return serializeLoose(v, path)
		}
		return v, nil
	case nilableType:
		return serialize(tt.inner, v, path)
	case unionType:
		for _, b := range tt.branches {
			if b.Valid(v) {
				return serialize(b, v, path)
			}
		}
		return nil, &ValueError{Path: path, Type: t, Value: v}
	case arrayType:
		rv, ok := sliceValue(v)
		if !ok {
			return nil, &ValueError{Path: path, Type: t, Value: v}
		}
		out := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			e, err := serialize(tt.elem, rv.Index(i).Interface(), path+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	case setType:
		set, ok := v.(Set)
		if !ok {
			return nil, &ValueError{Path: path, Type: t, Value: v}
		}
		out := make([]any, 0, len(set))
		for e := range set {
			pe, err := serialize(tt.elem, e, path+"/"+escapePointer(fmt.Sprint(e)))
			if err != nil {
				return nil, err
			}
			out = append(out, pe)
		}
		sort.Slice(out, func(i, j int) bool { return lessPlain(out[i], out[j]) })
		return out, nil
	case hashType:
		rv, ok := mapValue(v)
		if !ok {
			return nil, &ValueError{Path: path, Type: t, Value: v}
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k, err := keyString(tt.key, iter.Key().Interface())
			if err != nil {
				return nil, &ValueError{Path: path, Type: tt.key, Value: iter.Key().Interface(), Cause: err}
			}
			pv, err := serialize(tt.val, iter.Value().Interface(), path+"/"+escapePointer(k))
			if err != nil {
				return nil, err
			}
			out[k] = pv
		}
		return out, nil
	case RangeType:
		rg, ok := asRange(v)
		if !ok {
			return nil, &ValueError{Path: path, Type: t, Value: v}
		}
		b, err := serialize(tt.elem, rg.Begin, path+"/begin")
		if err != nil {
			return nil, err
		}
		e, err := serialize(tt.elem, rg.End, path+"/end")
		if err != nil {
			return nil, err
		}
		out := map[string]any{"begin": b, "end": e}
		if rg.ExcludeEnd {
			out["exclude_end"] = true
		}
		return out, nil
	case EnumType:
		return v, nil
	case structRef:
		m, err := tt.s.SerializeValue(v)
		if err != nil {
			return nil, &ValueError{Path: path, Type: t, Value: v, Cause: err}
		}
		return m, nil
	case customType:
		pv, err := tt.c.Serialize(v)
		if err != nil {
			return nil, &ValueError{Path: path, Type: t, Value: v, Cause: err}
		}
		return pv, nil
	}
	return v, nil
}

// serializer is satisfied by struct instances held in untyped slots.
type serializer interface {
	Serialize() (map[string]any, error)
}

// serializeLoose converts values held by untyped descriptors by inspecting
// their runtime shape.
func serializeLoose(v any, path string) (any, error) {
	switch t := v.(type) {
	case nil, string, bool, json.Number:
		return v, nil
	case serializer:
		return t.Serialize()
	case Set:
		return serialize(SetOf(Any()), t, path)
	case Range, *Range:
		return serialize(RangeOf(Any()), t, path)
	}
	if rv, ok := sliceValue(v); ok {
		if _, isBytes := v.([]byte); isBytes {
			return v, nil
		}
		out := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			e, err := serializeLoose(rv.Index(i).Interface(), path+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	}
	if _, ok := mapValue(v); ok {
		return serialize(HashOf(Any(), Any()), v, path)
	}
	return v, nil
}

// Deserialize converts plain data into a value of t, validating as it goes.
// Every failure is a *ValueError.
func Deserialize(t Type, plain any) (any, error) { return deserialize(t, plain, "") }

func deserialize(t Type, plain any, path string) (any, error) {
	if plain == nil {
		if t.Valid(nil) {
			return nil, nil
		}
		return nil, &ValueError{Path: path, Type: t, Value: nil}
	}
	mismatch := func() (any, error) { return nil, &ValueError{Path: path, Type: t, Value: plain} }
	switch tt := t.(type) {
	case scalarType:
		v := plain
		switch tt.kind {
		case KindInteger:
			v = normalizeInteger(plain)
		case KindFloat:
			v = normalizeFloat(plain)
		case KindNumeric:
			v = normalizeNumber(plain)
		}
		if !tt.Valid(v) {
			return mismatch()
		}
		return v, nil
	case nilableType:
		return deserialize(tt.inner, plain, path)
	case unionType:
		for _, b := range tt.branches {
			if v, err := deserialize(b, plain, path); err == nil {
				return v, nil
			}
		}
		return mismatch()
	case arrayType:
		rv, ok := sliceValue(plain)
		if !ok {
			return mismatch()
		}
		out := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			e, err := deserialize(tt.elem, rv.Index(i).Interface(), path+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	case setType:
		rv, ok := sliceValue(plain)
		if !ok {
			return mismatch()
		}
		out := make(Set, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			e, err := deserialize(tt.elem, rv.Index(i).Interface(), path+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			if e != nil && !reflect.ValueOf(e).Comparable() {
				return nil, &ValueError{Path: path + "/" + strconv.Itoa(i), Type: tt.elem, Value: e}
			}
			out[e] = struct{}{}
		}
		return out, nil
	case hashType:
		m, ok := stringMap(plain)
		if !ok {
			return mismatch()
		}
		stringKeys := tt.key.Valid("")
		var out any
		if stringKeys {
			out = make(map[string]any, len(m))
		} else {
			out = make(map[any]any, len(m))
		}
		for k, pv := range m {
			kp := path + "/" + escapePointer(k)
			key, err := parseKey(tt.key, k)
			if err != nil {
				return nil, &ValueError{Path: kp, Type: tt.key, Value: k, Cause: err}
			}
			v, err := deserialize(tt.val, pv, kp)
			if err != nil {
				return nil, err
			}
			if stringKeys {
				out.(map[string]any)[k] = v
			} else {
				out.(map[any]any)[key] = v
			}
		}
		return out, nil
	case RangeType:
		m, ok := stringMap(plain)
		if !ok {
			return mismatch()
		}
		b, err := deserialize(tt.elem, m["begin"], path+"/begin")
		if err != nil {
			return nil, err
		}
		e, err := deserialize(tt.elem, m["end"], path+"/end")
		if err != nil {
			return nil, err
		}
		ex, _ := m["exclude_end"].(bool)
		return Range{Begin: b, End: e, ExcludeEnd: ex}, nil
	case EnumType:
		v, ok := tt.member(normalizeNumber(plain))
		if !ok {
			return mismatch()
		}
		return v, nil
	case structRef:
		m, ok := stringMap(plain)
		if !ok {
			return mismatch()
		}
		v, err := tt.s.DeserializeValue(m)
		if err != nil {
			return nil, &ValueError{Path: path, Type: t, Value: plain, Cause: err}
		}
		return v, nil
	case customType:
		v, err := tt.c.Deserialize(plain)
		if err != nil {
			return nil, &ValueError{Path: path, Type: t, Value: plain, Cause: err}
		}
		if !tt.c.IsInstance(v) {
			return mismatch()
		}
		return v, nil
	}
	if !t.Valid(plain) {
		return mismatch()
	}
	return plain, nil
}

// stringMap accepts any map kind keyed by strings, the way arrays accept any
// slice kind.
func stringMap(plain any) (map[string]any, bool) {
	if m, ok := plain.(map[string]any); ok {
		return m, true
	}
	rv, ok := mapValue(plain)
	if !ok || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	m := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return m, true
}

// lessPlain orders serialized set elements: numbers by value and ahead of
// everything else, the rest by their printed form.
func lessPlain(a, b any) bool {
	ai, aInt := toInt64(a)
	bi, bInt := toInt64(b)
	if aInt && bInt {
		return ai < bi
	}
	af, aNum := toFloat64(a)
	bf, bNum := toFloat64(b)
	switch {
	case aNum && bNum:
		return af < bf
	case aNum != bNum:
		return aNum
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

// normalizeInteger turns integral json.Number and float values into int64 so
// that plain data produced by any JSON or YAML decoder satisfies Integer.
func normalizeInteger(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return int64(t)
		}
	case float32:
		f := float64(t)
		if f == math.Trunc(f) && math.Abs(f) < 1<<24 {
			return int64(f)
		}
	}
	return v
}

func normalizeFloat(v any) any {
	switch t := v.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
	case float32:
		return float64(t)
	}
	if i, ok := toInt64(v); ok {
		return float64(i)
	}
	return v
}

func normalizeNumber(v any) any {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return v
}

func keyString(key Type, k any) (string, error) {
	if !key.Valid(k) {
		return "", fmt.Errorf("key %s does not satisfy %s", key.Describe(k), key.Name())
	}
	switch t := k.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	}
	if i, ok := toInt64(k); ok {
		return strconv.FormatInt(i, 10), nil
	}
	return "", fmt.Errorf("key %s cannot be rendered as a string", key.Describe(k))
}

func parseKey(key Type, s string) (any, error) {
	if key.Valid(s) {
		return s, nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		if v, ok := memberOrSelf(key, i); ok {
			return v, nil
		}
	}
	if b, err := strconv.ParseBool(s); err == nil && key.Valid(b) {
		return b, nil
	}
	return nil, fmt.Errorf("key %q does not satisfy %s", s, key.Name())
}

func memberOrSelf(key Type, v any) (any, bool) {
	if e, ok := NonNil(key).(EnumType); ok {
		return e.member(v)
	}
	if key.Valid(v) {
		return v, true
	}
	return nil, false
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escapePointer(s string) string { return pointerEscaper.Replace(s) }

// JoinPointer appends a reference token to a JSON Pointer.
func JoinPointer(base, token string) string { return base + "/" + escapePointer(token) }
