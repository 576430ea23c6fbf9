package types

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// EnumType accepts members of a fixed value set.
type EnumType struct{ values []any }

// EnumOf accepts exactly the given values. Integer members match any Go
// integer kind holding the same number.
func EnumOf(values ...any) EnumType {
	return EnumType{values: append([]any(nil), values...)}
}

// Values returns a copy of the member list in declaration order.
func (e EnumType) Values() []any { return append([]any(nil), e.values...) }

func (e EnumType) Name() string {
	parts := make([]string, len(e.values))
	for i, v := range e.values {
		parts[i] = literal(v)
	}
	return "Enum[" + strings.Join(parts, ", ") + "]"
}

func (e EnumType) Valid(v any) bool {
	_, ok := e.member(v)
	return ok
}

// Describe renders the literal value rather than its Go type.
func (e EnumType) Describe(v any) string { return literal(v) }

// SubtypeOf holds when other is an enum containing every member of e.
func (e EnumType) SubtypeOf(other Type) bool {
	o, ok := other.(EnumType)
	if !ok {
		return false
	}
	for _, v := range e.values {
		if !o.Valid(v) {
			return false
		}
	}
	return true
}

// member returns the declared value equal to v.
func (e EnumType) member(v any) (any, bool) {
	for _, m := range e.values {
		if equalValues(m, v) {
			return m, true
		}
	}
	return nil, false
}

func literal(v any) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(t)
	}
	return fmt.Sprintf("%#v", v)
}

// equalValues compares scalars, treating numbers of different Go kinds as
// equal when they hold the same value. It never panics on uncomparable
// values.
func equalValues(a, b any) bool {
	if ai, ok := toInt64(a); ok {
		if bi, ok := toInt64(b); ok {
			return ai == bi
		}
	}
	if af, ok := toFloat64(a); ok {
		if bf, ok := toFloat64(b); ok {
			return af == bf
		}
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return int64(t), t <= math.MaxInt64
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		return int64(t), t <= math.MaxInt64
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case float32:
		return float64(t), true
	case float64:
		return t, true
	}
	if i, ok := toInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}
