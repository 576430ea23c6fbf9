// Package types defines the type descriptors that constrain property values.
//
// A descriptor answers three questions about a value: whether it is valid
// (Valid), how the type is named in messages and subtype checks (Name), and how
// an offending value is rendered in error text (Describe). Composite
// descriptors recurse into their element types; Serialize and Deserialize
// convert values to and from plain data (maps, slices and scalars).
//
// The set of descriptors is closed: scalars, ArrayOf, SetOf, HashOf, RangeOf,
// EnumOf, Nilable, Union, StructRef and Custom. Types opaque to this package
// plug in through the CustomType interface.
package types

import (
	"fmt"
	"reflect"
	"unicode/utf8"
)

// Type is a value shape descriptor.
type Type interface {
	// Name is stable and used in error text and subtype comparisons.
	Name() string
	// Valid reports whether v conforms to the descriptor, recursing into
	// contained values.
	Valid(v any) bool
	// Describe renders v for error messages.
	Describe(v any) string
}

// Kind enumerates the scalar descriptors.
type Kind uint8

const (
	KindAny      Kind = iota // Any value, nil included.
	KindInteger              // Go integer kinds.
	KindFloat                // float32, float64.
	KindNumeric              // Integer or Float.
	KindString               // string.
	KindBool                 // bool.
	KindArray                // Any slice, elements unchecked.
	KindHash                 // Any map, entries unchecked.
)

var kindNames = [...]string{
	KindAny:     "Any",
	KindInteger: "Integer",
	KindFloat:   "Float",
	KindNumeric: "Numeric",
	KindString:  "String",
	KindBool:    "Boolean",
	KindArray:   "Array",
	KindHash:    "Hash",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

type scalarType struct{ kind Kind }

// Any accepts every value including nil.
func Any() Type { return scalarType{kind: KindAny} }

// Integer accepts the Go integer kinds.
func Integer() Type { return scalarType{kind: KindInteger} }

// Float accepts float32 and float64.
func Float() Type { return scalarType{kind: KindFloat} }

// Numeric accepts integers and floats.
func Numeric() Type { return scalarType{kind: KindNumeric} }

// String accepts strings.
func String() Type { return scalarType{kind: KindString} }

// Bool accepts booleans.
func Bool() Type { return scalarType{kind: KindBool} }

// UntypedArray accepts any slice without looking at its elements.
func UntypedArray() Type { return scalarType{kind: KindArray} }

// UntypedHash accepts any map without looking at its entries.
func UntypedHash() Type { return scalarType{kind: KindHash} }

// Kind reports the scalar kind.
func (s scalarType) Kind() Kind { return s.kind }

func (s scalarType) Name() string { return s.kind.String() }

func (s scalarType) Valid(v any) bool {
	switch s.kind {
	case KindAny:
		return true
	case KindInteger:
		return isInteger(v)
	case KindFloat:
		return isFloat(v)
	case KindNumeric:
		return isInteger(v) || isFloat(v)
	case KindString:
		_, ok := v.(string)
		return ok
	case KindBool:
		_, ok := v.(bool)
		return ok
	case KindArray:
		_, ok := sliceValue(v)
		return ok
	case KindHash:
		_, ok := mapValue(v)
		return ok
	}
	return false
}

func (s scalarType) Describe(v any) string { return describe(v) }

func isInteger(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func isFloat(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return false
}

// sliceValue returns the reflected slice or array held by v.
func sliceValue(v any) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv, true
	}
	return reflect.Value{}, false
}

func mapValue(v any) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}
	if _, ok := v.(Set); ok {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return reflect.Value{}, false
	}
	return rv, true
}

const maxDescribe = 64

// describe is the generic rendering used unless a descriptor overrides it.
func describe(v any) string {
	if v == nil {
		return "nil"
	}
	s := fmt.Sprintf("%T(%v)", v, v)
	if utf8.RuneCountInString(s) > maxDescribe {
		r := []rune(s)
		s = string(r[:maxDescribe-3]) + "..."
	}
	return s
}

// AcceptsNil reports whether t admits nil.
func AcceptsNil(t Type) bool { return t.Valid(nil) }
