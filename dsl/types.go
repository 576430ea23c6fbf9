package dsl

import (
	goprops "github.com/reoring/goprops"
	"github.com/reoring/goprops/types"
)

// Short aliases for the descriptors, so declarations read as one chain.

func Integer() types.Type { return types.Integer() }
func Float() types.Type   { return types.Float() }
func Numeric() types.Type { return types.Numeric() }
func String() types.Type  { return types.String() }
func Bool() types.Type    { return types.Bool() }
func Any() types.Type     { return types.Any() }

func Array(elem types.Type) types.Type   { return types.ArrayOf(elem) }
func Set(elem types.Type) types.Type     { return types.SetOf(elem) }
func Hash(k, v types.Type) types.Type    { return types.HashOf(k, v) }
func Range(elem types.Type) types.Type   { return types.RangeOf(elem) }
func Nilable(elem types.Type) types.Type { return types.Nilable(elem) }
func Enum(values ...any) types.Type      { return types.EnumOf(values...) }
func Union(ts ...types.Type) types.Type  { return types.Union(ts...) }

// Ref refers to a previously built struct type.
func Ref(st *goprops.StructType) types.Type { return types.StructRef(st) }

// Custom wraps a plugin.
func Custom(c types.CustomType) types.Type { return types.Custom(c) }
