package jsonschema

import (
	"github.com/reoring/goprops/types"
)

// FromType projects a descriptor onto JSON Schema. Struct references and
// custom plugins contribute their own schema when they implement Provider;
// otherwise they project to an open object and an unconstrained schema.
func FromType(t types.Type) (*Schema, error) {
	switch tt := t.(type) {
	case interface{ Kind() types.Kind }:
		return scalar(tt.Kind()), nil
	case interface{ Inner() types.Type }:
		inner, err := FromType(tt.Inner())
		if err != nil {
			return nil, err
		}
		return &Schema{OneOf: []*Schema{{Type: "null"}, inner}}, nil
	case interface{ Branches() []types.Type }:
		out := &Schema{}
		for _, b := range tt.Branches() {
			s, err := FromType(b)
			if err != nil {
				return nil, err
			}
			out.OneOf = append(out.OneOf, s)
		}
		return out, nil
	case types.EnumType:
		return &Schema{Enum: tt.Values()}, nil
	case types.RangeType:
		elem, err := FromType(tt.Elem())
		if err != nil {
			return nil, err
		}
		return &Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"begin":       elem,
				"end":         elem,
				"exclude_end": {Type: "boolean"},
			},
			Required:             []string{"begin", "end"},
			AdditionalProperties: false,
		}, nil
	case interface{ Key() types.Type }:
		val, err := FromType(tt.(interface{ Value() types.Type }).Value())
		if err != nil {
			return nil, err
		}
		out := &Schema{Type: "object", AdditionalProperties: val}
		if !tt.Key().Valid("") {
			out.PropertyNames = &Schema{Pattern: "^-?[0-9]+$"}
		}
		return out, nil
	case interface{ Elem() types.Type }:
		items, err := FromType(tt.Elem())
		if err != nil {
			return nil, err
		}
		out := &Schema{Type: "array", Items: items}
		if t.Valid(types.NewSet()) {
			out.UniqueItems = true
		}
		return out, nil
	case interface{ Struct() types.Struct }:
		if p, ok := tt.Struct().(Provider); ok {
			return p.JSONSchema()
		}
		return &Schema{Type: "object", Title: t.Name()}, nil
	case interface{ Plugin() types.CustomType }:
		if p, ok := tt.Plugin().(Provider); ok {
			return p.JSONSchema()
		}
		return &Schema{}, nil
	}
	return &Schema{}, nil
}

func scalar(k types.Kind) *Schema {
	switch k {
	case types.KindInteger:
		return &Schema{Type: "integer"}
	case types.KindFloat, types.KindNumeric:
		return &Schema{Type: "number"}
	case types.KindString:
		return &Schema{Type: "string"}
	case types.KindBool:
		return &Schema{Type: "boolean"}
	case types.KindArray:
		return &Schema{Type: "array"}
	case types.KindHash:
		return &Schema{Type: "object"}
	}
	return &Schema{}
}
