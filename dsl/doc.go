// Package dsl provides a fluent declaration surface for goprops struct types.
//
// Overview
//   - Builder API: declare props in order with Struct()/Prop()/Const()/Optional() and finish with Build()/MustBuild().
//   - Prop modifiers: Required()/Nilable()/Default()/Factory()/Immutable() apply to the prop declared last.
//   - Struct options: WeakConstructor()/UnknownStrict()/UnknownStrip()/UnknownPassthrough()/Refine().
//   - Descriptors: Integer()/String()/Array(elem)/Hash(k, v)/Enum(values...)/Ref(structType) are short aliases for package types.
//
// Example (quickstart)
//
//	point := g.Struct("Point").
//	    Const("x", g.Integer()).
//	    Prop("y", g.Integer()).Default(0).
//	    Optional("label", g.String()).
//	    MustBuild()
//
//	p, _ := point.New(map[string]any{"x": 1})
//	plain, _ := p.Serialize() // map[string]any{"x": 1, "y": 0}
//
// Example (nested structs and refine)
//
//	span := g.Struct("Span").
//	    Prop("start", g.Integer()).Required().
//	    Prop("end", g.Integer()).Required().
//	    Refine("start<=end", func(in *goprops.Instance) error {
//	        s, _ := in.Get("start")
//	        e, _ := in.Get("end")
//	        if s.(int64) > e.(int64) {
//	            return fmt.Errorf("start after end")
//	        }
//	        return nil
//	    }).
//	    UnknownStrict().
//	    MustBuild()
//	schedule := g.Struct("Schedule").Prop("spans", g.Array(g.Ref(span))).MustBuild()
//	_, err := schedule.FromHash(map[string]any{"spans": []any{map[string]any{"start": 3, "end": 1}}})
//	_ = err // *goprops.InvalidValueError at /spans/0 wrapping *goprops.RefineError
//
// JSON Schema output hints
//
//	sch, _ := schedule.JSONSchema()
//	// Note: UnknownStrict => additionalProperties=false,
//	//       UnknownPassthrough => additionalProperties=true
package dsl
