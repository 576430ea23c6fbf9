package goprops

import (
	"github.com/reoring/goprops/jsonschema"
	"github.com/reoring/goprops/types"
)

var _ jsonschema.Provider = (*StructType)(nil)

// JSONSchema describes the serialized form of the struct type. Required
// lists the props Serialize insists on; static defaults are exported in
// their plain form.
func (st *StructType) JSONSchema() (*jsonschema.Schema, error) {
	out := &jsonschema.Schema{
		Title:      st.name,
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(st.fields)),
	}
	for _, f := range st.fields {
		ps, err := jsonschema.FromType(f.typ)
		if err != nil {
			return nil, err
		}
		if f.policy == PolicyDefault && f.factory == nil && f.def != nil {
			def, err := types.Serialize(f.typ, f.def)
			if err != nil {
				return nil, invalidValue(st.name, f.name, err)
			}
			ps.Default = def
		}
		if !f.mutable {
			ps.ReadOnly = true
		}
		out.Properties[f.name] = ps
		if f.policy.Required() {
			out.Required = append(out.Required, f.name)
		}
	}
	switch st.cfg.Unknown {
	case UnknownStrict:
		out.AdditionalProperties = false
	case UnknownPassthrough:
		out.AdditionalProperties = true
	}
	return out, nil
}
