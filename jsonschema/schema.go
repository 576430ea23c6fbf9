package jsonschema

// Schema is a minimal JSON Schema representation used for export.
// Keep this struct small and extend it as descriptors need more keywords.
type Schema struct {
	// Core
	Title    string `json:"title,omitempty"`
	Type     string `json:"type,omitempty"`
	Format   string `json:"format,omitempty"`
	Default  any    `json:"default,omitempty"`
	Enum     []any  `json:"enum,omitempty"`
	ReadOnly bool   `json:"readOnly,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`
	PropertyNames        *Schema            `json:"propertyNames,omitempty"`

	// Array
	Items       *Schema `json:"items,omitempty"`
	MinItems    *int    `json:"minItems,omitempty"`
	MaxItems    *int    `json:"maxItems,omitempty"`
	UniqueItems bool    `json:"uniqueItems,omitempty"`

	// String
	Pattern string `json:"pattern,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty"`
}

// Provider is implemented by struct types and custom type plugins that know
// their own schema.
type Provider interface {
	JSONSchema() (*Schema, error)
}
