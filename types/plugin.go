package types

// Struct is implemented by declared struct types so that descriptors can
// refer to them without knowing their fields.
type Struct interface {
	Name() string
	IsInstance(v any) bool
	SerializeValue(v any) (map[string]any, error)
	DeserializeValue(plain map[string]any) (any, error)
}

type structRef struct{ s Struct }

// StructRef accepts instances of s. Contained values are validated when they
// are written, so an instance is trusted as a whole.
func StructRef(s Struct) Type { return structRef{s: s} }

// Struct returns the referenced struct type.
func (r structRef) Struct() Struct { return r.s }

func (r structRef) Name() string { return r.s.Name() }

func (r structRef) Valid(v any) bool { return v != nil && r.s.IsInstance(v) }

func (r structRef) Describe(v any) string { return describe(v) }

// CustomType is the plugin contract for value types opaque to this package.
// The engine calls these hooks and never inspects the value itself.
type CustomType interface {
	Name() string
	IsInstance(v any) bool
	Serialize(v any) (any, error)
	Deserialize(plain any) (any, error)
}

type customType struct{ c CustomType }

// Custom adapts a CustomType plugin into a descriptor.
func Custom(c CustomType) Type { return customType{c: c} }

func (c customType) Plugin() CustomType { return c.c }

func (c customType) Name() string { return c.c.Name() }

func (c customType) Valid(v any) bool { return v != nil && c.c.IsInstance(v) }

func (c customType) Describe(v any) string { return describe(v) }
