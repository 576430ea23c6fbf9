// Package schema declares goprops struct types from YAML or JSON declaration
// files, resolving type expressions such as "Hash[String, Array[Inner]]"
// against earlier structs and registered custom types.
package schema

import (
	"fmt"

	"github.com/pkg/errors"

	goprops "github.com/reoring/goprops"
	"github.com/reoring/goprops/types"
)

// Registry resolves type names and keeps the struct types declared through
// it, in declaration order. It is not safe for concurrent loading.
type Registry struct {
	structs map[string]*goprops.StructType
	order   []*goprops.StructType
	customs map[string]types.CustomType
}

// NewRegistry returns a registry that knows the given custom types by name.
func NewRegistry(customs ...types.CustomType) (*Registry, error) {
	r := &Registry{
		structs: map[string]*goprops.StructType{},
		customs: map[string]types.CustomType{},
	}
	for _, c := range customs {
		if err := r.RegisterCustom(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) taken(name string) bool {
	if _, ok := scalars[name]; ok || name == "Array" || name == "Hash" || name == "Enum" {
		return true
	}
	_, s := r.structs[name]
	_, c := r.customs[name]
	return s || c
}

// RegisterCustom makes a plugin available under its Name.
func (r *Registry) RegisterCustom(c types.CustomType) error {
	if r.taken(c.Name()) {
		return errors.Errorf("type name %s already registered", c.Name())
	}
	r.customs[c.Name()] = c
	return nil
}

// RegisterStruct makes a struct type available to later type expressions.
func (r *Registry) RegisterStruct(st *goprops.StructType) error {
	if r.taken(st.Name()) {
		return errors.Errorf("type name %s already registered", st.Name())
	}
	r.structs[st.Name()] = st
	r.order = append(r.order, st)
	return nil
}

// Struct looks up a struct type by name.
func (r *Registry) Struct(name string) (*goprops.StructType, bool) {
	st, ok := r.structs[name]
	return st, ok
}

// Structs returns every registered struct type in registration order.
func (r *Registry) Structs() []*goprops.StructType {
	return append([]*goprops.StructType(nil), r.order...)
}

// ParseType resolves a type expression. Failures are *goprops.DeclarationError
// with code invalid_type_constraint.
func (r *Registry) ParseType(expr string) (types.Type, error) {
	p := &typeParser{src: expr, reg: r}
	t, err := p.parse()
	if err != nil {
		return nil, &goprops.DeclarationError{
			Code:   goprops.CodeInvalidTypeConstraint,
			Got:    fmt.Sprintf("%T(%#v)", expr, expr),
			Reason: err.Error(),
		}
	}
	return t, nil
}
