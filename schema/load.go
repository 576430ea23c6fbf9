package schema

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	goprops "github.com/reoring/goprops"
	"github.com/reoring/goprops/types"
)

// LoadFile reads a declaration file. See Load.
func (r *Registry) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return errors.Wrapf(r.Load(f), "load %s", path)
}

// Load reads a YAML (or JSON) stream of declaration documents and declares
// every struct in order. A struct may refer to the structs declared before
// it. The first invalid declaration aborts the load; structs declared before
// it stay registered.
func (r *Registry) Load(rd io.Reader) error {
	dec := yaml.NewDecoder(rd)
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return errors.Wrap(err, "read declarations")
		}
		if len(doc.Content) == 0 {
			continue
		}
		if err := r.loadDocument(doc.Content[0]); err != nil {
			return err
		}
	}
}

func (r *Registry) loadDocument(n *yaml.Node) error {
	return pairs(n, func(k, v *yaml.Node) error {
		if k.Value != "structs" {
			return errors.Errorf("line %d: unknown key %q", k.Line, k.Value)
		}
		if v.Kind != yaml.SequenceNode {
			return errors.Errorf("line %d: structs must be a list", v.Line)
		}
		for _, sn := range v.Content {
			if err := r.loadStruct(sn); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Registry) loadStruct(n *yaml.Node) error {
	var (
		name   string
		cfg    goprops.Config
		fields []*yaml.Node
	)
	err := pairs(n, func(k, v *yaml.Node) error {
		switch k.Value {
		case "name":
			return v.Decode(&name)
		case "weak_constructor":
			return v.Decode(&cfg.WeakConstructor)
		case "unknown":
			var s string
			if err := v.Decode(&s); err != nil {
				return err
			}
			p, ok := unknownPolicies[s]
			if !ok {
				return errors.Errorf("line %d: unknown must be strip, strict or passthrough, got %q", v.Line, s)
			}
			cfg.Unknown = p
		case "fields":
			if v.Kind != yaml.SequenceNode {
				return errors.Errorf("line %d: fields must be a list", v.Line)
			}
			fields = v.Content
		default:
			return errors.Errorf("line %d: unknown struct key %q", k.Line, k.Value)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if name == "" {
		return errors.Errorf("line %d: struct without a name", n.Line)
	}
	decls := make([]goprops.Decl, 0, len(fields))
	for _, fn := range fields {
		d, err := r.loadField(name, fn)
		if err != nil {
			return errors.Wrapf(err, "line %d", fn.Line)
		}
		decls = append(decls, d)
	}
	st, err := goprops.Declare(name, cfg, decls...)
	if err != nil {
		return errors.Wrapf(err, "line %d", n.Line)
	}
	return errors.Wrapf(r.RegisterStruct(st), "line %d", n.Line)
}

var unknownPolicies = map[string]goprops.UnknownPolicy{
	"strip":       goprops.UnknownStrip,
	"strict":      goprops.UnknownStrict,
	"passthrough": goprops.UnknownPassthrough,
}

var declKinds = map[string]goprops.DeclKind{
	"prop":     goprops.DeclProp,
	"const":    goprops.DeclConst,
	"optional": goprops.DeclOptional,
}

func (r *Registry) loadField(structName string, n *yaml.Node) (goprops.Decl, error) {
	var (
		name  string
		kind  = goprops.DeclProp
		typ   any
		bag   = map[any]any{}
		typeN *yaml.Node
	)
	err := pairs(n, func(k, v *yaml.Node) error {
		switch k.Value {
		case "name":
			return v.Decode(&name)
		case "kind":
			var s string
			if err := v.Decode(&s); err != nil {
				return err
			}
			dk, ok := declKinds[s]
			if !ok {
				return errors.Errorf("line %d: kind must be prop, const or optional, got %q", v.Line, s)
			}
			kind = dk
		case "type":
			typeN = v
		case "options":
			b, err := optionBag(v)
			if err != nil {
				return err
			}
			bag = b
		default:
			return errors.Errorf("line %d: unknown field key %q", k.Line, k.Value)
		}
		return nil
	})
	if err != nil {
		return goprops.Decl{}, err
	}
	fail := func(err error) (goprops.Decl, error) {
		if de, ok := err.(*goprops.DeclarationError); ok {
			de.Struct, de.Field = structName, name
		}
		return goprops.Decl{}, err
	}
	switch {
	case typeN == nil:
		typ = nil
	case typeN.Kind == yaml.ScalarNode && typeN.ShortTag() == "!!str":
		t, err := r.ParseType(typeN.Value)
		if err != nil {
			return fail(err)
		}
		typ = t
	default:
		raw, err := plainValue(typeN)
		if err != nil {
			return goprops.Decl{}, err
		}
		typ = raw
	}
	d, err := goprops.DeclFromBag(kind, name, typ, bag)
	if err != nil {
		return fail(err)
	}
	if t, ok := typ.(types.Type); ok && d.Options.HasDefault && d.Options.Default != nil {
		// Defaults are written in plain form; decode them into values.
		if v, err := types.Deserialize(t, d.Options.Default); err == nil {
			d.Options.Default = v
		}
	}
	return d, nil
}
