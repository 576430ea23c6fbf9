package goprops_test

import (
	"errors"
	"strings"
	"testing"

	goprops "github.com/reoring/goprops"
	"github.com/reoring/goprops/types"
)

func declErr(t *testing.T, decls ...goprops.Decl) *goprops.DeclarationError {
	t.Helper()
	_, err := goprops.Declare("Decl", goprops.Config{}, decls...)
	var de *goprops.DeclarationError
	if !errors.As(err, &de) {
		t.Fatalf("want DeclarationError, got %v", err)
	}
	return de
}

func TestDeclare_RejectsNames(t *testing.T) {
	for _, name := range []string{"", "foo=", "foo!", "foo?", "foo bar", "tab\tname"} {
		de := declErr(t, goprops.Prop(name, types.String()))
		if de.Code != goprops.CodeInvalidName {
			t.Fatalf("%q: want invalid_name, got %s", name, de.Code)
		}
	}
	de := declErr(t, goprops.Prop("a", types.String()), goprops.Optional("a", types.Integer()))
	if de.Code != goprops.CodeDuplicateProp || de.Field != "a" {
		t.Fatalf("want duplicate_prop on a, got %+v", de)
	}
}

func TestDeclare_RejectsTypeExpressions(t *testing.T) {
	de := declErr(t, goprops.Prop("foo", "goat"))
	if de.Code != goprops.CodeInvalidTypeConstraint {
		t.Fatalf("want invalid_type_constraint, got %s", de.Code)
	}
	if !strings.Contains(de.Error(), `"goat"`) {
		t.Fatalf("message must describe the value: %v", de)
	}
}

func TestDeclare_RejectsCombinations(t *testing.T) {
	yes := true
	cases := []struct {
		name string
		decl goprops.Decl
		want string
	}{
		{"optional keyword with optional option", goprops.Optional("a", types.Integer(), goprops.Options{Optional: goprops.OptionalNil}), "'optional'"},
		{"const with immutable option", goprops.Const("a", types.Integer(), goprops.Options{Immutable: &yes}), "'immutable'"},
		{"required with default", goprops.Prop("a", types.Integer(), goprops.Options{Optional: goprops.NotOptional, Default: int64(1), HasDefault: true}), "default"},
		{"default and factory", goprops.Prop("a", types.Integer(), goprops.Options{Default: int64(1), HasDefault: true, Factory: func() any { return int64(2) }}), "mutually exclusive"},
		{"required nilable type", goprops.Prop("a", types.Nilable(types.Integer()), goprops.Options{Optional: goprops.NotOptional}), "nilable"},
		{"defaultable marker without default", goprops.Prop("a", types.Integer(), goprops.Options{Optional: goprops.OptionalWithDefault}), "requires a default"},
		{"default of the wrong type", goprops.Prop("a", types.Integer(), goprops.Options{Default: "x", HasDefault: true}), "does not satisfy"},
	}
	for _, tc := range cases {
		de := declErr(t, tc.decl)
		if de.Code != goprops.CodeInvalidCombination || !strings.Contains(de.Error(), tc.want) {
			t.Fatalf("%s: unexpected error %v", tc.name, de)
		}
	}
}

func TestOptionsFromBag(t *testing.T) {
	_, err := goprops.DeclFromBag(goprops.DeclProp, "foo", types.String(), map[any]any{"fake": 1, "bogus": 2, "default": "x"})
	var de *goprops.DeclarationError
	if !errors.As(err, &de) || de.Code != goprops.CodeInvalidOption {
		t.Fatalf("want invalid_option, got %v", err)
	}
	if strings.Join(de.Keys, ",") != "bogus,fake" || de.Field != "foo" {
		t.Fatalf("keys must be listed sorted: %+v", de)
	}
	if got := de.Error(); got != "At least one invalid prop arg supplied in foo: [bogus, fake]" {
		t.Fatalf("message without a struct name: %q", got)
	}
	de.Struct = "Thing"
	if got := de.Error(); !strings.Contains(got, "in Thing.foo:") {
		t.Fatalf("message with a struct name: %q", got)
	}

	_, err = goprops.OptionsFromBag(map[any]any{"optional false": true})
	if !errors.As(err, &de) || de.Code != goprops.CodeOptionKeyType {
		t.Fatalf("want option_key_type for a non-identifier, got %v", err)
	}
	_, err = goprops.OptionsFromBag(map[any]any{42: true, "fake": 1})
	if !errors.As(err, &de) || de.Code != goprops.CodeOptionKeyType {
		t.Fatalf("key type errors come before unknown keys, got %v", err)
	}

	_, err = goprops.OptionsFromBag(map[any]any{"optional": "sometimes"})
	if err == nil || !strings.Contains(err.Error(), "optional must be one of [false, true, nilable, default]") {
		t.Fatalf("unexpected error: %v", err)
	}

	opts, err := goprops.OptionsFromBag(map[any]any{"optional": "default", "default": func() any { return "fresh" }, "immutable": true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Optional != goprops.OptionalWithDefault || opts.Factory == nil || opts.HasDefault || !*opts.Immutable {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestPolicyDerivation(t *testing.T) {
	st := goprops.MustDeclare("Policies", goprops.Config{},
		goprops.Prop("req", types.Integer()),
		goprops.Prop("strict", types.Integer(), goprops.Options{Optional: goprops.NotOptional}),
		goprops.Prop("def", types.Integer(), goprops.Options{Default: int64(0), HasDefault: true}),
		goprops.Prop("marker", types.Integer(), goprops.Options{Optional: goprops.OptionalNil}),
		goprops.Prop("niltype", types.Nilable(types.String())),
		goprops.Optional("opt", types.String()),
		goprops.Const("frozen", types.String()),
	)
	want := map[string]goprops.PresencePolicy{
		"req":     goprops.PolicyRequired,
		"strict":  goprops.PolicyStrict,
		"def":     goprops.PolicyDefault,
		"marker":  goprops.PolicyNilable,
		"niltype": goprops.PolicyNilable,
		"opt":     goprops.PolicyNilable,
		"frozen":  goprops.PolicyRequired,
	}
	for _, f := range st.Fields() {
		if f.Policy() != want[f.Name()] {
			t.Fatalf("%s: want %s, got %s", f.Name(), want[f.Name()], f.Policy())
		}
	}
	if f, _ := st.Field("frozen"); f.Mutable() {
		t.Fatalf("const must be immutable")
	}
	if f, _ := st.Field("opt"); !f.Type().Valid(nil) {
		t.Fatalf("optional keyword must wrap the type in Nilable")
	}
}

func TestResolveType(t *testing.T) {
	inner := goprops.MustDeclare("Inner", goprops.Config{}, goprops.Prop("a", types.Integer()))
	typ, err := goprops.ResolveType(inner)
	if err != nil || typ.Name() != "Inner" {
		t.Fatalf("struct types resolve to a StructRef: %v %v", typ, err)
	}
	if _, err := goprops.ResolveType(nil); err == nil {
		t.Fatalf("nil must not resolve")
	}
}
