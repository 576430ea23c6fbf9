package goprops_test

import (
	"errors"
	"strings"
	"testing"

	goprops "github.com/reoring/goprops"
	"github.com/reoring/goprops/types"
)

func matrixStruct(t *testing.T) *goprops.StructType {
	t.Helper()
	st, err := goprops.Declare("MatrixStruct", goprops.Config{WeakConstructor: true},
		goprops.Prop("a", types.Integer()),
		goprops.Optional("b", types.Integer()),
		goprops.Const("c", types.Integer()),
		goprops.Prop("d", types.Integer(), goprops.Options{Optional: goprops.OptionalWithDefault, Default: int64(91), HasDefault: true}),
		goprops.Prop("e", types.Integer(), goprops.Options{Optional: goprops.NotOptional}),
	)
	if err != nil {
		t.Fatalf("declare: %v", err)
	}
	return st
}

func mustGet(t *testing.T, in *goprops.Instance, name string) any {
	t.Helper()
	v, err := in.Get(name)
	if err != nil {
		t.Fatalf("get %s: %v", name, err)
	}
	return v
}

func TestMatrix_FromHashToleratesNilRequired(t *testing.T) {
	st := matrixStruct(t)
	in, err := st.FromHash(map[string]any{"a": nil, "e": int64(5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := mustGet(t, in, "a"); v != nil {
		t.Fatalf("a: want nil, got %v", v)
	}
	if v := mustGet(t, in, "e"); v != int64(5) {
		t.Fatalf("e: want 5, got %#v", v)
	}
	if v := mustGet(t, in, "d"); v != int64(91) {
		t.Fatalf("d: want default 91, got %#v", v)
	}
}

func TestMatrix_FromHashStrictPropIsNil(t *testing.T) {
	st := matrixStruct(t)
	_, err := st.FromHash(map[string]any{"e": nil})
	var mpe *goprops.MissingPropertyError
	if !errors.As(err, &mpe) {
		t.Fatalf("want MissingPropertyError, got %v", err)
	}
	if mpe.Phase != goprops.PhaseLoad || mpe.Field != "e" {
		t.Fatalf("unexpected error detail: %+v", mpe)
	}
	if !strings.Contains(err.Error(), "Property e is nil") {
		t.Fatalf("unexpected message: %v", err)
	}
	if _, err := st.FromHash(map[string]any{}); err == nil {
		t.Fatalf("absent key must fail like nil")
	}
}

func TestMatrix_WeakConstructorAndWrites(t *testing.T) {
	st := matrixStruct(t)
	in, err := st.NewWeak(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"a", "b", "c", "e"} {
		if v := mustGet(t, in, name); v != nil {
			t.Fatalf("%s: want nil, got %v", name, v)
		}
	}
	if v := mustGet(t, in, "d"); v != int64(91) {
		t.Fatalf("d: want 91, got %#v", v)
	}

	var nae *goprops.NilAssignmentError
	for _, name := range []string{"a", "d", "e"} {
		err := in.Set(name, nil)
		if !errors.As(err, &nae) {
			t.Fatalf("%s = nil: want NilAssignmentError, got %v", name, err)
		}
		if !strings.Contains(err.Error(), "to nil") {
			t.Fatalf("unexpected message: %v", err)
		}
	}
	var ipe *goprops.ImmutablePropertyError
	if err := in.Set("c", nil); !errors.As(err, &ipe) {
		t.Fatalf("c = nil: want ImmutablePropertyError, got %v", err)
	} else if !strings.Contains(err.Error(), "cannot be modified") {
		t.Fatalf("unexpected message: %v", err)
	}
	if err := in.Set("b", nil); err != nil {
		t.Fatalf("b = nil: unexpected error: %v", err)
	}
}

func TestMatrix_StrictConstructor(t *testing.T) {
	st := matrixStruct(t)
	_, err := st.New(map[string]any{"c": int64(1), "e": int64(2)})
	var mpe *goprops.MissingPropertyError
	if !errors.As(err, &mpe) || mpe.Phase != goprops.PhaseConstruct || mpe.Field != "a" {
		t.Fatalf("want missing a at construct, got %v", err)
	}
	if !strings.Contains(err.Error(), "not provided") {
		t.Fatalf("unexpected message: %v", err)
	}

	in, err := st.New(map[string]any{"a": int64(1), "c": int64(2), "e": int64(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var ipe *goprops.ImmutablePropertyError
	if err := in.Set("c", int64(4)); !errors.As(err, &ipe) {
		t.Fatalf("want ImmutablePropertyError, got %v", err)
	}
	if v := mustGet(t, in, "c"); v != int64(2) {
		t.Fatalf("rejected write must not change state, got %v", v)
	}
	if err := in.Set("a", "one"); err == nil {
		t.Fatalf("want InvalidValueError for string into Integer")
	}
	if _, err := st.New(map[string]any{"a": int64(1), "c": int64(2), "e": int64(3), "zz": 1}); !errors.Is(err, goprops.ErrUnknownProp) {
		t.Fatalf("want ErrUnknownProp, got %v", err)
	}
}

func TestMatrix_SerializeRequiresRequired(t *testing.T) {
	st := matrixStruct(t)
	in, _ := st.NewWeak(map[string]any{"c": int64(3)})
	_, err := in.Serialize()
	var mpe *goprops.MissingPropertyError
	if !errors.As(err, &mpe) || mpe.Phase != goprops.PhaseSerialize {
		t.Fatalf("want missing at serialize, got %v", err)
	}
	if err.Error() != "MatrixStruct.a not set" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestMatrix_SerializeIsSparse(t *testing.T) {
	st := matrixStruct(t)
	in, err := st.New(map[string]any{"a": int64(1), "c": int64(2), "e": int64(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := in.Serialize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := out["b"]; ok {
		t.Fatalf("nil prop must be omitted: %v", out)
	}
	if out["d"] != int64(91) || len(out) != 4 {
		t.Fatalf("unexpected output: %v", out)
	}
	back, err := st.FromHash(out)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	again, _ := back.Serialize()
	if len(again) != len(out) || again["e"] != out["e"] {
		t.Fatalf("round trip mismatch: %v vs %v", again, out)
	}
}

func TestNoWeakConstructor(t *testing.T) {
	st := goprops.MustDeclare("Strict", goprops.Config{}, goprops.Prop("a", types.String()))
	if _, err := st.NewWeak(nil); !errors.Is(err, goprops.ErrNoWeakConstructor) {
		t.Fatalf("want ErrNoWeakConstructor, got %v", err)
	}
}

func TestDefault_LazyFactoryAndNilWrite(t *testing.T) {
	calls := 0
	st := goprops.MustDeclare("Lazy", goprops.Config{},
		goprops.Optional("tags", types.ArrayOf(types.String()), goprops.Options{Factory: func() any {
			calls++
			return []any{}
		}}),
	)
	in, err := st.New(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 0 || in.IsSet("tags") {
		t.Fatalf("default must be computed lazily")
	}
	if _, err := in.Get("tags"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, _ = in.Get("tags")
	if calls != 1 {
		t.Fatalf("factory must run once per instance, ran %d times", calls)
	}
	if err := in.Set("tags", nil); err != nil {
		t.Fatalf("nilable default prop accepts nil: %v", err)
	}
	if v := mustGet(t, in, "tags"); v != nil {
		t.Fatalf("re-read after nil write must stay nil, got %v", v)
	}
	out, _ := in.Serialize()
	if _, ok := out["tags"]; ok {
		t.Fatalf("nil must be omitted: %v", out)
	}

	other, _ := st.New(nil)
	plain, _ := other.Serialize()
	if tags, ok := plain["tags"].([]any); !ok || len(tags) != 0 {
		t.Fatalf("empty collection must be emitted, got %#v", plain["tags"])
	}
}

func TestDefault_FactoryResultIsTypeChecked(t *testing.T) {
	st := goprops.MustDeclare("F", goprops.Config{},
		goprops.Prop("n", types.Integer(), goprops.Options{Factory: func() any { return "not-an-int" }}),
	)
	in, err := st.New(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var ive *goprops.InvalidValueError
	if _, err := in.Get("n"); !errors.As(err, &ive) || ive.Field != "n" || ive.Expected != "Integer" {
		t.Fatalf("Get: expected InvalidValueError for n, got %v", err)
	}
	if in.IsSet("n") {
		t.Fatalf("a rejected default must not fill the slot")
	}
	if _, err := in.Serialize(); !errors.As(err, &ive) {
		t.Fatalf("Serialize: expected InvalidValueError, got %v", err)
	}
	if _, err := st.FromHash(map[string]any{}); !errors.As(err, &ive) || ive.Path != "/n" {
		t.Fatalf("FromHash: expected InvalidValueError at /n, got %v", err)
	}
	if iss := st.Validate(map[string]any{}); len(iss) != 1 || iss[0].Path != "/n" {
		t.Fatalf("Validate: expected one issue at /n, got %v", iss)
	}
}

func TestNestedArrayStructError(t *testing.T) {
	inner := goprops.MustDeclare("Inner", goprops.Config{},
		goprops.Prop("id", types.Integer(), goprops.Options{Optional: goprops.NotOptional}),
	)
	outer := goprops.MustDeclare("Outer", goprops.Config{},
		goprops.Prop("arr", types.ArrayOf(types.StructRef(inner))),
	)
	_, err := outer.FromHash(map[string]any{"arr": []any{map[string]any{}}})
	var ive *goprops.InvalidValueError
	if !errors.As(err, &ive) {
		t.Fatalf("want InvalidValueError, got %v", err)
	}
	if ive.Field != "arr" || ive.Path != "/arr/0" || ive.Expected != "Inner" {
		t.Fatalf("unexpected detail: %+v", ive)
	}
	var mpe *goprops.MissingPropertyError
	if !errors.As(err, &mpe) || mpe.Struct != "Inner" {
		t.Fatalf("cause must be the inner missing prop, got %v", ive.Cause)
	}

	in, err := outer.FromHash(map[string]any{"arr": []any{map[string]any{"id": float64(7)}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := in.Serialize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr := out["arr"].([]any)
	if arr[0].(map[string]any)["id"] != int64(7) {
		t.Fatalf("unexpected nested output: %v", out)
	}
}

func TestHashOfStructRejectsInvalidInner(t *testing.T) {
	inner := goprops.MustDeclare("InnerStruct", goprops.Config{},
		goprops.Prop("name", types.String(), goprops.Options{Optional: goprops.NotOptional}),
	)
	outer := goprops.MustDeclare("OuterStruct", goprops.Config{},
		goprops.Prop("h", types.HashOf(types.String(), types.StructRef(inner))),
	)
	_, err := outer.FromHash(map[string]any{"h": map[string]any{"foo": map[string]any{}}})
	var ive *goprops.InvalidValueError
	if !errors.As(err, &ive) || ive.Path != "/h/foo" {
		t.Fatalf("want invalid value at /h/foo, got %v", err)
	}
}

func TestUnknownKeyPolicies(t *testing.T) {
	decl := goprops.Prop("a", types.Integer())
	plain := map[string]any{"a": int64(1), "x": "extra"}

	strip := goprops.MustDeclare("Strip", goprops.Config{}, decl)
	in, err := strip.FromHash(plain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out, _ := in.Serialize(); len(out) != 1 {
		t.Fatalf("unknown key must be dropped: %v", out)
	}

	strict := goprops.MustDeclare("StrictKeys", goprops.Config{Unknown: goprops.UnknownStrict}, decl)
	_, err = strict.FromHash(plain)
	var uke *goprops.UnknownKeyError
	if !errors.As(err, &uke) || uke.Key != "x" {
		t.Fatalf("want UnknownKeyError for x, got %v", err)
	}

	pass := goprops.MustDeclare("Pass", goprops.Config{Unknown: goprops.UnknownPassthrough}, decl)
	in, err = pass.FromHash(plain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Extra()["x"] != "extra" {
		t.Fatalf("extra not kept: %v", in.Extra())
	}
	if out, _ := in.Serialize(); out["x"] != "extra" {
		t.Fatalf("extra not re-emitted: %v", out)
	}
}

func TestValidateCollectsEveryIssue(t *testing.T) {
	st := goprops.MustDeclare("Collect", goprops.Config{Unknown: goprops.UnknownStrict},
		goprops.Prop("a", types.Integer()),
		goprops.Prop("b", types.String(), goprops.Options{Optional: goprops.NotOptional}),
	)
	iss := st.Validate(map[string]any{"a": "x", "zz": true})
	if len(iss) != 3 {
		t.Fatalf("want 3 issues, got %v", iss)
	}
	want := []struct{ path, code string }{
		{"/a", goprops.CodeInvalidValue},
		{"/b", goprops.CodeMissingLoad},
		{"/zz", goprops.CodeUnknownKey},
	}
	for i, w := range want {
		if iss[i].Path != w.path || iss[i].Code != w.code {
			t.Fatalf("issue %d: want %s at %s, got %+v", i, w.code, w.path, iss[i])
		}
	}
	if iss := st.Validate(map[string]any{"b": "ok"}); iss != nil {
		t.Fatalf("want no issues, got %v", iss)
	}
}

func TestRefineHooks(t *testing.T) {
	st := goprops.MustDeclare("Span", goprops.Config{Refines: []goprops.Refine{{
		Name: "start<=end",
		Fn: func(in *goprops.Instance) error {
			s, _ := in.Get("start")
			e, _ := in.Get("end")
			if s.(int64) > e.(int64) {
				return errors.New("start after end")
			}
			return nil
		},
	}}},
		goprops.Prop("start", types.Integer()),
		goprops.Prop("end", types.Integer()),
	)
	if _, err := st.New(map[string]any{"start": int64(1), "end": int64(2)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := st.FromHash(map[string]any{"start": int64(3), "end": int64(2)})
	var re *goprops.RefineError
	if !errors.As(err, &re) || re.Rule != "start<=end" {
		t.Fatalf("want RefineError, got %v", err)
	}
	iss, ok := goprops.AsIssues(err)
	if !ok || iss[0].Code != goprops.CodeRefine {
		t.Fatalf("want refine issue, got %v", iss)
	}
}

func TestPresenceMeta(t *testing.T) {
	st := matrixStruct(t)
	dm, err := st.FromHashWithMeta(map[string]any{"a": nil, "d": nil, "e": int64(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pm := dm.Presence
	if !pm.Has("/a", goprops.PresenceSeen|goprops.PresenceWasNull) {
		t.Fatalf("a: %v", pm)
	}
	if !pm.Has("/d", goprops.PresenceSeen|goprops.PresenceWasNull|goprops.PresenceDefaultApplied) {
		t.Fatalf("d: %v", pm)
	}
	if pm.Has("/b", goprops.PresenceSeen) {
		t.Fatalf("b was absent: %v", pm)
	}
	if got := pm.Paths(); strings.Join(got, ",") != "/a,/d,/e" {
		t.Fatalf("unexpected paths: %v", got)
	}
	if v := mustGet(t, dm.Value, "d"); v != int64(91) {
		t.Fatalf("explicit nil must use the default, got %v", v)
	}
}

func TestAccessorTable(t *testing.T) {
	st := matrixStruct(t)
	a, err := st.Accessor("b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in, _ := st.NewWeak(nil)
	if a.IsSet(in) {
		t.Fatalf("b must start unset")
	}
	if err := a.Set(in, int64(4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := a.Get(in); v != int64(4) {
		t.Fatalf("want 4, got %v", v)
	}
	other := goprops.MustDeclare("Other", goprops.Config{}, goprops.Optional("b", types.Integer()))
	foreign, _ := other.New(nil)
	if _, err := a.Get(foreign); err == nil {
		t.Fatalf("accessor must reject instances of another struct type")
	}
	if _, err := st.Accessor("nope"); !errors.Is(err, goprops.ErrUnknownProp) {
		t.Fatalf("want ErrUnknownProp, got %v", err)
	}
	if f, ok := st.Field("e"); !ok || f.Policy() != goprops.PolicyStrict {
		t.Fatalf("e must be strict")
	}
}

func TestCollectionsRoundTrip(t *testing.T) {
	color := types.EnumOf("red", "green")
	st := goprops.MustDeclare("Bag", goprops.Config{},
		goprops.Prop("ids", types.SetOf(types.Integer())),
		goprops.Prop("names", types.HashOf(types.Integer(), types.String())),
		goprops.Prop("span", types.RangeOf(types.Integer())),
		goprops.Prop("color", color),
	)
	span, err := types.RangeOf(types.Integer()).New(int64(1), int64(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in, err := st.New(map[string]any{
		"ids":   types.NewSet(int64(3), int64(1)),
		"names": map[int64]string{1: "one", 2: "two"},
		"span":  span,
		"color": "green",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := in.Serialize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := out["ids"].([]any)
	if len(ids) != 2 || ids[0] != int64(1) || ids[1] != int64(3) {
		t.Fatalf("set must serialize sorted: %v", ids)
	}
	if out["names"].(map[string]any)["2"] != "two" {
		t.Fatalf("integer keys must render in base 10: %v", out["names"])
	}
	if r := out["span"].(map[string]any); r["begin"] != int64(1) || r["end"] != int64(5) {
		t.Fatalf("unexpected range form: %v", r)
	}
	back, err := st.FromHash(out)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	set := mustGet(t, back, "ids").(types.Set)
	if !set.Has(int64(3)) {
		t.Fatalf("set lost elements: %v", set)
	}
	names := mustGet(t, back, "names").(map[any]any)
	if names[int64(1)] != "one" {
		t.Fatalf("keys must parse back to integers: %v", names)
	}
	if _, err := st.FromHash(map[string]any{"color": "blue"}); err == nil {
		t.Fatalf("enum must reject non-members")
	}
}
