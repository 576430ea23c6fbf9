package codec_test

import (
	"errors"
	"strings"
	"testing"

	goprops "github.com/reoring/goprops"
	"github.com/reoring/goprops/codec"
	"github.com/reoring/goprops/types"
)

func asInvalid(err error, target **goprops.InvalidValueError) bool { return errors.As(err, target) }

func user(t *testing.T) *goprops.StructType {
	t.Helper()
	return goprops.MustDeclare("User", goprops.Config{},
		goprops.Const("id", types.Integer()),
		goprops.Prop("name", types.String()),
		goprops.Optional("tags", types.SetOf(types.String())),
		goprops.Prop("role", types.EnumOf("admin", "member"), goprops.Options{Default: "member", HasDefault: true}),
	)
}

func TestJSON_RoundTrip(t *testing.T) {
	st := user(t)
	in, err := codec.DecodeJSON(st, []byte(`{"id":7,"name":"alice","tags":["b","a"]}`), codec.DecodeOpt{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := in.Get("id"); v != int64(7) {
		t.Fatalf("want int64 7, got %#v", v)
	}
	out, err := codec.EncodeJSON(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"id":7,"name":"alice","role":"member","tags":["a","b"]}`
	if string(out) != want {
		t.Fatalf("want %s, got %s", want, out)
	}
	indented, err := codec.EncodeJSONIndent(in, "", "  ")
	if err != nil || !strings.Contains(string(indented), "\n  \"id\": 7") {
		t.Fatalf("unexpected indented output: %s %v", indented, err)
	}
}

func TestJSON_DuplicateKeys(t *testing.T) {
	st := user(t)
	data := []byte(`{"id":1,"name":"a","name":"b"}`)
	_, err := codec.DecodeJSON(st, data, codec.DecodeOpt{})
	iss, ok := goprops.AsIssues(err)
	if !ok || iss[0].Code != "duplicate_key" || iss[0].Path != "/name" {
		t.Fatalf("want duplicate_key at /name, got %v", err)
	}

	var warned []goprops.Issue
	in, err := codec.DecodeJSON(st, data, codec.DecodeOpt{OnDuplicate: codec.DuplicateWarn, Warn: func(is goprops.Issue) { warned = append(warned, is) }})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := in.Get("name"); v != "b" || len(warned) != 1 {
		t.Fatalf("last value wins with one warning: %v %v", v, warned)
	}
}

func TestJSON_Errors(t *testing.T) {
	st := user(t)
	if _, err := codec.DecodeJSON(st, []byte(`[1]`), codec.DecodeOpt{}); err == nil {
		t.Fatalf("non-objects must fail")
	}
	if _, err := codec.DecodeJSON(st, []byte(`{"id":`), codec.DecodeOpt{}); err == nil {
		t.Fatalf("truncated input must fail")
	}
	_, err := codec.DecodeJSON(st, []byte(`{"id":1,"name":"a","role":"owner"}`), codec.DecodeOpt{})
	var ive *goprops.InvalidValueError
	if !asInvalid(err, &ive) || ive.Field != "role" {
		t.Fatalf("want invalid role, got %v", err)
	}
	if !strings.Contains(err.Error(), `got "owner"`) {
		t.Fatalf("enum values are described literally: %v", err)
	}
	_, err = codec.DecodeJSON(st, []byte(`{"a":{"b":{"c":1}}}`), codec.DecodeOpt{MaxDepth: 2})
	if iss, ok := goprops.AsIssues(err); !ok || iss[0].Code != "parse_error" {
		t.Fatalf("want depth error, got %v", err)
	}
}
