// Package codec turns struct instances into JSON bytes and back, and ships
// custom type plugins for common Go values.
package codec

import (
	"bytes"
	"io"

	j "github.com/goccy/go-json"
	"github.com/pkg/errors"

	goprops "github.com/reoring/goprops"
	eng "github.com/reoring/goprops/internal/engine"
	"github.com/reoring/goprops/source/gojson"
)

// Duplicate selects how repeated object keys are treated while decoding.
type Duplicate int

const (
	DuplicateError  Duplicate = iota // Fail with code duplicate_key.
	DuplicateWarn                    // Report through DecodeOpt.Warn; the last value wins.
	DuplicateIgnore                  // The last value wins.
)

// DecodeOpt bounds JSON decoding. Zero limits are unlimited.
type DecodeOpt struct {
	OnDuplicate Duplicate
	MaxDepth    int
	MaxBytes    int64
	Warn        func(goprops.Issue)
}

// EncodeJSON serializes the instance and marshals the plain mapping. Keys are
// emitted in sorted order.
func EncodeJSON(in *goprops.Instance) ([]byte, error) {
	plain, err := in.Serialize()
	if err != nil {
		return nil, err
	}
	return j.Marshal(plain)
}

// EncodeJSONIndent is EncodeJSON with indentation.
func EncodeJSONIndent(in *goprops.Instance, prefix, indent string) ([]byte, error) {
	plain, err := in.Serialize()
	if err != nil {
		return nil, err
	}
	return j.MarshalIndent(plain, prefix, indent)
}

// DecodeJSON decodes one JSON object and loads it with st.FromHash.
func DecodeJSON(st *goprops.StructType, data []byte, opt DecodeOpt) (*goprops.Instance, error) {
	return DecodeJSONReader(st, bytes.NewReader(data), opt)
}

// DecodeJSONReader is DecodeJSON over a stream.
func DecodeJSONReader(st *goprops.StructType, r io.Reader, opt DecodeOpt) (*goprops.Instance, error) {
	plain, err := DecodePlain(r, opt)
	if err != nil {
		return nil, err
	}
	m, ok := plain.(map[string]any)
	if !ok {
		return nil, goprops.Issues{{Path: "/", Code: goprops.CodeInvalidValue, Message: st.Name() + " expects a JSON object"}}
	}
	return st.FromHash(m)
}

// DecodePlain decodes one JSON document into plain data under the limits of
// opt. Enforcement failures are returned as goprops.Issues.
func DecodePlain(r io.Reader, opt DecodeOpt) (any, error) {
	eopt := eng.EnforceOptions{
		OnDuplicate: eng.DuplicateStrictness(opt.OnDuplicate),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
	}
	if opt.Warn != nil && opt.OnDuplicate == DuplicateWarn {
		eopt.IssueSink = func(si eng.SimpleIssue) {
			if si.Code == eng.CodeDuplicateKey {
				opt.Warn(goprops.Issue{Path: si.Path, Code: si.Code, Message: si.Message})
			}
		}
	}
	plain, err := eng.DecodeDocument(eng.WrapWithEnforcement(gojson.NewReader(r), eopt))
	if err != nil {
		var ie eng.IssueError
		if errors.As(err, &ie) {
			return nil, goprops.Issues{{Path: ie.Path, Code: ie.Code, Message: ie.Message, Cause: err}}
		}
		return nil, errors.Wrap(err, "decode json")
	}
	return plain, nil
}
