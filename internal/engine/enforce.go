package engine

import (
	"strconv"
	"strings"
)

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupError DuplicateStrictness = iota // Abort on the first duplicate.
	DupWarn                             // Report to the sink, keep the last value.
	DupIgnore                           // Keep the last value silently.
)

// Issue codes produced by the enforcement wrapper.
const (
	CodeDuplicateKey = "duplicate_key"
	CodeParseError   = "parse_error"
	CodeTruncated    = "truncated"
)

// SimpleIssue is a minimal issue representation used by the enforcement
// wrapper.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.Path + ": " + e.Message }

// EnforceOptions controls runtime enforcement behavior. Zero limits disable
// the corresponding check.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink receives every issue, including warnings that do not abort.
	IssueSink func(SimpleIssue)
}

type frame struct {
	array   bool
	path    string
	keys    map[string]struct{}
	nextIdx int
	key     string // Last key read; the pending value lives under it.
}

// WrapWithEnforcement returns a TokenSource that enforces duplicate key policy,
// maximum nesting depth, and maximum consumed bytes.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	if e.opt.MaxBytes > 0 {
		if off := e.inner.Location(); off > e.opt.MaxBytes {
			return Token{}, e.fail(SimpleIssue{Code: CodeTruncated, Path: e.valuePath(), Message: "max bytes exceeded"})
		}
	}
	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		path := e.valuePath()
		e.advance()
		e.stack = append(e.stack, frame{array: tok.Kind == KindBeginArray, path: path, keys: map[string]struct{}{}})
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, e.fail(SimpleIssue{Code: CodeParseError, Path: pointerOrRoot(path), Message: "max depth exceeded"})
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			top.key = tok.String
			if _, dup := top.keys[tok.String]; dup && e.opt.OnDuplicate != DupIgnore {
				si := SimpleIssue{Code: CodeDuplicateKey, Path: joinJSONPointer(top.path, tok.String), Message: "key '" + tok.String + "' duplicated"}
				if e.opt.OnDuplicate == DupError {
					return Token{}, e.fail(si)
				}
				e.report(si)
			}
			top.keys[tok.String] = struct{}{}
		}
	default:
		e.advance()
	}
	return tok, nil
}

// valuePath is the pointer of the value the next token starts.
func (e *enforcingTokenSource) valuePath() string {
	n := len(e.stack)
	if n == 0 {
		return ""
	}
	top := &e.stack[n-1]
	if top.array {
		return joinJSONPointer(top.path, strconv.Itoa(top.nextIdx))
	}
	return joinJSONPointer(top.path, top.key)
}

// advance moves the enclosing array past the value just started.
func (e *enforcingTokenSource) advance() {
	if n := len(e.stack); n > 0 && e.stack[n-1].array {
		e.stack[n-1].nextIdx++
	}
}

func (e *enforcingTokenSource) report(si SimpleIssue) {
	if e.opt.IssueSink != nil {
		e.opt.IssueSink(si)
	}
}

func (e *enforcingTokenSource) fail(si SimpleIssue) error {
	si.Path = pointerOrRoot(si.Path)
	e.report(si)
	return IssueError{si}
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }

func pointerOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

var jsonPointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func joinJSONPointer(base, token string) string {
	return base + "/" + jsonPointerEscaper.Replace(token)
}
