package goprops

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/goprops/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Declaration time
	CodeInvalidName           = "invalid_name"
	CodeDuplicateProp         = "duplicate_prop"
	CodeInvalidOption         = "invalid_option"
	CodeOptionKeyType         = "option_key_type"
	CodeInvalidTypeConstraint = "invalid_type_constraint"
	CodeInvalidCombination    = "invalid_combination"
	// Runtime
	CodeImmutable        = "immutable"
	CodeNilAssignment    = "nil_assignment"
	CodeMissingConstruct = "missing_construct"
	CodeMissingSerialize = "missing_serialize"
	CodeMissingLoad      = "missing_load"
	CodeInvalidValue     = "invalid_value"
	CodeUnknownKey       = "unknown_key"
	CodeUnknownProp      = "unknown_prop"
	CodeRefine           = "refine"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_value at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// issuer is implemented by every error type of this package.
type issuer interface {
	error
	Issue() Issue
}

// AsIssues extracts Issues from an error. Single errors of this package are
// converted into a one-element collection.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	var one issuer
	if errors.As(err, &one) {
		return Issues{one.Issue()}, true
	}
	return nil, false
}

// ErrNoWeakConstructor is returned by NewWeak on struct types that did not
// opt into weak construction.
var ErrNoWeakConstructor = errors.New("goprops: weak constructor not declared")

// ErrUnknownProp is wrapped by errors about names that are not declared props.
var ErrUnknownProp = errors.New("goprops: unknown prop")

// DeclarationError rejects a prop declaration. The struct type is not usable.
type DeclarationError struct {
	Struct string
	Field  string
	Code   string   // CodeInvalidName, CodeInvalidOption, ...
	Reason string   // Free-form detail for name and combination errors.
	Keys   []string // Offending option keys.
	Got    string   // Description of an unresolvable type expression.
}

func (e *DeclarationError) Error() string {
	prop := e.Field
	if e.Struct != "" {
		prop = e.Struct + "." + e.Field
	}
	return i18n.T(e.Code, map[string]string{
		"struct": e.Struct,
		"field":  e.Field,
		"prop":   prop,
		"reason": e.Reason,
		"keys":   "[" + strings.Join(e.Keys, ", ") + "]",
		"got":    e.Got,
	})
}

func (e *DeclarationError) Issue() Issue {
	return Issue{Path: "/" + e.Field, Code: e.Code, Message: e.Error()}
}

// ImmutablePropertyError is raised by a write to an immutable prop.
type ImmutablePropertyError struct {
	Struct string
	Field  string
}

func (e *ImmutablePropertyError) Error() string {
	return i18n.T(CodeImmutable, map[string]string{"struct": e.Struct, "field": e.Field})
}

func (e *ImmutablePropertyError) Issue() Issue {
	return Issue{Path: "/" + e.Field, Code: CodeImmutable, Message: e.Error()}
}

// NilAssignmentError is raised by a nil write to a prop whose type rejects nil.
type NilAssignmentError struct {
	Struct string
	Field  string
}

func (e *NilAssignmentError) Error() string {
	return i18n.T(CodeNilAssignment, map[string]string{"struct": e.Struct, "field": e.Field})
}

func (e *NilAssignmentError) Issue() Issue {
	return Issue{Path: "/" + e.Field, Code: CodeNilAssignment, Message: e.Error()}
}

// Phase says where a required value went missing.
type Phase uint8

const (
	PhaseConstruct Phase = iota // Absent from strict constructor input.
	PhaseSerialize              // Unset when serializing.
	PhaseLoad                   // Absent or nil in FromHash input.
)

var phaseCodes = [...]string{
	PhaseConstruct: CodeMissingConstruct,
	PhaseSerialize: CodeMissingSerialize,
	PhaseLoad:      CodeMissingLoad,
}

// MissingPropertyError reports a required prop without a value.
type MissingPropertyError struct {
	Struct string
	Field  string
	Phase  Phase
}

func (e *MissingPropertyError) Code() string { return phaseCodes[e.Phase] }

func (e *MissingPropertyError) Error() string {
	return i18n.T(e.Code(), map[string]string{"struct": e.Struct, "field": e.Field})
}

func (e *MissingPropertyError) Issue() Issue {
	return Issue{Path: "/" + e.Field, Code: e.Code(), Message: e.Error()}
}

// InvalidValueError reports a value that does not satisfy its prop type.
// Path locates the offending value below the struct (for example /arr/0);
// Cause carries the nested failure when a contained struct or custom type
// rejected the value.
type InvalidValueError struct {
	Struct   string
	Field    string
	Path     string
	Expected string
	Got      string
	Cause    error
}

func (e *InvalidValueError) Error() string {
	msg := i18n.T(CodeInvalidValue, map[string]string{
		"struct":   e.Struct,
		"field":    e.Field,
		"expected": e.Expected,
		"got":      e.Got,
	})
	if e.Path != "" && e.Path != "/"+e.Field {
		msg += " at " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *InvalidValueError) Unwrap() error { return e.Cause }

func (e *InvalidValueError) Issue() Issue {
	p := e.Path
	if p == "" {
		p = "/" + e.Field
	}
	return Issue{Path: p, Code: CodeInvalidValue, Message: e.Error(), Cause: e.Cause}
}

func unknownPropError(st, name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownProp, i18n.T(CodeUnknownProp, map[string]string{"struct": st, "field": name}))
}

// UnknownKeyError reports an input key that names no prop, raised by FromHash
// under UnknownStrict.
type UnknownKeyError struct {
	Struct string
	Key    string
}

func (e *UnknownKeyError) Error() string {
	return i18n.T(CodeUnknownKey, map[string]string{"struct": e.Struct, "field": e.Key})
}

func (e *UnknownKeyError) Issue() Issue {
	return Issue{Path: "/" + e.Key, Code: CodeUnknownKey, Message: e.Error()}
}

// RefineError reports a failed struct-level refine hook.
type RefineError struct {
	Struct string
	Rule   string
	Cause  error
}

func (e *RefineError) Error() string {
	msg := i18n.T(CodeRefine, map[string]string{"struct": e.Struct, "rule": e.Rule})
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RefineError) Unwrap() error { return e.Cause }

func (e *RefineError) Issue() Issue {
	return Issue{Path: "", Code: CodeRefine, Message: e.Error(), Cause: e.Cause}
}
