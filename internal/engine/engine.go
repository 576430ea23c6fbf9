package engine

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Kind classifies a Token.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token is one lexical item. Number keeps the literal text; Offset is the
// input position reported by the source.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource yields tokens until io.EOF.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// ErrTrailingData is returned when a document is followed by more tokens.
var ErrTrailingData = errors.New("trailing data after document")

// SyntaxError reports a token that cannot appear where it was found. It
// matches io.ErrUnexpectedEOF under errors.Is.
type SyntaxError struct {
	Offset int64
	Msg    string
}

func (e *SyntaxError) Error() string { return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg) }

func (e *SyntaxError) Unwrap() error { return io.ErrUnexpectedEOF }

// DecodeDocument reads exactly one value from src and builds plain data from
// it: map[string]any, []any, string, bool, nil, int64 for integral numbers
// and float64 otherwise.
func DecodeDocument(src TokenSource) (any, error) {
	var b builder
	for !b.done {
		tok, err := src.NextToken()
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		if err != nil {
			return nil, err
		}
		if err := b.feed(tok); err != nil {
			return nil, err
		}
	}
	if _, err := src.NextToken(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, ErrTrailingData
	}
	return b.root, nil
}

// container is an open object or array. key holds the member name waiting
// for its value; hasKey tells an empty name apart from none.
type container struct {
	obj    map[string]any
	arr    []any
	isObj  bool
	key    string
	hasKey bool
}

// builder assembles plain data without recursion, so nesting depth is
// bounded by the enforcement layer rather than the goroutine stack.
type builder struct {
	stack []container
	root  any
	done  bool
}

func (b *builder) feed(tok Token) error {
	if n := len(b.stack); n > 0 && b.stack[n-1].isObj && !b.stack[n-1].hasKey {
		top := &b.stack[n-1]
		switch tok.Kind {
		case KindKey:
			top.key, top.hasKey = tok.String, true
			return nil
		case KindEndObject:
			return b.close()
		}
		return &SyntaxError{Offset: tok.Offset, Msg: "expected object key"}
	}
	switch tok.Kind {
	case KindBeginObject:
		b.stack = append(b.stack, container{obj: map[string]any{}, isObj: true})
		return nil
	case KindBeginArray:
		b.stack = append(b.stack, container{arr: []any{}})
		return nil
	case KindEndArray:
		if n := len(b.stack); n == 0 || b.stack[n-1].isObj {
			return &SyntaxError{Offset: tok.Offset, Msg: "unexpected end of array"}
		}
		return b.close()
	case KindString:
		return b.put(tok.String)
	case KindNumber:
		v, err := number(tok.Number)
		if err != nil {
			return &SyntaxError{Offset: tok.Offset, Msg: err.Error()}
		}
		return b.put(v)
	case KindBool:
		return b.put(tok.Bool)
	case KindNull:
		return b.put(nil)
	}
	return &SyntaxError{Offset: tok.Offset, Msg: "unexpected token"}
}

func (b *builder) close() error {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	if top.isObj {
		return b.put(top.obj)
	}
	return b.put(top.arr)
}

// put stores a finished value in the enclosing container. A repeated object
// key replaces the earlier value; rejecting it is the enforcement layer's job.
func (b *builder) put(v any) error {
	n := len(b.stack)
	if n == 0 {
		b.root, b.done = v, true
		return nil
	}
	top := &b.stack[n-1]
	if !top.isObj {
		top.arr = append(top.arr, v)
		return nil
	}
	top.obj[top.key] = v
	top.key, top.hasKey = "", false
	return nil
}

func number(s string) (any, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	return strconv.ParseFloat(s, 64)
}
