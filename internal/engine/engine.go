package engine

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
)

// Kind represents token kinds from a generic source.
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

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// Pull yields the token that follows the one returned last.
type Pull func() (Token, error)

// NumberConv turns number text into the value stored in a tree.
type NumberConv func(string) (any, error)

// ErrMalformed reports a token sequence that cannot form a value.
var ErrMalformed = errors.New("engine: malformed token stream")

// JSONNumber keeps numbers as json.Number.
func JSONNumber(s string) (any, error) { return json.Number(s), nil }

// Float64 parses numbers as float64.
func Float64(s string) (any, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// DecodeAnyFromSource builds an "any" value from the streaming token source.
func DecodeAnyFromSource(src TokenSource, conv NumberConv) (any, error) {
	tok, err := src.NextToken()
	if err != nil {
		return nil, err
	}
	return BuildTree(tok, src.NextToken, conv)
}

// BuildTree assembles map[string]any / []any / scalar values for the value
// that starts at first. On return the last token consumed is the value's
// closing token.
func BuildTree(first Token, next Pull, conv NumberConv) (any, error) {
	if conv == nil {
		conv = JSONNumber
	}
	b := treeBuilder{next: next, conv: conv}
	return b.value(first)
}

type treeBuilder struct {
	next Pull
	conv NumberConv
}

func (b treeBuilder) value(tok Token) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		return b.object()
	case KindBeginArray:
		return b.array()
	case KindString:
		return tok.String, nil
	case KindNumber:
		return b.conv(tok.Number)
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, ErrMalformed
	}
}

func (b treeBuilder) object() (any, error) {
	m := make(map[string]any)
	for {
		tok, err := b.pull()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndObject {
			return m, nil
		}
		if tok.Kind != KindKey {
			return nil, ErrMalformed
		}
		vt, err := b.pull()
		if err != nil {
			return nil, err
		}
		v, err := b.value(vt)
		if err != nil {
			return nil, err
		}
		m[tok.String] = v
	}
}

func (b treeBuilder) array() (any, error) {
	arr := []any{}
	for {
		tok, err := b.pull()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := b.value(tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

func (b treeBuilder) pull() (Token, error) {
	tok, err := b.next()
	if err == io.EOF {
		return Token{}, io.ErrUnexpectedEOF
	}
	return tok, err
}
