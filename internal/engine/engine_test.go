package engine

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"testing"
)

// sliceSource replays fixed tokens.
type sliceSource struct {
	toks []Token
	i    int
}

func (s *sliceSource) NextToken() (Token, error) {
	if s.i >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func (s *sliceSource) Location() int64 { return int64(s.i) }

func src(toks ...Token) *sliceSource { return &sliceSource{toks: toks} }

var (
	bo = Token{Kind: KindBeginObject}
	eo = Token{Kind: KindEndObject}
	ba = Token{Kind: KindBeginArray}
	ea = Token{Kind: KindEndArray}
)

func key(s string) Token   { return Token{Kind: KindKey, String: s} }
func str(s string) Token   { return Token{Kind: KindString, String: s} }
func num(s string) Token   { return Token{Kind: KindNumber, Number: s} }
func boolean(b bool) Token { return Token{Kind: KindBool, Bool: b} }

func TestDecodeAnyFromSource_Tree(t *testing.T) {
	s := src(bo, key("a"), num("1"), key("b"), ba, str("x"), boolean(true), Token{Kind: KindNull}, ea, key("c"), ba, ea, eo)
	got, err := DecodeAnyFromSource(s, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"a": json.Number("1"),
		"b": []any{"x", true, nil},
		"c": []any{},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestDecodeAnyFromSource_Float64(t *testing.T) {
	got, err := DecodeAnyFromSource(src(num("2.5")), Float64)
	if err != nil || got != 2.5 {
		t.Fatalf("got %v err=%v", got, err)
	}
}

func TestBuildTree_Truncated(t *testing.T) {
	_, err := DecodeAnyFromSource(src(bo, key("a")), nil)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected unexpected EOF, got %v", err)
	}
}

func TestBuildTree_Malformed(t *testing.T) {
	_, err := DecodeAnyFromSource(src(bo, str("not a key"), eo), nil)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	_, err = DecodeAnyFromSource(src(eo), nil)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for stray end, got %v", err)
	}
}

func TestBuildTree_StopsAtClosingToken(t *testing.T) {
	s := src(ba, num("1"), ea, str("after"))
	if _, err := DecodeAnyFromSource(s, nil); err != nil {
		t.Fatalf("decode: %v", err)
	}
	next, err := s.NextToken()
	if err != nil || next.String != "after" {
		t.Fatalf("expected the following token to remain, got %+v err=%v", next, err)
	}
}
