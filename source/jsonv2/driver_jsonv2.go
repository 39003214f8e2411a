//go:build goexperiment.jsonv2

package jsonv2

import (
	"bytes"
	"encoding/json/jsontext"
	"io"

	"github.com/reoring/dtobind"
	eng "github.com/reoring/dtobind/internal/engine"
)

// Driver returns a dtobind.JSONDriver backed by encoding/json/jsontext.
// Requires GOEXPERIMENT=jsonv2.
func Driver() dtobind.JSONDriver { return driverV2{} }

type driverV2 struct{}

func (driverV2) NewReader(r io.Reader) dtobind.Source {
	return dtobind.SourceFromEngine(NewReader(r), dtobind.NumberJSONNumber)
}
func (driverV2) NewBytes(b []byte) dtobind.Source {
	return dtobind.SourceFromEngine(NewBytes(b), dtobind.NumberJSONNumber)
}
func (driverV2) Name() string { return "encoding/json/v2" }

type source struct {
	dec  *jsontext.Decoder
	keys eng.KeyTracker
}

// NewReader streams tokens from r. Duplicate names are passed through so
// enforcement decides how to treat them.
func NewReader(r io.Reader) eng.TokenSource {
	return &source{dec: jsontext.NewDecoder(r, jsontext.AllowDuplicateNames(true))}
}

// NewBytes streams tokens from b.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	off := s.dec.InputOffset()
	tok, err := s.dec.ReadToken()
	if err != nil {
		return eng.Token{}, err
	}
	switch tok.Kind() {
	case '{':
		s.keys.Begin(true)
		return eng.Token{Kind: eng.KindBeginObject, Offset: off}, nil
	case '[':
		s.keys.Begin(false)
		return eng.Token{Kind: eng.KindBeginArray, Offset: off}, nil
	case '}':
		s.keys.End()
		return eng.Token{Kind: eng.KindEndObject, Offset: off}, nil
	case ']':
		s.keys.End()
		return eng.Token{Kind: eng.KindEndArray, Offset: off}, nil
	case '"':
		if s.keys.String() {
			return eng.Token{Kind: eng.KindKey, String: tok.String(), Offset: off}, nil
		}
		return eng.Token{Kind: eng.KindString, String: tok.String(), Offset: off}, nil
	case 't', 'f':
		s.keys.Value()
		return eng.Token{Kind: eng.KindBool, Bool: tok.Bool(), Offset: off}, nil
	case '0':
		s.keys.Value()
		return eng.Token{Kind: eng.KindNumber, Number: tok.String(), Offset: off}, nil
	}
	s.keys.Value()
	return eng.Token{Kind: eng.KindNull, Offset: off}, nil
}

func (s *source) Location() int64 { return s.dec.InputOffset() }
