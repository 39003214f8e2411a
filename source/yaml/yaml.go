// Package yaml reads YAML documents as dtobind token streams, so records can
// be bound from YAML with the same converters used for JSON.
package yaml

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/reoring/dtobind"
	eng "github.com/reoring/dtobind/internal/engine"
)

// NewBytes returns a Source over the first YAML document in b.
func NewBytes(b []byte) dtobind.Source { return NewReader(bytes.NewReader(b)) }

// NewReader returns a Source over the first YAML document read from r.
// Mapping keys must be scalars. Numbers keep their text when it is already a
// valid JSON number and are otherwise normalized (0x1F -> 31, 1_000 -> 1000).
func NewReader(r io.Reader) dtobind.Source {
	var doc yaml.Node
	src := &nodeSource{}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		src.err = err
	} else if err := src.flatten(&doc); err != nil {
		src.err = err
		src.tokens = nil
	}
	return dtobind.SourceFromEngine(src, dtobind.NumberJSONNumber)
}

// nodeSource replays tokens produced from a decoded node tree.
type nodeSource struct {
	tokens []eng.Token
	idx    int
	err    error
}

func (s *nodeSource) NextToken() (eng.Token, error) {
	if s.err != nil {
		return eng.Token{}, s.err
	}
	if s.idx >= len(s.tokens) {
		return eng.Token{}, io.EOF
	}
	t := s.tokens[s.idx]
	s.idx++
	return t, nil
}

func (s *nodeSource) Location() int64 { return -1 }

func (s *nodeSource) flatten(n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			if err := s.flatten(c); err != nil {
				return err
			}
		}
		return nil
	case yaml.AliasNode:
		return s.flatten(n.Alias)
	case yaml.MappingNode:
		s.emit(eng.Token{Kind: eng.KindBeginObject})
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return fmt.Errorf("yaml: line %d: mapping key must be a scalar", k.Line)
			}
			s.emit(eng.Token{Kind: eng.KindKey, String: k.Value})
			if err := s.flatten(n.Content[i+1]); err != nil {
				return err
			}
		}
		s.emit(eng.Token{Kind: eng.KindEndObject})
		return nil
	case yaml.SequenceNode:
		s.emit(eng.Token{Kind: eng.KindBeginArray})
		for _, c := range n.Content {
			if err := s.flatten(c); err != nil {
				return err
			}
		}
		s.emit(eng.Token{Kind: eng.KindEndArray})
		return nil
	case yaml.ScalarNode:
		return s.scalar(n)
	}
	return fmt.Errorf("yaml: line %d: unsupported node kind %d", n.Line, n.Kind)
}

func (s *nodeSource) scalar(n *yaml.Node) error {
	switch n.ShortTag() {
	case "!!null":
		s.emit(eng.Token{Kind: eng.KindNull})
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return err
		}
		s.emit(eng.Token{Kind: eng.KindBool, Bool: b})
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			var u uint64
			if err2 := n.Decode(&u); err2 != nil {
				return err
			}
			s.emit(eng.Token{Kind: eng.KindNumber, Number: strconv.FormatUint(u, 10)})
			return nil
		}
		s.emit(eng.Token{Kind: eng.KindNumber, Number: strconv.FormatInt(i, 10)})
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return err
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return fmt.Errorf("yaml: line %d: %s has no JSON representation", n.Line, n.Value)
		}
		text := n.Value
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			text = strconv.FormatFloat(f, 'g', -1, 64)
		}
		s.emit(eng.Token{Kind: eng.KindNumber, Number: text})
	default:
		s.emit(eng.Token{Kind: eng.KindString, String: n.Value})
	}
	return nil
}

func (s *nodeSource) emit(t eng.Token) {
	t.Offset = -1
	s.tokens = append(s.tokens, t)
}
