package gojson

import (
	stdjson "encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/dtobind"
	eng "github.com/reoring/dtobind/internal/engine"
)

func TestTokens(t *testing.T) {
	src := NewBytes([]byte(`{"a":[1.5,"x",false,null],"b":{}}`))
	var kinds []eng.Kind
	var texts []string
	for {
		tok, err := src.NextToken()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		kinds = append(kinds, tok.Kind)
		texts = append(texts, tok.String+tok.Number)
		assert.Equal(t, int64(-1), tok.Offset)
	}
	assert.Equal(t, []eng.Kind{
		eng.KindBeginObject,
		eng.KindKey, eng.KindBeginArray, eng.KindNumber, eng.KindString, eng.KindBool, eng.KindNull, eng.KindEndArray,
		eng.KindKey, eng.KindBeginObject, eng.KindEndObject,
		eng.KindEndObject,
	}, kinds)
	assert.Equal(t, "a", texts[1])
	assert.Equal(t, "1.5", texts[3])
	assert.Equal(t, "x", texts[4])
	assert.Equal(t, "b", texts[8])
	assert.Equal(t, int64(-1), src.Location())
}

func TestDriver(t *testing.T) {
	d := Driver()
	assert.Equal(t, "go-json", d.Name())

	r := dtobind.NewReader(d.NewBytes([]byte(`{"k":[1]}`)))
	require.NoError(t, r.Advance())
	v, err := r.ReadTree()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": []any{stdjson.Number("1")}}, v)
	assert.Equal(t, dtobind.NumberJSONNumber, r.NumberMode())
}
