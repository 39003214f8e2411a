package codec_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/dtobind"
	"github.com/reoring/dtobind/codec"
)

const dashed = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

func TestUUID(t *testing.T) {
	want := uuid.MustParse(dashed)
	for _, doc := range []string{`"` + dashed + `"`, `"6ba7b8109dad11d180b400c04fd430c8"`} {
		got, err := decode(t, codec.UUID(false), codec.UUID(false).CodecType(), doc)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	assert.Equal(t, `"`+dashed+`"`, encode(t, codec.UUID(false), nil, want))
	assert.Equal(t, `"6ba7b8109dad11d180b400c04fd430c8"`, encode(t, codec.UUID(true), nil, want))
}

func TestUUID_Errors(t *testing.T) {
	c := codec.UUID(false)
	_, err := decode(t, c, c.CodecType(), `"not-a-uuid"`)
	de := requireCode(t, err, dtobind.CodeInvalidFormat)
	assert.NotNil(t, de.Cause)

	_, err = decode(t, c, c.CodecType(), `42`)
	requireCode(t, err, dtobind.CodeInvalidType)
}
