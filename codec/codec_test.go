package codec_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/dtobind"
)

func decode(t *testing.T, c dtobind.Codec, typ reflect.Type, doc string) (any, error) {
	t.Helper()
	r := dtobind.NewReader(dtobind.JSONBytes([]byte(doc)))
	require.NoError(t, r.Advance())
	return c.Decode(r, typ, dtobind.NewOptions())
}

func encode(t *testing.T, c dtobind.Codec, typ reflect.Type, v any) string {
	t.Helper()
	var buf bytes.Buffer
	w := dtobind.NewWriter(&buf)
	require.NoError(t, c.Encode(w, v, typ, dtobind.NewOptions()))
	require.NoError(t, w.Flush())
	return buf.String()
}

func requireCode(t *testing.T, err error, code string) *dtobind.DecodeError {
	t.Helper()
	require.Error(t, err)
	de, ok := dtobind.AsDecodeError(err)
	require.True(t, ok, "got %T: %v", err, err)
	assert.Equal(t, code, de.Code)
	return de
}

// shout upper-cases strings on write.
func shout() dtobind.TypedCodec {
	return dtobind.CodecFuncs(
		func(r *dtobind.Reader, _ *dtobind.Options) (string, error) { return r.Token().String, nil },
		func(w *dtobind.Writer, v string, _ *dtobind.Options) error { return w.String(strings.ToUpper(v)) },
	)
}
