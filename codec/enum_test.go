package codec_test

import (
	"bytes"
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/dtobind"
	"github.com/reoring/dtobind/codec"
	"github.com/reoring/dtobind/naming"
)

type Level int

const (
	Debug Level = iota
	HighWater
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "Debug"
	case HighWater:
		return "HighWater"
	}
	return "Level(" + strconv.Itoa(int(l)) + ")"
}

func (Level) EnumValues() []dtobind.Enum { return []dtobind.Enum{Debug, HighWater} }

type Flavor string

func (f Flavor) String() string            { return string(f) }
func (Flavor) EnumValues() []dtobind.Enum { return []dtobind.Enum{Flavor("Sweet"), Flavor("Sour")} }

var levelType = reflect.TypeFor[Level]()

func levelCodec(t *testing.T, asInteger bool) dtobind.Codec {
	t.Helper()
	c, err := codec.StringEnum(naming.SnakeCase{}, asInteger).CreateCodec(levelType, dtobind.NewOptions())
	require.NoError(t, err)
	return c
}

func TestStringEnum_Decode(t *testing.T) {
	c := levelCodec(t, false)
	for doc, want := range map[string]Level{
		`"HighWater"`:  HighWater,
		`"1"`:          HighWater,
		`"high_water"`: HighWater,
		`"HIGH_WATER"`: HighWater,
		`"debug"`:      Debug,
	} {
		got, err := decode(t, c, levelType, doc)
		require.NoError(t, err, doc)
		assert.Equal(t, want, got, doc)
	}

	_, err := decode(t, c, levelType, `"nope"`)
	requireCode(t, err, dtobind.CodeInvalidEnum)
	_, err = decode(t, c, levelType, `1`)
	requireCode(t, err, dtobind.CodeInvalidType)
}

func TestStringEnum_Encode(t *testing.T) {
	assert.Equal(t, `"high_water"`, encode(t, levelCodec(t, false), levelType, HighWater))
	assert.Equal(t, `"1"`, encode(t, levelCodec(t, true), levelType, HighWater))

	w := dtobind.NewWriter(nopWriter{})
	err := levelCodec(t, false).Encode(w, Level(9), levelType, dtobind.NewOptions())
	ee, ok := dtobind.AsEncodeError(err)
	require.True(t, ok)
	assert.Equal(t, dtobind.CodeInvalidEnum, ee.Code)
}

func TestStringEnum_Factory(t *testing.T) {
	f := codec.StringEnum(nil, false)
	assert.True(t, f.CanConvert(levelType))
	assert.True(t, f.CanConvert(reflect.TypeFor[Flavor]()))
	assert.False(t, f.CanConvert(reflect.TypeFor[int]()))

	_, err := codec.StringEnum(nil, true).CreateCodec(reflect.TypeFor[Flavor](), dtobind.NewOptions())
	assert.Error(t, err, "string enumerations have no integer form")

	c, err := f.CreateCodec(reflect.TypeFor[Flavor](), dtobind.NewOptions())
	require.NoError(t, err)
	got, err := decode(t, c, reflect.TypeFor[Flavor](), `"sour"`)
	require.NoError(t, err)
	assert.Equal(t, Flavor("Sour"), got)
}

func TestStringEnum_MapKeys(t *testing.T) {
	o := dtobind.NewOptions().RegisterFactory(codec.StringEnum(naming.SnakeCase{}, false))

	r := dtobind.NewReader(dtobind.JSONBytes([]byte(`{"HighWater":2,"debug":1}`)))
	require.NoError(t, r.Advance())
	got, err := dtobind.DecodeAs[map[Level]int](r, o)
	require.NoError(t, err)
	assert.Equal(t, map[Level]int{HighWater: 2, Debug: 1}, got)

	var buf bytes.Buffer
	w := dtobind.NewWriter(&buf)
	require.NoError(t, dtobind.EncodeAs(w, got, o))
	require.NoError(t, w.Flush())
	assert.Equal(t, `{"debug":1,"high_water":2}`, buf.String())

	r = dtobind.NewReader(dtobind.JSONBytes([]byte(`{"Low":1}`)))
	require.NoError(t, r.Advance())
	_, err = dtobind.DecodeAs[map[Level]int](r, o)
	requireCode(t, err, dtobind.CodeInvalidEnum)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
