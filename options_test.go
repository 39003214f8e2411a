package dtobind

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingFactory records the options each codec was created with.
type capturingFactory struct {
	seen []*Options
}

func (f *capturingFactory) CanConvert(t reflect.Type) bool { return t.Kind() == reflect.Bool }

func (f *capturingFactory) CreateCodec(_ reflect.Type, o *Options) (Codec, error) {
	f.seen = append(f.seen, o)
	return CodecFuncs(
		func(r *Reader, _ *Options) (bool, error) { return r.Token().Bool, nil },
		func(w *Writer, v bool, _ *Options) error { return w.Bool(v) },
	), nil
}

func TestOptions_LookupFactoryOwnerOptions(t *testing.T) {
	f := &capturingFactory{}
	base := NewOptions().RegisterFactory(f)
	member := base.overlay(reflect.TypeFor[string](), CodecFuncs(
		func(r *Reader, _ *Options) (string, error) { return r.Token().String, nil },
		func(w *Writer, v string, _ *Options) error { return w.String(v) },
	))

	boolType := reflect.TypeFor[bool]()
	c1, err := member.Lookup(boolType)
	require.NoError(t, err)
	require.NotNil(t, c1)
	require.Len(t, f.seen, 1)
	assert.Same(t, base, f.seen[0])

	c2, err := base.Lookup(boolType)
	require.NoError(t, err)
	assert.NotNil(t, c2)
	assert.Len(t, f.seen, 1, "cached on the options that own the factory")
}

func TestOptions_LookupNil(t *testing.T) {
	var o *Options
	c, err := o.Lookup(reflect.TypeFor[int]())
	require.NoError(t, err)
	assert.Nil(t, c)
}
