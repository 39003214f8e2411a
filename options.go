package dtobind

import (
	"log/slog"
	"reflect"
	"sync"

	"github.com/reoring/dtobind/naming"
)

// NamingPolicy maps a declared member name to its wire name.
type NamingPolicy interface {
	ConvertName(name string) string
}

// Options is the codec table and policy set a converter is built against.
// Configure it before the first Build; it is read-only afterwards and safe
// for concurrent use from then on.
type Options struct {
	// NamingPolicy derives wire names from member names. Nil keeps names
	// verbatim.
	NamingPolicy NamingPolicy
	// AllowExtraProperties is the default for converters built from these
	// options: unknown input members are skipped instead of rejected.
	AllowExtraProperties bool
	// Logger receives Build diagnostics. Nil uses slog.Default().
	Logger *slog.Logger

	parent    *Options
	codecs    map[reflect.Type]Codec
	factories []CodecFactory
	cache     sync.Map // reflect.Type -> Codec produced by a factory
}

// NewOptions returns options with the snake_case naming policy and extra
// properties allowed.
func NewOptions() *Options {
	return &Options{
		NamingPolicy:         naming.SnakeCase{},
		AllowExtraProperties: true,
	}
}

// Register binds c to exactly t.
func (o *Options) Register(t reflect.Type, c Codec) *Options {
	if o.codecs == nil {
		o.codecs = make(map[reflect.Type]Codec)
	}
	o.codecs[t] = c
	return o
}

// RegisterFactory appends a factory; earlier factories win.
func (o *Options) RegisterFactory(f CodecFactory) *Options {
	o.factories = append(o.factories, f)
	return o
}

// Use registers typed codecs under their own types. Converters are also
// registered under their record type.
func (o *Options) Use(cs ...TypedCodec) *Options {
	for _, c := range cs {
		o.Register(c.CodecType(), c)
		if rc, ok := c.(interface{ RecordType() reflect.Type }); ok {
			o.Register(rc.RecordType(), c)
		}
	}
	return o
}

// Lookup finds the codec for t: an exact registration first, then the first
// factory that can convert t, walking up to parent options. A factory sees
// the options it was registered on, which also own the cached result. It
// returns nil when the structural codec should handle t.
func (o *Options) Lookup(t reflect.Type) (Codec, error) {
	for cur := o; cur != nil; cur = cur.parent {
		if c, ok := cur.codecs[t]; ok {
			return c, nil
		}
		if c, ok := cur.cache.Load(t); ok {
			return c.(Codec), nil
		}
		for _, f := range cur.factories {
			if !f.CanConvert(t) {
				continue
			}
			c, err := f.CreateCodec(t, cur)
			if err != nil {
				return nil, err
			}
			actual, _ := cur.cache.LoadOrStore(t, c)
			return actual.(Codec), nil
		}
	}
	return nil, nil
}

// ConvertName applies the naming policy.
func (o *Options) ConvertName(name string) string {
	for cur := o; cur != nil; cur = cur.parent {
		if cur.NamingPolicy != nil {
			return cur.NamingPolicy.ConvertName(name)
		}
	}
	return name
}

func (o *Options) logger() *slog.Logger {
	for cur := o; cur != nil; cur = cur.parent {
		if cur.Logger != nil {
			return cur.Logger
		}
	}
	return slog.Default()
}

// overlay returns child options whose only own entry is c under t.
func (o *Options) overlay(t reflect.Type, c Codec) *Options {
	child := &Options{parent: o, AllowExtraProperties: o.AllowExtraProperties}
	return child.Register(t, c)
}
