package codec

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/reoring/dtobind"
)

// StringEnum returns a factory for enumerations (types implementing
// dtobind.Enum) written as strings. Value names are passed through policy
// (nil keeps them as declared). With asInteger the numeric value is written
// as a string instead, e.g. "3".
//
// Reading accepts, in order: the declared Go name, a string-encoded integer,
// the policy-converted name, then a case-insensitive match of the converted
// name.
func StringEnum(policy dtobind.NamingPolicy, asInteger bool) dtobind.EnumFactory {
	return &stringEnumFactory{policy: policy, asInteger: asInteger}
}

type stringEnumFactory struct {
	policy    dtobind.NamingPolicy
	asInteger bool
}

func (f *stringEnumFactory) ResolvesEnums() {}

func (f *stringEnumFactory) CanConvert(t reflect.Type) bool {
	if !dtobind.IsEnumType(t) {
		return false
	}
	return isInteger(t.Kind()) || t.Kind() == reflect.String
}

func (f *stringEnumFactory) CreateCodec(t reflect.Type, _ *dtobind.Options) (dtobind.Codec, error) {
	if !f.CanConvert(t) {
		return nil, fmt.Errorf("codec: %s is not an integer or string enumeration", t)
	}
	if f.asInteger && !isInteger(t.Kind()) {
		return nil, fmt.Errorf("codec: %s has no integer representation", t)
	}
	c := &enumCodec{
		typ:       t,
		asInteger: f.asInteger,
		goNames:   make(map[string]reflect.Value),
		names:     make(map[string]reflect.Value),
		toName:    make(map[any]string),
	}
	values := reflect.Zero(t).Interface().(dtobind.Enum).EnumValues()
	for _, v := range values {
		rv := reflect.ValueOf(v)
		if rv.Type() != t {
			return nil, fmt.Errorf("codec: %s.EnumValues returned a %s", t, rv.Type())
		}
		goName := v.String()
		name := goName
		if f.policy != nil {
			name = f.policy.ConvertName(goName)
		}
		if _, dup := c.names[name]; dup {
			return nil, fmt.Errorf("codec: %s has two values named %q", t, name)
		}
		c.goNames[goName] = rv
		c.names[name] = rv
		c.order = append(c.order, name)
		c.toName[rv.Interface()] = name
	}
	return c, nil
}

type enumCodec struct {
	typ       reflect.Type
	asInteger bool
	goNames   map[string]reflect.Value
	names     map[string]reflect.Value
	order     []string // converted names in EnumValues order
	toName    map[any]string
}

var _ dtobind.KeyCodec = (*enumCodec)(nil)

func (c *enumCodec) Decode(r *dtobind.Reader, _ reflect.Type, _ *dtobind.Options) (any, error) {
	if r.Kind() != dtobind.TokenString {
		return nil, r.Errorf(dtobind.CodeInvalidType, "expected enumeration string, got %s", r.Kind())
	}
	return c.lookup(r, r.Token().String)
}

// DecodeKey reads a map key the same way a string value is read.
func (c *enumCodec) DecodeKey(r *dtobind.Reader, key string, _ reflect.Type) (any, error) {
	return c.lookup(r, key)
}

func (c *enumCodec) lookup(r *dtobind.Reader, s string) (any, error) {
	if v, ok := c.goNames[s]; ok {
		return v.Interface(), nil
	}
	if v, ok := c.parseInteger(s); ok {
		return v.Interface(), nil
	}
	if v, ok := c.names[s]; ok {
		return v.Interface(), nil
	}
	for _, name := range c.order {
		if strings.EqualFold(name, s) {
			return c.names[name].Interface(), nil
		}
	}
	return nil, r.Errorf(dtobind.CodeInvalidEnum, "%q is not a %s", s, c.typ)
}

func (c *enumCodec) parseInteger(s string) (reflect.Value, bool) {
	out := reflect.New(c.typ).Elem()
	switch k := c.typ.Kind(); {
	case isSigned(k):
		n, err := strconv.ParseInt(s, 10, c.typ.Bits())
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetInt(n)
	case isInteger(k):
		n, err := strconv.ParseUint(s, 10, c.typ.Bits())
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetUint(n)
	default:
		return reflect.Value{}, false
	}
	return out, true
}

func (c *enumCodec) Encode(w *dtobind.Writer, v any, _ reflect.Type, _ *dtobind.Options) error {
	name, code, err := c.name(v)
	if err != nil {
		return &dtobind.EncodeError{Path: w.Path(), Code: code, Message: err.Error()}
	}
	return w.String(name)
}

// EncodeKey writes a map key as the value's name.
func (c *enumCodec) EncodeKey(v any, _ reflect.Type) (string, error) {
	name, _, err := c.name(v)
	return name, err
}

func (c *enumCodec) name(v any) (string, string, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Type() != c.typ {
		return "", dtobind.CodeInvalidType, fmt.Errorf("%T is not %s", v, c.typ)
	}
	if c.asInteger {
		if isSigned(rv.Kind()) {
			return strconv.FormatInt(rv.Int(), 10), "", nil
		}
		return strconv.FormatUint(rv.Uint(), 10), "", nil
	}
	name, ok := c.toName[v]
	if !ok {
		return "", dtobind.CodeInvalidEnum, fmt.Errorf("%v is not a declared %s", v, c.typ)
	}
	return name, "", nil
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return isSigned(k)
}
