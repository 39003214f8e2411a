package dtobind

import (
	"fmt"
	"reflect"
)

// Codec reads and writes one leaf value. Decode is called with r on the
// value's first token and must leave r on its last token. t is the declared
// type being decoded or encoded; o is the codec table in effect, for codecs
// that recurse through DecodeValue/EncodeValue.
type Codec interface {
	Decode(r *Reader, t reflect.Type, o *Options) (any, error)
	Encode(w *Writer, v any, t reflect.Type, o *Options) error
}

// TypedCodec is a Codec bound to one type; Options.Use registers it under
// that type.
type TypedCodec interface {
	Codec
	CodecType() reflect.Type
}

// CodecFactory produces codecs for a family of types.
type CodecFactory interface {
	CanConvert(t reflect.Type) bool
	CreateCodec(t reflect.Type, o *Options) (Codec, error)
}

// KeyCodec is implemented by codecs whose values can also be object member
// names, such as the keys of a map. r is positioned on the key.
type KeyCodec interface {
	DecodeKey(r *Reader, key string, t reflect.Type) (any, error)
	EncodeKey(v any, t reflect.Type) (string, error)
}

// EnumFactory marks factories for enumerations. A per-member enum factory is
// resolved against the enumeration found by unwrapping the member type
// through any number of Optional, pointer, slice, array and map layers. A
// map's key is tried before its element.
type EnumFactory interface {
	CodecFactory
	ResolvesEnums()
}

// Enum is implemented by enumeration types. EnumValues lists every defined
// value; String returns the Go-side name of the receiver.
//
//	type Color int
//	const (Red Color = iota; DarkBlue)
//	func (c Color) String() string       { ... }
//	func (Color) EnumValues() []dtobind.Enum { return []dtobind.Enum{Red, DarkBlue} }
type Enum interface {
	fmt.Stringer
	EnumValues() []Enum
}

var enumType = reflect.TypeFor[Enum]()

// IsEnumType reports whether t implements Enum.
func IsEnumType(t reflect.Type) bool { return t != nil && t.Implements(enumType) }

// CodecFuncs builds a TypedCodec for T from a pair of functions.
func CodecFuncs[T any](decode func(r *Reader, o *Options) (T, error), encode func(w *Writer, v T, o *Options) error) TypedCodec {
	return funcCodec[T]{decode: decode, encode: encode}
}

type funcCodec[T any] struct {
	decode func(r *Reader, o *Options) (T, error)
	encode func(w *Writer, v T, o *Options) error
}

func (c funcCodec[T]) CodecType() reflect.Type { return reflect.TypeFor[T]() }

func (c funcCodec[T]) Decode(r *Reader, _ reflect.Type, o *Options) (any, error) {
	return c.decode(r, o)
}

func (c funcCodec[T]) Encode(w *Writer, v any, _ reflect.Type, o *Options) error {
	tv, ok := v.(T)
	if !ok {
		return encodeErrAt(w.Path(), CodeInvalidType, nil, fmt.Sprintf("codec for %s got %T", reflect.TypeFor[T](), v))
	}
	return c.encode(w, tv, o)
}

// unwrapLeaf strips one Optional layer and one pointer layer, the shape a
// per-member codec override is keyed on.
func unwrapLeaf(t reflect.Type) reflect.Type {
	if e := OptionalElem(t); e != nil {
		t = e
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// unwrapEnum descends through wrapper layers until an Enum type is found.
func unwrapEnum(t reflect.Type) (reflect.Type, bool) {
	for t != nil {
		if IsEnumType(t) {
			return t, true
		}
		if e := OptionalElem(t); e != nil {
			t = e
			continue
		}
		switch t.Kind() {
		case reflect.Map:
			if k, ok := unwrapEnum(t.Key()); ok {
				return k, true
			}
			t = t.Elem()
		case reflect.Pointer, reflect.Slice, reflect.Array:
			t = t.Elem()
		default:
			return nil, false
		}
	}
	return nil, false
}

// reaches reports whether decoding or encoding t consults a codec registered
// under key: t itself, or any Optional, pointer, slice, array or map element
// below it. Map keys count only when keys is set.
func reaches(t, key reflect.Type, keys bool) bool {
	for t != nil {
		if t == key {
			return true
		}
		if e := OptionalElem(t); e != nil {
			t = e
			continue
		}
		switch t.Kind() {
		case reflect.Map:
			if keys && t.Key() == key {
				return true
			}
			t = t.Elem()
		case reflect.Pointer, reflect.Slice, reflect.Array:
			t = t.Elem()
		default:
			return false
		}
	}
	return false
}
