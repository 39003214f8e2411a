package dtobind

import (
	"bytes"
	"errors"
	"io"
	"reflect"
)

// ReadFrom reads exactly one record from src. When opts are given, the last
// one bounds the input (duplicate keys, depth, size) before the converter
// sees it.
func ReadFrom[I any](c *Converter[I], src Source, opts ...SourceOpt) (I, error) {
	var zero I
	if c == nil {
		return zero, &DecodeError{Path: "/", Code: CodeParseError, Message: message(CodeParseError, nil, "nil converter"), Offset: -1}
	}
	if len(opts) > 0 {
		src = EnforceSource(src, opts[len(opts)-1])
	}
	r := NewReader(src)
	if err := r.Advance(); err != nil {
		if errors.Is(err, io.EOF) {
			return zero, r.fail(CodeParseError, io.ErrUnexpectedEOF, "empty input")
		}
		return zero, err
	}
	v, err := c.Read(r)
	if err != nil {
		return zero, err
	}
	switch err := r.Advance(); {
	case errors.Is(err, io.EOF):
		return v, nil
	case err != nil:
		return zero, err
	default:
		return zero, r.fail(CodeParseError, nil, "unexpected data after the top-level value")
	}
}

// Unmarshal reads one record from a JSON document.
func Unmarshal[I any](c *Converter[I], data []byte, opts ...SourceOpt) (I, error) {
	return ReadFrom(c, JSONBytes(data), opts...)
}

// Decode reads one record from a JSON stream.
func Decode[I any](c *Converter[I], r io.Reader, opts ...SourceOpt) (I, error) {
	return ReadFrom(c, JSONReader(r), opts...)
}

// WriteTo writes v as JSON to out.
func WriteTo[I any](c *Converter[I], out io.Writer, v I) error {
	w := NewWriter(out)
	if err := c.Write(w, v); err != nil {
		return err
	}
	return w.Flush()
}

// Marshal returns the JSON encoding of v.
func Marshal[I any](c *Converter[I], v I) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTo(c, &buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeAs is DecodeValue with a static result type, for codecs that
// delegate an inner value.
func DecodeAs[T any](r *Reader, o *Options) (T, error) {
	var zero T
	v, err := decodeReflect(r, reflect.TypeFor[T](), o)
	if err != nil {
		return zero, err
	}
	out, _ := v.Interface().(T)
	return out, nil
}

// EncodeAs is EncodeValue with a static type.
func EncodeAs[T any](w *Writer, v T, o *Options) error {
	return encodeReflect(w, reflect.ValueOf(&v).Elem(), reflect.TypeFor[T](), o)
}
