package dtobind

import (
	"bytes"
	"encoding"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	gojson "github.com/goccy/go-json"
)

var (
	jsonMarshalerType   = reflect.TypeFor[json.Marshaler]()
	jsonUnmarshalerType = reflect.TypeFor[json.Unmarshaler]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// DecodeValue decodes the value at r as type t. Precedence: a codec from o,
// Optional, null for nullable types, json.Unmarshaler, encoding.TextUnmarshaler,
// then the type's kind. Structs with no codec go through goccy/go-json.
func DecodeValue(r *Reader, t reflect.Type, o *Options) (any, error) {
	v, err := decodeReflect(r, t, o)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// EncodeValue writes v as type t, mirroring DecodeValue. A nil t encodes v by
// its dynamic type.
func EncodeValue(w *Writer, v any, t reflect.Type, o *Options) error {
	rv := reflect.ValueOf(v)
	if t == nil {
		if !rv.IsValid() {
			return w.Null()
		}
		t = rv.Type()
	}
	return encodeReflect(w, rv, t, o)
}

// nullable reports whether JSON null is a valid value of t.
func nullable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	}
	return false
}

func decodeReflect(r *Reader, t reflect.Type, o *Options) (reflect.Value, error) {
	if r.Kind() == TokenNull && nullable(t) {
		return reflect.Zero(t), nil
	}
	c, err := o.Lookup(t)
	if err != nil {
		return reflect.Value{}, r.fail(CodeCodecUnresolved, err, t.String())
	}
	if c != nil {
		v, err := c.Decode(r, t, o)
		if err != nil {
			return reflect.Value{}, r.wrap(err)
		}
		return coerce(r, v, t)
	}
	if elem := OptionalElem(t); elem != nil {
		inner, err := decodeReflect(r, elem, o)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.Zero(t).Interface().(optionalValue).withValue(inner), nil
	}
	if r.Kind() == TokenNull {
		return reflect.Value{}, r.fail(CodeNullNotAllowed, nil, t.String())
	}

	ptr := reflect.New(t)
	if ptr.Type().Implements(jsonUnmarshalerType) {
		raw, err := captureRaw(r)
		if err != nil {
			return reflect.Value{}, err
		}
		if err := ptr.Interface().(json.Unmarshaler).UnmarshalJSON(raw); err != nil {
			return reflect.Value{}, r.fail(CodeInvalidFormat, err, t.String())
		}
		return ptr.Elem(), nil
	}
	if r.Kind() == TokenString && ptr.Type().Implements(textUnmarshalerType) {
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(r.Token().String)); err != nil {
			return reflect.Value{}, r.fail(CodeInvalidFormat, err, t.String())
		}
		return ptr.Elem(), nil
	}

	out := ptr.Elem()
	tok := r.Token()
	switch t.Kind() {
	case reflect.Bool:
		if err := r.expect(TokenBool); err != nil {
			return reflect.Value{}, err
		}
		out.SetBool(tok.Bool)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if err := r.expect(TokenNumber); err != nil {
			return reflect.Value{}, err
		}
		n, err := strconv.ParseInt(tok.Number, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, numberErr(r, err, t)
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if err := r.expect(TokenNumber); err != nil {
			return reflect.Value{}, err
		}
		n, err := strconv.ParseUint(tok.Number, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, numberErr(r, err, t)
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		if err := r.expect(TokenNumber); err != nil {
			return reflect.Value{}, err
		}
		f, err := strconv.ParseFloat(tok.Number, t.Bits())
		if err != nil {
			return reflect.Value{}, numberErr(r, err, t)
		}
		out.SetFloat(f)
	case reflect.String:
		if err := r.expect(TokenString); err != nil {
			return reflect.Value{}, err
		}
		out.SetString(tok.String)
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return reflect.Value{}, r.fail(CodeUnsupportedType, nil, "no codec registered for "+t.String())
		}
		tree, err := r.ReadTree()
		if err != nil {
			return reflect.Value{}, err
		}
		if tree != nil {
			out.Set(reflect.ValueOf(tree))
		}
	case reflect.Pointer:
		ev, err := decodeReflect(r, t.Elem(), o)
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(ev)
		out.Set(p)
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 && tok.Kind == TokenString {
			b, err := base64.StdEncoding.DecodeString(tok.String)
			if err != nil {
				return reflect.Value{}, r.fail(CodeInvalidFormat, err, "base64")
			}
			out.SetBytes(b)
			return out, nil
		}
		return decodeSlice(r, t, o)
	case reflect.Array:
		return decodeArray(r, t, o)
	case reflect.Map:
		return decodeMap(r, t, o)
	case reflect.Struct:
		raw, err := captureRaw(r)
		if err != nil {
			return reflect.Value{}, err
		}
		if err := gojson.Unmarshal(raw, ptr.Interface()); err != nil {
			return reflect.Value{}, r.fail(CodeInvalidType, err, t.String())
		}
	default:
		return reflect.Value{}, r.fail(CodeUnsupportedType, nil, t.String())
	}
	return out, nil
}

func numberErr(r *Reader, err error, t reflect.Type) error {
	if errors.Is(err, strconv.ErrRange) {
		return r.fail(CodeOverflow, err, r.Token().Number+" does not fit "+t.String())
	}
	return r.fail(CodeInvalidType, err, "expected "+t.String())
}

// coerce adapts a codec result to the declared type.
func coerce(r *Reader, v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		if nullable(t) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, r.fail(CodeNullNotAllowed, nil, t.String())
	}
	rv := reflect.ValueOf(v)
	out := reflect.New(t).Elem()
	switch {
	case rv.Type().AssignableTo(t):
		out.Set(rv)
	case rv.Kind() == t.Kind() && rv.Type().ConvertibleTo(t):
		out.Set(rv.Convert(t))
	default:
		return reflect.Value{}, r.fail(CodeInvalidType, nil, fmt.Sprintf("codec produced %T for %s", v, t))
	}
	return out, nil
}

func decodeSlice(r *Reader, t reflect.Type, o *Options) (reflect.Value, error) {
	if err := r.expect(TokenBeginArray); err != nil {
		return reflect.Value{}, err
	}
	out := reflect.MakeSlice(t, 0, 0)
	for {
		if err := r.Advance(); err != nil {
			return reflect.Value{}, err
		}
		if r.Kind() == TokenEndArray {
			return out, nil
		}
		ev, err := decodeReflect(r, t.Elem(), o)
		if err != nil {
			return reflect.Value{}, err
		}
		out = reflect.Append(out, ev)
	}
}

func decodeArray(r *Reader, t reflect.Type, o *Options) (reflect.Value, error) {
	if err := r.expect(TokenBeginArray); err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(t).Elem()
	for i := 0; ; i++ {
		if err := r.Advance(); err != nil {
			return reflect.Value{}, err
		}
		if r.Kind() == TokenEndArray {
			return out, nil
		}
		if i >= t.Len() {
			return reflect.Value{}, r.fail(CodeInvalidType, nil, fmt.Sprintf("more than %d elements for %s", t.Len(), t))
		}
		ev, err := decodeReflect(r, t.Elem(), o)
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(ev)
	}
}

func decodeMap(r *Reader, t reflect.Type, o *Options) (reflect.Value, error) {
	if err := r.expect(TokenBeginObject); err != nil {
		return reflect.Value{}, err
	}
	out := reflect.MakeMap(t)
	for {
		if err := r.Advance(); err != nil {
			return reflect.Value{}, err
		}
		if r.Kind() == TokenEndObject {
			return out, nil
		}
		if err := r.expect(TokenKey); err != nil {
			return reflect.Value{}, err
		}
		kv, err := mapKey(r, r.Token().String, t.Key(), o)
		if err != nil {
			return reflect.Value{}, err
		}
		if err := r.Advance(); err != nil {
			return reflect.Value{}, err
		}
		vv, err := decodeReflect(r, t.Elem(), o)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(kv, vv)
	}
}

func mapKey(r *Reader, key string, kt reflect.Type, o *Options) (reflect.Value, error) {
	c, err := o.Lookup(kt)
	if err != nil {
		return reflect.Value{}, r.fail(CodeCodecUnresolved, err, kt.String())
	}
	if kc, ok := c.(KeyCodec); ok {
		v, err := kc.DecodeKey(r, key, kt)
		if err != nil {
			return reflect.Value{}, r.wrap(err)
		}
		return coerce(r, v, kt)
	}
	if p := reflect.New(kt); p.Type().Implements(textUnmarshalerType) {
		if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(key)); err != nil {
			return reflect.Value{}, r.fail(CodeInvalidFormat, err, "map key")
		}
		return p.Elem(), nil
	}
	out := reflect.New(kt).Elem()
	switch kt.Kind() {
	case reflect.String:
		out.SetString(key)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(key, 10, kt.Bits())
		if err != nil {
			return reflect.Value{}, r.fail(CodeInvalidType, err, "map key")
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(key, 10, kt.Bits())
		if err != nil {
			return reflect.Value{}, r.fail(CodeInvalidType, err, "map key")
		}
		out.SetUint(n)
	default:
		return reflect.Value{}, r.fail(CodeUnsupportedType, nil, "map key "+kt.String())
	}
	return out, nil
}

// captureRaw re-encodes the current value so it can be handed to an
// Unmarshaler. The reader ends on the value's last token.
func captureRaw(r *Reader) ([]byte, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := copyValue(r, w); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func copyValue(r *Reader, w *Writer) error {
	emit := func(tok Token) error {
		switch tok.Kind {
		case TokenBeginObject:
			return w.BeginObject()
		case TokenEndObject:
			return w.EndObject()
		case TokenBeginArray:
			return w.BeginArray()
		case TokenEndArray:
			return w.EndArray()
		case TokenKey:
			return w.Name(tok.String)
		case TokenString:
			return w.String(tok.String)
		case TokenNumber:
			return w.Number(tok.Number)
		case TokenBool:
			return w.Bool(tok.Bool)
		default:
			return w.Null()
		}
	}
	if err := emit(r.Token()); err != nil {
		return err
	}
	if k := r.Kind(); k != TokenBeginObject && k != TokenBeginArray {
		return nil
	}
	depth := r.Depth()
	for {
		if err := r.Advance(); err != nil {
			return err
		}
		if err := emit(r.Token()); err != nil {
			return err
		}
		if r.Depth() < depth {
			return nil
		}
	}
}

func encodeReflect(w *Writer, v reflect.Value, t reflect.Type, o *Options) error {
	if v.IsValid() && v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if !v.IsValid() {
		return w.Null()
	}
	if t.Kind() != reflect.Interface && v.Type() != t {
		if !v.Type().ConvertibleTo(t) || v.Kind() != t.Kind() {
			return encodeErrAt(w.Path(), CodeInvalidType, nil, fmt.Sprintf("cannot write %s as %s", v.Type(), t))
		}
		v = v.Convert(t)
	}
	if nullable(v.Type()) && v.IsNil() {
		return w.Null()
	}
	c, err := o.Lookup(t)
	if err != nil {
		return encodeErrAt(w.Path(), CodeCodecUnresolved, err, t.String())
	}
	if c != nil {
		return wrapEncode(w, c.Encode(w, v.Interface(), t, o))
	}
	if t.Kind() == reflect.Interface {
		return encodeReflect(w, v, v.Type(), o)
	}
	if IsOptionalType(t) {
		ov := v.Interface().(optionalValue)
		if !ov.HasValue() {
			return w.Null()
		}
		return encodeReflect(w, ov.held(), ov.elemType(), o)
	}

	if m, ok := implementer(v, jsonMarshalerType); ok {
		b, err := m.(json.Marshaler).MarshalJSON()
		if err != nil {
			return encodeErrAt(w.Path(), CodeInvalidFormat, err, t.String())
		}
		return w.Raw(b)
	}
	if m, ok := implementer(v, textMarshalerType); ok {
		b, err := m.(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return encodeErrAt(w.Path(), CodeInvalidFormat, err, t.String())
		}
		return w.String(string(b))
	}

	switch t.Kind() {
	case reflect.Bool:
		return w.Bool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return w.Int(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return w.Uint(v.Uint())
	case reflect.Float32:
		return w.Number(strconv.FormatFloat(v.Float(), 'g', -1, 32))
	case reflect.Float64:
		return w.Float(v.Float())
	case reflect.String:
		return w.String(v.String())
	case reflect.Pointer:
		return encodeReflect(w, v.Elem(), t.Elem(), o)
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return w.String(base64.StdEncoding.EncodeToString(v.Bytes()))
		}
		return encodeList(w, v, t, o)
	case reflect.Array:
		return encodeList(w, v, t, o)
	case reflect.Map:
		return encodeMap(w, v, t, o)
	case reflect.Struct:
		b, err := gojson.Marshal(v.Interface())
		if err != nil {
			return encodeErrAt(w.Path(), CodeInvalidType, err, t.String())
		}
		return w.Raw(b)
	}
	return encodeErrAt(w.Path(), CodeUnsupportedType, nil, t.String())
}

// implementer returns v (or a pointer to a copy of v) as an iface value.
func implementer(v reflect.Value, iface reflect.Type) (any, bool) {
	if v.Type().Implements(iface) {
		return v.Interface(), true
	}
	if reflect.PointerTo(v.Type()).Implements(iface) {
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		return p.Interface(), true
	}
	return nil, false
}

func encodeList(w *Writer, v reflect.Value, t reflect.Type, o *Options) error {
	if err := w.BeginArray(); err != nil {
		return err
	}
	for i := 0; i < v.Len(); i++ {
		if err := encodeReflect(w, v.Index(i), t.Elem(), o); err != nil {
			return err
		}
	}
	return w.EndArray()
}

func encodeMap(w *Writer, v reflect.Value, t reflect.Type, o *Options) error {
	type entry struct {
		name string
		val  reflect.Value
	}
	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		name, err := mapKeyName(iter.Key(), t.Key(), o)
		if err != nil {
			return encodeErrAt(w.Path(), CodeUnsupportedType, err, "map key")
		}
		entries = append(entries, entry{name: name, val: iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })

	if err := w.BeginObject(); err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.Name(e.name); err != nil {
			return err
		}
		if err := encodeReflect(w, e.val, t.Elem(), o); err != nil {
			return err
		}
	}
	return w.EndObject()
}

func mapKeyName(k reflect.Value, kt reflect.Type, o *Options) (string, error) {
	c, err := o.Lookup(kt)
	if err != nil {
		return "", err
	}
	if kc, ok := c.(KeyCodec); ok {
		return kc.EncodeKey(k.Interface(), kt)
	}
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if m, ok := implementer(k, textMarshalerType); ok {
		b, err := m.(encoding.TextMarshaler).MarshalText()
		return string(b), err
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", fmt.Errorf("unsupported key type %s", k.Type())
}

// wrapEncode locates a codec error at the writer's position unless it
// already carries one.
func wrapEncode(w *Writer, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsEncodeError(err); ok {
		return err
	}
	return encodeErrAt(w.Path(), CodeInvalidType, err, "")
}
