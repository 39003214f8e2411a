package dtobind

import (
	"fmt"
	"reflect"
)

// Converter reads and writes records of capability I. It is immutable and
// safe for concurrent use.
type Converter[I any] struct {
	name       string
	capability reflect.Type
	record     reflect.Type
	ctor       *ctorDecl
	params     int
	members    []*memberPlan
	allowExtra bool
	opts       *Options

	primary  map[string]int // primary read name -> member index
	fallback map[string]int // fallback read name -> member index
	empty    map[reflect.Type]reflect.Value
}

// memberPlan is a member with its names and codec table resolved.
type memberPlan struct {
	decl      *memberDecl
	bound     bool // a constructor argument
	write     bool
	optional  bool
	nullable  bool
	readNames []string
	writeName string
	opts      *Options
	codecErr  error
}

// MemberInfo describes one member of a built converter.
type MemberInfo struct {
	Name      string
	Type      reflect.Type
	Writable  bool // bound to a constructor parameter
	Written   bool // emitted by Write
	ReadNames []string
	WriteName string
}

// Members lists the members in canonical order.
func (c *Converter[I]) Members() []MemberInfo {
	out := make([]MemberInfo, len(c.members))
	for i, p := range c.members {
		out[i] = MemberInfo{
			Name:      p.decl.name,
			Type:      p.decl.typ,
			Writable:  p.bound,
			Written:   p.write,
			ReadNames: append([]string(nil), p.readNames...),
			WriteName: p.writeName,
		}
	}
	return out
}

// Constructor returns the signature of the selected constructor.
func (c *Converter[I]) Constructor() string { return c.ctor.signature() }

// CodecType returns the capability type, so Options.Use registers the
// converter for nested members of type I.
func (c *Converter[I]) CodecType() reflect.Type { return c.capability }

// RecordType returns the concrete record type.
func (c *Converter[I]) RecordType() reflect.Type { return c.record }

// AllowsExtraProperties reports whether Read skips unknown keys.
func (c *Converter[I]) AllowsExtraProperties() bool { return c.allowExtra }

func (c *Converter[I]) order() []string {
	names := make([]string, len(c.members))
	for i, p := range c.members {
		names[i] = p.decl.name
	}
	return names
}

// Read decodes one object starting at r's current token and constructs the
// record. r is left on the object's closing token.
func (c *Converter[I]) Read(r *Reader) (I, error) {
	var zero I
	if err := r.expect(TokenBeginObject); err != nil {
		return zero, err
	}

	args := make([]reflect.Value, c.params)
	// 0: unset, 1: set from a fallback name, 2: set from a primary name
	state := make([]uint8, c.params)
	for {
		if err := r.Advance(); err != nil {
			return zero, err
		}
		if r.Kind() == TokenEndObject {
			break
		}
		if err := r.expect(TokenKey); err != nil {
			return zero, err
		}
		name := r.Token().String
		idx, primary := c.lookup(name)
		if err := r.Advance(); err != nil {
			return zero, err
		}
		if idx < 0 {
			if !c.allowExtra {
				return zero, r.fail(CodeUnknownKey, nil, fmt.Sprintf("%q is not a member of %s", name, c.name))
			}
			if err := r.Skip(); err != nil {
				return zero, err
			}
			continue
		}

		p := c.members[idx]
		v, err := p.decode(r)
		if err != nil {
			return zero, err
		}
		switch {
		case primary:
			args[idx], state[idx] = v, 2
		case state[idx] == 0:
			args[idx], state[idx] = v, 1
		}
	}

	for i := range args {
		if state[i] != 0 {
			continue
		}
		p := c.members[i]
		if !p.optional {
			err := r.fail(CodeRequired, nil, fmt.Sprintf("no value for member %q (%s)", p.decl.name, p.readNames[0]))
			err.Params = map[string]string{"member": p.decl.name}
			return zero, err
		}
		args[i] = c.empty[p.decl.typ]
	}
	return c.construct(r, args)
}

// lookup resolves an input name to a bound member: primary names first,
// then fallbacks.
func (c *Converter[I]) lookup(name string) (int, bool) {
	if i, ok := c.primary[name]; ok {
		return i, true
	}
	if i, ok := c.fallback[name]; ok {
		return i, false
	}
	return -1, false
}

func (c *Converter[I]) construct(r *Reader, args []reflect.Value) (I, error) {
	var zero I
	out := c.ctor.fn.Call(args)
	if c.ctor.withErr {
		if err, _ := out[1].Interface().(error); err != nil {
			return zero, &DecodeError{
				Path:    r.Path(),
				Code:    CodeConstructorFailed,
				Message: message(CodeConstructorFailed, nil, c.ctor.name),
				Offset:  r.Offset(),
				Cause:   err,
			}
		}
	}
	v, ok := out[0].Interface().(I)
	if !ok {
		return zero, r.fail(CodeConstructorFailed, nil, fmt.Sprintf("%s returned %s, which is not %s", c.ctor.name, out[0].Type(), c.capability))
	}
	return v, nil
}

func (p *memberPlan) decode(r *Reader) (reflect.Value, error) {
	if p.codecErr != nil {
		return reflect.Value{}, r.fail(CodeCodecUnresolved, p.codecErr, p.decl.name)
	}
	v, err := decodeReflect(r, p.decl.typ, p.opts)
	if err != nil {
		return reflect.Value{}, err
	}
	if !p.nullable && isNilValue(v) {
		return reflect.Value{}, r.fail(CodeNullNotAllowed, nil, p.decl.name)
	}
	return v, nil
}

// Write emits v as an object: members in canonical order, read-only members
// only when included, absent Optionals skipped. A nil v is written as null.
func (c *Converter[I]) Write(w *Writer, v I) error {
	held := any(v)
	if isNilValue(reflect.ValueOf(held)) {
		return w.Null()
	}
	if err := w.BeginObject(); err != nil {
		return err
	}
	for _, p := range c.members {
		if !p.write {
			continue
		}
		val, ok := p.decl.get(held)
		if !ok {
			return encodeErrAt(w.Path(), CodeInvalidType, nil, fmt.Sprintf("%T does not expose member %q", held, p.decl.name))
		}
		if p.optional {
			if ov, _ := val.(optionalValue); ov != nil && !ov.HasValue() {
				continue
			}
		}
		if err := w.Name(p.writeName); err != nil {
			return err
		}
		if p.codecErr != nil {
			return encodeErrAt(w.Path(), CodeCodecUnresolved, p.codecErr, p.decl.name)
		}
		if err := encodeReflect(w, reflect.ValueOf(val), p.decl.typ, p.opts); err != nil {
			return err
		}
	}
	return w.EndObject()
}

// Decode implements Codec, so the converter handles nested records.
func (c *Converter[I]) Decode(r *Reader, _ reflect.Type, _ *Options) (any, error) {
	return c.Read(r)
}

// Encode implements Codec.
func (c *Converter[I]) Encode(w *Writer, v any, _ reflect.Type, _ *Options) error {
	if v == nil {
		return w.Null()
	}
	iv, ok := v.(I)
	if !ok {
		return encodeErrAt(w.Path(), CodeInvalidType, nil, fmt.Sprintf("%T is not %s", v, c.capability))
	}
	return c.Write(w, iv)
}

// CanConvert reports whether t is the capability or the record type.
func (c *Converter[I]) CanConvert(t reflect.Type) bool {
	return t == c.capability || t == c.record
}
