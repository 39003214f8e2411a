package dtobind

import (
	"fmt"
	"reflect"
)

// Optional distinguishes a member that was absent from the input from one
// that was present, including present with null. The zero value is absent.
//
//	None[string]()          // absent: skipped on write, allowed to be missing on read
//	Some[*string](nil)      // present null: written as null
//	Some("x")               // present value
type Optional[T any] struct {
	value   T
	present bool
}

// Some returns a present Optional holding v, even when v is a nil pointer.
func Some[T any](v T) Optional[T] { return Optional[T]{value: v, present: true} }

// None returns an absent Optional.
func None[T any]() Optional[T] { return Optional[T]{} }

// HasValue reports whether the Optional has a slot at all.
func (o Optional[T]) HasValue() bool { return o.present }

// IsDefined reports whether the Optional has a slot holding a non-null value.
func (o Optional[T]) IsDefined() bool {
	_, ok := o.Defined()
	return ok
}

// Defined returns the held value when it is present and non-null.
func (o Optional[T]) Defined() (T, bool) {
	if !o.present || isNilValue(reflect.ValueOf(&o.value).Elem()) {
		var zero T
		return zero, false
	}
	return o.value, true
}

// Value returns the held value. It panics with ErrOptionalAbsent when the
// Optional is absent; use Get for a non-panicking read.
func (o Optional[T]) Value() T {
	if !o.present {
		panic(ErrOptionalAbsent)
	}
	return o.value
}

// Get returns the held value and whether there was one.
func (o Optional[T]) Get() (T, bool) { return o.value, o.present }

// OrElse returns the held value, or fallback when absent.
func (o Optional[T]) OrElse(fallback T) T {
	if !o.present {
		return fallback
	}
	return o.value
}

// Equal reports whether both are absent, or both present with deeply equal
// values (two nulls are equal).
func (o Optional[T]) Equal(other Optional[T]) bool {
	if o.present != other.present {
		return false
	}
	if !o.present {
		return true
	}
	return reflect.DeepEqual(o.value, other.value)
}

// IsZero reports absence, so `omitzero` struct tags skip absent members.
func (o Optional[T]) IsZero() bool { return !o.present }

func (o Optional[T]) String() string {
	if !o.present {
		return "Empty"
	}
	if isNilValue(reflect.ValueOf(&o.value).Elem()) {
		return "null"
	}
	return fmt.Sprint(o.value)
}

// optionalValue lets the structural codec handle Optional[T] without knowing T.
type optionalValue interface {
	HasValue() bool
	held() reflect.Value
	elemType() reflect.Type
	withValue(v reflect.Value) reflect.Value
	optionalType() reflect.Type
}

func (o Optional[T]) held() reflect.Value { return reflect.ValueOf(&o.value).Elem() }

func (Optional[T]) elemType() reflect.Type { return reflect.TypeFor[T]() }

func (Optional[T]) optionalType() reflect.Type { return reflect.TypeFor[Optional[T]]() }

func (Optional[T]) withValue(v reflect.Value) reflect.Value {
	out := Optional[T]{present: true}
	if v.IsValid() {
		reflect.ValueOf(&out.value).Elem().Set(v)
	}
	return reflect.ValueOf(out)
}

var optionalValueType = reflect.TypeFor[optionalValue]()

// IsOptionalType reports whether t is an instantiation of Optional. Structs
// that merely embed one are not.
func IsOptionalType(t reflect.Type) bool {
	if t == nil || t.Kind() != reflect.Struct || !t.Implements(optionalValueType) {
		return false
	}
	return reflect.Zero(t).Interface().(optionalValue).optionalType() == t
}

// OptionalElem returns T for Optional[T], or nil for other types.
func OptionalElem(t reflect.Type) reflect.Type {
	if !IsOptionalType(t) {
		return nil
	}
	return reflect.Zero(t).Interface().(optionalValue).elemType()
}

func isNilValue(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
