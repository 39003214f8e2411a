package dtobind

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// Schema declares how a record type R is exposed through the capability
// interface I: its members (accessors) and the constructors able to build
// it. A schema is inert until passed to Configure.
//
//	s := dtobind.NewSchema[User, *user]()
//	id := dtobind.Field(s, "ID", User.ID)
//	dtobind.Computed(s, "Mention", User.Mention)
//	s.Constructor(newUser, "id")
type Schema[I, R any] struct {
	capability reflect.Type
	record     reflect.Type
	members    []*memberDecl
	ctors      []*ctorDecl
	errs       []error
}

// memberDecl is one declared accessor.
type memberDecl struct {
	name     string
	typ      reflect.Type
	writable bool
	// onRecord marks a RecordField that was not back-mapped to I.
	onRecord bool
	// get reads the member from a value held as I (or as R for record fields).
	get   func(v any) (any, bool)
	order int
}

type ctorDecl struct {
	fn      reflect.Value
	name    string
	params  []ctorParam
	withErr bool
}

type ctorParam struct {
	name string
	typ  reflect.Type
}

// NewSchema starts a declaration. I must be an interface type and R a
// concrete type implementing it; this is checked when the converter is built.
func NewSchema[I, R any]() *Schema[I, R] {
	s := &Schema[I, R]{
		capability: reflect.TypeFor[I](),
		record:     reflect.TypeFor[R](),
	}
	if s.capability.Kind() != reflect.Interface {
		s.fail("", CodeInvalidSchema, s.capability.String()+" is not an interface type")
	}
	if s.record.Kind() == reflect.Interface {
		s.fail("", CodeInvalidSchema, s.record.String()+" is not a concrete type")
	}
	return s
}

// Name renders "Capability/Record" for diagnostics.
func (s *Schema[I, R]) Name() string {
	return s.capability.String() + "/" + s.record.String()
}

// Member is a typed handle on a capability member, used to target
// registrations.
type Member[I, V any] struct {
	decl *memberDecl
}

// Name returns the declared member name.
func (m Member[I, V]) Name() string {
	if m.decl == nil {
		return ""
	}
	return m.decl.name
}

func (m Member[I, V]) declaration() *memberDecl { return m.decl }
func (Member[I, V]) capability(I)               {}

// MemberRef is satisfied by member handles of capability I.
type MemberRef[I any] interface {
	Name() string
	declaration() *memberDecl
	capability(I)
}

// RecordMember is a handle on a record-only member. It cannot be used for
// registrations.
type RecordMember[R, V any] struct {
	decl *memberDecl
}

// Name returns the declared member name.
func (m RecordMember[R, V]) Name() string {
	if m.decl == nil {
		return ""
	}
	return m.decl.name
}

// Field declares a writable capability member: it is bound from input and
// must be accepted by the constructor.
func Field[I, R, V any](s *Schema[I, R], name string, get func(I) V) Member[I, V] {
	return Member[I, V]{decl: s.declare(name, reflect.TypeFor[V](), true, false, capabilityGetter(get))}
}

// Computed declares a read-only capability member: written only when
// included with IncludeWhenWriting, never bound from input.
func Computed[I, R, V any](s *Schema[I, R], name string, get func(I) V) Member[I, V] {
	return Member[I, V]{decl: s.declare(name, reflect.TypeFor[V](), false, false, capabilityGetter(get))}
}

// RecordField declares a member that is reachable on R. When I exposes a
// method with the same name and result type, the member is mapped back onto
// the capability so capability handles reach it.
func RecordField[I, R, V any](s *Schema[I, R], name string, get func(R) V, writable bool) RecordMember[R, V] {
	g := func(v any) (any, bool) {
		rv, ok := v.(R)
		if !ok {
			return nil, false
		}
		return get(rv), true
	}
	return RecordMember[R, V]{decl: s.declare(name, reflect.TypeFor[V](), writable, true, g)}
}

func capabilityGetter[I, V any](get func(I) V) func(any) (any, bool) {
	return func(v any) (any, bool) {
		iv, ok := v.(I)
		if !ok {
			return nil, false
		}
		return get(iv), true
	}
}

func (s *Schema[I, R]) declare(name string, t reflect.Type, writable, onRecord bool, get func(any) (any, bool)) *memberDecl {
	d := &memberDecl{name: name, typ: t, writable: writable, onRecord: onRecord, get: get, order: len(s.members)}
	switch {
	case name == "":
		s.fail("", CodeInvalidSchema, "member name is empty")
		return d
	case get == nil:
		s.fail(name, CodeInvalidSchema, "nil accessor")
		return d
	}
	for _, m := range s.members {
		if m.name == name && m.onRecord == onRecord {
			s.fail(name, CodeInvalidSchema, "member declared twice")
			return d
		}
	}
	s.members = append(s.members, d)
	return d
}

// Constructor declares a builder. fn is a function whose parameters are
// named by params, in order, and which returns R (or a type assignable to I),
// optionally followed by an error.
func (s *Schema[I, R]) Constructor(fn any, params ...string) *Schema[I, R] {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		s.fail("", CodeInvalidSchema, fmt.Sprintf("constructor must be a function, got %T", fn))
		return s
	}
	ft := fv.Type()
	name := funcName(fv)
	switch {
	case ft.IsVariadic():
		s.fail(name, CodeInvalidSchema, "variadic constructors are not supported")
		return s
	case ft.NumIn() != len(params):
		s.fail(name, CodeInvalidSchema, fmt.Sprintf("%d parameter names for %d parameters", len(params), ft.NumIn()))
		return s
	case ft.NumOut() == 0 || ft.NumOut() > 2:
		s.fail(name, CodeInvalidSchema, "constructor must return the record, optionally with an error")
		return s
	case ft.NumOut() == 2 && ft.Out(1) != reflect.TypeFor[error]():
		s.fail(name, CodeInvalidSchema, "second result must be error")
		return s
	}
	if out := ft.Out(0); out != s.record && !out.AssignableTo(s.capability) {
		s.fail(name, CodeInvalidSchema, fmt.Sprintf("result %s is neither %s nor assignable to %s", out, s.record, s.capability))
		return s
	}

	d := &ctorDecl{fn: fv, name: name, withErr: ft.NumOut() == 2}
	seen := make(map[string]bool, len(params))
	for i, p := range params {
		key := strings.ToLower(p)
		if p == "" || seen[key] {
			s.fail(name, CodeInvalidSchema, fmt.Sprintf("parameter name %q is empty or repeated", p))
			return s
		}
		seen[key] = true
		d.params = append(d.params, ctorParam{name: p, typ: ft.In(i)})
	}
	s.ctors = append(s.ctors, d)
	return s
}

func (s *Schema[I, R]) fail(member, code, detail string) {
	s.errs = append(s.errs, configErr(s.Name(), member, code, detail))
}

func funcName(fv reflect.Value) string {
	if f := runtime.FuncForPC(fv.Pointer()); f != nil {
		name := f.Name()
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
		return name
	}
	return fv.Type().String()
}

func (d *ctorDecl) signature() string {
	parts := make([]string, len(d.params))
	for i, p := range d.params {
		parts[i] = p.name + " " + p.typ.String()
	}
	return d.name + "(" + strings.Join(parts, ", ") + ")"
}
