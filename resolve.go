package dtobind

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// resolution is the outcome of matching a schema's members to one of its
// constructors.
type resolution struct {
	// members in canonical order: constructor parameters first, in parameter
	// order, then the remaining members in declaration order.
	members []*memberDecl
	// params is the number of leading members bound to constructor arguments.
	params int
	ctor   *ctorDecl
}

func (s *Schema[I, R]) resolve() (*resolution, error) {
	if len(s.errs) > 0 {
		return nil, errors.Join(s.errs...)
	}
	if !s.record.Implements(s.capability) {
		return nil, configErr(s.Name(), "", CodeInvalidSchema, fmt.Sprintf("%s does not implement %s", s.record, s.capability))
	}
	members, err := s.backMap()
	if err != nil {
		return nil, err
	}

	var writable []*memberDecl
	for _, m := range members {
		if m.writable {
			writable = append(writable, m)
		}
	}
	ctor, err := s.selectConstructor(writable)
	if err != nil {
		return nil, err
	}
	bound, err := s.matchParameters(ctor, writable)
	if err != nil {
		return nil, err
	}

	res := &resolution{ctor: ctor, params: len(bound)}
	res.members = append(res.members, bound...)
	taken := make(map[*memberDecl]bool, len(bound))
	for _, m := range bound {
		taken[m] = true
	}
	for _, m := range members {
		if !taken[m] {
			res.members = append(res.members, m)
		}
	}
	return res, nil
}

// backMap folds record-only members into the capability when I exposes a
// method of the same name and result type: merged into a capability
// declaration of that name if there is one, else read through the interface.
func (s *Schema[I, R]) backMap() ([]*memberDecl, error) {
	declared := make(map[string]*memberDecl)
	for _, m := range s.members {
		if !m.onRecord {
			declared[m.name] = m
		}
	}

	out := make([]*memberDecl, 0, len(s.members))
	for _, m := range s.members {
		if !m.onRecord {
			out = append(out, m)
			continue
		}
		method, ok := s.capability.MethodByName(m.name)
		if !ok || method.Type.NumIn() != 0 || method.Type.NumOut() != 1 || method.Type.Out(0) != m.typ {
			out = append(out, m)
			continue
		}
		if cm, ok := declared[m.name]; ok {
			if cm.typ != m.typ {
				return nil, configErr(s.Name(), m.name, CodeInvalidSchema, fmt.Sprintf("record member is %s, capability member is %s", m.typ, cm.typ))
			}
			if m.writable && !cm.writable {
				cm.writable = true
			}
			continue
		}
		out = append(out, &memberDecl{
			name:     m.name,
			typ:      m.typ,
			writable: m.writable,
			get:      interfaceGetter(s.capability, method.Index),
			order:    m.order,
		})
	}
	return out, nil
}

func interfaceGetter(capability reflect.Type, index int) func(any) (any, bool) {
	return func(v any) (any, bool) {
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || !rv.Type().Implements(capability) {
			return nil, false
		}
		iv := reflect.New(capability).Elem()
		iv.Set(rv)
		return iv.Method(index).Call(nil)[0].Interface(), true
	}
}

// selectConstructor picks the constructor whose parameter types are exactly
// the multiset of writable member types. A lone constructor must match; with
// several, exactly one may.
func (s *Schema[I, R]) selectConstructor(writable []*memberDecl) (*ctorDecl, error) {
	want := make(map[reflect.Type]int, len(writable))
	for _, m := range writable {
		want[m.typ]++
	}
	if len(s.ctors) == 0 {
		return nil, configErr(s.Name(), "", CodeMissingConstructor, "no constructor declared; writable members are "+describeTypes(want))
	}

	var candidates []*ctorDecl
	for _, c := range s.ctors {
		if sameMultiset(want, c.params) {
			candidates = append(candidates, c)
		}
	}
	switch {
	case len(s.ctors) == 1 && len(candidates) == 0:
		return nil, configErr(s.Name(), s.ctors[0].name, CodeMissingConstructor,
			fmt.Sprintf("%s does not take exactly the writable member types %s", s.ctors[0].signature(), describeTypes(want)))
	case len(candidates) == 0:
		return nil, configErr(s.Name(), "", CodeMissingConstructor,
			fmt.Sprintf("none of %d constructors takes exactly the writable member types %s", len(s.ctors), describeTypes(want)))
	case len(candidates) > 1:
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.signature()
		}
		return nil, configErr(s.Name(), "", CodeAmbiguousConstructor, strings.Join(names, "; "))
	}
	return candidates[0], nil
}

func sameMultiset(want map[reflect.Type]int, params []ctorParam) bool {
	got := make(map[reflect.Type]int, len(params))
	for _, p := range params {
		got[p.typ]++
	}
	if len(got) != len(want) {
		return false
	}
	for t, n := range want {
		if got[t] != n {
			return false
		}
	}
	return true
}

func describeTypes(m map[reflect.Type]int) string {
	parts := make([]string, 0, len(m))
	for t, n := range m {
		if n > 1 {
			parts = append(parts, fmt.Sprintf("%s x%d", t, n))
		} else {
			parts = append(parts, t.String())
		}
	}
	sort.Strings(parts)
	return "[" + strings.Join(parts, ", ") + "]"
}

// matchParameters binds each parameter, in order, to the first unbound
// writable member with the same name (case-insensitive) and exactly the same
// type.
func (s *Schema[I, R]) matchParameters(ctor *ctorDecl, writable []*memberDecl) ([]*memberDecl, error) {
	bound := make([]*memberDecl, 0, len(ctor.params))
	used := make(map[*memberDecl]bool, len(ctor.params))
	for _, p := range ctor.params {
		var match *memberDecl
		for _, m := range writable {
			if !used[m] && m.typ == p.typ && strings.EqualFold(m.name, p.name) {
				match = m
				break
			}
		}
		if match == nil {
			return nil, configErr(s.Name(), p.name, CodeUnmatchedParameter,
				fmt.Sprintf("parameter %q (%s) of %s matches no writable member", p.name, p.typ, ctor.name))
		}
		used[match] = true
		bound = append(bound, match)
	}
	return bound, nil
}
