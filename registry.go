package dtobind

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
)

// Binder collects per-member naming and codec registrations for one schema.
// Registrations are add-only; mistakes are accumulated and reported by Build.
//
//	conv, err := dtobind.Configure(userSchema(), nil).
//		WithReadName(id, "id", "user_id").
//		WithCodec(avatar, codec.UUID(true)).
//		Build()
type Binder[I, R any] struct {
	schema *Schema[I, R]
	opts   *Options
	res    *resolution
	errs   []error

	readNames  map[*memberDecl][]string
	writeNames map[*memberDecl]string
	include    map[*memberDecl]bool
	codecs     map[*memberDecl]Codec
	factories  map[*memberDecl]CodecFactory
	allowExtra *bool
	built      bool
}

// Configure resolves s (members, constructor, canonical order) and returns a
// Binder for registrations. A nil opts uses NewOptions().
func Configure[I, R any](s *Schema[I, R], opts *Options) *Binder[I, R] {
	if opts == nil {
		opts = NewOptions()
	}
	b := &Binder[I, R]{
		schema:     s,
		opts:       opts,
		readNames:  make(map[*memberDecl][]string),
		writeNames: make(map[*memberDecl]string),
		include:    make(map[*memberDecl]bool),
		codecs:     make(map[*memberDecl]Codec),
		factories:  make(map[*memberDecl]CodecFactory),
	}
	res, err := s.resolve()
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.res = res
	return b
}

// WithName sets both the write name and the primary read name of m.
func (b *Binder[I, R]) WithName(m MemberRef[I], name string) *Binder[I, R] {
	b.WithWriteName(m, name)
	return b.WithReadName(m, name)
}

// WithReadName sets the primary read name of m and any fallback names.
// Input names are matched exactly (case-sensitive). A primary name always
// takes precedence over a fallback seen earlier in the same object.
func (b *Binder[I, R]) WithReadName(m MemberRef[I], primary string, fallbacks ...string) *Binder[I, R] {
	d, ok := b.target(m, "read name")
	if !ok {
		return b
	}
	if _, dup := b.readNames[d]; dup {
		return b.fail(d.name, CodeDuplicateRegistration, "read name already configured")
	}
	names := append([]string{primary}, fallbacks...)
	for _, n := range names {
		if n == "" {
			return b.fail(d.name, CodeInvalidSchema, "empty read name")
		}
	}
	b.readNames[d] = names
	return b
}

// WithWriteName sets the name m is written under.
func (b *Binder[I, R]) WithWriteName(m MemberRef[I], name string) *Binder[I, R] {
	d, ok := b.target(m, "write name")
	if !ok {
		return b
	}
	if _, dup := b.writeNames[d]; dup {
		return b.fail(d.name, CodeDuplicateRegistration, "write name already configured")
	}
	if name == "" {
		return b.fail(d.name, CodeInvalidSchema, "empty write name")
	}
	b.writeNames[d] = name
	return b
}

// IncludeWhenWriting writes the read-only member m. Repeating it is harmless.
func (b *Binder[I, R]) IncludeWhenWriting(m MemberRef[I]) *Binder[I, R] {
	if d, ok := b.target(m, "include"); ok {
		b.include[d] = true
	}
	return b
}

// WithCodec overrides the codec used for m's leaf type. A TypedCodec must
// serve m's type or a type nested in it; Build reports a mismatch.
func (b *Binder[I, R]) WithCodec(m MemberRef[I], c Codec) *Binder[I, R] {
	d, ok := b.target(m, "codec")
	if !ok {
		return b
	}
	if c == nil {
		return b.fail(d.name, CodeInvalidSchema, "nil codec")
	}
	if b.hasCodec(d) {
		return b.fail(d.name, CodeDuplicateRegistration, "codec already configured")
	}
	b.codecs[d] = c
	return b
}

// WithCodecFactory overrides m's leaf codec with one produced by f when the
// converter is built. An EnumFactory is resolved against the enumeration
// inside m's type.
func (b *Binder[I, R]) WithCodecFactory(m MemberRef[I], f CodecFactory) *Binder[I, R] {
	d, ok := b.target(m, "codec factory")
	if !ok {
		return b
	}
	if f == nil {
		return b.fail(d.name, CodeInvalidSchema, "nil codec factory")
	}
	if b.hasCodec(d) {
		return b.fail(d.name, CodeDuplicateRegistration, "codec already configured")
	}
	b.factories[d] = f
	return b
}

// AllowExtraProperties overrides Options.AllowExtraProperties for this
// converter.
func (b *Binder[I, R]) AllowExtraProperties(allow bool) *Binder[I, R] {
	b.allowExtra = &allow
	return b
}

func (b *Binder[I, R]) hasCodec(d *memberDecl) bool {
	_, c := b.codecs[d]
	_, f := b.factories[d]
	return c || f
}

// target validates that m belongs to the resolved canonical order.
func (b *Binder[I, R]) target(m MemberRef[I], what string) (*memberDecl, bool) {
	if b.built {
		b.fail(m.Name(), CodeInvalidSchema, what+" registered after Build")
		return nil, false
	}
	if b.res == nil {
		return nil, false
	}
	d := m.declaration()
	if d != nil {
		for _, c := range b.res.members {
			if c == d {
				return d, true
			}
		}
	}
	b.fail(m.Name(), CodeUnknownMember, "member is not part of "+b.schema.Name())
	return nil, false
}

func (b *Binder[I, R]) fail(member, code, detail string) *Binder[I, R] {
	b.errs = append(b.errs, configErr(b.schema.Name(), member, code, detail))
	return b
}

// MustBuild is Build that panics on error.
func (b *Binder[I, R]) MustBuild() *Converter[I] {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}

// Build freezes the registrations and returns the converter. Every error
// recorded since Configure is returned, joined.
func (b *Binder[I, R]) Build() (*Converter[I], error) {
	if b.built {
		return nil, configErr(b.schema.Name(), "", CodeInvalidSchema, "Build called twice")
	}
	b.built = true
	if len(b.errs) > 0 {
		if len(b.errs) == 1 {
			return nil, b.errs[0]
		}
		return nil, errors.Join(b.errs...)
	}

	res := b.res
	allow := b.opts.AllowExtraProperties
	if b.allowExtra != nil {
		allow = *b.allowExtra
	}
	c := &Converter[I]{
		name:       b.schema.Name(),
		capability: b.schema.capability,
		record:     b.schema.record,
		ctor:       res.ctor,
		params:     res.params,
		allowExtra: allow,
		opts:       b.opts,
		primary:    make(map[string]int),
		fallback:   make(map[string]int),
		empty:      make(map[reflect.Type]reflect.Value),
	}

	var errs []error
	for i, d := range res.members {
		p := &memberPlan{
			decl:     d,
			bound:    i < res.params,
			optional: IsOptionalType(d.typ),
			nullable: nullable(d.typ),
			opts:     b.opts,
		}
		p.writeName = b.writeNames[d]
		if p.writeName == "" {
			p.writeName = b.opts.ConvertName(d.name)
		}
		p.readNames = b.readNames[d]
		if len(p.readNames) == 0 {
			p.readNames = []string{b.opts.ConvertName(d.name)}
		}
		p.write = d.writable || b.include[d]
		if err := b.bindCodec(p); err != nil {
			errs = append(errs, err)
		}
		if p.optional {
			c.empty[d.typ] = reflect.Zero(d.typ)
		}
		c.members = append(c.members, p)
	}
	if len(errs) == 1 {
		return nil, errs[0]
	}
	if len(errs) > 1 {
		return nil, errors.Join(errs...)
	}

	// Only constructor-bound members are read; first declaration of a name wins.
	for i := 0; i < res.params; i++ {
		p := c.members[i]
		if _, ok := c.primary[p.readNames[0]]; !ok {
			c.primary[p.readNames[0]] = i
		}
		for _, n := range p.readNames[1:] {
			if _, ok := c.fallback[n]; !ok {
				c.fallback[n] = i
			}
		}
	}

	b.opts.logger().Debug("dtobind: converter built",
		slog.String("schema", c.name),
		slog.String("constructor", res.ctor.signature()),
		slog.Any("order", c.order()),
		slog.Bool("allow_extra", allow),
	)
	return c, nil
}

// bindCodec resolves a per-member override into an overlay codec table.
// A typed codec must be reachable from the member's type. Factory failures
// are kept on the plan and reported when the member is read or written.
func (b *Binder[I, R]) bindCodec(p *memberPlan) error {
	d := p.decl
	if c, ok := b.codecs[d]; ok {
		tc, typed := c.(TypedCodec)
		if !typed {
			p.opts = b.opts.overlay(unwrapLeaf(d.typ), c)
			return nil
		}
		_, keys := c.(KeyCodec)
		candidates := []reflect.Type{tc.CodecType()}
		if rc, ok := c.(interface{ RecordType() reflect.Type }); ok {
			candidates = append(candidates, rc.RecordType())
		}
		for _, key := range candidates {
			if reaches(d.typ, key, keys) {
				p.opts = b.opts.overlay(key, c)
				return nil
			}
		}
		return configErr(b.schema.Name(), d.name, CodeInvalidSchema,
			fmt.Sprintf("codec for %s cannot serve a member of type %s", tc.CodecType(), d.typ))
	}
	f, ok := b.factories[d]
	if !ok {
		return nil
	}
	key := unwrapLeaf(d.typ)
	if _, isEnum := f.(EnumFactory); isEnum {
		et, found := unwrapEnum(d.typ)
		if !found {
			p.codecErr = fmt.Errorf("%s contains no enumeration type", d.typ)
			return nil
		}
		key = et
	}
	if !f.CanConvert(key) {
		p.codecErr = fmt.Errorf("factory %T cannot convert %s", f, key)
		return nil
	}
	c, err := f.CreateCodec(key, b.opts)
	if err != nil {
		p.codecErr = err
		return nil
	}
	p.opts = b.opts.overlay(key, c)
	return nil
}
