// Package jsonschema exports JSON Schema documents describing the objects a
// converter reads and writes.
package jsonschema

import (
	"encoding"
	"reflect"
	"time"

	"github.com/reoring/dtobind"
)

// Schema is a minimal JSON Schema representation used for export.
type Schema struct {
	// Core
	Type   string `json:"type,omitempty"`
	Format string `json:"format,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`
}

// Describer is implemented by *dtobind.Converter.
type Describer interface {
	Members() []dtobind.MemberInfo
	AllowsExtraProperties() bool
}

// ForInput describes the objects c reads: constructor-bound members under
// their primary read name, required unless Optional.
func ForInput(c Describer) *Schema {
	s := &Schema{Type: "object", Properties: map[string]*Schema{}}
	for _, m := range c.Members() {
		if !m.Writable {
			continue
		}
		s.Properties[m.ReadNames[0]] = typeSchema(m.Type)
		if !dtobind.IsOptionalType(m.Type) {
			s.Required = append(s.Required, m.ReadNames[0])
		}
	}
	if !c.AllowsExtraProperties() {
		s.AdditionalProperties = false
	}
	return s
}

// ForOutput describes the objects c writes.
func ForOutput(c Describer) *Schema {
	s := &Schema{Type: "object", Properties: map[string]*Schema{}}
	for _, m := range c.Members() {
		if !m.Written {
			continue
		}
		s.Properties[m.WriteName] = typeSchema(m.Type)
		if !dtobind.IsOptionalType(m.Type) {
			s.Required = append(s.Required, m.WriteName)
		}
	}
	return s
}

var (
	timeType          = reflect.TypeFor[time.Time]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// typeSchema maps a member type as the default structural codec encodes it.
func typeSchema(t reflect.Type) *Schema {
	if dtobind.IsOptionalType(t) {
		t = dtobind.OptionalElem(t)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch {
	case t == timeType:
		return &Schema{Type: "string", Format: "date-time"}
	case t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType):
		return &Schema{Type: "string"}
	}
	switch t.Kind() {
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return &Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Slice, reflect.Array:
		if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
			return &Schema{Type: "string", Format: "byte"}
		}
		return &Schema{Type: "array", Items: typeSchema(t.Elem())}
	case reflect.Map:
		return &Schema{Type: "object", AdditionalProperties: typeSchema(t.Elem())}
	case reflect.Struct:
		return &Schema{Type: "object"}
	}
	return &Schema{}
}
