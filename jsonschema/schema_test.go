package jsonschema_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/dtobind"
	"github.com/reoring/dtobind/jsonschema"
)

type Order interface {
	ID() uuid.UUID
	Lines() []Line
	Placed() time.Time
	Notes() dtobind.Optional[*string]
	Meta() map[string]float64
	Total() float64
}

type Line struct {
	SKU string `json:"sku"`
	Qty int    `json:"qty"`
}

type order struct {
	id     uuid.UUID
	lines  []Line
	placed time.Time
	notes  dtobind.Optional[*string]
	meta   map[string]float64
}

func newOrder(id uuid.UUID, lines []Line, placed time.Time, notes dtobind.Optional[*string], meta map[string]float64) order {
	return order{id: id, lines: lines, placed: placed, notes: notes, meta: meta}
}

func (o order) ID() uuid.UUID                    { return o.id }
func (o order) Lines() []Line                    { return o.lines }
func (o order) Placed() time.Time                { return o.placed }
func (o order) Notes() dtobind.Optional[*string] { return o.notes }
func (o order) Meta() map[string]float64         { return o.meta }
func (o order) Total() float64                   { return 0 }

func orderConverter(t *testing.T, strict bool) *dtobind.Converter[Order] {
	t.Helper()
	s := dtobind.NewSchema[Order, order]()
	dtobind.Field(s, "ID", Order.ID)
	lines := dtobind.Field(s, "Lines", Order.Lines)
	dtobind.Field(s, "Placed", Order.Placed)
	dtobind.Field(s, "Notes", Order.Notes)
	dtobind.Field(s, "Meta", Order.Meta)
	total := dtobind.Computed(s, "Total", Order.Total)
	s.Constructor(newOrder, "id", "lines", "placed", "notes", "meta")

	c, err := dtobind.Configure(s, nil).
		WithReadName(lines, "lines", "items").
		WithWriteName(lines, "items").
		IncludeWhenWriting(total).
		AllowExtraProperties(!strict).
		Build()
	require.NoError(t, err)
	return c
}

func TestForInput(t *testing.T) {
	got := jsonschema.ForInput(orderConverter(t, true))
	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"id": {"type": "string"},
			"lines": {"type": "array", "items": {"type": "object"}},
			"placed": {"type": "string", "format": "date-time"},
			"notes": {"type": "string"},
			"meta": {"type": "object", "additionalProperties": {"type": "number"}}
		},
		"required": ["id", "lines", "placed", "meta"],
		"additionalProperties": false
	}`, string(raw))
}

func TestForInput_AllowsExtras(t *testing.T) {
	got := jsonschema.ForInput(orderConverter(t, false))
	assert.Nil(t, got.AdditionalProperties)
	assert.NotContains(t, got.Properties, "total")
}

func TestForOutput(t *testing.T) {
	got := jsonschema.ForOutput(orderConverter(t, true))
	assert.Contains(t, got.Properties, "items")
	assert.NotContains(t, got.Properties, "lines")
	assert.Equal(t, &jsonschema.Schema{Type: "number"}, got.Properties["total"])
	assert.Equal(t, []string{"id", "items", "placed", "meta", "total"}, got.Required)
	assert.Nil(t, got.AdditionalProperties)
}
