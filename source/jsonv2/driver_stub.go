//go:build !goexperiment.jsonv2

package jsonv2

import (
	"io"

	"github.com/reoring/dtobind"
	eng "github.com/reoring/dtobind/internal/engine"
	jsonsrc "github.com/reoring/dtobind/source/json"
)

// Driver returns the encoding/json driver when the jsonv2 experiment is not
// enabled.
func Driver() dtobind.JSONDriver { return driverStub{} }

type driverStub struct{}

func (driverStub) NewReader(r io.Reader) dtobind.Source {
	return dtobind.SourceFromEngine(jsonsrc.NewReader(r), dtobind.NumberJSONNumber)
}

func (driverStub) NewBytes(b []byte) dtobind.Source {
	return dtobind.SourceFromEngine(jsonsrc.NewBytes(b), dtobind.NumberJSONNumber)
}

func (driverStub) Name() string { return "encoding/json (jsonv2 stub)" }

// NewReader returns the encoding/json token source.
func NewReader(r io.Reader) eng.TokenSource { return jsonsrc.NewReader(r) }

// NewBytes returns the encoding/json token source over b.
func NewBytes(b []byte) eng.TokenSource { return jsonsrc.NewBytes(b) }
