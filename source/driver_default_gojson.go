// Package source switches the default JSON driver to goccy/go-json when
// blank-imported.
package source

import (
	"github.com/reoring/dtobind"
	drvgojson "github.com/reoring/dtobind/source/gojson"
)

func init() { dtobind.SetJSONDriver(drvgojson.Driver()) }
