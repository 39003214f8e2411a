package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"

	"github.com/reoring/dtobind/internal/ir"
)

const runtimeImport = "github.com/reoring/dtobind"

var fileTmpl = template.Must(template.New("file").Parse(`// Code generated by dtobind gen. DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
	{{if .Name}}{{.Name}} {{end}}{{printf "%q" .Path}}
{{- end}}

	{{printf "%q" .Runtime}}
)
{{range $b := .Bindings}}
// {{$b.MembersType}} holds the member handles of {{$b.Capability}}.
type {{$b.MembersType}} struct {
{{- range $b.Members}}
	{{.Name}} dtobind.Member[{{$b.Capability}}, {{.Type}}]
{{- end}}
}

// {{$b.Func}} declares how {{$b.Record}} is bound through {{$b.Capability}}.
func {{$b.Func}}() (*dtobind.Schema[{{$b.Capability}}, {{$b.Record}}], {{$b.MembersType}}) {
	s := dtobind.NewSchema[{{$b.Capability}}, {{$b.Record}}]()
	m := {{$b.MembersType}}{
{{- range $b.Members}}
		{{.Name}}: dtobind.{{if .Writable}}Field{{else}}Computed{{end}}(s, {{printf "%q" .Name}}, {{$b.Capability}}.{{.Name}}),
{{- end}}
	}
{{- range $b.Constructors}}
	s.Constructor({{.Name}}{{range .Params}}, {{printf "%q" .Name}}{{end}})
{{- end}}
	return s, m
}
{{end}}`))

// Render produces the gofmt-ed source of f.
func Render(f *ir.File) ([]byte, error) {
	if f == nil || f.Package == "" {
		return nil, fmt.Errorf("gen: package name required")
	}
	var buf bytes.Buffer
	data := struct {
		*ir.File
		Runtime string
	}{f, runtimeImport}
	if err := fileTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("gen: %w", err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("gen: format generated code: %w\n%s", err, buf.Bytes())
	}
	return out, nil
}

// Generate is Load followed by Render.
func Generate(dir string, reqs []Request) ([]byte, error) {
	f, err := Load(dir, reqs)
	if err != nil {
		return nil, err
	}
	return Render(f)
}
