package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/reoring/dtobind/internal/ir"
)

// Request names one capability/record pair to generate a declaration for.
type Request struct {
	Interface string `yaml:"interface"`
	Record    string `yaml:"record"`
	Func      string `yaml:"func,omitempty"`
}

// Load parses the non-test Go files of the package in dir and builds the
// model for reqs.
func Load(dir string, reqs []Request) (*ir.File, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("gen: nothing to generate")
	}
	pkg, err := parsePackage(dir)
	if err != nil {
		return nil, err
	}
	f := &ir.File{Package: pkg.name}
	used := make(map[string]bool)
	for _, r := range reqs {
		b, err := pkg.binding(r, used)
		if err != nil {
			return nil, err
		}
		f.Bindings = append(f.Bindings, b)
	}
	f.Imports, err = pkg.importsFor(used)
	if err != nil {
		return nil, err
	}
	return f, nil
}

type pkgSource struct {
	name    string
	types   map[string]*ast.TypeSpec
	funcs   []*ast.FuncDecl
	imports map[string]ir.Import // by qualifier
}

func parsePackage(dir string) (*pkgSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("gen: %w", err)
	}
	fset := token.NewFileSet()
	pkg := &pkgSource{
		types:   make(map[string]*ast.TypeSpec),
		imports: make(map[string]ir.Import),
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		file, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.SkipObjectResolution)
		if err != nil {
			return nil, fmt.Errorf("gen: %w", err)
		}
		if pkg.name == "" {
			pkg.name = file.Name.Name
		} else if pkg.name != file.Name.Name {
			return nil, fmt.Errorf("gen: %s: found packages %s and %s", dir, pkg.name, file.Name.Name)
		}
		for _, is := range file.Imports {
			p, err := strconv.Unquote(is.Path.Value)
			if err != nil {
				continue
			}
			q := defaultQualifier(p)
			imp := ir.Import{Path: p}
			if is.Name != nil {
				if is.Name.Name == "_" || is.Name.Name == "." {
					continue
				}
				q, imp.Name = is.Name.Name, is.Name.Name
			}
			pkg.imports[q] = imp
		}
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					continue
				}
				for _, spec := range d.Specs {
					if ts, ok := spec.(*ast.TypeSpec); ok {
						pkg.types[ts.Name.Name] = ts
					}
				}
			case *ast.FuncDecl:
				pkg.funcs = append(pkg.funcs, d)
			}
		}
	}
	if pkg.name == "" {
		return nil, fmt.Errorf("gen: no Go files in %s", dir)
	}
	return pkg, nil
}

var versionSuffix = regexp.MustCompile(`^v[0-9]+$`)

// defaultQualifier guesses the package name of an import path:
// "github.com/x/y/v2" -> "y", "gopkg.in/yaml.v3" -> "yaml", "go-json" -> "json".
func defaultQualifier(p string) string {
	base := path.Base(p)
	if versionSuffix.MatchString(base) {
		base = path.Base(path.Dir(p))
	}
	if i := strings.Index(base, ".v"); i > 0 {
		base = base[:i]
	}
	if i := strings.LastIndexByte(base, '-'); i >= 0 {
		base = base[i+1:]
	}
	return base
}

func (p *pkgSource) importsFor(used map[string]bool) ([]ir.Import, error) {
	var out []ir.Import
	for q := range used {
		imp, ok := p.imports[q]
		if !ok {
			return nil, fmt.Errorf("gen: package qualifier %q is not imported", q)
		}
		out = append(out, imp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (p *pkgSource) binding(r Request, used map[string]bool) (ir.Binding, error) {
	b := ir.Binding{Capability: r.Interface, Func: r.Func}
	is, ok := p.types[r.Interface]
	if !ok {
		return b, fmt.Errorf("gen: interface %s not found in package %s", r.Interface, p.name)
	}
	iface, ok := is.Type.(*ast.InterfaceType)
	if !ok {
		return b, fmt.Errorf("gen: %s is not an interface", r.Interface)
	}
	rs, ok := p.types[r.Record]
	if !ok {
		return b, fmt.Errorf("gen: record type %s not found in package %s", r.Record, p.name)
	}
	if is.TypeParams != nil || rs.TypeParams != nil {
		return b, fmt.Errorf("gen: generic types are not supported (%s/%s)", r.Interface, r.Record)
	}

	b.Constructors = p.constructors(r)
	if len(b.Constructors) == 0 {
		return b, fmt.Errorf("gen: no function returns %s, *%s or %s", r.Record, r.Record, r.Interface)
	}
	b.Record = p.recordExpr(r, b.Constructors[0].Result)

	params := make(map[string]bool)
	for _, c := range b.Constructors {
		for _, prm := range c.Params {
			params[strings.ToLower(prm.Name)] = true
		}
	}
	for _, field := range iface.Methods.List {
		ft, ok := field.Type.(*ast.FuncType)
		if !ok || len(field.Names) == 0 {
			continue // embedded interface
		}
		if ft.Params.NumFields() != 0 || ft.Results.NumFields() != 1 {
			continue
		}
		res := ft.Results.List[0].Type
		collectQualifiers(res, used)
		for _, n := range field.Names {
			b.Members = append(b.Members, ir.Member{
				Name:     n.Name,
				Type:     types.ExprString(res),
				Writable: params[strings.ToLower(n.Name)],
			})
		}
	}
	if len(b.Members) == 0 {
		return b, fmt.Errorf("gen: %s has no accessor methods", r.Interface)
	}

	if b.Func == "" {
		b.Func = lowerFirst(r.Interface) + "Schema"
	}
	b.MembersType = strings.TrimSuffix(b.Func, "Schema") + "Members"
	if b.MembersType == "Members" {
		b.MembersType = b.Func + "Members"
	}
	return b, nil
}

// constructors lists package-level functions returning the record (by value
// or pointer) or the capability, optionally with an error, whose parameters
// are all named.
func (p *pkgSource) constructors(r Request) []ir.Constructor {
	var out []ir.Constructor
	for _, fd := range p.funcs {
		if fd.Recv != nil || fd.Type.TypeParams != nil || fd.Type.Results == nil {
			continue
		}
		results := fd.Type.Results.List
		n := fd.Type.Results.NumFields()
		if n == 0 || n > 2 || len(results[0].Names) > 1 {
			continue
		}
		if n == 2 && types.ExprString(results[len(results)-1].Type) != "error" {
			continue
		}
		res := types.ExprString(results[0].Type)
		if res != r.Record && res != "*"+r.Record && res != r.Interface {
			continue
		}
		c := ir.Constructor{Name: fd.Name.Name, Result: res, WithError: n == 2}
		named := true
		for _, f := range fd.Type.Params.List {
			if len(f.Names) == 0 {
				named = false
				break
			}
			if _, variadic := f.Type.(*ast.Ellipsis); variadic {
				named = false
				break
			}
			for _, id := range f.Names {
				if id.Name == "_" {
					named = false
				}
				c.Params = append(c.Params, ir.Param{Name: id.Name, Type: types.ExprString(f.Type)})
			}
		}
		if named {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// recordExpr picks the record type argument: the constructor's result when
// it names the record, else a pointer when any method has a pointer receiver.
func (p *pkgSource) recordExpr(r Request, result string) string {
	if result == r.Record || result == "*"+r.Record {
		return result
	}
	for _, fd := range p.funcs {
		if fd.Recv == nil || len(fd.Recv.List) == 0 {
			continue
		}
		if star, ok := fd.Recv.List[0].Type.(*ast.StarExpr); ok {
			if id, ok := star.X.(*ast.Ident); ok && id.Name == r.Record {
				return "*" + r.Record
			}
		}
	}
	return r.Record
}

func collectQualifiers(e ast.Expr, used map[string]bool) {
	ast.Inspect(e, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if id, ok := sel.X.(*ast.Ident); ok {
				used[id.Name] = true
			}
			return false
		}
		return true
	})
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
