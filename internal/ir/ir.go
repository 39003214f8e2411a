// Package ir defines the model the schema generator renders from. It is
// produced by parsing Go source and holds type expressions as source text.
// This package is internal and not part of the public API.
package ir

// File is one generated source file.
type File struct {
	Package  string
	Imports  []Import
	Bindings []Binding
}

// Import is an import the generated file needs. Name is empty unless the
// import was renamed in the parsed source.
type Import struct {
	Name string
	Path string
}

// Binding describes one capability interface bound to one record type.
type Binding struct {
	Func         string // generated declaration function
	MembersType  string // generated struct of member handles
	Capability   string // interface name
	Record       string // record type expression: "user" or "*user"
	Members      []Member
	Constructors []Constructor
}

// Member is a zero-argument, single-result method of the capability.
type Member struct {
	Name     string
	Type     string
	Writable bool // named by a constructor parameter
}

// Constructor is a package-level function building the record.
type Constructor struct {
	Name      string
	Params    []Param
	Result    string
	WithError bool
}

// Param is a named constructor parameter.
type Param struct {
	Name string
	Type string
}

// Writable reports how many members are bound by constructors.
func (b Binding) Writable() int {
	n := 0
	for _, m := range b.Members {
		if m.Writable {
			n++
		}
	}
	return n
}
