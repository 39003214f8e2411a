// Package naming provides the wire-name policies applied to member and
// enumeration value names.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Policy maps a declared name to its wire name.
type Policy interface {
	ConvertName(name string) string
}

// Func adapts a plain function to Policy.
type Func func(name string) string

func (f Func) ConvertName(name string) string { return f(name) }

type identity struct{}

func (identity) ConvertName(name string) string { return name }

// Identity keeps names verbatim.
var Identity Policy = identity{}

// SnakeCase joins words with '_' and lower-cases the result (upper-cases it
// when Upper is set):
//
//	UserID     -> user_id
//	HTTPServer -> http_server
//	IDValue    -> id_value
type SnakeCase struct {
	Upper bool
}

func (p SnakeCase) ConvertName(name string) string {
	return joinWords(name, '_', p.Upper)
}

// KebabCase is SnakeCase with '-' as the separator.
type KebabCase struct {
	Upper bool
}

func (p KebabCase) ConvertName(name string) string {
	return joinWords(name, '-', p.Upper)
}

func joinWords(name string, sep byte, upper bool) string {
	if name == "" {
		return ""
	}
	rs := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + len(name)/2)
	last := 0
	for _, cut := range wordBoundaries(rs) {
		b.WriteString(string(rs[last:cut]))
		b.WriteByte(sep)
		last = cut
	}
	b.WriteString(string(rs[last:]))

	// Casers keep state between calls and are not safe for concurrent use.
	c := cases.Lower(language.Und)
	if upper {
		c = cases.Upper(language.Und)
	}
	return c.String(b.String())
}

// wordBoundaries returns the rune indexes where a new word starts: at every
// lower-to-upper transition, and before the last capital of an acronym that
// is followed by a lower-case letter ("HTTPServer" splits before 'S').
func wordBoundaries(rs []rune) []int {
	var cuts []int
	for i := 1; i < len(rs); i++ {
		switch {
		case unicode.IsLower(rs[i-1]) && unicode.IsUpper(rs[i]):
			cuts = append(cuts, i)
		case i >= 2 && unicode.IsLower(rs[i]) && unicode.IsUpper(rs[i-1]) && unicode.IsUpper(rs[i-2]):
			cuts = append(cuts, i-1)
		}
	}
	return cuts
}
