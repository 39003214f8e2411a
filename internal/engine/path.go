package engine

import (
	"strconv"
	"strings"
)

// PathTracker follows container nesting over a token stream and renders the
// JSON Pointer of the most recently observed token. Keys resolve to the
// pointer of the member they name; closing tokens to their container.
type PathTracker struct {
	stack []pathFrame
	cur   string
}

type pathFrame struct {
	array bool
	path  string
	next  int
	key   string
}

// Observe records tok and returns its pointer ("" is the document root).
func (p *PathTracker) Observe(tok Token) string {
	var path string
	if n := len(p.stack); n > 0 {
		top := &p.stack[n-1]
		switch tok.Kind {
		case KindKey:
			top.key = tok.String
			path = joinJSONPointer(top.path, tok.String)
		case KindEndObject, KindEndArray:
			path = top.path
		default:
			if top.array {
				path = joinJSONPointer(top.path, strconv.Itoa(top.next))
				top.next++
			} else {
				path = joinJSONPointer(top.path, top.key)
			}
		}
	}
	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		p.stack = append(p.stack, pathFrame{array: tok.Kind == KindBeginArray, path: path})
	case KindEndObject, KindEndArray:
		if n := len(p.stack); n > 0 {
			p.stack = p.stack[:n-1]
		}
	}
	p.cur = path
	return path
}

// Path returns the normalized pointer of the last observed token.
func (p *PathTracker) Path() string { return NormalizePath(p.cur) }

// Depth reports the number of open containers.
func (p *PathTracker) Depth() int { return len(p.stack) }

// NormalizePath renders the root pointer as "/" for diagnostics.
func NormalizePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

var jsonPointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func joinJSONPointer(base, token string) string {
	return base + "/" + jsonPointerEscaper.Replace(token)
}

// JoinPath appends one escaped reference token to a pointer.
func JoinPath(base, token string) string {
	if base == "/" {
		base = ""
	}
	return joinJSONPointer(base, token)
}
