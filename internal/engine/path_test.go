package engine

import "testing"

func TestPathTracker_Observe(t *testing.T) {
	toks := []Token{bo, key("a"), ba, num("1"), bo, key("b/c"), str("x"), eo, ea, key("d~"), num("2"), eo}
	want := []string{"", "/a", "/a", "/a/0", "/a/1", "/a/1/b~1c", "/a/1/b~1c", "/a/1", "/a", "/d~0", "/d~0", ""}
	var p PathTracker
	for i, tok := range toks {
		if got := p.Observe(tok); got != want[i] {
			t.Fatalf("token %d (%v): got %q, want %q", i, tok.Kind, got, want[i])
		}
	}
	if p.Depth() != 0 {
		t.Fatalf("depth after document: %d", p.Depth())
	}
	if p.Path() != "/" {
		t.Fatalf("root path should normalize to /, got %q", p.Path())
	}
}

func TestPathTracker_Depth(t *testing.T) {
	var p PathTracker
	p.Observe(bo)
	p.Observe(key("a"))
	p.Observe(ba)
	if p.Depth() != 2 {
		t.Fatalf("depth: got %d, want 2", p.Depth())
	}
}

func TestJoinPath(t *testing.T) {
	cases := []struct{ base, tok, want string }{
		{"/", "a", "/a"},
		{"", "a", "/a"},
		{"/a", "b/c", "/a/b~1c"},
		{"/a", "~", "/a/~0"},
	}
	for _, c := range cases {
		if got := JoinPath(c.base, c.tok); got != c.want {
			t.Fatalf("JoinPath(%q,%q)=%q want %q", c.base, c.tok, got, c.want)
		}
	}
}

func TestKeyTracker(t *testing.T) {
	var k KeyTracker
	k.Begin(true)
	if !k.String() {
		t.Fatalf("first string in object should be a key")
	}
	if k.String() {
		t.Fatalf("string after key should be a value")
	}
	if !k.String() {
		t.Fatalf("string after value should be a key")
	}
	k.Begin(false)
	if k.String() {
		t.Fatalf("strings in arrays are values")
	}
	k.End()
	if !k.String() {
		t.Fatalf("closing a nested value should expect a key")
	}
}
