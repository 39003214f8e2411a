package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var usersDir = filepath.Join("..", "gen", "testdata", "users")

func TestGen_Flags(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewGenCommand(&RootOptions{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--dir", usersDir, "--interface", "User", "--record", "user"})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "package users")
	assert.Contains(t, out, "func userSchema()")
	assert.Contains(t, out, `s.Constructor(NewUser, "id", "name", "joined", "tags")`)
}

func TestGen_ConfigWritesFile(t *testing.T) {
	dir := t.TempDir()
	abs, err := filepath.Abs(usersDir)
	require.NoError(t, err)
	cfg := "dir: " + abs + "\nout: out/schema_gen.go\nbindings:\n  - interface: User\n    record: user\n    func: schemaForUser\n"
	cfgPath := filepath.Join(dir, "dtobind.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	errBuf := &bytes.Buffer{}
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(errBuf)
	root.SetArgs([]string{"gen", "--config", cfgPath})
	require.NoError(t, root.Execute())

	code, err := os.ReadFile(filepath.Join(dir, "out", "schema_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(code), "func schemaForUser()")
	assert.Contains(t, string(code), "type schemaForUserMembers struct")
	assert.Contains(t, errBuf.String(), "generated")
}

func TestGen_Dump(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewGenCommand(&RootOptions{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--dir", usersDir, "--interface", "User", "--record", "user", "--dump"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), `Capability: (string) (len=4) "User"`)
	assert.NotContains(t, buf.String(), "package users")
}

func TestGen_Errors(t *testing.T) {
	cases := map[string][]string{
		"no bindings":     {"--dir", usersDir},
		"half a binding":  {"--dir", usersDir, "--interface", "User"},
		"missing config":  {"--config", filepath.Join(t.TempDir(), "absent.yaml")},
		"unknown type":    {"--dir", usersDir, "--interface", "Nope", "--record", "user"},
		"positional args": {"extra"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			cmd := NewGenCommand(&RootOptions{})
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetArgs(args)
			require.Error(t, cmd.Execute())
		})
	}
}

func TestLoadGenConfig_RejectsIncompleteBinding(t *testing.T) {
	p := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(p, []byte("bindings:\n  - interface: User\n"), 0o644))
	_, err := LoadGenConfig(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs interface and record")
}
