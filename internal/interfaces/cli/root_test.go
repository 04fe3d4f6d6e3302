package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCommand(t *testing.T, root *cobra.Command, name string) *cobra.Command {
	t.Helper()
	for _, c := range root.Commands() {
		if c.Name() == name {
			return c
		}
	}
	t.Fatalf("command %q not registered", name)
	return nil
}

func TestNewRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()

	for _, name := range []string{"documents", "compare", "view", "export"} {
		findCommand(t, root, name)
	}
}

func TestRootCommand_GlobalFlags(t *testing.T) {
	root := NewRootCommand()

	server := root.PersistentFlags().Lookup("server")
	require.NotNil(t, server)
	assert.Equal(t, "http://localhost:8080", server.DefValue)

	output := root.PersistentFlags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "table", output.DefValue)

	require.NotNil(t, root.PersistentFlags().Lookup("timeout"))
}

func TestRootCommand_ServerFromEnv(t *testing.T) {
	t.Setenv("LEXC_SERVER", "http://api.internal:9090")

	root := NewRootCommand()
	server := root.PersistentFlags().Lookup("server")
	require.NotNil(t, server)
	assert.Equal(t, "http://api.internal:9090", server.DefValue)
}

func TestDocumentsCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()
	docs := findCommand(t, root, "documents")

	for _, name := range []string{"register", "list", "get", "delete"} {
		found := false
		for _, c := range docs.Commands() {
			if c.Name() == name {
				found = true
			}
		}
		assert.True(t, found, "documents %s not registered", name)
	}

	register := findCommand(t, docs, "register")
	for _, flag := range []string{"name", "type", "jurisdiction", "text-file"} {
		assert.NotNil(t, register.Flags().Lookup(flag), "missing --%s", flag)
	}
}

func TestCompareCommand_Flags(t *testing.T) {
	root := NewRootCommand()
	compare := findCommand(t, root, "compare")

	for _, flag := range []string{"threshold", "window", "scorer", "ignore-formatting", "async"} {
		assert.NotNil(t, compare.Flags().Lookup(flag), "missing --%s", flag)
	}
}

func TestViewCommand_Flags(t *testing.T) {
	root := NewRootCommand()
	view := findCommand(t, root, "view")

	for _, flag := range []string{"differences-only", "similarities-only", "type", "severity", "category", "threshold", "query"} {
		assert.NotNil(t, view.Flags().Lookup(flag), "missing --%s", flag)
	}
}

func TestExportCommand_Flags(t *testing.T) {
	root := NewRootCommand()
	export := findCommand(t, root, "export")

	format := export.Flags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "json", format.DefValue)
}
