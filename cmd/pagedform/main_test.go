package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pagedform/internal/testutils"
)

const tripYAML = `name: trip
pages:
  - key: where
    fields:
      - {name: city, required: true}
  - key: when
    fields:
      - {name: date, required: true}
`

func writeForm(t *testing.T, content string) string {
	return testutils.WriteForm(t, "form.yaml", content)
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	good := writeForm(t, tripYAML)
	out, err := execute(t, "", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, good+": ok")

	bad := writeForm(t, "name: broken\npages: []\n")
	out, err = execute(t, "", "validate", good, bad)
	assert.Error(t, err)
	assert.Contains(t, out, bad+":")
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "", "graph", "--current", "when", writeForm(t, tripYAML))
	require.NoError(t, err)
	assert.Contains(t, out, "graph LR")
	assert.Contains(t, out, "where")
	assert.Contains(t, out, "class when current;")
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "Lisbon\n2024-06-01\n1\n", "run", "--headless", writeForm(t, tripYAML))
	require.NoError(t, err)
	assert.Contains(t, out, "Saved submission ")
}

func TestMCPCommand_NeedsLoadableForms(t *testing.T) {
	_, err := execute(t, "", "mcp")
	assert.Error(t, err)
	_, err = execute(t, "", "mcp", "missing.yaml")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "pagedform version dev\n", out)
}
