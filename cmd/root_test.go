package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_ShowsHelpWithoutSubcommand(t *testing.T) {
	cmd := baseRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "pycforge")
	assert.Contains(t, out.String(), "bytecode")
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	assert.True(t, names["compile"])
	assert.True(t, names["versions"])
	assert.True(t, names["version"])
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("output"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("log-file"))
}
