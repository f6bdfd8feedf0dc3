package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	assert.NotNil(t, rootCmd)
	assert.Equal(t, "zplview", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRootCommandHelp(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)

	rootCmd.SetArgs([]string{"--help"})
	err := rootCmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "ZPL")
	assert.Contains(t, output, "Available Commands:")
	assert.Contains(t, output, "Usage:")
}

func TestRootCommandVersion(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)

	// Flag values persist on the shared rootCmd between Execute calls, so
	// clear the help flag a previous test may have set.
	rootCmd.InitDefaultHelpFlag()
	require.NoError(t, rootCmd.Flags().Set("help", "false"))

	rootCmd.SetArgs([]string{"--version"})
	err := rootCmd.Execute()
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "zplview version")
}

func TestRootCommandSubcommands(t *testing.T) {
	subcommands := rootCmd.Commands()
	commandNames := make([]string, len(subcommands))
	for i, subcmd := range subcommands {
		commandNames[i] = subcmd.Name()
	}

	expectedCommands := []string{"render", "check", "serve"}
	for _, expected := range expectedCommands {
		assert.Contains(t, commandNames, expected, "Expected subcommand '%s' not found", expected)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()

	supported := filepath.Join(dir, "supported.zpl")
	require.NoError(t, os.WriteFile(supported, []byte("^XA^FO50,50^FDHello^FS^XZ"), 0o600))

	unsupported := filepath.Join(dir, "unsupported.zpl")
	require.NoError(t, os.WriteFile(unsupported, []byte("^XA^GFA,100,100,10,...^FS^XZ"), 0o600))

	t.Run("supported markup exits zero", func(t *testing.T) {
		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs([]string{"check", supported})

		err := rootCmd.Execute()
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "supported")
	})

	t.Run("unsupported markup exits non-zero", func(t *testing.T) {
		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs([]string{"check", unsupported})

		err := rootCmd.Execute()
		require.Error(t, err)
		assert.Contains(t, buf.String(), "graphic-field")
	})

	t.Run("json output", func(t *testing.T) {
		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs([]string{"check", supported, "--json"})

		err := rootCmd.Execute()
		require.NoError(t, err)
		assert.Contains(t, buf.String(), `"supported": true`)
	})
}

func TestDeriveOutputPath(t *testing.T) {
	tests := []struct {
		input  string
		format string
		want   string
	}{
		{"label.zpl", "png", "label.png"},
		{"label.zpl", "pdf", "label.pdf"},
		{"dir/label.zpl", "png", "dir/label.png"},
		{"noext", "png", "noext.png"},
		{"label.zpl", "", "label.png"},
		{"-", "png", "label.png"},
	}

	for _, tt := range tests {
		t.Run(tt.input+"_"+tt.format, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveOutputPath(tt.input, tt.format))
		})
	}
}

func TestReadMarkup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "label.zpl")
	require.NoError(t, os.WriteFile(path, []byte("^XA^XZ"), 0o600))

	markup, err := readMarkup(path)
	require.NoError(t, err)
	assert.Equal(t, "^XA^XZ", markup)

	_, err = readMarkup(filepath.Join(dir, "missing.zpl"))
	require.Error(t, err)
}
