package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	tests := []struct {
		version  string
		expected string
	}{
		{"dev", "gradewise version dev"},
		{"1.4.0", "gradewise version 1.4.0"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			original := version
			SetVersion(tt.version)
			defer SetVersion(original)

			out, err := runCommand(t, "version")

			assert.NoError(t, err)
			assert.Contains(t, out, tt.expected)
		})
	}
}

func TestVersionCmd_Metadata(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
	assert.Equal(t, "Print the version number", versionCmd.Short)
}

// runCommand executes the root command with args and returns its output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// runCommandStdout executes the root command with no output writer set and
// returns what it wrote to os.Stdout and to stderr.
func runCommandStdout(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	original := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = original }()

	errBuf := new(bytes.Buffer)
	rootCmd.SetOut(nil)
	rootCmd.SetErr(errBuf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	runErr := rootCmd.Execute()
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out), errBuf.String(), runErr
}

func TestExecute_WritesToStdout(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	original := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = original }()

	rootCmd.SetArgs([]string{"version"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	require.NoError(t, Execute(context.Background()))
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), "gradewise version")
}
