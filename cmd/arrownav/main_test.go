package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/arrownav/pkg/errors"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "arrownav "+version)
	assert.Contains(t, out, "Go version")
}

func TestHelp(t *testing.T) {
	code, _, errOut := runCLI(t, "-h")
	assert.Equal(t, 0, code)
	assert.Contains(t, errOut, "Usage: arrownav")
}

func TestUnknownCommand(t *testing.T) {
	code, _, errOut := runCLI(t, "launch")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unknown command: launch")

	code, _, _ = runCLI(t, "-bogus")
	assert.Equal(t, 2, code)
}

func TestConfigShow(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "demo:\n  rows: 2\n  row_policy: top\n")

	code, out, errOut := runCLI(t, "-config", path, "-metrics-addr", "127.0.0.1:9100", "config", "show")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "rows: 2")
	assert.Contains(t, out, "row_policy: Top")
	assert.Contains(t, out, "metrics_addr: 127.0.0.1:9100")
}

func TestConfigCheck(t *testing.T) {
	isolate(t)

	code, out, errOut := runCLI(t, "config", "check")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "✓ configuration OK")

	code, out, _ = runCLI(t, "-metrics-addr", "0.0.0.0:9100", "config", "check")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "warning: telemetry.metrics_addr")

	bad := writeConfig(t, "scroll:\n  band_low: 0.9\n  band_high: 0.1\n")
	code, _, errOut = runCLI(t, "-config", bad, "config", "check")
	assert.Equal(t, 3, code)
	assert.Contains(t, errOut, "CONFIG_INVALID")

	keys := writeConfig(t, "navigation:\n  keys:\n    up: [Hyper]\n")
	code, _, errOut = runCLI(t, "-config", keys, "config", "check")
	assert.Equal(t, 3, code)
	assert.Contains(t, errOut, "single character", "remediation is printed")
}

func TestErrorReportStackTrace(t *testing.T) {
	isolate(t)
	t.Setenv("ARROWNAV_LOG_LEVEL", "")
	orig := isInteractiveTerminal
	isInteractiveTerminal = func() bool { return false }
	t.Cleanup(func() { isInteractiveTerminal = orig })

	code, _, errOut := runCLI(t)
	assert.Equal(t, 2, code)
	assert.NotContains(t, errOut, "Stack trace:")

	debug := writeConfig(t, "logging:\n  level: debug\n")
	code, _, errOut = runCLI(t, "-config", debug)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "Stack trace:")
	assert.Contains(t, errOut, "interactive.go:")

	// A config that fails to load still honours the environment.
	bad := writeConfig(t, "scroll:\n  band_low: 0.9\n  band_high: 0.1\n")
	code, _, errOut = runCLI(t, "-config", bad, "config", "check")
	assert.Equal(t, 3, code)
	assert.NotContains(t, errOut, "Stack trace:")

	t.Setenv("ARROWNAV_LOG_LEVEL", "debug")
	code, _, errOut = runCLI(t, "-config", bad, "config", "check")
	assert.Equal(t, 3, code)
	assert.Contains(t, errOut, "Stack trace:")
	assert.Contains(t, errOut, "config.go:")
}

func TestConfigPath(t *testing.T) {
	isolate(t)

	code, out, _ := runCLI(t, "config", "path")
	assert.Equal(t, 0, code)
	assert.Equal(t, "(defaults)\n", out)

	require.NoError(t, os.MkdirAll(".arrownav", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(".arrownav", "config.yaml"), nil, 0o644))
	_, out, _ = runCLI(t, "config", "path")
	assert.Equal(t, filepath.Join(".arrownav", "config.yaml")+"\n", out)

	_, out, _ = runCLI(t, "-config", "/etc/arrownav.yaml", "config", "path")
	assert.Equal(t, "/etc/arrownav.yaml\n", out)

	code, _, _ = runCLI(t, "config", "edit")
	assert.Equal(t, 2, code)
}

func TestKeys(t *testing.T) {
	isolate(t)

	code, out, errOut := runCLI(t, "keys")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Key bindings")
	for _, want := range []string{"ArrowUp", "ArrowLeft", "select", "quit"} {
		assert.Contains(t, out, want)
	}

	path := writeConfig(t, "navigation:\n  keys:\n    down: [j]\n")
	code, out, _ = runCLI(t, "-config", path, "keys")
	require.Equal(t, 0, code)
	assert.NotContains(t, out, "ArrowUp")
	assert.Contains(t, out, "down")
}

func TestInteractiveRequiresTerminal(t *testing.T) {
	orig := isInteractiveTerminal
	isInteractiveTerminal = func() bool { return false }
	t.Cleanup(func() { isInteractiveTerminal = orig })

	code, _, errOut := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "[TERMINAL]")
	assert.Contains(t, errOut, "interactive terminal")
}

func TestExitCodeForError(t *testing.T) {
	assert.Equal(t, 0, exitCodeForError(nil))
	assert.Equal(t, 1, exitCodeForError(fmt.Errorf("plain")))
	assert.Equal(t, 3, exitCodeForError(errors.New(errors.ErrCodeConfigParse, "bad")))
	assert.Equal(t, 1, exitCodeForError(errors.New(errors.ErrCodeTelemetry, "bad")))
	assert.Equal(t, 4, exitCodeForError(withExitCode(errors.New(errors.ErrCodeConfigParse, "bad"), 4)))
	assert.Equal(t, 1, exitCodeForError(withExitCode(fmt.Errorf("x"), 0)))
	assert.Nil(t, withExitCode(nil, 2))
}
