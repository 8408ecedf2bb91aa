// File: cmd/termstyle/main_test.go
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/termstyle/cmd"
	"github.com/xkilldash9x/termstyle/internal/observability"
)

// resetMocks restores the original function implementations.
func resetMocks() {
	osWriteFile = os.WriteFile
	osExit = os.Exit
	execute = cmd.Execute
}

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	homedir.DisableCache = true
	t.Cleanup(func() {
		homedir.DisableCache = false
		homedir.Reset()
	})
	chdir(t, dir)
	observability.ResetForTest()
	t.Cleanup(observability.ResetForTest)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 0, exitCode(context.Canceled))
	assert.Equal(t, 0, exitCode(fmt.Errorf("interrupted: %w", context.Canceled)))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
}

func TestRunShell(t *testing.T) {
	t.Run("runs commands until quit", func(t *testing.T) {
		isolate(t)
		var out, errOut bytes.Buffer
		in := strings.NewReader("version\n\nversion\nquit\nversion\n")

		require.NoError(t, runShell(context.Background(), in, &out, &errOut))
		assert.Equal(t, 2, strings.Count(out.String(), "termstyle "+cmd.Version+"\n"))
		assert.Empty(t, errOut.String())
	})

	t.Run("errors do not stop the shell", func(t *testing.T) {
		isolate(t)
		var out, errOut bytes.Buffer
		in := strings.NewReader("frobnicate\nversion\n")

		require.NoError(t, runShell(context.Background(), in, &out, &errOut))
		assert.Contains(t, errOut.String(), "Error:")
		assert.Contains(t, errOut.String(), "frobnicate")
		assert.Contains(t, out.String(), "termstyle "+cmd.Version)
	})

	t.Run("stops on a cancelled context", func(t *testing.T) {
		isolate(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var out, errOut bytes.Buffer

		require.NoError(t, runShell(ctx, strings.NewReader("version\nversion\n"), &out, &errOut))
		assert.Equal(t, 1, strings.Count(out.String(), "termstyle > "))
	})
}

func TestHandlePanic(t *testing.T) {
	t.Cleanup(resetMocks)

	t.Run("writes the panic log and exits 1", func(t *testing.T) {
		resetMocks()
		var written string
		var code int
		osWriteFile = func(name string, data []byte, perm os.FileMode) error {
			assert.Equal(t, panicLogFile, name)
			written = string(data)
			return nil
		}
		osExit = func(c int) { code = c }

		func() {
			defer handlePanic()
			panic("layout exploded")
		}()

		assert.Equal(t, 1, code)
		assert.Contains(t, written, "panic: layout exploded")
		assert.Contains(t, written, "goroutine")
	})

	t.Run("still exits when the log cannot be written", func(t *testing.T) {
		resetMocks()
		var code int
		osWriteFile = func(string, []byte, os.FileMode) error { return errors.New("read-only") }
		osExit = func(c int) { code = c }

		func() {
			defer handlePanic()
			panic("again")
		}()
		assert.Equal(t, 1, code)
	})

	t.Run("no panic is a no-op", func(t *testing.T) {
		resetMocks()
		called := false
		osExit = func(int) { called = true }
		func() {
			defer handlePanic()
		}()
		assert.False(t, called)
	})
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (testing.T.Chdir requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("chdir: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("chdir: restoring %s: %v", prev, err)
		}
	})
}
