package pipe

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
)

func requireProgram(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func TestRun_CapturesStdout(t *testing.T) {
	requireProgram(t, "sh")

	out, err := NewExecRunner().Run(t.Context(), NewArgs("sh").Add("-c", "echo hello; echo world").Build())
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", string(out))
}

func TestRun_PreservesNULBytes(t *testing.T) {
	requireProgram(t, "printf")

	out, err := NewExecRunner().Run(t.Context(), NewArgs("printf").Add(`a\000b\000`).Build())
	require.NoError(t, err)
	assert.Equal(t, []byte{'a', 0, 'b', 0}, out)
	assert.Len(t, out, 4)
}

func TestRun_LargeOutput(t *testing.T) {
	requireProgram(t, "head")

	out, err := NewExecRunner().Run(t.Context(), NewArgs("head").Add("-c", "1048576", "/dev/zero").Build())
	require.NoError(t, err)
	assert.Len(t, out, 1<<20)
}

func TestRun_NoStdin(t *testing.T) {
	requireProgram(t, "cat")

	out, err := NewExecRunner().Run(t.Context(), NewArgs("cat").Build())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRun_NonZeroExit(t *testing.T) {
	requireProgram(t, "sh")

	_, err := NewExecRunner().Run(t.Context(), NewArgs("sh").Add("-c", "echo partial; exit 3").Build())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategorySubprocess))

	var pe *Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, OpExit, pe.Op)
	assert.Equal(t, 3, pe.ExitCode)
	assert.Equal(t, "sh", pe.Command)
}

func TestRun_StartFailure(t *testing.T) {
	_, err := NewExecRunner().Run(t.Context(), NewArgs("pagebuilder-no-such-program").Build())
	require.Error(t, err)

	var pe *Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, OpStart, pe.Op)
}

func TestRun_StderrForwarded(t *testing.T) {
	requireProgram(t, "sh")

	var stderr bytes.Buffer
	r := NewExecRunner()
	r.stderr = &stderr
	out, err := r.Run(t.Context(), NewArgs("sh").Add("-c", "echo out; echo diag >&2").Build())
	require.NoError(t, err)
	assert.Equal(t, "out\n", string(out))
	assert.Equal(t, "diag\n", stderr.String())
}

func TestRun_CanceledContextKillsChild(t *testing.T) {
	requireProgram(t, "sleep")

	ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewExecRunner().Run(ctx, NewArgs("sleep").Add("10").Build())
	require.ErrorIs(t, err, context.DeadlineExceeded)

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, OpWait, pe.Op)
	assert.Less(t, time.Since(start), 5*time.Second)
}

// Hundreds of sequential calls must not leak descriptors or children.
func TestRun_NoDescriptorLeak(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("descriptor accounting uses /proc")
	}
	requireProgram(t, "true")

	r := NewExecRunner()
	before := countFDs(t)
	for range 300 {
		_, err := r.Run(t.Context(), NewArgs("true").Build())
		require.NoError(t, err)
	}
	after := countFDs(t)
	assert.LessOrEqual(t, after, before+2)
}

func TestRunnerFunc(t *testing.T) {
	var got Invocation
	r := RunnerFunc(func(_ context.Context, inv Invocation) ([]byte, error) {
		got = inv
		return []byte("ok"), nil
	})
	out, err := r.Run(t.Context(), NewArgs("filter").Add("page.md").Build())
	require.NoError(t, err)
	assert.Equal(t, "ok", string(out))
	assert.Equal(t, "filter page.md", got.String())
}

func countFDs(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	require.NoError(t, err)
	return len(entries)
}
