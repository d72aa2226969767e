package shellcheck

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/shellcheck-gate/internal/domain/checks"
)

// fakeRunner records every command and answers via respond.
type fakeRunner struct {
	calls   [][]string
	respond func(call []string) (string, error)
}

func (f *fakeRunner) Run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	call := append([]string{name}, args...)
	f.calls = append(f.calls, call)
	if f.respond == nil {
		return "", nil
	}
	return f.respond(call)
}

func TestInvokerCommandShape(t *testing.T) {
	inv := &Invoker{
		Config: domain.TaskConfig{
			Binary:    "/usr/local/bin/shellcheck",
			Severity:  domain.SeverityWarning,
			ExtraArgs: []string{"--exclude=SC1091"},
		},
	}

	cmd := inv.command(FormatCheckstyle, "/src/deploy.sh")
	assert.Equal(t, []string{
		"/usr/local/bin/shellcheck",
		"-f", "checkstyle",
		"--severity=warning",
		"--exclude=SC1091",
		"/src/deploy.sh",
	}, cmd)
}

func TestInvokerCommandDockerPrefix(t *testing.T) {
	inv := &Invoker{
		Config: domain.TaskConfig{
			UseDocker: true,
			Binary:    "/opt/custom/shellcheck", // ignored inside the container
			Severity:  domain.SeverityStyle,
		},
		ExecPrefix: []string{"docker", "exec", "cafebabe"},
	}

	cmd := inv.command(FormatTTY, "/src/a.sh")
	assert.Equal(t, []string{
		"docker", "exec", "cafebabe",
		"shellcheck",
		"-f", "tty",
		"--severity=style",
		"/src/a.sh",
	}, cmd)
}

func TestInvokeEmptyFileSet(t *testing.T) {
	run := &fakeRunner{}
	inv := &Invoker{Run: run, Config: domain.TaskConfig{Severity: domain.SeverityStyle}}

	batch, err := inv.Invoke(context.Background(), FormatCheckstyle)
	require.NoError(t, err)
	assert.True(t, batch.Empty)
	assert.Empty(t, batch.Outputs)
	assert.Empty(t, run.calls, "no process may be started for an empty file set")
}

func TestInvokeSequentialInFileOrder(t *testing.T) {
	run := &fakeRunner{
		respond: func(call []string) (string, error) {
			return "out:" + call[len(call)-1], nil
		},
	}
	inv := &Invoker{
		Run:    run,
		Config: domain.TaskConfig{Severity: domain.SeverityStyle},
		Files:  []string{"/a.sh", "/b.sh", "/c.sh"},
	}

	batch, err := inv.Invoke(context.Background(), FormatCheckstyle)
	require.NoError(t, err)
	require.Len(t, batch.Outputs, 3)
	assert.False(t, batch.Empty)
	assert.Equal(t, []string{"out:/a.sh", "out:/b.sh", "out:/c.sh"}, batch.Texts())
	require.Len(t, run.calls, 3)
	assert.Equal(t, "/a.sh", run.calls[0][len(run.calls[0])-1])
	assert.Equal(t, "/c.sh", run.calls[2][len(run.calls[2])-1])
}

func TestInvokeAbortsOnFirstFailure(t *testing.T) {
	boom := &domain.ProcessError{Command: []string{"shellcheck"}, ExitCode: 2, Output: "bad flag"}
	run := &fakeRunner{
		respond: func(call []string) (string, error) {
			if call[len(call)-1] == "/b.sh" {
				return "", boom
			}
			return "ok", nil
		},
	}
	inv := &Invoker{
		Run:    run,
		Config: domain.TaskConfig{Severity: domain.SeverityStyle},
		Files:  []string{"/a.sh", "/b.sh", "/c.sh"},
	}

	_, err := inv.Invoke(context.Background(), FormatCheckstyle)
	var procErr *domain.ProcessError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, 2, procErr.ExitCode)
	assert.Len(t, run.calls, 2, "c.sh must not run after b.sh failed")
}
