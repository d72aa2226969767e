package shellcheck

import (
	"context"
	"os/exec"

	domain "github.com/bryanwahyu/shellcheck-gate/internal/domain/checks"
)

// CommandRunner executes one external command synchronously and returns its
// combined stdout/stderr. Implementations block until the process exits.
type CommandRunner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (string, error)
}

// OSRunner runs commands on the host via os/exec.
type OSRunner struct{}

func (OSRunner) Run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		command := append([]string{name}, args...)
		if ee, ok := err.(*exec.ExitError); ok {
			return "", &domain.ProcessError{
				Command:  command,
				ExitCode: ee.ExitCode(),
				Output:   string(out),
				Err:      err,
			}
		}
		// failed to start (binary missing, permissions, ...)
		return "", &domain.ProcessError{
			Command:  command,
			ExitCode: -1,
			Output:   string(out),
			Err:      err,
		}
	}
	return string(out), nil
}
