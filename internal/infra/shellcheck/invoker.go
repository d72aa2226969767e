package shellcheck

import (
	"context"

	domain "github.com/bryanwahyu/shellcheck-gate/internal/domain/checks"
)

// Output formats of the shellcheck binary used by the pipeline.
const (
	FormatCheckstyle = "checkstyle"
	FormatTTY        = "tty"
)

// DefaultBinary is the checker executable used without docker, and always
// inside the container.
const DefaultBinary = "shellcheck"

// Output is one raw invocation result: the combined shellcheck output for a
// single file in a single format.
type Output struct {
	File string
	Text string
}

// Batch is the tagged result of one invocation pass. Empty means no source
// files were specified; Outputs is in source file set order otherwise.
type Batch struct {
	Empty   bool
	Outputs []Output
}

// Texts returns the raw output texts in file order.
func (b Batch) Texts() []string {
	out := make([]string, len(b.Outputs))
	for i, o := range b.Outputs {
		out[i] = o.Text
	}
	return out
}

// Invoker drives one shellcheck invocation per file, strictly sequentially,
// in file order. One failing invocation aborts the whole batch; a malformed
// command is almost certainly malformed for every file.
type Invoker struct {
	Run        CommandRunner
	Config     domain.TaskConfig
	Files      []string
	ExecPrefix []string // e.g. ["docker", "exec", "<id>"], nil on the host
}

func (inv *Invoker) binary() string {
	if inv.Config.UseDocker || inv.Config.Binary == "" {
		return DefaultBinary
	}
	return inv.Config.Binary
}

// command builds the argument vector for one file in one format.
func (inv *Invoker) command(format, file string) []string {
	cmd := make([]string, 0, len(inv.ExecPrefix)+len(inv.Config.ExtraArgs)+5)
	cmd = append(cmd, inv.ExecPrefix...)
	cmd = append(cmd, inv.binary(), "-f", format, "--severity="+string(inv.Config.Severity))
	cmd = append(cmd, inv.Config.ExtraArgs...)
	cmd = append(cmd, file)
	return cmd
}

// Invoke runs shellcheck once per file in the requested format and collects
// the raw outputs. An empty file set short-circuits into an empty batch
// without starting any process.
func (inv *Invoker) Invoke(ctx context.Context, format string) (Batch, error) {
	if len(inv.Files) == 0 {
		return Batch{Empty: true}, nil
	}

	outputs := make([]Output, 0, len(inv.Files))
	for _, file := range inv.Files {
		cmd := inv.command(format, file)
		text, err := inv.Run.Run(ctx, inv.Config.WorkingDir, cmd[0], cmd[1:]...)
		if err != nil {
			return Batch{}, err
		}
		outputs = append(outputs, Output{File: file, Text: text})
	}
	return Batch{Outputs: outputs}, nil
}
