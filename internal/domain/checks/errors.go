package checks

import (
	"fmt"
	"strings"
)

// ProcessError: a shellcheck or docker invocation exited non-zero or failed
// to start. Never retried; a single tool failure is surfaced as-is because it
// usually means the invocation itself is wrong.
type ProcessError struct {
	Command  []string
	ExitCode int
	Output   string
	Err      error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s: exit status %d", strings.Join(e.Command, " "), e.ExitCode)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *ProcessError) Unwrap() error { return e.Err }

// MalformedReportError: a non-empty, non-sentinel checkstyle invocation
// produced no XML declaration anywhere in its output.
type MalformedReportError struct {
	Output string
}

func (e *MalformedReportError) Error() string {
	return fmt.Sprintf("error while executing shellcheck: %s", e.Output)
}

// EnvironmentError: starting or stopping the shellcheck container failed.
// Phase is "start" or "stop".
type EnvironmentError struct {
	Phase string
	Err   error
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("failed to %s shellcheck container: %v", e.Phase, e.Err)
}

func (e *EnvironmentError) Unwrap() error { return e.Err }

// RenderError: loading or executing the HTML stylesheet failed.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("error while handling shellcheck html report: %v", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// ViolationsError is the business outcome, not a technical fault: violations
// were found and IgnoreFailures is false.
type ViolationsError struct {
	Summary ReportSummary
	Message string
}

func (e *ViolationsError) Error() string { return e.Message }
