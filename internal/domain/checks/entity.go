package checks

import (
	"time"
)

// ID tipe untuk Check
type CheckID string

// Status enum
type Status string

const (
	StatusRunning Status = "running"
	StatusPassed  Status = "passed"
	StatusWarned  Status = "warned"
	StatusFailed  Status = "failed"
	StatusError   Status = "error"
)

// Severity levels understood by the shellcheck binary (lowest to highest).
type Severity string

const (
	SeverityStyle   Severity = "style"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ReportSummary value object: distinct files with at least one violation and
// distinct severities observed across all violations.
type ReportSummary struct {
	FilesWithViolations  int `json:"files_with_violations"`
	ViolationsBySeverity int `json:"violations_by_severity"`
}

// Aggregate Root: Check (one shellcheck pipeline run)
type Check struct {
	ID          CheckID        `json:"id"`
	TenantID    string         `json:"tenant_id"`
	TriggeredAt time.Time      `json:"triggered_at"`
	WorkingDir  string         `json:"working_dir,omitempty"`
	Severity    Severity       `json:"severity,omitempty"`
	UseDocker   bool           `json:"use_docker"`
	Status      Status         `json:"status"`
	Summary     ReportSummary  `json:"summary"`
	Message     string         `json:"message,omitempty"`
	XMLURL      string         `json:"xml_url,omitempty"`
	HTMLURL     string         `json:"html_url,omitempty"`
	TxtURL      string         `json:"txt_url,omitempty"`
	DurationMS  int64          `json:"duration_ms"`
	Source      string         `json:"source,omitempty"`
	CommitSHA   string         `json:"commit_sha,omitempty"`
	Branch      string         `json:"branch,omitempty"`
	Metadata    any            `json:"metadata,omitempty"`
}
