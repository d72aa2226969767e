package report

import (
	"fmt"
	"net/url"
	"path/filepath"

	domain "github.com/bryanwahyu/shellcheck-gate/internal/domain/checks"
)

// Message builds the human-readable violation message: a fixed preamble, a
// clickable link to the first kept report (HTML preferred over XML), and the
// summary counts.
func Message(s domain.ReportSummary, htmlPath, xmlPath string) string {
	msg := "Shellcheck violations were found."
	if link := reportLink(htmlPath, xmlPath); link != "" {
		msg += " See the report at: " + link
	}
	return msg + "\n" + fmt.Sprintf(
		"Shellcheck files with violations: %d\nShellcheck violations by severity: %d",
		s.FilesWithViolations, s.ViolationsBySeverity,
	)
}

func reportLink(htmlPath, xmlPath string) string {
	path := htmlPath
	if path == "" {
		path = xmlPath
	}
	if path == "" {
		return ""
	}
	return fileURL(path)
}

// fileURL renders a console-clickable file:// URL for a report destination.
func fileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}
