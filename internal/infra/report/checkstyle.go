package report

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	domain "github.com/bryanwahyu/shellcheck-gate/internal/domain/checks"
)

// Version is the checkstyle schema version shellcheck emits.
const Version = "4.3"

// NoSourceFiles is the distinguished output meaning no invocation happened.
// A raw result equal to it contributes nothing to the merged document.
const NoSourceFiles = "No source files specified."

// Document is a checkstyle report: one root with zero or more file entries.
type Document struct {
	XMLName xml.Name `xml:"checkstyle"`
	Version string   `xml:"version,attr"`
	Files   []File   `xml:"file"`
}

// File groups the violations of a single source file.
type File struct {
	Name   string      `xml:"name,attr"`
	Errors []Violation `xml:"error"`
}

// Violation is one checkstyle error element. Attribute values are kept
// verbatim as strings.
type Violation struct {
	Line     string `xml:"line,attr,omitempty"`
	Column   string `xml:"column,attr,omitempty"`
	Severity string `xml:"severity,attr"`
	Message  string `xml:"message,attr"`
	Source   string `xml:"source,attr,omitempty"`
}

// NewDocument returns an empty, well-formed consolidated report.
func NewDocument() *Document {
	return &Document{Version: Version}
}

// Merge consolidates per-file checkstyle outputs into one document. It
// returns nil when nothing contributed a file entry, the signal that no
// structured report should be persisted or summarized.
func Merge(raw []string) (*Document, error) {
	merged := NewDocument()
	for _, text := range raw {
		if err := MergeInto(merged, text); err != nil {
			return nil, err
		}
	}
	if len(merged.Files) == 0 {
		return nil, nil
	}
	return merged, nil
}

// MergeInto imports every file entry of one raw output into the consolidated
// document, preserving order. Empty and sentinel outputs are skipped. Tool
// diagnostics may precede the XML declaration; anything before the first
// "<?xml" is discarded. A non-empty, non-sentinel output with no declaration
// at all is an integration fault.
func MergeInto(doc *Document, raw string) error {
	if strings.TrimSpace(raw) == "" || strings.Contains(raw, NoSourceFiles) {
		return nil
	}
	idx := strings.Index(raw, "<?xml")
	if idx < 0 {
		return &domain.MalformedReportError{Output: raw}
	}

	var fragment Document
	if err := xml.Unmarshal([]byte(raw[idx:]), &fragment); err != nil {
		return fmt.Errorf("parsing checkstyle fragment: %w", err)
	}
	doc.Files = append(doc.Files, fragment.Files...)
	return nil
}

// WriteFile persists the document with an XML declaration, creating parent
// directories as needed.
func WriteFile(doc *Document, path string) error {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append([]byte(xml.Header), body...), 0o644)
}
