package report

import (
	domain "github.com/bryanwahyu/shellcheck-gate/internal/domain/checks"
)

// Summarize walks the consolidated document and counts distinct files with at
// least one violation and distinct severities observed. A clean document (no
// violations anywhere) yields nil; the absence of violations is not a
// summary-worthy event.
func Summarize(doc *Document) *domain.ReportSummary {
	if doc == nil {
		return nil
	}

	filesWithViolations := map[string]struct{}{}
	severities := map[string]struct{}{}
	for _, f := range doc.Files {
		for _, v := range f.Errors {
			filesWithViolations[f.Name] = struct{}{}
			severities[v.Severity] = struct{}{}
		}
	}
	if len(filesWithViolations) == 0 {
		return nil
	}
	return &domain.ReportSummary{
		FilesWithViolations:  len(filesWithViolations),
		ViolationsBySeverity: len(severities),
	}
}
