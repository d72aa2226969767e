package report

import (
	_ "embed"
	"html/template"
	"os"
	"path/filepath"
	"sort"

	domain "github.com/bryanwahyu/shellcheck-gate/internal/domain/checks"
)

// Built-in stylesheet: a no-frames report with files sorted by name.
//
//go:embed checkstyle.html.tmpl
var defaultStylesheet string

type htmlReport struct {
	Files           []File
	TotalFiles      int
	TotalViolations int
}

// RenderHTML transforms the consolidated document into a styled HTML report
// at dest. A non-empty stylesheet path overrides the built-in Go template.
// Any stylesheet load, parse or execute failure is a *RenderError.
func RenderHTML(doc *Document, dest, stylesheet string) error {
	text := defaultStylesheet
	if stylesheet != "" {
		b, err := os.ReadFile(stylesheet)
		if err != nil {
			return &domain.RenderError{Err: err}
		}
		text = string(b)
	}

	tmpl, err := template.New("shellcheck").Parse(text)
	if err != nil {
		return &domain.RenderError{Err: err}
	}

	data := htmlReport{
		Files:      make([]File, len(doc.Files)),
		TotalFiles: len(doc.Files),
	}
	copy(data.Files, doc.Files)
	sort.SliceStable(data.Files, func(i, j int) bool {
		return data.Files[i].Name < data.Files[j].Name
	})
	for _, f := range data.Files {
		data.TotalViolations += len(f.Errors)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return &domain.RenderError{Err: err}
	}
	out, err := os.Create(dest)
	if err != nil {
		return &domain.RenderError{Err: err}
	}
	defer out.Close()

	if err := tmpl.Execute(out, data); err != nil {
		return &domain.RenderError{Err: err}
	}
	return nil
}
