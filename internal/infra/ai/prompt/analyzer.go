package prompt

import (
	"encoding/json"
	"strings"

	"github.com/bryanwahyu/shellcheck-gate/internal/infra/report"
)

// AnalyzeReportContent inspects a checkstyle XML report and returns a JSON
// string matching the required schema. It is the offline fallback used when
// no AI client is configured; it never prints, it only returns the JSON.
func AnalyzeReportContent(reportURL string, xmlContent string) string {
	type Finding struct {
		File           string `json:"file"`
		Rule           string `json:"rule"`
		Severity       string `json:"severity"`
		Summary        string `json:"summary"`
		Recommendation string `json:"recommendation"`
	}

	type Counts struct {
		Error   int `json:"error"`
		Warning int `json:"warning"`
		Info    int `json:"info"`
		Style   int `json:"style"`
		Total   int `json:"total"`
	}

	type Output struct {
		ReportURL string    `json:"report_url"`
		Counts    Counts    `json:"counts"`
		Findings  []Finding `json:"findings"`
		Advice    string    `json:"advice"`
	}

	out := Output{ReportURL: reportURL, Findings: []Finding{}}

	fallback := func(advice string) string {
		out.Advice = advice
		b, _ := json.Marshal(out)
		return string(b)
	}

	doc := report.NewDocument()
	if err := report.MergeInto(doc, xmlContent); err != nil {
		return fallback("Report content was not parseable as checkstyle XML; re-run the check and verify the shellcheck invocation.")
	}

	trim := func(s string, n int) string {
		if len(s) <= n {
			return s
		}
		return s[:n] + "..."
	}

	for _, f := range doc.Files {
		for _, v := range f.Errors {
			switch strings.ToLower(v.Severity) {
			case "error":
				out.Counts.Error++
			case "warning":
				out.Counts.Warning++
			case "info":
				out.Counts.Info++
			case "style":
				out.Counts.Style++
			}
			if len(out.Findings) < 20 {
				out.Findings = append(out.Findings, Finding{
					File:           f.Name,
					Rule:           v.Source,
					Severity:       strings.ToLower(v.Severity),
					Summary:        trim(v.Message, 160),
					Recommendation: "See the shellcheck wiki page for this rule and apply the suggested rewrite.",
				})
			}
		}
	}
	out.Counts.Total = out.Counts.Error + out.Counts.Warning + out.Counts.Info + out.Counts.Style

	switch {
	case out.Counts.Error > 0:
		out.Advice = "Fix error-level findings first: they usually break scripts under edge-case inputs. Add shellcheck to CI so regressions fail the build."
	case out.Counts.Warning > 0:
		out.Advice = "Address warnings around quoting and word splitting, then tighten the severity threshold."
	default:
		out.Advice = "Scripts look healthy. Keep shellcheck in the pipeline and consider lowering the severity threshold to catch style drift."
	}

	b, err := json.Marshal(out)
	if err != nil {
		return fallback("Analysis error; ensure the report is accessible and try again.")
	}
	return string(b)
}
