package prompt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reportXML = `<?xml version='1.0' encoding='UTF-8'?>
<checkstyle version='4.3'>
<file name='deploy.sh'>
<error line='3' column='1' severity='error' message='This expands when defined.' source='ShellCheck.SC2064'/>
<error line='9' column='5' severity='warning' message='Double quote to prevent globbing.' source='ShellCheck.SC2086'/>
</file>
</checkstyle>`

type analysis struct {
	ReportURL string `json:"report_url"`
	Counts    struct {
		Error   int `json:"error"`
		Warning int `json:"warning"`
		Total   int `json:"total"`
	} `json:"counts"`
	Findings []struct {
		File     string `json:"file"`
		Rule     string `json:"rule"`
		Severity string `json:"severity"`
	} `json:"findings"`
	Advice string `json:"advice"`
}

func TestAnalyzeReportContent(t *testing.T) {
	out := AnalyzeReportContent("https://store.local/r.xml", reportXML)

	var a analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, "https://store.local/r.xml", a.ReportURL)
	assert.Equal(t, 1, a.Counts.Error)
	assert.Equal(t, 1, a.Counts.Warning)
	assert.Equal(t, 2, a.Counts.Total)
	require.Len(t, a.Findings, 2)
	assert.Equal(t, "deploy.sh", a.Findings[0].File)
	assert.Equal(t, "ShellCheck.SC2064", a.Findings[0].Rule)
	assert.Contains(t, a.Advice, "error-level")
}

func TestAnalyzeReportContentUnparseable(t *testing.T) {
	out := AnalyzeReportContent("https://store.local/r.xml", "not xml at all")

	var a analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a), "fallback output is still valid JSON")
	assert.Equal(t, 0, a.Counts.Total)
	assert.Contains(t, a.Advice, "not parseable")
}

func TestAnalyzeReportContentClean(t *testing.T) {
	clean := `<?xml version='1.0'?><checkstyle version='4.3'><file name='ok.sh'></file></checkstyle>`
	out := AnalyzeReportContent("u", clean)

	var a analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, 0, a.Counts.Total)
	assert.Contains(t, a.Advice, "healthy")
}
