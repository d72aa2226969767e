package checks

import (
	"os"
	"path/filepath"
)

// ReportConfig describes one report kind. Exactly the kinds marked enabled
// are kept after a run; a disabled XML report may still be produced
// transiently when the HTML report or the summary needs it.
type ReportConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path,omitempty"`
	// Stylesheet is an optional Go html/template file overriding the
	// built-in one. Only meaningful for the HTML report.
	Stylesheet string `yaml:"stylesheet" json:"stylesheet,omitempty"`
}

// ReportsConfig groups the three report kinds a run can produce.
type ReportsConfig struct {
	XML  ReportConfig `yaml:"xml" json:"xml"`
	HTML ReportConfig `yaml:"html" json:"html"`
	Txt  ReportConfig `yaml:"txt" json:"txt"`
}

// TaskConfig is the fully resolved, immutable input of one pipeline run.
// The engine never reaches back into service configuration; callers resolve
// defaults before handing this over.
type TaskConfig struct {
	// SourceFiles, when non-empty, is the explicit file set (kept in order,
	// deduplicated). Otherwise SourceDirs are walked and filtered to shell
	// script names.
	SourceFiles []string `yaml:"sourceFiles" json:"source_files,omitempty"`
	SourceDirs  []string `yaml:"sourceDirs" json:"source_dirs,omitempty"`

	WorkingDir string `yaml:"workingDir" json:"working_dir"`

	// Binary is the shellcheck executable used when UseDocker is false.
	Binary      string `yaml:"binary" json:"binary,omitempty"`
	UseDocker   bool   `yaml:"useDocker" json:"use_docker"`
	DockerImage string `yaml:"dockerImage" json:"docker_image,omitempty"`
	DockerTag   string `yaml:"dockerTag" json:"docker_tag,omitempty"`

	Severity       Severity `yaml:"severity" json:"severity"`
	ExtraArgs      []string `yaml:"extraArgs" json:"extra_args,omitempty"`
	IgnoreFailures bool     `yaml:"ignoreFailures" json:"ignore_failures"`
	ShowViolations bool     `yaml:"showViolations" json:"show_violations"`

	Reports ReportsConfig `yaml:"reports" json:"reports"`
}

// WithDefaults resolves the blanks a caller may leave: working directory,
// binary name, severity, and a destination for every enabled report. The
// engine itself consumes the configuration as-is.
func (c TaskConfig) WithDefaults() TaskConfig {
	if c.WorkingDir == "" {
		if wd, err := os.Getwd(); err == nil {
			c.WorkingDir = wd
		}
	}
	if c.Binary == "" {
		c.Binary = "shellcheck"
	}
	if c.Severity == "" {
		c.Severity = SeverityStyle
	}

	reportsDir := filepath.Join(c.WorkingDir, "build", "reports", "shellcheck")
	if c.Reports.XML.Enabled && c.Reports.XML.Path == "" {
		c.Reports.XML.Path = filepath.Join(reportsDir, "shellcheck.xml")
	}
	if c.Reports.HTML.Enabled && c.Reports.HTML.Path == "" {
		c.Reports.HTML.Path = filepath.Join(reportsDir, "shellcheck.html")
	}
	if c.Reports.Txt.Enabled && c.Reports.Txt.Path == "" {
		c.Reports.Txt.Path = filepath.Join(reportsDir, "shellcheck.txt")
	}
	return c
}

// RunResult hasil dari Runner
type RunResult struct {
	// Summary is nil when no violations were found.
	Summary *ReportSummary

	// Paths of the report files actually kept on disk. Empty when the kind
	// was disabled or the run produced no findings at all.
	XMLPath  string
	HTMLPath string
	TxtPath  string

	// Warned is set when violations were found but IgnoreFailures downgraded
	// the outcome to a logged warning. Violations with IgnoreFailures unset
	// surface as *ViolationsError instead.
	Warned  bool
	Message string

	DurationMS int64
}
