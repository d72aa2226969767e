package shellcheck

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	domain "github.com/bryanwahyu/shellcheck-gate/internal/domain/checks"
	"github.com/bryanwahyu/shellcheck-gate/internal/infra/report"
)

// Engine drives one full pipeline run: resolve sources, invoke shellcheck
// once per file (inside a container when requested), merge the checkstyle
// outputs, write and render the requested reports, summarize, and decide the
// outcome. It implements the checks.Runner port.
//
// A run is single-threaded: invocations are sequential, each blocking until
// the process exits, and the consolidated document is append-only.
type Engine struct {
	Exec CommandRunner
}

func NewEngine(run CommandRunner) *Engine {
	if run == nil {
		run = OSRunner{}
	}
	return &Engine{Exec: run}
}

func (e *Engine) Run(ctx context.Context, cfg domain.TaskConfig) (domain.RunResult, error) {
	start := time.Now()

	var res domain.RunResult
	files, err := ResolveSources(cfg)
	if err != nil {
		return res, err
	}

	work := func(execPrefix []string) error {
		return e.pipeline(ctx, cfg, files, execPrefix, &res)
	}
	if cfg.UseDocker {
		err = withContainer(ctx, e.Exec, cfg, work)
	} else {
		err = work(nil)
	}

	res.DurationMS = time.Since(start).Milliseconds()
	return res, err
}

// pipeline is the wrapped work: everything between container start and stop.
func (e *Engine) pipeline(ctx context.Context, cfg domain.TaskConfig, files []string, execPrefix []string, res *domain.RunResult) error {
	inv := &Invoker{Run: e.Exec, Config: cfg, Files: files, ExecPrefix: execPrefix}

	batch, err := inv.Invoke(ctx, FormatCheckstyle)
	if err != nil {
		return err
	}

	var doc *report.Document
	if !batch.Empty {
		doc, err = report.Merge(batch.Texts())
		if err != nil {
			return err
		}
	}
	if doc == nil {
		// no file entries at all: nothing to persist, run passes silently
		return nil
	}

	xmlDest := cfg.Reports.XML.Path
	if xmlDest == "" {
		// transient copy, only needed to back the HTML report and the summary
		xmlDest = filepath.Join(os.TempDir(), fmt.Sprintf("shellcheck-%d.xml", time.Now().UnixNano()))
	}
	if err := report.WriteFile(doc, xmlDest); err != nil {
		return err
	}
	if cfg.Reports.XML.Enabled {
		res.XMLPath = xmlDest
	}

	if err := e.handleTxtReport(ctx, cfg, inv, res); err != nil {
		return err
	}

	if cfg.Reports.HTML.Enabled {
		if err := report.RenderHTML(doc, cfg.Reports.HTML.Path, cfg.Reports.HTML.Stylesheet); err != nil {
			return err
		}
		res.HTMLPath = cfg.Reports.HTML.Path
	}
	if !cfg.Reports.XML.Enabled {
		if err := os.Remove(xmlDest); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	summary := report.Summarize(doc)
	if summary == nil {
		return nil
	}
	res.Summary = summary
	res.Message = report.Message(*summary, res.HTMLPath, res.XMLPath)
	if cfg.IgnoreFailures {
		log.Printf("WARN: %s", res.Message)
		res.Warned = true
		return nil
	}
	return &domain.ViolationsError{Summary: *summary, Message: res.Message}
}

// handleTxtReport runs the human-readable pass. It shares the container
// lifetime with the checkstyle pass to avoid a second start/stop cycle.
func (e *Engine) handleTxtReport(ctx context.Context, cfg domain.TaskConfig, inv *Invoker, res *domain.RunResult) error {
	if !cfg.Reports.Txt.Enabled && !cfg.ShowViolations {
		return nil
	}

	batch, err := inv.Invoke(ctx, FormatTTY)
	if err != nil {
		return err
	}
	text := strings.Join(batch.Texts(), "\n\n")

	if cfg.Reports.Txt.Enabled {
		if err := os.MkdirAll(filepath.Dir(cfg.Reports.Txt.Path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(cfg.Reports.Txt.Path, []byte(text), 0o644); err != nil {
			return err
		}
		res.TxtPath = cfg.Reports.Txt.Path
	}
	if cfg.ShowViolations {
		log.Print(text)
	}
	return nil
}
