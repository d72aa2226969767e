package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	domain "github.com/bryanwahyu/shellcheck-gate/internal/domain/checks"
	"github.com/bryanwahyu/shellcheck-gate/internal/infra/shellcheck"
)

// multiFlag collects repeated flag values.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func main() {
	var (
		sources   multiFlag
		dirs      multiFlag
		extraArgs multiFlag

		workingDir = flag.String("working-dir", "", "directory the checker runs in (default: current directory)")
		severity   = flag.String("severity", "style", "minimum severity to report: style, info, warning, error")
		binary     = flag.String("binary", "shellcheck", "path to the shellcheck binary for local runs")

		useDocker   = flag.Bool("docker", false, "run shellcheck inside a container instead of a local binary")
		dockerImage = flag.String("docker-image", shellcheck.DefaultDockerImage, "container image for docker runs")
		dockerTag   = flag.String("docker-tag", shellcheck.DefaultDockerTag, "container image tag for docker runs")

		xmlPath    = flag.String("xml", "", "write the checkstyle XML report to this path")
		noXML      = flag.Bool("no-xml", false, "disable the checkstyle XML report")
		htmlPath   = flag.String("html", "", "write the HTML report to this path")
		noHTML     = flag.Bool("no-html", false, "disable the HTML report")
		txtPath    = flag.String("txt", "", "write the plain-text report to this path")
		txtEnabled = flag.Bool("txt-report", false, "enable the plain-text report")
		stylesheet = flag.String("stylesheet", "", "custom HTML template overriding the built-in one")

		ignoreFailures = flag.Bool("ignore-failures", false, "report violations but exit successfully")
		showViolations = flag.Bool("show-violations", false, "print checker findings to the console")
	)
	flag.Var(&sources, "file", "shell script to check (repeatable)")
	flag.Var(&dirs, "dir", "directory scanned recursively for shell scripts (repeatable)")
	flag.Var(&extraArgs, "arg", "extra argument passed through to shellcheck (repeatable)")
	flag.Parse()

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(flag.Args(), " "))
		flag.Usage()
		os.Exit(2)
	}

	task := domain.TaskConfig{
		SourceFiles:    sources,
		SourceDirs:     dirs,
		WorkingDir:     *workingDir,
		Binary:         *binary,
		UseDocker:      *useDocker,
		DockerImage:    *dockerImage,
		DockerTag:      *dockerTag,
		Severity:       domain.Severity(*severity),
		ExtraArgs:      extraArgs,
		IgnoreFailures: *ignoreFailures,
		ShowViolations: *showViolations,
		Reports: domain.ReportsConfig{
			XML:  domain.ReportConfig{Enabled: !*noXML, Path: *xmlPath},
			HTML: domain.ReportConfig{Enabled: !*noHTML, Path: *htmlPath, Stylesheet: *stylesheet},
			Txt:  domain.ReportConfig{Enabled: *txtEnabled || *txtPath != "", Path: *txtPath},
		},
	}
	task = task.WithDefaults()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	engine := shellcheck.NewEngine(nil)
	res, err := engine.Run(ctx, task)

	var violations *domain.ViolationsError
	switch {
	case err == nil:
		if res.Warned {
			fmt.Fprintln(os.Stderr, res.Message)
		} else if res.Message != "" {
			fmt.Println(res.Message)
		}
		reportPaths(res)
	case errors.As(err, &violations):
		fmt.Fprintln(os.Stderr, violations.Message)
		var envErr *domain.EnvironmentError
		if errors.As(err, &envErr) {
			fmt.Fprintf(os.Stderr, "shellcheck-gate: %v\n", envErr)
		}
		reportPaths(res)
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "shellcheck-gate: %v\n", err)
		os.Exit(1)
	}
}

func reportPaths(res domain.RunResult) {
	if res.XMLPath != "" {
		fmt.Printf("xml report: %s\n", res.XMLPath)
	}
	if res.HTMLPath != "" {
		fmt.Printf("html report: %s\n", res.HTMLPath)
	}
	if res.TxtPath != "" {
		fmt.Printf("txt report: %s\n", res.TxtPath)
	}
}
