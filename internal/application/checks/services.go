package checks

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/shellcheck-gate/internal/domain/checkerrors"
	domain "github.com/bryanwahyu/shellcheck-gate/internal/domain/checks"
)

// Service implements use-cases untuk Check runs.
type Service struct {
	Repo      domain.Repository
	Runner    domain.Runner
	Artifacts domain.ArtifactStore
	Errors    checkerrors.Repository
	Clock     Clock
	Defaults  domain.TaskConfig
}

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

//
// ==== USE CASES ====
//

// Command untuk trigger check
type TriggerCheckCommand struct {
	TenantID    string
	SourceFiles []string
	SourceDirs  []string
	WorkingDir  string
	Severity    string

	// nil means "use the configured default"
	UseDocker      *bool
	IgnoreFailures *bool

	Source    string
	CommitSHA string
	Branch    string
	Metadata  any
}

type TriggerCheckResult struct {
	ID         string                `json:"id"`
	Status     string                `json:"status"`
	Summary    *domain.ReportSummary `json:"summary,omitempty"`
	Message    string                `json:"message,omitempty"`
	XMLURL     string                `json:"xml_url,omitempty"`
	HTMLURL    string                `json:"html_url,omitempty"`
	TxtURL     string                `json:"txt_url,omitempty"`
	DurationMS int64                 `json:"duration_ms"`
}

// TriggerCheckUntilDone runs with context.Background() so a webhook handler
// can fire-and-forget from a goroutine without inheriting its request
// context.
func (s *Service) TriggerCheckUntilDone(cmd TriggerCheckCommand) (TriggerCheckResult, error) {
	return s.TriggerCheck(context.Background(), cmd)
}

// taskFor merges the configured defaults with the per-request overrides.
func (s *Service) taskFor(cmd TriggerCheckCommand) domain.TaskConfig {
	task := s.Defaults
	task.SourceFiles = cmd.SourceFiles
	task.SourceDirs = cmd.SourceDirs
	task.WorkingDir = cmd.WorkingDir
	if cmd.Severity != "" {
		task.Severity = domain.Severity(cmd.Severity)
	}
	if cmd.UseDocker != nil {
		task.UseDocker = *cmd.UseDocker
	}
	if cmd.IgnoreFailures != nil {
		task.IgnoreFailures = *cmd.IgnoreFailures
	}
	return task.WithDefaults()
}

// TriggerCheck jalankan pipeline → upload reports → simpan ke repo
func (s *Service) TriggerCheck(ctx context.Context, cmd TriggerCheckCommand) (TriggerCheckResult, error) {
	now := s.Clock.Now()
	id := domain.CheckID(fmt.Sprintf("%s-shellcheck", uuid.New().String()))
	task := s.taskFor(cmd)

	// Create an initial row so we always have an ID to reference
	initial := &domain.Check{
		ID:          id,
		TenantID:    cmd.TenantID,
		TriggeredAt: now,
		WorkingDir:  task.WorkingDir,
		Severity:    task.Severity,
		UseDocker:   task.UseDocker,
		Status:      domain.StatusRunning,
		Source:      cmd.Source,
		CommitSHA:   cmd.CommitSHA,
		Branch:      cmd.Branch,
		Metadata:    cmd.Metadata,
	}
	if err := s.Repo.Save(ctx, initial); err != nil {
		return TriggerCheckResult{ID: string(id), Status: string(domain.StatusError)}, err
	}

	res, runErr := s.Runner.Run(ctx, task)

	var violations *domain.ViolationsError
	if runErr != nil && !errors.As(runErr, &violations) {
		// technical fault: persist diagnostics with the captured tool output
		s.recordError(cmd.TenantID, string(id), "trigger", runErr)
		_ = s.Repo.UpdateStatus(context.Background(), cmd.TenantID, id, domain.StatusError)
		return TriggerCheckResult{ID: string(id), Status: string(domain.StatusError)}, runErr
	}
	if violations != nil {
		// a container teardown failure can ride along with the violations
		// outcome; it must stay observable, not vanish behind the message
		var envErr *domain.EnvironmentError
		if errors.As(runErr, &envErr) {
			s.recordError(cmd.TenantID, string(id), "teardown", envErr)
		}
	}

	final := &domain.Check{
		ID:          id,
		TenantID:    cmd.TenantID,
		TriggeredAt: now,
		WorkingDir:  task.WorkingDir,
		Severity:    task.Severity,
		UseDocker:   task.UseDocker,
		Status:      statusOf(res, violations),
		Message:     res.Message,
		DurationMS:  res.DurationMS,
		Source:      cmd.Source,
		CommitSHA:   cmd.CommitSHA,
		Branch:      cmd.Branch,
		Metadata:    cmd.Metadata,
	}
	if res.Summary != nil {
		final.Summary = *res.Summary
	}

	var err error
	final.XMLURL, final.HTMLURL, final.TxtURL, err = s.uploadReports(ctx, cmd.TenantID, string(id), res)
	if err != nil {
		s.recordError(cmd.TenantID, string(id), "upload", err)
		_ = s.Repo.UpdateStatus(context.Background(), cmd.TenantID, id, domain.StatusError)
		return TriggerCheckResult{ID: string(id), Status: string(domain.StatusError)}, err
	}

	if err := s.Repo.Save(ctx, final); err != nil {
		return TriggerCheckResult{ID: string(id), Status: string(final.Status)}, err
	}

	return TriggerCheckResult{
		ID:         string(id),
		Status:     string(final.Status),
		Summary:    res.Summary,
		Message:    res.Message,
		XMLURL:     final.XMLURL,
		HTMLURL:    final.HTMLURL,
		TxtURL:     final.TxtURL,
		DurationMS: res.DurationMS,
	}, nil
}

// RetryCheck re-runs an existing check (usually one that errored) with the
// persisted working directory and severity.
func (s *Service) RetryCheck(ctx context.Context, tenant string, id domain.CheckID) (TriggerCheckResult, error) {
	existing, err := s.Repo.Get(ctx, tenant, id)
	if err != nil {
		return TriggerCheckResult{}, err
	}
	if existing == nil {
		return TriggerCheckResult{}, fmt.Errorf("check not found: %s", id)
	}

	useDocker := existing.UseDocker
	return s.TriggerCheck(ctx, TriggerCheckCommand{
		TenantID:   tenant,
		SourceDirs: []string{existing.WorkingDir},
		WorkingDir: existing.WorkingDir,
		Severity:   string(existing.Severity),
		UseDocker:  &useDocker,
		Source:     existing.Source,
		CommitSHA:  existing.CommitSHA,
		Branch:     existing.Branch,
		Metadata:   existing.Metadata,
	})
}

// Latest ambil N check terakhir
func (s *Service) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Check, error) {
	return s.Repo.Latest(ctx, tenant, limit)
}

// Get ambil 1 check by id
func (s *Service) Get(ctx context.Context, tenant string, id domain.CheckID) (*domain.Check, error) {
	return s.Repo.Get(ctx, tenant, id)
}

// Paginate returns one page of the tenant's run history.
func (s *Service) Paginate(ctx context.Context, tenant string, page, pageSize int) (domain.PaginatedResult, error) {
	return s.Repo.Paginate(ctx, tenant, page, pageSize)
}

// ListErrors returns the persisted failure diagnostics of one check.
func (s *Service) ListErrors(ctx context.Context, tenant string, id domain.CheckID, limit int) ([]*checkerrors.CheckError, error) {
	if s.Errors == nil {
		return nil, nil
	}
	return s.Errors.ListByCheck(ctx, tenant, string(id), limit)
}

// Summary rekap hasil check N hari terakhir
func (s *Service) Summary(ctx context.Context, tenant string, sinceDays int) (map[string]any, error) {
	total, failed, warned, passed, err := s.Repo.Summary(ctx, tenant, sinceDays)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"total_checks": total,
		"failed":       failed,
		"warned":       warned,
		"passed":       passed,
	}, nil
}

func (s *Service) uploadReports(ctx context.Context, tenant, id string, res domain.RunResult) (xmlURL, htmlURL, txtURL string, err error) {
	// server-side runs work on scratch checkouts; the uploaded copy is the
	// canonical one, so local report files are removed after upload
	upload := func(localPath string) (string, error) {
		if localPath == "" || s.Artifacts == nil {
			return "", nil
		}
		key := fmt.Sprintf("%s/%s/%s", tenant, id, filepath.Base(localPath))
		return s.Artifacts.UploadAndCleanup(ctx, localPath, key)
	}
	if xmlURL, err = upload(res.XMLPath); err != nil {
		return
	}
	if htmlURL, err = upload(res.HTMLPath); err != nil {
		return
	}
	txtURL, err = upload(res.TxtPath)
	return
}

func (s *Service) recordError(tenant, id, phase string, cause error) {
	if s.Errors == nil {
		return
	}
	entry := &checkerrors.CheckError{
		TenantID:  tenant,
		CheckID:   id,
		Phase:     phase,
		Message:   cause.Error(),
		CreatedAt: s.Clock.Now(),
	}
	var procErr *domain.ProcessError
	var reportErr *domain.MalformedReportError
	switch {
	case errors.As(cause, &procErr):
		entry.Output = procErr.Output
	case errors.As(cause, &reportErr):
		entry.Output = reportErr.Output
	}
	_ = s.Errors.Save(context.Background(), entry)
}

// helper
func statusOf(res domain.RunResult, violations *domain.ViolationsError) domain.Status {
	switch {
	case violations != nil:
		return domain.StatusFailed
	case res.Warned:
		return domain.StatusWarned
	default:
		return domain.StatusPassed
	}
}
