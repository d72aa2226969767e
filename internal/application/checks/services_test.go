package checks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/shellcheck-gate/internal/domain/checkerrors"
	domain "github.com/bryanwahyu/shellcheck-gate/internal/domain/checks"
)

type fakeRepo struct {
	saved    []*domain.Check
	statuses map[domain.CheckID]domain.Status
	byID     map[domain.CheckID]*domain.Check
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		statuses: map[domain.CheckID]domain.Status{},
		byID:     map[domain.CheckID]*domain.Check{},
	}
}

func (r *fakeRepo) Save(ctx context.Context, c *domain.Check) error {
	r.saved = append(r.saved, c)
	r.byID[c.ID] = c
	return nil
}

func (r *fakeRepo) Get(ctx context.Context, tenant string, id domain.CheckID) (*domain.Check, error) {
	return r.byID[id], nil
}

func (r *fakeRepo) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Check, error) {
	return r.saved, nil
}

func (r *fakeRepo) Summary(ctx context.Context, tenant string, sinceDays int) (int, int, int, int, error) {
	return len(r.saved), 1, 2, 3, nil
}

func (r *fakeRepo) Paginate(ctx context.Context, tenant string, page, pageSize int) (domain.PaginatedResult, error) {
	return domain.PaginatedResult{Data: r.saved, Page: page, PageSize: pageSize, Total: int64(len(r.saved)), TotalPages: 1}, nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, tenant string, id domain.CheckID, status domain.Status) error {
	r.statuses[id] = status
	return nil
}

type fakeRunner struct {
	res  domain.RunResult
	err  error
	task domain.TaskConfig
}

func (f *fakeRunner) Run(ctx context.Context, cfg domain.TaskConfig) (domain.RunResult, error) {
	f.task = cfg
	return f.res, f.err
}

type fakeArtifacts struct {
	uploads map[string]string // key -> localPath
}

func (f *fakeArtifacts) Upload(ctx context.Context, localPath, key string) (string, error) {
	if f.uploads == nil {
		f.uploads = map[string]string{}
	}
	f.uploads[key] = localPath
	return "https://store.local/" + key, nil
}

func (f *fakeArtifacts) UploadAndCleanup(ctx context.Context, localPath, key string) (string, error) {
	return f.Upload(ctx, localPath, key)
}

type fakeErrors struct {
	entries []*checkerrors.CheckError
}

func (f *fakeErrors) Save(ctx context.Context, e *checkerrors.CheckError) error {
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeErrors) ListByCheck(ctx context.Context, tenant, checkID string, limit int) ([]*checkerrors.CheckError, error) {
	return f.entries, nil
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

func newService(runner *fakeRunner) (*Service, *fakeRepo, *fakeArtifacts, *fakeErrors) {
	repo := newFakeRepo()
	store := &fakeArtifacts{}
	errRepo := &fakeErrors{}
	svc := &Service{
		Repo:      repo,
		Runner:    runner,
		Artifacts: store,
		Errors:    errRepo,
		Clock:     fixedClock{at: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		Defaults: domain.TaskConfig{
			Severity:  domain.SeverityStyle,
			UseDocker: true,
			Reports: domain.ReportsConfig{
				XML: domain.ReportConfig{Enabled: true},
			},
		},
	}
	return svc, repo, store, errRepo
}

func TestTriggerCheckPassed(t *testing.T) {
	runner := &fakeRunner{res: domain.RunResult{DurationMS: 120}}
	svc, repo, _, _ := newService(runner)

	res, err := svc.TriggerCheck(context.Background(), TriggerCheckCommand{
		TenantID:   "acme",
		SourceDirs: []string{"scripts"},
		WorkingDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPassed), res.Status)
	assert.True(t, strings.HasSuffix(res.ID, "-shellcheck"))
	assert.Nil(t, res.Summary)

	// initial running row, then the final row
	require.Len(t, repo.saved, 2)
	assert.Equal(t, domain.StatusRunning, repo.saved[0].Status)
	assert.Equal(t, domain.StatusPassed, repo.saved[1].Status)
	assert.Equal(t, repo.saved[0].ID, repo.saved[1].ID)
}

func TestTriggerCheckViolationsFail(t *testing.T) {
	summary := domain.ReportSummary{FilesWithViolations: 3, ViolationsBySeverity: 2}
	runner := &fakeRunner{
		res: domain.RunResult{
			Summary: &summary,
			Message: "Shellcheck violations were found.",
			XMLPath: "/tmp/shellcheck.xml",
		},
		err: &domain.ViolationsError{Summary: summary, Message: "Shellcheck violations were found."},
	}
	svc, repo, store, errRepo := newService(runner)

	res, err := svc.TriggerCheck(context.Background(), TriggerCheckCommand{
		TenantID:   "acme",
		WorkingDir: t.TempDir(),
	})
	require.NoError(t, err, "violations are an outcome, not a service error")
	assert.Equal(t, string(domain.StatusFailed), res.Status)
	require.NotNil(t, res.Summary)
	assert.Equal(t, 3, res.Summary.FilesWithViolations)
	assert.Empty(t, errRepo.entries, "violations must not be recorded as technical faults")

	assert.Equal(t, domain.StatusFailed, repo.saved[1].Status)
	assert.Equal(t, "https://store.local/acme/"+res.ID+"/shellcheck.xml", res.XMLURL)
	assert.Equal(t, "/tmp/shellcheck.xml", store.uploads["acme/"+res.ID+"/shellcheck.xml"])
}

func TestTriggerCheckViolationsWithTeardownFailure(t *testing.T) {
	summary := domain.ReportSummary{FilesWithViolations: 1, ViolationsBySeverity: 1}
	stopErr := &domain.EnvironmentError{Phase: "stop", Err: fmt.Errorf("no such container")}
	runner := &fakeRunner{
		res: domain.RunResult{Summary: &summary, Message: "Shellcheck violations were found."},
		err: errors.Join(
			&domain.ViolationsError{Summary: summary, Message: "Shellcheck violations were found."},
			stopErr,
		),
	}
	svc, repo, _, errRepo := newService(runner)

	res, err := svc.TriggerCheck(context.Background(), TriggerCheckCommand{
		TenantID:   "acme",
		WorkingDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusFailed), res.Status, "the violations outcome still wins")
	assert.Equal(t, domain.StatusFailed, repo.saved[1].Status)

	// the teardown failure is persisted, not dropped
	require.Len(t, errRepo.entries, 1)
	assert.Equal(t, "teardown", errRepo.entries[0].Phase)
	assert.Contains(t, errRepo.entries[0].Message, "failed to stop shellcheck container")
}

func TestTriggerCheckWarned(t *testing.T) {
	summary := domain.ReportSummary{FilesWithViolations: 1, ViolationsBySeverity: 1}
	runner := &fakeRunner{
		res: domain.RunResult{Summary: &summary, Warned: true, Message: "Shellcheck violations were found."},
	}
	svc, _, _, _ := newService(runner)

	res, err := svc.TriggerCheck(context.Background(), TriggerCheckCommand{
		TenantID:   "acme",
		WorkingDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusWarned), res.Status)
}

func TestTriggerCheckTechnicalFault(t *testing.T) {
	procErr := &domain.ProcessError{
		Command:  []string{"shellcheck", "-f", "checkstyle", "a.sh"},
		ExitCode: 2,
		Output:   "unknown option --bogus",
		Err:      fmt.Errorf("exit status 2"),
	}
	runner := &fakeRunner{err: procErr}
	svc, repo, _, errRepo := newService(runner)

	res, err := svc.TriggerCheck(context.Background(), TriggerCheckCommand{
		TenantID:   "acme",
		WorkingDir: t.TempDir(),
	})
	require.Error(t, err)
	assert.Equal(t, string(domain.StatusError), res.Status)
	assert.Equal(t, domain.StatusError, repo.statuses[domain.CheckID(res.ID)])

	require.Len(t, errRepo.entries, 1)
	assert.Equal(t, "trigger", errRepo.entries[0].Phase)
	assert.Equal(t, "unknown option --bogus", errRepo.entries[0].Output)

	// persisted diagnostics stay queryable per check
	entries, err := svc.ListErrors(context.Background(), "acme", domain.CheckID(res.ID), 20)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "unknown option --bogus", entries[0].Output)
}

func TestTriggerCheckDefaultsAndOverrides(t *testing.T) {
	runner := &fakeRunner{}
	svc, _, _, _ := newService(runner)

	noDocker := false
	wd := t.TempDir()
	_, err := svc.TriggerCheck(context.Background(), TriggerCheckCommand{
		TenantID:   "acme",
		WorkingDir: wd,
		Severity:   "error",
		UseDocker:  &noDocker,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SeverityError, runner.task.Severity)
	assert.False(t, runner.task.UseDocker, "per-request override beats the configured default")
	assert.Equal(t, wd, runner.task.WorkingDir)
	assert.NotEmpty(t, runner.task.Reports.XML.Path, "enabled reports get a resolved destination")
}

func TestRetryCheckReusesPersistedConfig(t *testing.T) {
	runner := &fakeRunner{}
	svc, repo, _, _ := newService(runner)

	wd := t.TempDir()
	existing := &domain.Check{
		ID:         "11111111-2222-3333-4444-555555555555-shellcheck",
		TenantID:   "acme",
		WorkingDir: wd,
		Severity:   domain.SeverityWarning,
		UseDocker:  false,
		Status:     domain.StatusError,
		Branch:     "main",
	}
	require.NoError(t, repo.Save(context.Background(), existing))

	res, err := svc.RetryCheck(context.Background(), "acme", existing.ID)
	require.NoError(t, err)
	assert.NotEqual(t, string(existing.ID), res.ID, "a retry is a new run")
	assert.Equal(t, wd, runner.task.WorkingDir)
	assert.Equal(t, domain.SeverityWarning, runner.task.Severity)
	assert.False(t, runner.task.UseDocker)
}

func TestRetryCheckUnknownID(t *testing.T) {
	svc, _, _, _ := newService(&fakeRunner{})
	_, err := svc.RetryCheck(context.Background(), "acme", "missing-shellcheck")
	assert.Error(t, err)
}

func TestSummaryShape(t *testing.T) {
	svc, _, _, _ := newService(&fakeRunner{})
	out, err := svc.Summary(context.Background(), "acme", 7)
	require.NoError(t, err)
	assert.Equal(t, 1, out["failed"])
	assert.Equal(t, 2, out["warned"])
	assert.Equal(t, 3, out["passed"])
}
