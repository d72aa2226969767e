package ai

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/shellcheck-gate/internal/domain/ai"
	"github.com/bryanwahyu/shellcheck-gate/internal/domain/analyst"
)

type Service struct {
	client ai.Client
	repo   analyst.Repository
}

func NewService(client ai.Client, repo analyst.Repository) *Service {
	return &Service{client: client, repo: repo}
}

// Analyze runs the AI pass over one uploaded report URL.
func (s *Service) Analyze(ctx context.Context, reportURL string) (string, error) {
	return s.client.Analyze(ctx, reportURL)
}

// AnalyzeAndStore analyzes a check's report and persists the result for
// auditing.
func (s *Service) AnalyzeAndStore(ctx context.Context, tenant, checkID, reportURL string) (*analyst.Analysis, error) {
	result, err := s.client.Analyze(ctx, reportURL)
	if err != nil {
		return nil, err
	}

	a := &analyst.Analysis{
		ID:        analyst.AnalysisID(uuid.New().String()),
		TenantID:  tenant,
		CheckID:   checkID,
		ReportURL: reportURL,
		Result:    result,
		CreatedAt: time.Now(),
	}
	if s.repo != nil {
		if err := s.repo.Save(ctx, a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// ListAnalyses returns a page of stored analyses, newest first.
func (s *Service) ListAnalyses(ctx context.Context, tenant string, page, pageSize int) ([]*analyst.Analysis, error) {
	return s.repo.Paginate(ctx, tenant, page, pageSize)
}

// LatestForCheck returns the newest stored analysis of one check.
func (s *Service) LatestForCheck(ctx context.Context, tenant, checkID string) (*analyst.Analysis, error) {
	return s.repo.LatestByCheck(ctx, tenant, checkID)
}
