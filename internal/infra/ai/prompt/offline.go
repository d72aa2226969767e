package prompt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OfflineAnalyzer implements the ai.Client port without any AI provider. It
// downloads the checkstyle report and derives the same JSON schema with a
// rule-based pass, so the analyze endpoints keep working when no API key is
// configured.
type OfflineAnalyzer struct {
	HTTP *http.Client
}

func NewOfflineAnalyzer() *OfflineAnalyzer {
	return &OfflineAnalyzer{HTTP: &http.Client{Timeout: 30 * time.Second}}
}

func (a *OfflineAnalyzer) Analyze(ctx context.Context, reportURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reportURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := a.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching report: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching report: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", fmt.Errorf("reading report: %w", err)
	}
	return AnalyzeReportContent(reportURL, string(body)), nil
}
