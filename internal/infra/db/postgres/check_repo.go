package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	domain "github.com/bryanwahyu/shellcheck-gate/internal/domain/checks"
)

type CheckRepository struct{ db *sql.DB }

func NewCheckRepository(db *sql.DB) *CheckRepository { return &CheckRepository{db: db} }

const checkColumns = `id, tenant_id, triggered_at, working_dir, severity, use_docker, status, message,
       files_with_violations, severities_found,
       xml_url, html_url, txt_url, duration_ms, source, commit_sha, branch`

// Save insert/update Check record
func (r *CheckRepository) Save(ctx context.Context, c *domain.Check) error {
	const q = `
INSERT INTO shellcheck_runs
(id, tenant_id, triggered_at, working_dir, severity, use_docker, status, message,
 files_with_violations, severities_found,
 xml_url, html_url, txt_url, duration_ms, source, commit_sha, branch)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,
        $9,$10,
        $11,$12,$13,$14,$15,$16,$17)
ON CONFLICT (id) DO UPDATE SET
 status = EXCLUDED.status,
 message = EXCLUDED.message,
 files_with_violations = EXCLUDED.files_with_violations,
 severities_found = EXCLUDED.severities_found,
 xml_url = EXCLUDED.xml_url,
 html_url = EXCLUDED.html_url,
 txt_url = EXCLUDED.txt_url,
 duration_ms = EXCLUDED.duration_ms;`

	tenant := stringOrDash(c.TenantID)
	status := stringOrDash(string(c.Status))
	severity := stringOrDash(string(c.Severity))
	triggered := c.TriggeredAt
	if triggered.IsZero() {
		triggered = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		c.ID, tenant, triggered, c.WorkingDir, severity, c.UseDocker, status, c.Message,
		c.Summary.FilesWithViolations, c.Summary.ViolationsBySeverity,
		c.XMLURL, c.HTMLURL, c.TxtURL, c.DurationMS,
		c.Source, c.CommitSHA, c.Branch,
	)
	return err
}

func scanCheck(scan func(dest ...any) error) (*domain.Check, error) {
	var c domain.Check
	if err := scan(
		&c.ID, &c.TenantID, &c.TriggeredAt, &c.WorkingDir, &c.Severity, &c.UseDocker, &c.Status, &c.Message,
		&c.Summary.FilesWithViolations, &c.Summary.ViolationsBySeverity,
		&c.XMLURL, &c.HTMLURL, &c.TxtURL, &c.DurationMS,
		&c.Source, &c.CommitSHA, &c.Branch,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// Get by ID + Tenant
func (r *CheckRepository) Get(ctx context.Context, tenant string, id domain.CheckID) (*domain.Check, error) {
	const q = `
SELECT ` + checkColumns + `
FROM shellcheck_runs
WHERE tenant_id=$1 AND id=$2
LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, tenant, id)
	return scanCheck(row.Scan)
}

// Latest checks per tenant
func (r *CheckRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Check, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT ` + checkColumns + `
FROM shellcheck_runs
WHERE tenant_id=$1 ORDER BY triggered_at DESC LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Check
	for rows.Next() {
		c, err := scanCheck(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Summary counts run outcomes since N days
func (r *CheckRepository) Summary(ctx context.Context, tenant string, sinceDays int) (total, failed, warned, passed int, err error) {
	if sinceDays <= 0 {
		sinceDays = 7
	}
	const q = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE status='failed'),
       COUNT(*) FILTER (WHERE status='warned'),
       COUNT(*) FILTER (WHERE status='passed')
FROM shellcheck_runs
WHERE tenant_id=$1 AND triggered_at >= NOW() - ($2 || ' days')::interval;`
	row := r.db.QueryRowContext(ctx, q, tenant, sinceDays)
	err = row.Scan(&total, &failed, &warned, &passed)
	return
}

// Paginate returns one page ordered by triggered_at desc
func (r *CheckRepository) Paginate(ctx context.Context, tenant string, page, pageSize int) (domain.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT ` + checkColumns + `
FROM shellcheck_runs
WHERE tenant_id=$1 ORDER BY triggered_at DESC, id DESC LIMIT $2 OFFSET $3;`
	rows, err := r.db.QueryContext(ctx, q, tenant, pageSize, offset)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("querying checks: %w", err)
	}
	defer rows.Close()

	var out []*domain.Check
	for rows.Next() {
		c, err := scanCheck(rows.Scan)
		if err != nil {
			return domain.PaginatedResult{}, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, c)
	}
	if err = rows.Err(); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("iterating rows: %w", err)
	}

	var total int64
	const count = `SELECT COUNT(*) FROM shellcheck_runs WHERE tenant_id=$1;`
	if err := r.db.QueryRowContext(ctx, count, tenant).Scan(&total); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("getting total count: %w", err)
	}

	return domain.PaginatedResult{
		Data:       out,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// UpdateStatus set status satu run
func (r *CheckRepository) UpdateStatus(ctx context.Context, tenant string, id domain.CheckID, status domain.Status) error {
	const q = `UPDATE shellcheck_runs SET status=$1 WHERE tenant_id=$2 AND id=$3;`
	_, err := r.db.ExecContext(ctx, q, string(status), tenant, id)
	return err
}
