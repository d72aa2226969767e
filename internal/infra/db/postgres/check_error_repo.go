package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/bryanwahyu/shellcheck-gate/internal/domain/checkerrors"
)

type CheckErrorRepository struct{ db *sql.DB }

func NewCheckErrorRepository(db *sql.DB) *CheckErrorRepository {
	return &CheckErrorRepository{db: db}
}

func (r *CheckErrorRepository) Save(ctx context.Context, e *domain.CheckError) error {
	const q = `
INSERT INTO shellcheck_run_errors
  (tenant_id, check_id, phase, message, output, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`
	tenant := stringOrDash(e.TenantID)
	check := stringOrDash(e.CheckID)
	phase := stringOrDash(e.Phase)
	msg := e.Message
	if strings.TrimSpace(msg) == "" {
		msg = "-"
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, tenant, check, phase, msg, e.Output, created)
	return err
}

func (r *CheckErrorRepository) ListByCheck(ctx context.Context, tenant string, checkID string, limit int) ([]*domain.CheckError, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, check_id, phase, message, output, created_at
FROM shellcheck_run_errors
WHERE tenant_id = $1 AND check_id = $2
ORDER BY created_at DESC, id DESC
LIMIT $3;`
	rows, err := r.db.QueryContext(ctx, q, tenant, checkID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.CheckError
	for rows.Next() {
		var e domain.CheckError
		if err := rows.Scan(&e.ID, &e.TenantID, &e.CheckID, &e.Phase, &e.Message, &e.Output, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
