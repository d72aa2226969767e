package checks

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, c *Check) error
	Get(ctx context.Context, tenant string, id CheckID) (*Check, error)
	Latest(ctx context.Context, tenant string, limit int) ([]*Check, error)
	Summary(ctx context.Context, tenant string, sinceDays int) (total, failed, warned, passed int, err error)
	Paginate(ctx context.Context, tenant string, page, pageSize int) (PaginatedResult, error)
	UpdateStatus(ctx context.Context, tenant string, id CheckID, status Status) error
}

// Runner port: one full shellcheck pipeline run for a resolved task
// configuration. Violations with IgnoreFailures unset are returned as
// *ViolationsError; every other error is a technical fault.
type Runner interface {
	Run(ctx context.Context, cfg TaskConfig) (RunResult, error)
}

// ArtifactStore port (interface untuk penyimpanan report artifacts)
type ArtifactStore interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
	UploadAndCleanup(ctx context.Context, localPath, key string) (string, error)
}
