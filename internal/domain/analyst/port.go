package analyst

import "context"

// Repository port for persisting and querying analyses
type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*Analysis, error)
	LatestByCheck(ctx context.Context, tenant string, checkID string) (*Analysis, error)
}
