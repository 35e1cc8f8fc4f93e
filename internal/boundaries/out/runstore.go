package out

import (
	"context"

	"github.com/prunekit/prunekit/internal/domain"
)

// RunStore persists prune run history.
type RunStore interface {
	Record(ctx context.Context, record domain.RunRecord) error
	Recent(ctx context.Context, limit int) ([]domain.RunRecord, error)
	Close() error
}
