package finding

import (
	"context"

	"github.com/repolens/ingest/pkg/domain/shared"
)

// Store persists findings.
type Store interface {
	// CreateBatch inserts a batch of findings inside one transaction. A
	// failure rolls back the whole batch and nothing else.
	CreateBatch(ctx context.Context, findings []*Finding) error

	// CountByScanRun returns the number of findings tied to a scan run.
	CountByScanRun(ctx context.Context, scanRunID shared.ID) (int, error)

	// ListOpenSecrets returns open secret findings ordered by severity
	// descending, capped at limit.
	ListOpenSecrets(ctx context.Context, limit int) ([]*Finding, error)

	// DowngradeUnverifiedCriticals moves open secret findings at critical
	// that are neither scanner-verified nor validated active down to medium.
	// Returns the number of rows changed.
	DowngradeUnverifiedCriticals(ctx context.Context) (int64, error)

	// UpdateValidation persists severity and validation fields in place.
	// This is the only mutation of an existing finding row.
	UpdateValidation(ctx context.Context, f *Finding) error
}
