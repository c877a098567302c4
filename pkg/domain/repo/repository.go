package repo

import (
	"context"
)

// Store persists repository records.
type Store interface {
	// Upsert inserts the repository if no row with its name exists, then
	// returns the persisted row. The insert uses ON CONFLICT DO NOTHING so
	// concurrent ingestions of the same new name converge on one row.
	Upsert(ctx context.Context, r *Repository) (*Repository, error)

	// GetByName returns the repository with the given unique name.
	GetByName(ctx context.Context, name string) (*Repository, error)

	// UpdateScanState persists bus factor and last-scanned timestamp.
	UpdateScanState(ctx context.Context, r *Repository) error
}
