package scanrun

import (
	"context"

	"github.com/repolens/ingest/pkg/domain/shared"
)

// Store persists scan runs.
type Store interface {
	Create(ctx context.Context, run *ScanRun) error

	// Update persists the terminal status, error message, finding count and
	// completion timestamp.
	Update(ctx context.Context, run *ScanRun) error

	GetByID(ctx context.Context, id shared.ID) (*ScanRun, error)
}
