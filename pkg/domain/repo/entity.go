// Package repo defines the scanned source repository entity.
package repo

import (
	"time"

	"github.com/repolens/ingest/pkg/domain/shared"
)

// Repository represents a source repository tracked by the finding ledger.
// Identity is the unique name; a repository is created on first ingestion
// reference and never deleted by the pipeline.
type Repository struct {
	ID            shared.ID
	Name          string
	URL           string
	DefaultBranch string

	// BusFactor is the minimum number of top contributors whose combined
	// commits reach half of all commits. Recomputed on every ingestion.
	BusFactor int

	LastScannedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// New creates a new repository record.
func New(name, url, defaultBranch string) (*Repository, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION", "name is required", shared.ErrValidation)
	}
	if defaultBranch == "" {
		defaultBranch = "main"
	}

	now := time.Now()
	return &Repository{
		ID:            shared.NewID(),
		Name:          name,
		URL:           url,
		DefaultBranch: defaultBranch,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// MarkScanned records the completion of an ingestion pass.
func (r *Repository) MarkScanned(busFactor int, at time.Time) {
	r.BusFactor = busFactor
	r.LastScannedAt = &at
	r.UpdatedAt = at
}
