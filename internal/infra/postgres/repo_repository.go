package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/repolens/ingest/pkg/domain/repo"
	"github.com/repolens/ingest/pkg/domain/shared"
)

// RepoRepository implements repo.Store using PostgreSQL.
type RepoRepository struct {
	db *DB
}

// NewRepoRepository creates a new RepoRepository.
func NewRepoRepository(db *DB) *RepoRepository {
	return &RepoRepository{db: db}
}

// Upsert inserts the repository unless a row with its name already exists,
// then returns the persisted row. ON CONFLICT DO NOTHING makes concurrent
// first ingestions of the same name converge on one row instead of racing a
// read-then-write.
func (r *RepoRepository) Upsert(ctx context.Context, rep *repo.Repository) (*repo.Repository, error) {
	query := `
		INSERT INTO repositories (id, name, url, default_branch, bus_factor, last_scanned_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (name) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query,
		rep.ID.String(),
		rep.Name,
		nullString(rep.URL),
		rep.DefaultBranch,
		rep.BusFactor,
		nullTime(rep.LastScannedAt),
		rep.CreatedAt,
		rep.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert repository: %w", err)
	}

	return r.GetByName(ctx, rep.Name)
}

// GetByName retrieves a repository by its unique name.
func (r *RepoRepository) GetByName(ctx context.Context, name string) (*repo.Repository, error) {
	query := `
		SELECT id, name, url, default_branch, bus_factor, last_scanned_at, created_at, updated_at
		FROM repositories
		WHERE name = $1
	`

	rep := &repo.Repository{}
	var (
		id            string
		url           sql.NullString
		lastScannedAt sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&id, &rep.Name, &url, &rep.DefaultBranch, &rep.BusFactor,
		&lastScannedAt, &rep.CreatedAt, &rep.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NewDomainError("NOT_FOUND", "repository not found", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}

	rep.ID = shared.MustIDFromString(id)
	rep.URL = nullStringValue(url)
	rep.LastScannedAt = nullTimeValue(lastScannedAt)

	return rep, nil
}

// UpdateScanState persists bus factor and last-scanned timestamp.
func (r *RepoRepository) UpdateScanState(ctx context.Context, rep *repo.Repository) error {
	query := `
		UPDATE repositories
		SET bus_factor = $2, last_scanned_at = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		rep.ID.String(),
		rep.BusFactor,
		nullTime(rep.LastScannedAt),
		rep.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update repository scan state: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return shared.NewDomainError("NOT_FOUND", "repository not found", shared.ErrNotFound)
	}

	return nil
}

// Ensure implementation
var _ repo.Store = (*RepoRepository)(nil)
