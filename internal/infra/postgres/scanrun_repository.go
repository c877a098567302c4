package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/repolens/ingest/pkg/domain/scanrun"
	"github.com/repolens/ingest/pkg/domain/shared"
)

// ScanRunRepository implements scanrun.Store using PostgreSQL.
type ScanRunRepository struct {
	db *DB
}

// NewScanRunRepository creates a new ScanRunRepository.
func NewScanRunRepository(db *DB) *ScanRunRepository {
	return &ScanRunRepository{db: db}
}

// Create persists a new scan run.
func (r *ScanRunRepository) Create(ctx context.Context, run *scanrun.ScanRun) error {
	query := `
		INSERT INTO scan_runs (id, repository_id, scan_type, status, error_message, findings_count, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		run.ID.String(),
		run.RepositoryID.String(),
		run.ScanType,
		string(run.Status),
		nullString(run.ErrorMessage),
		run.FindingsCount,
		run.StartedAt,
		nullTime(run.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create scan run: %w", err)
	}

	return nil
}

// Update persists terminal status, error message, finding count and
// completion timestamp.
func (r *ScanRunRepository) Update(ctx context.Context, run *scanrun.ScanRun) error {
	query := `
		UPDATE scan_runs
		SET status = $2, error_message = $3, findings_count = $4, completed_at = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		run.ID.String(),
		string(run.Status),
		nullString(run.ErrorMessage),
		run.FindingsCount,
		nullTime(run.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to update scan run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return shared.NewDomainError("NOT_FOUND", "scan run not found", shared.ErrNotFound)
	}

	return nil
}

// GetByID retrieves a scan run by ID.
func (r *ScanRunRepository) GetByID(ctx context.Context, id shared.ID) (*scanrun.ScanRun, error) {
	query := `
		SELECT id, repository_id, scan_type, status, error_message, findings_count, started_at, completed_at
		FROM scan_runs
		WHERE id = $1
	`

	run := &scanrun.ScanRun{}
	var (
		runID, repositoryID string
		status              string
		errorMessage        sql.NullString
		completedAt         sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(
		&runID, &repositoryID, &run.ScanType, &status, &errorMessage,
		&run.FindingsCount, &run.StartedAt, &completedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NewDomainError("NOT_FOUND", "scan run not found", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan run: %w", err)
	}

	run.ID = shared.MustIDFromString(runID)
	run.RepositoryID = shared.MustIDFromString(repositoryID)
	run.Status = scanrun.Status(status)
	run.ErrorMessage = nullStringValue(errorMessage)
	run.CompletedAt = nullTimeValue(completedAt)

	return run, nil
}

// Ensure implementation
var _ scanrun.Store = (*ScanRunRepository)(nil)
