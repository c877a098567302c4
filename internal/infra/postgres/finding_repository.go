package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/repolens/ingest/pkg/domain/finding"
	"github.com/repolens/ingest/pkg/domain/shared"
)

// FindingRepository implements finding.Store using PostgreSQL.
type FindingRepository struct {
	db *DB
}

// NewFindingRepository creates a new FindingRepository.
func NewFindingRepository(db *DB) *FindingRepository {
	return &FindingRepository{db: db}
}

// CreateBatch inserts a batch of findings inside one transaction. The batch
// boundary is the unit of work: a failure rolls back exactly this batch.
func (r *FindingRepository) CreateBatch(ctx context.Context, findings []*finding.Finding) error {
	if len(findings) == 0 {
		return nil
	}

	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		return insertFindings(ctx, tx, findings)
	})
}

func insertFindings(ctx context.Context, tx *sql.Tx, findings []*finding.Finding) error {
	query := `
		INSERT INTO findings (
			id, repository_id, scan_run_id,
			scanner_name, finding_type, severity,
			title, description, file_path, line_start, line_end, code_snippet,
			status, detector_name,
			is_verified_by_scanner, is_validated_active, validation_message, validated_at,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare finding insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range findings {
		_, err := stmt.ExecContext(ctx,
			f.ID.String(),
			f.RepositoryID.String(),
			f.ScanRunID.String(),
			string(f.Scanner),
			string(f.Type),
			string(f.Severity),
			f.Title,
			nullString(f.Description),
			nullString(f.FilePath),
			f.LineStart,
			f.LineEnd,
			nullString(f.CodeSnippet),
			f.Status,
			nullString(f.DetectorName),
			f.IsVerifiedByScanner,
			nullBool(f.IsValidatedActive),
			nullString(f.ValidationMessage),
			nullTime(f.ValidatedAt),
			f.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert finding: %w", err)
		}
	}
	return nil
}

// CountByScanRun returns the number of findings tied to a scan run.
func (r *FindingRepository) CountByScanRun(ctx context.Context, scanRunID shared.ID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM findings WHERE scan_run_id = $1",
		scanRunID.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count findings: %w", err)
	}
	return count, nil
}

// ListOpenSecrets returns open secret findings ordered by severity
// descending, capped at limit.
func (r *FindingRepository) ListOpenSecrets(ctx context.Context, limit int) ([]*finding.Finding, error) {
	query := `
		SELECT
			id, repository_id, scan_run_id,
			scanner_name, finding_type, severity,
			title, description, file_path, line_start, line_end, code_snippet,
			status, detector_name,
			is_verified_by_scanner, is_validated_active, validation_message, validated_at,
			created_at
		FROM findings
		WHERE finding_type = 'secret' AND status = 'open'
		ORDER BY
			CASE severity
				WHEN 'critical' THEN 5
				WHEN 'high' THEN 4
				WHEN 'medium' THEN 3
				WHEN 'low' THEN 2
				ELSE 1
			END DESC,
			created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list open secrets: %w", err)
	}
	defer rows.Close()

	var findings []*finding.Finding
	for rows.Next() {
		f, err := scanFinding(rows)
		if err != nil {
			return nil, err
		}
		findings = append(findings, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return findings, nil
}

// DowngradeUnverifiedCriticals moves open secret findings at critical that
// are neither scanner-verified nor validated active down to medium.
func (r *FindingRepository) DowngradeUnverifiedCriticals(ctx context.Context) (int64, error) {
	query := `
		UPDATE findings
		SET severity = 'medium'
		WHERE finding_type = 'secret'
			AND status = 'open'
			AND severity = 'critical'
			AND is_verified_by_scanner = FALSE
			AND (is_validated_active IS NULL OR is_validated_active = FALSE)
	`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to downgrade unverified criticals: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

// UpdateValidation persists severity and validation fields in place. The
// corrective sweep is the only caller; nothing else mutates finding rows.
func (r *FindingRepository) UpdateValidation(ctx context.Context, f *finding.Finding) error {
	query := `
		UPDATE findings
		SET severity = $2, is_validated_active = $3, validation_message = $4, validated_at = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		f.ID.String(),
		string(f.Severity),
		nullBool(f.IsValidatedActive),
		nullString(f.ValidationMessage),
		nullTime(f.ValidatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to update finding validation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return shared.NewDomainError("NOT_FOUND", "finding not found", shared.ErrNotFound)
	}

	return nil
}

func scanFinding(rows *sql.Rows) (*finding.Finding, error) {
	f := &finding.Finding{}
	var (
		id, repositoryID, scanRunID        string
		scanner, findingType, severity     string
		description, filePath, codeSnippet sql.NullString
		detectorName, validationMessage    sql.NullString
		isValidatedActive                  sql.NullBool
		validatedAt                        sql.NullTime
	)

	err := rows.Scan(
		&id, &repositoryID, &scanRunID,
		&scanner, &findingType, &severity,
		&f.Title, &description, &filePath, &f.LineStart, &f.LineEnd, &codeSnippet,
		&f.Status, &detectorName,
		&f.IsVerifiedByScanner, &isValidatedActive, &validationMessage, &validatedAt,
		&f.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan finding row: %w", err)
	}

	f.ID = shared.MustIDFromString(id)
	f.RepositoryID = shared.MustIDFromString(repositoryID)
	f.ScanRunID = shared.MustIDFromString(scanRunID)
	f.Scanner = finding.Scanner(scanner)
	f.Type = finding.Type(findingType)
	f.Severity = finding.Severity(severity)
	f.Description = nullStringValue(description)
	f.FilePath = nullStringValue(filePath)
	f.CodeSnippet = nullStringValue(codeSnippet)
	f.DetectorName = nullStringValue(detectorName)
	f.IsValidatedActive = nullBoolValue(isValidatedActive)
	f.ValidationMessage = nullStringValue(validationMessage)
	f.ValidatedAt = nullTimeValue(validatedAt)

	return f, nil
}

// Ensure implementation
var _ finding.Store = (*FindingRepository)(nil)
