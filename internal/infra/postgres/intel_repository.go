package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/repolens/ingest/pkg/domain/intel"
	"github.com/repolens/ingest/pkg/domain/shared"
)

// IntelRepository implements intel.Store using PostgreSQL. Every Replace
// method runs a generation-replace: delete the repository's prior rows and
// bulk-insert the new snapshot inside one transaction.
type IntelRepository struct {
	db *DB
}

// NewIntelRepository creates a new IntelRepository.
func NewIntelRepository(db *DB) *IntelRepository {
	return &IntelRepository{db: db}
}

// ReplaceContributors swaps the repository's contributor snapshot.
func (r *IntelRepository) ReplaceContributors(ctx context.Context, repositoryID shared.ID, contributors []*intel.Contributor) error {
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"DELETE FROM contributors WHERE repository_id = $1",
			repositoryID.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to delete contributors: %w", err)
		}

		query := `
			INSERT INTO contributors (
				id, repository_id, name, email, commits, files_contributed, risk_score, created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare contributor insert: %w", err)
		}
		defer stmt.Close()

		for _, c := range contributors {
			files, err := toJSONB(c.FilesContributed)
			if err != nil {
				return fmt.Errorf("failed to marshal files contributed: %w", err)
			}
			_, err = stmt.ExecContext(ctx,
				c.ID.String(),
				repositoryID.String(),
				c.Name,
				nullString(c.Email),
				c.Commits,
				files,
				c.RiskScore,
				c.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert contributor: %w", err)
			}
		}
		return nil
	})
}

// ReplaceLanguages swaps the repository's language statistics snapshot.
func (r *IntelRepository) ReplaceLanguages(ctx context.Context, repositoryID shared.ID, stats []*intel.LanguageStat) error {
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"DELETE FROM language_stats WHERE repository_id = $1",
			repositoryID.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to delete language stats: %w", err)
		}

		query := `
			INSERT INTO language_stats (
				id, repository_id, language, bytes, percentage, created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare language stat insert: %w", err)
		}
		defer stmt.Close()

		for _, s := range stats {
			_, err := stmt.ExecContext(ctx,
				s.ID.String(),
				repositoryID.String(),
				s.Language,
				s.Bytes,
				s.Percentage,
				s.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert language stat: %w", err)
			}
		}
		return nil
	})
}

// ReplaceDependencies swaps the repository's dependency snapshot.
func (r *IntelRepository) ReplaceDependencies(ctx context.Context, repositoryID shared.ID, deps []*intel.Dependency) error {
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"DELETE FROM dependencies WHERE repository_id = $1",
			repositoryID.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to delete dependencies: %w", err)
		}

		query := `
			INSERT INTO dependencies (
				id, repository_id, name, version, ecosystem, purl, source, created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare dependency insert: %w", err)
		}
		defer stmt.Close()

		for _, d := range deps {
			_, err := stmt.ExecContext(ctx,
				d.ID.String(),
				repositoryID.String(),
				d.Name,
				nullString(d.Version),
				nullString(d.Ecosystem),
				nullString(d.PURL),
				string(d.Source),
				d.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert dependency: %w", err)
			}
		}
		return nil
	})
}

// ListContributors returns the repository's contributors ordered by commit
// count descending.
func (r *IntelRepository) ListContributors(ctx context.Context, repositoryID shared.ID) ([]*intel.Contributor, error) {
	query := `
		SELECT id, repository_id, name, email, commits, files_contributed, risk_score, created_at
		FROM contributors
		WHERE repository_id = $1
		ORDER BY commits DESC
	`

	rows, err := r.db.QueryContext(ctx, query, repositoryID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list contributors: %w", err)
	}
	defer rows.Close()

	var contributors []*intel.Contributor
	for rows.Next() {
		c := &intel.Contributor{}
		var (
			id, repoID string
			email      sql.NullString
			files      []byte
		)
		err := rows.Scan(&id, &repoID, &c.Name, &email, &c.Commits, &files, &c.RiskScore, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contributor row: %w", err)
		}
		c.ID = shared.MustIDFromString(id)
		c.RepositoryID = shared.MustIDFromString(repoID)
		c.Email = nullStringValue(email)
		if err := fromJSONB(files, &c.FilesContributed); err != nil {
			return nil, fmt.Errorf("failed to unmarshal files contributed: %w", err)
		}
		contributors = append(contributors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return contributors, nil
}

// ListLanguages returns the repository's language stats ordered by share
// descending.
func (r *IntelRepository) ListLanguages(ctx context.Context, repositoryID shared.ID) ([]*intel.LanguageStat, error) {
	query := `
		SELECT id, repository_id, language, bytes, percentage, created_at
		FROM language_stats
		WHERE repository_id = $1
		ORDER BY percentage DESC
	`

	rows, err := r.db.QueryContext(ctx, query, repositoryID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list language stats: %w", err)
	}
	defer rows.Close()

	var stats []*intel.LanguageStat
	for rows.Next() {
		s := &intel.LanguageStat{}
		var id, repoID string
		err := rows.Scan(&id, &repoID, &s.Language, &s.Bytes, &s.Percentage, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan language stat row: %w", err)
		}
		s.ID = shared.MustIDFromString(id)
		s.RepositoryID = shared.MustIDFromString(repoID)
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return stats, nil
}

// ListDependencies returns the repository's dependencies ordered by name.
func (r *IntelRepository) ListDependencies(ctx context.Context, repositoryID shared.ID) ([]*intel.Dependency, error) {
	query := `
		SELECT id, repository_id, name, version, ecosystem, purl, source, created_at
		FROM dependencies
		WHERE repository_id = $1
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, repositoryID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list dependencies: %w", err)
	}
	defer rows.Close()

	var deps []*intel.Dependency
	for rows.Next() {
		d := &intel.Dependency{}
		var (
			id, repoID, source       string
			version, ecosystem, purl sql.NullString
		)
		err := rows.Scan(&id, &repoID, &d.Name, &version, &ecosystem, &purl, &source, &d.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dependency row: %w", err)
		}
		d.ID = shared.MustIDFromString(id)
		d.RepositoryID = shared.MustIDFromString(repoID)
		d.Version = nullStringValue(version)
		d.Ecosystem = nullStringValue(ecosystem)
		d.PURL = nullStringValue(purl)
		d.Source = intel.DependencySource(source)
		deps = append(deps, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return deps, nil
}

// Ensure implementation
var _ intel.Store = (*IntelRepository)(nil)
