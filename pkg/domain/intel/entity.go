// Package intel holds repository-scoped snapshot aggregates: contributors,
// language statistics and dependencies. Unlike findings these are not an
// audit trail: every ingestion replaces the previous generation of rows.
package intel

import (
	"time"

	"github.com/repolens/ingest/pkg/domain/finding"
	"github.com/repolens/ingest/pkg/domain/shared"
)

// FileRisk associates a file a contributor touched with the worst finding
// severity observed on it in the current scan run.
type FileRisk struct {
	Path          string           `json:"path"`
	Severity      finding.Severity `json:"severity,omitempty"`
	FindingsCount int              `json:"findings_count"`
}

// Contributor is a repository contributor with a derived risk score.
type Contributor struct {
	ID           shared.ID
	RepositoryID shared.ID
	Name         string
	Email        string
	Commits      int

	// FilesContributed is ordered as reported by the intel feed.
	FilesContributed []FileRisk

	// RiskScore is in [0,100].
	RiskScore int

	CreatedAt time.Time
}

// LanguageStat is one language's share of a repository.
type LanguageStat struct {
	ID           shared.ID
	RepositoryID shared.ID
	Language     string
	Bytes        int64
	Percentage   float64
	CreatedAt    time.Time
}

// DependencySource distinguishes where an SBOM was generated from.
type DependencySource string

const (
	DependencySourceRepo  DependencySource = "repo"
	DependencySourceImage DependencySource = "image"
)

// Dependency is one package a repository depends on, from an SBOM.
type Dependency struct {
	ID           shared.ID
	RepositoryID shared.ID
	Name         string
	Version      string
	Ecosystem    string
	PURL         string
	Source       DependencySource
	CreatedAt    time.Time
}
