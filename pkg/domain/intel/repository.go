package intel

import (
	"context"

	"github.com/repolens/ingest/pkg/domain/shared"
)

// Store persists the snapshot aggregates. All three replace operations are
// generation-replace: a transactional delete of the repository's prior rows
// followed by a bulk insert of the new snapshot.
type Store interface {
	ReplaceContributors(ctx context.Context, repositoryID shared.ID, contributors []*Contributor) error
	ReplaceLanguages(ctx context.Context, repositoryID shared.ID, stats []*LanguageStat) error
	ReplaceDependencies(ctx context.Context, repositoryID shared.ID, deps []*Dependency) error

	ListContributors(ctx context.Context, repositoryID shared.ID) ([]*Contributor, error)
	ListLanguages(ctx context.Context, repositoryID shared.ID) ([]*LanguageStat, error)
	ListDependencies(ctx context.Context, repositoryID shared.ID) ([]*Dependency, error)
}
