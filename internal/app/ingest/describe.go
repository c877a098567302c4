package ingest

import (
	"context"
	"fmt"

	"github.com/repolens/ingest/pkg/domain/intel"
	"github.com/repolens/ingest/pkg/domain/repo"
)

// Summary is the current snapshot state of one repository: the persisted
// record plus the latest generation of each aggregate.
type Summary struct {
	Repository   *repo.Repository
	Contributors []*intel.Contributor
	Languages    []*intel.LanguageStat
	Dependencies []*intel.Dependency
}

// Describe reads back a repository and its snapshot aggregates.
func (s *Service) Describe(ctx context.Context, repoName string) (*Summary, error) {
	repository, err := s.repos.GetByName(ctx, repoName)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}

	contributors, err := s.intel.ListContributors(ctx, repository.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributors: %w", err)
	}
	languages, err := s.intel.ListLanguages(ctx, repository.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	dependencies, err := s.intel.ListDependencies(ctx, repository.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dependencies: %w", err)
	}

	return &Summary{
		Repository:   repository,
		Contributors: contributors,
		Languages:    languages,
		Dependencies: dependencies,
	}, nil
}
