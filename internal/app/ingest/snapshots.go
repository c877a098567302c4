package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/repolens/ingest/pkg/domain/intel"
	"github.com/repolens/ingest/pkg/domain/repo"
	"github.com/repolens/ingest/pkg/domain/shared"
)

// loadSnapshots replaces the repository's snapshot aggregates: dependencies
// from the syft SBOMs, contributors and language stats from the intel file.
// Snapshots mirror the current ingestion; a missing input file yields an
// empty generation.
func (s *Service) loadSnapshots(
	ctx context.Context,
	repository *repo.Repository,
	repoName, dir string,
	idx fileIndex,
	out *Output,
) error {
	if err := s.loadDependencies(ctx, repository, repoName, dir, out); err != nil {
		return err
	}
	return s.loadIntel(ctx, repository, repoName, dir, idx, out)
}

func (s *Service) loadDependencies(
	ctx context.Context,
	repository *repo.Repository,
	repoName, dir string,
	out *Output,
) error {
	now := time.Now()
	var deps []*intel.Dependency

	add := func(parsed []intel.Dependency) {
		for i := range parsed {
			d := parsed[i]
			d.ID = shared.NewID()
			d.RepositoryID = repository.ID
			d.CreatedAt = now
			deps = append(deps, &d)
		}
	}

	repoDeps, _ := s.parser.SyftSBOM(filepath.Join(dir, repoName+suffixSyftRepo), intel.DependencySourceRepo)
	add(repoDeps)
	imageDeps, _ := s.parser.SyftSBOM(filepath.Join(dir, repoName+suffixSyftImage), intel.DependencySourceImage)
	add(imageDeps)

	if err := s.intel.ReplaceDependencies(ctx, repository.ID, deps); err != nil {
		return fmt.Errorf("failed to replace dependencies: %w", err)
	}
	out.Dependencies = len(deps)
	return nil
}

func (s *Service) loadIntel(
	ctx context.Context,
	repository *repo.Repository,
	repoName, dir string,
	idx fileIndex,
	out *Output,
) error {
	report := s.parser.RepoIntel(filepath.Join(dir, repoName+suffixIntel))
	now := time.Now()

	contributors := make([]*intel.Contributor, 0, len(report.Contributors))
	for _, rc := range report.Contributors {
		files := make([]intel.FileRisk, 0, len(rc.Files))
		for _, path := range rc.Files {
			entry := idx[path]
			files = append(files, intel.FileRisk{
				Path:          path,
				Severity:      entry.severity,
				FindingsCount: entry.count,
			})
		}
		contributors = append(contributors, &intel.Contributor{
			ID:               shared.NewID(),
			RepositoryID:     repository.ID,
			Name:             rc.Name,
			Email:            rc.Email,
			Commits:          rc.Commits,
			FilesContributed: files,
			RiskScore:        intel.RiskScore(files),
			CreatedAt:        now,
		})
	}

	if err := s.intel.ReplaceContributors(ctx, repository.ID, contributors); err != nil {
		return fmt.Errorf("failed to replace contributors: %w", err)
	}
	out.Contributors = len(contributors)
	out.BusFactor = intel.BusFactor(contributors)

	stats := languageStats(repository, report.Languages, now)
	if err := s.intel.ReplaceLanguages(ctx, repository.ID, stats); err != nil {
		return fmt.Errorf("failed to replace language stats: %w", err)
	}
	out.Languages = len(stats)
	return nil
}

// languageStats turns the raw byte counts into ordered percentage rows.
func languageStats(repository *repo.Repository, languages map[string]int64, now time.Time) []*intel.LanguageStat {
	var total int64
	for _, bytes := range languages {
		total += bytes
	}

	stats := make([]*intel.LanguageStat, 0, len(languages))
	for language, bytes := range languages {
		var pct float64
		if total > 0 {
			pct = float64(bytes) / float64(total) * 100
		}
		stats = append(stats, &intel.LanguageStat{
			ID:           shared.NewID(),
			RepositoryID: repository.ID,
			Language:     language,
			Bytes:        bytes,
			Percentage:   pct,
			CreatedAt:    now,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Bytes != stats[j].Bytes {
			return stats[i].Bytes > stats[j].Bytes
		}
		return stats[i].Language < stats[j].Language
	})
	return stats
}
