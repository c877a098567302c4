package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// RunBatch ingests every repository subdirectory under rootDir sequentially.
// One repository's failure marks its scan run failed and the batch moves on.
func (s *Service) RunBatch(ctx context.Context, rootDir string) (*BatchOutput, error) {
	entries, err := os.ReadDir(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch root: %w", err)
	}

	out := &BatchOutput{Outputs: make(map[string]*Output)}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}

		repoName := entry.Name()
		runOut, err := s.Run(ctx, repoName, filepath.Join(rootDir, repoName))
		if err != nil {
			s.logger.Error("repository ingestion failed", "repository", repoName, "error", err)
			out.Failed = append(out.Failed, repoName)
			continue
		}
		out.Succeeded = append(out.Succeeded, repoName)
		out.Outputs[repoName] = runOut
	}

	s.logger.Info("batch ingestion finished",
		"root", rootDir,
		"succeeded", len(out.Succeeded),
		"failed", len(out.Failed),
	)
	return out, nil
}
