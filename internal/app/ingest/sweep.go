package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/repolens/ingest/internal/metrics"
	"github.com/repolens/ingest/pkg/domain/finding"
)

// Sweep applies corrective maintenance to the finding ledger: first it
// downgrades open critical secrets that lack positive verification, then it
// re-validates a bounded batch of open secrets, worst severity first. This
// is the only code path that mutates finding rows after ingestion.
func (s *Service) Sweep(ctx context.Context) (*SweepOutput, error) {
	out := &SweepOutput{}

	downgraded, err := s.findings.DowngradeUnverifiedCriticals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to downgrade unverified criticals: %w", err)
	}
	out.Downgraded = downgraded
	metrics.SweepDowngrades.Add(float64(downgraded))

	openSecrets, err := s.findings.ListOpenSecrets(ctx, s.cfg.Sweep.RevalidateLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list open secrets: %w", err)
	}

	for _, f := range openSecrets {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		// The raw secret is never stored; the snippet is the best
		// candidate left. A truncated snippet yields an unknown verdict.
		verdict := s.validator.Validate(ctx, f.DetectorName, f.CodeSnippet)
		out.Revalidated++
		metrics.SweepRevalidations.Inc()
		metrics.SecretValidations.WithLabelValues(verdictLabel(verdict)).Inc()

		f.SetValidation(verdict.Active, verdict.Message, time.Now())
		f.Severity = finding.SecretSeverity(verdict.Active, f.IsVerifiedByScanner)

		if err := s.findings.UpdateValidation(ctx, f); err != nil {
			s.logger.Error("failed to update finding validation",
				"finding_id", f.ID.String(),
				"error", err,
			)
			continue
		}
		out.Updated++
	}

	s.logger.Info("corrective sweep finished",
		"downgraded", out.Downgraded,
		"revalidated", out.Revalidated,
		"updated", out.Updated,
	)
	return out, nil
}
