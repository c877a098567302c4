package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/repolens/ingest/internal/app/secrets"
	"github.com/repolens/ingest/internal/config"
	"github.com/repolens/ingest/internal/metrics"
	"github.com/repolens/ingest/pkg/domain/finding"
	"github.com/repolens/ingest/pkg/domain/intel"
	"github.com/repolens/ingest/pkg/domain/repo"
	"github.com/repolens/ingest/pkg/domain/scanrun"
	"github.com/repolens/ingest/pkg/logger"
	"github.com/repolens/ingest/pkg/parsers/reports"
)

// Service ingests one repository's report directory: parse, normalize,
// validate secrets, persist findings, then replace the snapshot aggregates.
type Service struct {
	cfg       *config.Config
	repos     repo.Store
	runs      scanrun.Store
	findings  finding.Store
	intel     intel.Store
	parser    *reports.Parser
	validator *secrets.Validator
	logger    *logger.Logger
}

// NewService creates a new ingestion service.
func NewService(
	cfg *config.Config,
	repos repo.Store,
	runs scanrun.Store,
	findings finding.Store,
	intelStore intel.Store,
	parser *reports.Parser,
	validator *secrets.Validator,
	log *logger.Logger,
) *Service {
	return &Service{
		cfg:       cfg,
		repos:     repos,
		runs:      runs,
		findings:  findings,
		intel:     intelStore,
		parser:    parser,
		validator: validator,
		logger:    log.With("service", "ingest"),
	}
}

// scannerJob binds a scanner to its report parser. Jobs run sequentially in
// this fixed order; each commits its own batch unless the run is atomic.
type scannerJob struct {
	scanner finding.Scanner
	parse   func() []finding.Draft
}

func (s *Service) scannerJobs(dir, repoName string) []scannerJob {
	path := func(suffix string) string {
		return filepath.Join(dir, repoName+suffix)
	}
	drafts := func(fn func(string) ([]finding.Draft, int), suffix string) func() []finding.Draft {
		return func() []finding.Draft {
			d, _ := fn(path(suffix))
			return d
		}
	}

	return []scannerJob{
		{finding.ScannerGitleaks, drafts(s.parser.Gitleaks, suffixGitleaks)},
		{finding.ScannerSemgrep, drafts(s.parser.Semgrep, suffixSemgrep)},
		{finding.ScannerTrivyFS, drafts(s.parser.TrivyFS, suffixTrivyFS)},
		{finding.ScannerCheckov, drafts(s.parser.Checkov, suffixCheckov)},
		{finding.ScannerTrufflehog, func() []finding.Draft {
			d, _ := s.parser.Trufflehog(path(suffixTrufflehog), repoName)
			return d
		}},
		{finding.ScannerGrype, drafts(s.parser.Grype, suffixGrype)},
		{finding.ScannerNuclei, drafts(s.parser.Nuclei, suffixNuclei)},
		{finding.ScannerRetireJS, drafts(s.parser.RetireJS, suffixRetireJS)},
		{finding.ScannerOSSGadget, drafts(s.parser.OSSGadget, suffixOSSGadget)},
	}
}

// Run ingests the report directory for one repository. The repository is
// created on first reference; findings are appended under a fresh scan run.
func (s *Service) Run(ctx context.Context, repoName, dir string) (*Output, error) {
	start := time.Now()
	log := s.logger.With("repository", repoName)
	log.Info("starting ingestion", "dir", dir)

	repository, err := s.upsertRepository(ctx, repoName)
	if err != nil {
		return nil, err
	}

	run, err := scanrun.New(repository.ID, s.cfg.Ingest.ScanType)
	if err != nil {
		return nil, err
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create scan run: %w", err)
	}

	out := &Output{
		RepositoryID: repository.ID,
		ScanRunID:    run.ID,
		ByScanner:    make(map[finding.Scanner]int),
	}

	persisted, err := s.ingestFindings(ctx, repository, run, repoName, dir, out)
	if err != nil {
		s.failRun(ctx, run, err, out, start)
		return out, err
	}

	if err := s.loadSnapshots(ctx, repository, repoName, dir, buildFileIndex(persisted), out); err != nil {
		s.failRun(ctx, run, err, out, start)
		return out, err
	}

	count, err := s.findings.CountByScanRun(ctx, run.ID)
	if err != nil {
		s.failRun(ctx, run, err, out, start)
		return out, err
	}
	out.FindingsCount = count

	repository.MarkScanned(out.BusFactor, time.Now())
	if err := s.repos.UpdateScanState(ctx, repository); err != nil {
		s.failRun(ctx, run, err, out, start)
		return out, err
	}

	if err := run.Complete(count); err != nil {
		return out, err
	}
	if err := s.runs.Update(ctx, run); err != nil {
		err = fmt.Errorf("failed to complete scan run: %w", err)
		s.failRun(ctx, run, err, out, start)
		return out, err
	}

	out.Duration = time.Since(start)
	metrics.ScanRuns.WithLabelValues(string(scanrun.StatusCompleted)).Inc()
	metrics.ScanRunDuration.Observe(out.Duration.Seconds())
	log.Info("ingestion completed",
		"scan_run_id", run.ID.String(),
		"findings", count,
		"dependencies", out.Dependencies,
		"contributors", out.Contributors,
		"duration", out.Duration.String(),
	)
	return out, nil
}

// upsertRepository resolves the repository by name, creating it on first
// reference.
func (s *Service) upsertRepository(ctx context.Context, repoName string) (*repo.Repository, error) {
	repository, err := repo.New(repoName, "", "")
	if err != nil {
		return nil, err
	}
	persisted, err := s.repos.Upsert(ctx, repository)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert repository: %w", err)
	}
	return persisted, nil
}

// ingestFindings runs every scanner job and persists its batch. In
// per-scanner mode a batch failure is isolated: it is logged, recorded on
// the output and the remaining scanners still run. In atomic mode all
// batches are persisted as one unit at the end.
func (s *Service) ingestFindings(
	ctx context.Context,
	repository *repo.Repository,
	run *scanrun.ScanRun,
	repoName, dir string,
	out *Output,
) ([]*finding.Finding, error) {
	var persisted []*finding.Finding
	var atomicBatch []*finding.Finding

	for _, job := range s.scannerJobs(dir, repoName) {
		drafts := job.parse()
		if len(drafts) == 0 {
			continue
		}

		batch := make([]*finding.Finding, 0, len(drafts))
		for _, d := range drafts {
			f := finding.FromDraft(repository.ID, run.ID, d)
			if d.Type == finding.TypeSecret && job.scanner == finding.ScannerTrufflehog {
				s.validateSecret(ctx, f, d)
			}
			batch = append(batch, f)
		}

		if s.cfg.Ingest.Atomic {
			atomicBatch = append(atomicBatch, batch...)
			out.ByScanner[job.scanner] = len(batch)
			continue
		}

		if err := s.findings.CreateBatch(ctx, batch); err != nil {
			s.logger.Error("failed to persist scanner batch",
				"repository", repoName,
				"scanner", string(job.scanner),
				"error", err,
			)
			out.FailedScanners = append(out.FailedScanners, string(job.scanner))
			continue
		}

		out.ByScanner[job.scanner] = len(batch)
		metrics.FindingsIngested.WithLabelValues(string(job.scanner)).Add(float64(len(batch)))
		persisted = append(persisted, batch...)
	}

	if s.cfg.Ingest.Atomic {
		if err := s.findings.CreateBatch(ctx, atomicBatch); err != nil {
			return nil, fmt.Errorf("failed to persist findings atomically: %w", err)
		}
		for scanner, n := range out.ByScanner {
			metrics.FindingsIngested.WithLabelValues(string(scanner)).Add(float64(n))
		}
		persisted = atomicBatch
	}

	return persisted, nil
}

// validateSecret runs activity validation on a secret draft and assigns the
// finding its final severity from the verdict.
func (s *Service) validateSecret(ctx context.Context, f *finding.Finding, d finding.Draft) {
	verdict := s.validator.Validate(ctx, d.DetectorName, d.SecretValue)
	metrics.SecretValidations.WithLabelValues(verdictLabel(verdict)).Inc()

	f.SetValidation(verdict.Active, verdict.Message, time.Now())
	f.Severity = finding.SecretSeverity(verdict.Active, d.IsVerifiedByScanner)
}

func verdictLabel(v secrets.Verdict) string {
	switch {
	case v.Active == nil:
		return "unknown"
	case *v.Active:
		return "active"
	default:
		return "inactive"
	}
}

// failRun marks the scan run failed, best effort.
func (s *Service) failRun(ctx context.Context, run *scanrun.ScanRun, cause error, out *Output, start time.Time) {
	out.Duration = time.Since(start)
	metrics.ScanRuns.WithLabelValues(string(scanrun.StatusFailed)).Inc()
	metrics.ScanRunDuration.Observe(out.Duration.Seconds())

	if err := run.Fail(cause.Error()); err != nil {
		// The local entity is already terminal when the completing update
		// itself failed; re-read the persisted row, still running, and fail
		// that instead so the database never keeps a stuck run.
		fresh, getErr := s.runs.GetByID(ctx, run.ID)
		if getErr != nil {
			s.logger.Error("failed to reload scan run for failure", "scan_run_id", run.ID.String(), "error", getErr)
			return
		}
		if failErr := fresh.Fail(cause.Error()); failErr != nil {
			s.logger.Error("failed to mark scan run failed", "scan_run_id", run.ID.String(), "error", failErr)
			return
		}
		run = fresh
	}
	if err := s.runs.Update(ctx, run); err != nil {
		s.logger.Error("failed to persist failed scan run", "scan_run_id", run.ID.String(), "error", err)
	}
}
