// Package ingest drives the ingestion of one repository's scanner reports
// into the finding ledger and snapshot tables.
package ingest

import (
	"time"

	"github.com/repolens/ingest/pkg/domain/finding"
	"github.com/repolens/ingest/pkg/domain/shared"
)

// Report file suffixes, appended to the repository name.
const (
	suffixGitleaks   = "_gitleaks.json"
	suffixSemgrep    = "_semgrep.json"
	suffixTrivyFS    = "_trivy_fs.json"
	suffixCheckov    = "_checkov.json"
	suffixTrufflehog = "_trufflehog.json"
	suffixGrype      = "_grype_repo.json"
	suffixNuclei     = "_nuclei.json"
	suffixRetireJS   = "_retire.json"
	suffixOSSGadget  = "_ossgadget.sarif"
	suffixSyftRepo   = "_syft_repo.json"
	suffixSyftImage  = "_syft_image.json"
	suffixIntel      = "_intel.json"
)

// Output summarizes one repository ingestion.
type Output struct {
	RepositoryID shared.ID
	ScanRunID    shared.ID

	FindingsCount int
	ByScanner     map[finding.Scanner]int

	// FailedScanners lists scanners whose batch could not be persisted.
	// Only populated in per-scanner commit mode; an atomic run fails whole.
	FailedScanners []string

	Dependencies int
	Contributors int
	Languages    int
	BusFactor    int

	Duration time.Duration
}

// BatchOutput summarizes a batch ingestion over a root directory.
type BatchOutput struct {
	Succeeded []string
	Failed    []string
	Outputs   map[string]*Output
}

// SweepOutput summarizes one corrective sweep pass.
type SweepOutput struct {
	Downgraded  int64
	Revalidated int
	Updated     int
}

// fileSeverity tracks the worst severity and finding count observed on one
// file during the current run. It feeds contributor risk scoring.
type fileSeverity struct {
	severity finding.Severity
	count    int
}

// fileIndex maps file paths to their aggregated finding severity.
type fileIndex map[string]fileSeverity

func buildFileIndex(findings []*finding.Finding) fileIndex {
	idx := make(fileIndex)
	for _, f := range findings {
		if f.FilePath == "" {
			continue
		}
		entry := idx[f.FilePath]
		entry.count++
		if f.Severity.Rank() > entry.severity.Rank() {
			entry.severity = f.Severity
		}
		idx[f.FilePath] = entry
	}
	return idx
}
