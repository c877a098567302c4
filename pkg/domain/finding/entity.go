// Package finding defines the canonical security finding and its
// severity-normalization rules.
package finding

import (
	"time"

	"github.com/repolens/ingest/pkg/domain/shared"
)

// Scanner identifies the tool a finding originated from.
type Scanner string

const (
	ScannerGitleaks   Scanner = "gitleaks"
	ScannerSemgrep    Scanner = "semgrep"
	ScannerTrivyFS    Scanner = "trivy-fs"
	ScannerCheckov    Scanner = "checkov"
	ScannerTrufflehog Scanner = "trufflehog"
	ScannerGrype      Scanner = "grype"
	ScannerNuclei     Scanner = "nuclei"
	ScannerRetireJS   Scanner = "retirejs"
	ScannerOSSGadget  Scanner = "ossgadget"
)

// Type classifies what a finding is about.
type Type string

const (
	TypeSecret        Type = "secret"
	TypeSAST          Type = "sast"
	TypeVulnerability Type = "vulnerability"
	TypeIAC           Type = "iac"
	TypeOSS           Type = "oss"
	TypeDAST          Type = "dast"
	TypeMalware       Type = "malware"
)

// StatusOpen is the default status of a newly ingested finding.
const StatusOpen = "open"

// MaxSnippetLen bounds any persisted code snippet. Raw secret values are
// never stored in full.
const MaxSnippetLen = 200

// Draft is the parser output: a canonical finding before it is bound to a
// repository and scan run. SecretValue is consumed by activity validation and
// is never persisted.
type Draft struct {
	Scanner     Scanner
	Type        Type
	Severity    Severity
	Title       string
	Description string
	FilePath    string
	LineStart   int
	LineEnd     int
	CodeSnippet string

	// Secret-specific fields.
	DetectorName        string
	SecretValue         string
	IsVerifiedByScanner bool
}

// Finding is one normalized security observation tied to a repository and a
// scan run. Findings are append-only per scan run; only the corrective sweep
// mutates severity/validation fields afterward.
type Finding struct {
	ID           shared.ID
	RepositoryID shared.ID
	ScanRunID    shared.ID

	Scanner     Scanner
	Type        Type
	Severity    Severity
	Title       string
	Description string
	FilePath    string
	LineStart   int
	LineEnd     int
	CodeSnippet string
	Status      string

	// Secret validation state.
	DetectorName        string
	IsVerifiedByScanner bool
	IsValidatedActive   *bool
	ValidationMessage   string
	ValidatedAt         *time.Time

	CreatedAt time.Time
}

// FromDraft binds a draft to its repository and scan run, truncating the
// snippet and applying defaults. The draft's SecretValue is dropped here.
func FromDraft(repositoryID, scanRunID shared.ID, d Draft) *Finding {
	return &Finding{
		ID:                  shared.NewID(),
		RepositoryID:        repositoryID,
		ScanRunID:           scanRunID,
		Scanner:             d.Scanner,
		Type:                d.Type,
		Severity:            d.Severity,
		Title:               d.Title,
		Description:         d.Description,
		FilePath:            d.FilePath,
		LineStart:           d.LineStart,
		LineEnd:             d.LineEnd,
		CodeSnippet:         TruncateSnippet(d.CodeSnippet),
		Status:              StatusOpen,
		DetectorName:        d.DetectorName,
		IsVerifiedByScanner: d.IsVerifiedByScanner,
		CreatedAt:           time.Now(),
	}
}

// SetValidation records a secret-activity verdict on the finding.
func (f *Finding) SetValidation(active *bool, message string, at time.Time) {
	f.IsValidatedActive = active
	f.ValidationMessage = message
	f.ValidatedAt = &at
}

// TruncateSnippet bounds a snippet to MaxSnippetLen runes, appending an
// ellipsis marker when cut.
func TruncateSnippet(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxSnippetLen {
		return s
	}
	return string(runes[:MaxSnippetLen]) + "..."
}
