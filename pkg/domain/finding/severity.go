package finding

import "strings"

// Severity is the canonical 5-level severity scale. All scanner-native
// vocabularies are normalized into it; the API layer requires lower-case
// canonical values only.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// IsValid checks if the severity is a canonical value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return true
	default:
		return false
	}
}

// Rank orders severities for sorting, critical highest.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 5
	case SeverityHigh:
		return 4
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// semgrepSeverities maps semgrep's native vocabulary onto the canonical scale.
var semgrepSeverities = map[string]Severity{
	"ERROR":   SeverityHigh,
	"WARNING": SeverityMedium,
	"INFO":    SeverityLow,
}

// NormalizeSemgrep maps a semgrep severity (ERROR/WARNING/INFO) to canonical.
// Unknown values fall back to low.
func NormalizeSemgrep(native string) Severity {
	if s, ok := semgrepSeverities[strings.ToUpper(native)]; ok {
		return s
	}
	return SeverityLow
}

// NormalizePassthrough lower-cases a severity that already uses the canonical
// vocabulary (trivy, grype, nuclei, retire.js). Unknown or missing values fall
// back to the given scanner default, never to an error.
func NormalizePassthrough(native string, fallback Severity) Severity {
	s := Severity(strings.ToLower(strings.TrimSpace(native)))
	if s.IsValid() {
		return s
	}
	return fallback
}

// Fixed severities for scanners without a usable native scale.
const (
	// Checkov policy failures carry no severity in the report.
	CheckovSeverity = SeverityMedium
	// OSS Gadget malware detections are always treated as high.
	OSSGadgetSeverity = SeverityHigh
	// Gitleaks matches are potential live secrets until proven otherwise.
	GitleaksSeverity = SeverityCritical
)

// Per-scanner passthrough defaults.
const (
	TrivyDefaultSeverity    = SeverityMedium
	GrypeDefaultSeverity    = SeverityMedium
	NucleiDefaultSeverity   = SeverityLow
	RetireJSDefaultSeverity = SeverityMedium
)

// SecretSeverity assigns the stored severity for a secret finding from its
// validation verdict and the scanner's own verification flag, in this exact
// precedence:
//
//  1. validated active            -> critical
//  2. validated inactive          -> low
//  3. unknown + scanner verified  -> critical
//  4. otherwise                   -> medium
func SecretSeverity(validatedActive *bool, verifiedByScanner bool) Severity {
	switch {
	case validatedActive != nil && *validatedActive:
		return SeverityCritical
	case validatedActive != nil && !*validatedActive:
		return SeverityLow
	case verifiedByScanner:
		return SeverityCritical
	default:
		return SeverityMedium
	}
}
