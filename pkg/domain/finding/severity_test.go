package finding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/repolens/ingest/pkg/domain/shared"
)

func TestNormalizeSemgrep(t *testing.T) {
	tests := []struct {
		native   string
		expected Severity
	}{
		{"ERROR", SeverityHigh},
		{"WARNING", SeverityMedium},
		{"INFO", SeverityLow},
		{"error", SeverityHigh},
		{"warning", SeverityMedium},
		{"", SeverityLow},
		{"CRITICAL", SeverityLow},
		{"bogus", SeverityLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeSemgrep(tt.native), "native=%q", tt.native)
	}
}

func TestNormalizePassthrough(t *testing.T) {
	tests := []struct {
		native   string
		fallback Severity
		expected Severity
	}{
		{"CRITICAL", TrivyDefaultSeverity, SeverityCritical},
		{"High", TrivyDefaultSeverity, SeverityHigh},
		{"medium", GrypeDefaultSeverity, SeverityMedium},
		{"low", NucleiDefaultSeverity, SeverityLow},
		{"info", NucleiDefaultSeverity, SeverityInfo},
		{" high ", RetireJSDefaultSeverity, SeverityHigh},
		{"", TrivyDefaultSeverity, SeverityMedium},
		{"", NucleiDefaultSeverity, SeverityLow},
		{"negligible", GrypeDefaultSeverity, SeverityMedium},
		{"UNKNOWN", RetireJSDefaultSeverity, SeverityMedium},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizePassthrough(tt.native, tt.fallback),
			"native=%q fallback=%q", tt.native, tt.fallback)
	}
}

func TestSeverityRankOrdering(t *testing.T) {
	ordered := []Severity{SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, ordered[i].Rank(), ordered[i-1].Rank())
	}
	assert.Equal(t, 0, Severity("bogus").Rank())
}

// TestSecretSeverity covers the full verdict precedence: a definite verdict
// wins over the scanner's own verification flag.
func TestSecretSeverity(t *testing.T) {
	active := true
	inactive := false

	tests := []struct {
		name     string
		verdict  *bool
		verified bool
		expected Severity
	}{
		{"validated active", &active, false, SeverityCritical},
		{"validated active and verified", &active, true, SeverityCritical},
		{"validated inactive", &inactive, false, SeverityLow},
		{"validated inactive overrides verified", &inactive, true, SeverityLow},
		{"unknown but scanner verified", nil, true, SeverityCritical},
		{"unknown and unverified", nil, false, SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SecretSeverity(tt.verdict, tt.verified))
		})
	}
}

func TestTruncateSnippet(t *testing.T) {
	short := "aws_secret = AKIA..."
	assert.Equal(t, short, TruncateSnippet(short))

	exact := strings.Repeat("x", MaxSnippetLen)
	assert.Equal(t, exact, TruncateSnippet(exact))

	long := strings.Repeat("y", MaxSnippetLen+50)
	got := TruncateSnippet(long)
	assert.Equal(t, strings.Repeat("y", MaxSnippetLen)+"...", got)

	// Truncation counts runes, not bytes.
	wide := strings.Repeat("ü", MaxSnippetLen+1)
	assert.Equal(t, strings.Repeat("ü", MaxSnippetLen)+"...", TruncateSnippet(wide))
}

func TestFromDraftTruncatesAndDropsSecret(t *testing.T) {
	d := Draft{
		Scanner:             ScannerTrufflehog,
		Type:                TypeSecret,
		Severity:            SeverityMedium,
		Title:               "AWS secret detected",
		CodeSnippet:         strings.Repeat("s", 500),
		DetectorName:        "AWS",
		SecretValue:         strings.Repeat("s", 500),
		IsVerifiedByScanner: true,
	}

	f := FromDraft(shared.NewID(), shared.NewID(), d)

	assert.Len(t, []rune(f.CodeSnippet), MaxSnippetLen+3)
	assert.Equal(t, StatusOpen, f.Status)
	assert.True(t, f.IsVerifiedByScanner)
	assert.Nil(t, f.IsValidatedActive)
	assert.False(t, f.CreatedAt.IsZero())
}
