package intel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/repolens/ingest/pkg/domain/finding"
)

func TestRiskScore(t *testing.T) {
	tests := []struct {
		name     string
		files    []FileRisk
		expected int
	}{
		{"no files", nil, 0},
		{"single low", []FileRisk{{Severity: finding.SeverityLow}}, 1},
		{
			"two critical one high",
			[]FileRisk{
				{Severity: finding.SeverityCritical},
				{Severity: finding.SeverityCritical},
				{Severity: finding.SeverityHigh},
			},
			65,
		},
		{
			"capped at 100",
			[]FileRisk{
				{Severity: finding.SeverityCritical},
				{Severity: finding.SeverityCritical},
				{Severity: finding.SeverityCritical},
				{Severity: finding.SeverityCritical},
				{Severity: finding.SeverityCritical},
			},
			100,
		},
		{
			"unknown severity contributes nothing",
			[]FileRisk{{Severity: finding.SeverityInfo}, {Severity: ""}},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RiskScore(tt.files))
		})
	}
}

func TestBusFactor(t *testing.T) {
	mk := func(commits ...int) []*Contributor {
		out := make([]*Contributor, len(commits))
		for i, c := range commits {
			out[i] = &Contributor{Commits: c}
		}
		return out
	}

	tests := []struct {
		name     string
		commits  []*Contributor
		expected int
	}{
		{"empty team", nil, 0},
		{"single contributor", mk(10), 1},
		{"dominant contributor", mk(70, 30), 1},
		{"even split needs two", mk(40, 30, 30), 2},
		{"exact half counts", mk(50, 25, 25), 1},
		{"all zero commits", mk(0, 0, 0), 1},
		{"unsorted input", mk(10, 80, 10), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BusFactor(tt.commits))
		})
	}
}
