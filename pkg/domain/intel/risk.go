package intel

import (
	"sort"

	"github.com/repolens/ingest/pkg/domain/finding"
)

// severityWeights drive the contributor risk score. Severities outside the
// table contribute nothing.
var severityWeights = map[finding.Severity]int{
	finding.SeverityCritical: 25,
	finding.SeverityHigh:     15,
	finding.SeverityMedium:   5,
	finding.SeverityLow:      1,
}

// MaxRiskScore caps the contributor risk score.
const MaxRiskScore = 100

// RiskScore computes min(100, sum of per-file severity weights).
func RiskScore(files []FileRisk) int {
	score := 0
	for _, f := range files {
		score += severityWeights[f.Severity]
	}
	if score > MaxRiskScore {
		return MaxRiskScore
	}
	return score
}

// BusFactor returns the minimum number of top contributors (by commit count)
// whose combined commits reach at least half of all commits. It is at least
// 1 when any contributor exists, and 0 for an empty team.
func BusFactor(contributors []*Contributor) int {
	if len(contributors) == 0 {
		return 0
	}

	commits := make([]int, len(contributors))
	total := 0
	for i, c := range contributors {
		commits[i] = c.Commits
		total += c.Commits
	}
	if total == 0 {
		return 1
	}

	sort.Sort(sort.Reverse(sort.IntSlice(commits)))

	running := 0
	for i, c := range commits {
		running += c
		if running*2 >= total {
			return i + 1
		}
	}
	return len(commits)
}
