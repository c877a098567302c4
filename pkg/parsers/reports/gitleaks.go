package reports

import (
	"encoding/json"
	"fmt"

	"github.com/repolens/ingest/pkg/domain/finding"
)

type gitleaksEntry struct {
	RuleID      string `json:"RuleID"`
	Description string `json:"Description"`
	File        string `json:"File"`
	StartLine   int    `json:"StartLine"`
	EndLine     int    `json:"EndLine"`
	Secret      string `json:"Secret"`
}

// Gitleaks parses a gitleaks report: a flat list of leak entries that map
// one-to-one onto secret drafts.
func (p *Parser) Gitleaks(path string) ([]finding.Draft, int) {
	data, ok := p.readReport(path)
	if !ok {
		return nil, 0
	}

	var entries []gitleaksEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		p.fail(string(finding.ScannerGitleaks), path, err)
		return nil, 0
	}

	drafts := make([]finding.Draft, 0, len(entries))
	for _, e := range entries {
		drafts = append(drafts, finding.Draft{
			Scanner:      finding.ScannerGitleaks,
			Type:         finding.TypeSecret,
			Severity:     finding.GitleaksSeverity,
			Title:        firstNonEmpty(e.Description, e.RuleID),
			Description:  fmt.Sprintf("Gitleaks rule %s matched in %s", e.RuleID, e.File),
			FilePath:     e.File,
			LineStart:    e.StartLine,
			LineEnd:      e.EndLine,
			CodeSnippet:  e.Secret,
			DetectorName: e.RuleID,
			SecretValue:  e.Secret,
		})
	}
	return drafts, len(drafts)
}
