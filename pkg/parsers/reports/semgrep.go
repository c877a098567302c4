package reports

import (
	"encoding/json"

	"github.com/repolens/ingest/pkg/domain/finding"
)

type semgrepReport struct {
	Results []struct {
		CheckID string `json:"check_id"`
		Path    string `json:"path"`
		Start   struct {
			Line int `json:"line"`
		} `json:"start"`
		End struct {
			Line int `json:"line"`
		} `json:"end"`
		Extra struct {
			Message  string `json:"message"`
			Severity string `json:"severity"`
			Lines    string `json:"lines"`
		} `json:"extra"`
	} `json:"results"`
}

// Semgrep parses a semgrep JSON report (top-level results list).
func (p *Parser) Semgrep(path string) ([]finding.Draft, int) {
	data, ok := p.readReport(path)
	if !ok {
		return nil, 0
	}

	var report semgrepReport
	if err := json.Unmarshal(data, &report); err != nil {
		p.fail(string(finding.ScannerSemgrep), path, err)
		return nil, 0
	}

	drafts := make([]finding.Draft, 0, len(report.Results))
	for _, r := range report.Results {
		drafts = append(drafts, finding.Draft{
			Scanner:     finding.ScannerSemgrep,
			Type:        finding.TypeSAST,
			Severity:    finding.NormalizeSemgrep(r.Extra.Severity),
			Title:       r.CheckID,
			Description: r.Extra.Message,
			FilePath:    r.Path,
			LineStart:   r.Start.Line,
			LineEnd:     r.End.Line,
			CodeSnippet: r.Extra.Lines,
		})
	}
	return drafts, len(drafts)
}
