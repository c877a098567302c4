package reports

import (
	"encoding/json"
	"strings"

	"github.com/repolens/ingest/pkg/domain/finding"
)

type nucleiEntry struct {
	TemplateID       string   `json:"template-id"`
	MatchedAt        string   `json:"matched-at"`
	MatcherName      string   `json:"matcher-name"`
	ExtractedResults []string `json:"extracted-results"`
	Info             struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Severity    string `json:"severity"`
	} `json:"info"`
}

// Nuclei parses a nuclei report: a list of template match entries. All
// drafts are dynamic-scan findings.
func (p *Parser) Nuclei(path string) ([]finding.Draft, int) {
	data, ok := p.readReport(path)
	if !ok {
		return nil, 0
	}

	var entries []nucleiEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		p.fail(string(finding.ScannerNuclei), path, err)
		return nil, 0
	}

	drafts := make([]finding.Draft, 0, len(entries))
	for _, e := range entries {
		snippet := e.MatcherName
		if len(e.ExtractedResults) > 0 {
			snippet = strings.Join(e.ExtractedResults, ", ")
		}
		drafts = append(drafts, finding.Draft{
			Scanner:     finding.ScannerNuclei,
			Type:        finding.TypeDAST,
			Severity:    finding.NormalizePassthrough(e.Info.Severity, finding.NucleiDefaultSeverity),
			Title:       firstNonEmpty(e.Info.Name, e.TemplateID),
			Description: e.Info.Description,
			FilePath:    e.MatchedAt,
			CodeSnippet: snippet,
		})
	}
	return drafts, len(drafts)
}
