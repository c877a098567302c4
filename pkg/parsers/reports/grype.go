package reports

import (
	"encoding/json"
	"fmt"

	"github.com/repolens/ingest/pkg/domain/finding"
)

type grypeReport struct {
	Matches []struct {
		Vulnerability struct {
			ID          string `json:"id"`
			Severity    string `json:"severity"`
			Description string `json:"description"`
		} `json:"vulnerability"`
		Artifact struct {
			Name      string `json:"name"`
			Version   string `json:"version"`
			Locations []struct {
				Path string `json:"path"`
			} `json:"locations"`
		} `json:"artifact"`
	} `json:"matches"`
}

// Grype parses a grype report (top-level matches list) into OSS
// vulnerability drafts.
func (p *Parser) Grype(path string) ([]finding.Draft, int) {
	data, ok := p.readReport(path)
	if !ok {
		return nil, 0
	}

	var report grypeReport
	if err := json.Unmarshal(data, &report); err != nil {
		p.fail(string(finding.ScannerGrype), path, err)
		return nil, 0
	}

	drafts := make([]finding.Draft, 0, len(report.Matches))
	for _, m := range report.Matches {
		filePath := ""
		if len(m.Artifact.Locations) > 0 {
			filePath = m.Artifact.Locations[0].Path
		}
		drafts = append(drafts, finding.Draft{
			Scanner:     finding.ScannerGrype,
			Type:        finding.TypeOSS,
			Severity:    finding.NormalizePassthrough(m.Vulnerability.Severity, finding.GrypeDefaultSeverity),
			Title:       fmt.Sprintf("%s in %s %s", m.Vulnerability.ID, m.Artifact.Name, m.Artifact.Version),
			Description: m.Vulnerability.Description,
			FilePath:    filePath,
		})
	}
	return drafts, len(drafts)
}
