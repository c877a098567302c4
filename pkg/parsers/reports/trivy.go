package reports

import (
	"encoding/json"
	"fmt"

	"github.com/repolens/ingest/pkg/domain/finding"
)

type trivyReport struct {
	Results []struct {
		Target          string `json:"Target"`
		Vulnerabilities []struct {
			VulnerabilityID  string `json:"VulnerabilityID"`
			Title            string `json:"Title"`
			Description      string `json:"Description"`
			Severity         string `json:"Severity"`
			PkgName          string `json:"PkgName"`
			InstalledVersion string `json:"InstalledVersion"`
		} `json:"Vulnerabilities"`
		Misconfigurations []struct {
			ID          string `json:"ID"`
			Title       string `json:"Title"`
			Message     string `json:"Message"`
			Severity    string `json:"Severity"`
			IacMetadata struct {
				StartLine int `json:"StartLine"`
				EndLine   int `json:"EndLine"`
			} `json:"IacMetadata"`
		} `json:"Misconfigurations"`
	} `json:"Results"`
}

// TrivyFS parses a trivy filesystem report. Each result target contributes
// two independent sub-lists: package vulnerabilities and IaC
// misconfigurations.
func (p *Parser) TrivyFS(path string) ([]finding.Draft, int) {
	data, ok := p.readReport(path)
	if !ok {
		return nil, 0
	}

	var report trivyReport
	if err := json.Unmarshal(data, &report); err != nil {
		p.fail(string(finding.ScannerTrivyFS), path, err)
		return nil, 0
	}

	var drafts []finding.Draft
	for _, res := range report.Results {
		for _, v := range res.Vulnerabilities {
			title := firstNonEmpty(v.Title, v.VulnerabilityID)
			drafts = append(drafts, finding.Draft{
				Scanner:     finding.ScannerTrivyFS,
				Type:        finding.TypeVulnerability,
				Severity:    finding.NormalizePassthrough(v.Severity, finding.TrivyDefaultSeverity),
				Title:       title,
				Description: firstNonEmpty(v.Description, fmt.Sprintf("%s in %s %s", v.VulnerabilityID, v.PkgName, v.InstalledVersion)),
				FilePath:    res.Target,
				CodeSnippet: fmt.Sprintf("%s %s (%s)", v.PkgName, v.InstalledVersion, v.VulnerabilityID),
			})
		}
		for _, m := range res.Misconfigurations {
			drafts = append(drafts, finding.Draft{
				Scanner:     finding.ScannerTrivyFS,
				Type:        finding.TypeIAC,
				Severity:    finding.NormalizePassthrough(m.Severity, finding.TrivyDefaultSeverity),
				Title:       firstNonEmpty(m.Title, m.ID),
				Description: m.Message,
				FilePath:    res.Target,
				LineStart:   m.IacMetadata.StartLine,
				LineEnd:     m.IacMetadata.EndLine,
			})
		}
	}
	return drafts, len(drafts)
}
