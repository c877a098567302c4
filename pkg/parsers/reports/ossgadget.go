package reports

import (
	"encoding/json"

	"github.com/repolens/ingest/pkg/domain/finding"
)

type sarifLog struct {
	Runs []struct {
		Results []struct {
			RuleID  string `json:"ruleId"`
			Message struct {
				Text string `json:"text"`
			} `json:"message"`
			Locations []struct {
				PhysicalLocation struct {
					ArtifactLocation struct {
						URI string `json:"uri"`
					} `json:"artifactLocation"`
					Region struct {
						StartLine int `json:"startLine"`
					} `json:"region"`
				} `json:"physicalLocation"`
			} `json:"locations"`
		} `json:"results"`
	} `json:"runs"`
}

// OSSGadget parses an OSS Gadget SARIF log. All results are treated as
// malware findings at high severity.
func (p *Parser) OSSGadget(path string) ([]finding.Draft, int) {
	data, ok := p.readReport(path)
	if !ok {
		return nil, 0
	}

	var log sarifLog
	if err := json.Unmarshal(data, &log); err != nil {
		p.fail(string(finding.ScannerOSSGadget), path, err)
		return nil, 0
	}

	var drafts []finding.Draft
	for _, run := range log.Runs {
		for _, res := range run.Results {
			filePath := ""
			lineStart := 0
			if len(res.Locations) > 0 {
				filePath = res.Locations[0].PhysicalLocation.ArtifactLocation.URI
				lineStart = res.Locations[0].PhysicalLocation.Region.StartLine
			}
			drafts = append(drafts, finding.Draft{
				Scanner:     finding.ScannerOSSGadget,
				Type:        finding.TypeMalware,
				Severity:    finding.OSSGadgetSeverity,
				Title:       firstNonEmpty(res.RuleID, "OSS Gadget detection"),
				Description: res.Message.Text,
				FilePath:    filePath,
				LineStart:   lineStart,
				LineEnd:     lineStart,
			})
		}
	}
	return drafts, len(drafts)
}
