package reports

import (
	"encoding/json"

	"github.com/repolens/ingest/pkg/domain/finding"
)

type checkovFramework struct {
	CheckType string `json:"check_type"`
	Results   struct {
		FailedChecks []struct {
			CheckID       string `json:"check_id"`
			CheckName     string `json:"check_name"`
			FilePath      string `json:"file_path"`
			FileLineRange []int  `json:"file_line_range"`
		} `json:"failed_checks"`
	} `json:"results"`
}

// Checkov parses a checkov report. The top-level payload is either a single
// framework object or a list of per-framework objects; both are normalized
// to a list before extracting failed checks.
func (p *Parser) Checkov(path string) ([]finding.Draft, int) {
	data, ok := p.readReport(path)
	if !ok {
		return nil, 0
	}

	elems, ok := decodeObjectOrArray(data)
	if !ok {
		p.fail(string(finding.ScannerCheckov), path, nil)
		return nil, 0
	}

	var drafts []finding.Draft
	for _, raw := range elems {
		var fw checkovFramework
		if err := json.Unmarshal(raw, &fw); err != nil {
			p.log.Warn("skipping malformed checkov framework entry", "path", path, "error", err)
			continue
		}
		for _, c := range fw.Results.FailedChecks {
			lineStart, lineEnd := 0, 0
			if len(c.FileLineRange) >= 2 {
				lineStart, lineEnd = c.FileLineRange[0], c.FileLineRange[1]
			}
			drafts = append(drafts, finding.Draft{
				Scanner:     finding.ScannerCheckov,
				Type:        finding.TypeIAC,
				Severity:    finding.CheckovSeverity,
				Title:       firstNonEmpty(c.CheckName, c.CheckID),
				Description: c.CheckID,
				FilePath:    c.FilePath,
				LineStart:   lineStart,
				LineEnd:     lineEnd,
			})
		}
	}
	return drafts, len(drafts)
}
