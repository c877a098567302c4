package reports

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/repolens/ingest/pkg/domain/finding"
)

type retireFileEntry struct {
	File    string `json:"file"`
	Results []struct {
		Component       string `json:"component"`
		Version         string `json:"version"`
		Vulnerabilities []struct {
			Severity    string   `json:"severity"`
			Identifiers struct {
				Summary string `json:"summary"`
			} `json:"identifiers"`
			Info []string `json:"info"`
		} `json:"vulnerabilities"`
	} `json:"results"`
}

// RetireJS parses a retire.js report. The payload is either a list of file
// entries or a dict with a "data" key holding that list; elements that are
// neither objects nor decodable file entries are skipped.
func (p *Parser) RetireJS(path string) ([]finding.Draft, int) {
	data, ok := p.readReport(path)
	if !ok {
		return nil, 0
	}

	entries, ok := retirePayload(data)
	if !ok {
		p.fail(string(finding.ScannerRetireJS), path, nil)
		return nil, 0
	}

	var drafts []finding.Draft
	for _, raw := range entries {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			continue // non-dict elements are skipped
		}
		var entry retireFileEntry
		if err := json.Unmarshal(trimmed, &entry); err != nil {
			continue
		}
		for _, r := range entry.Results {
			for _, v := range r.Vulnerabilities {
				drafts = append(drafts, finding.Draft{
					Scanner:     finding.ScannerRetireJS,
					Type:        finding.TypeOSS,
					Severity:    finding.NormalizePassthrough(v.Severity, finding.RetireJSDefaultSeverity),
					Title:       firstNonEmpty(v.Identifiers.Summary, fmt.Sprintf("Vulnerable component %s %s", r.Component, r.Version)),
					Description: strings.Join(v.Info, "; "),
					FilePath:    entry.File,
					CodeSnippet: fmt.Sprintf("%s %s", r.Component, r.Version),
				})
			}
		}
	}
	return drafts, len(drafts)
}

// retirePayload extracts the file-entry list from either supported top-level
// shape.
func retirePayload(data []byte) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, false
	}

	if trimmed[0] == '[' {
		var entries []json.RawMessage
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, false
		}
		return entries, true
	}

	var wrapper struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, false
	}
	return wrapper.Data, true
}
