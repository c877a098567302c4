package reports

import (
	"encoding/json"
)

// IntelContributor is one top contributor as reported by the intel feed.
type IntelContributor struct {
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Commits int      `json:"commits"`
	Files   []string `json:"files"`
}

// IntelReport holds the contributor and language data extracted from an
// _intel.json file.
type IntelReport struct {
	Contributors []IntelContributor
	Languages    map[string]int64
}

type intelPayload struct {
	Contributors struct {
		TopContributors []IntelContributor `json:"top_contributors"`
	} `json:"contributors"`
	Languages map[string]int64 `json:"languages"`
}

// RepoIntel parses an _intel.json file. A missing or malformed file yields
// an empty report.
func (p *Parser) RepoIntel(path string) IntelReport {
	data, ok := p.readReport(path)
	if !ok {
		return IntelReport{}
	}

	var payload intelPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		p.fail("intel", path, err)
		return IntelReport{}
	}

	return IntelReport{
		Contributors: payload.Contributors.TopContributors,
		Languages:    payload.Languages,
	}
}
