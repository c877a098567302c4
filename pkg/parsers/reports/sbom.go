package reports

import (
	"encoding/json"
	"strings"

	"github.com/repolens/ingest/pkg/domain/intel"
)

// sbomDocument covers both SBOM shapes the pipeline receives: syft-native
// (artifacts) and CycloneDX (components). The shapes are distinguished by
// which key is present.
type sbomDocument struct {
	Artifacts []struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Type    string `json:"type"`
		PURL    string `json:"purl"`
	} `json:"artifacts"`
	Components []struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Type    string `json:"type"`
		PURL    string `json:"purl"`
	} `json:"components"`
}

// SyftSBOM parses a syft SBOM file into dependency snapshots.
func (p *Parser) SyftSBOM(path string, source intel.DependencySource) ([]intel.Dependency, int) {
	data, ok := p.readReport(path)
	if !ok {
		return nil, 0
	}

	var doc sbomDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		p.fail("sbom", path, err)
		return nil, 0
	}

	var deps []intel.Dependency
	if len(doc.Artifacts) > 0 {
		for _, a := range doc.Artifacts {
			deps = append(deps, intel.Dependency{
				Name:      a.Name,
				Version:   a.Version,
				Ecosystem: firstNonEmpty(a.Type, purlEcosystem(a.PURL)),
				PURL:      a.PURL,
				Source:    source,
			})
		}
	} else {
		for _, c := range doc.Components {
			deps = append(deps, intel.Dependency{
				Name:      c.Name,
				Version:   c.Version,
				Ecosystem: firstNonEmpty(purlEcosystem(c.PURL), c.Type),
				PURL:      c.PURL,
				Source:    source,
			})
		}
	}
	return deps, len(deps)
}

// purlEcosystem extracts the package type from a purl, e.g.
// "pkg:npm/lodash@4.17.21" -> "npm".
func purlEcosystem(purl string) string {
	rest, ok := strings.CutPrefix(purl, "pkg:")
	if !ok {
		return ""
	}
	if idx := strings.IndexByte(rest, '/'); idx > 0 {
		return rest[:idx]
	}
	return ""
}
