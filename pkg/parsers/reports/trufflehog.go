package reports

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/repolens/ingest/pkg/domain/finding"
)

type trufflehogEntry struct {
	SourceMetadata struct {
		Data struct {
			Filesystem struct {
				File string `json:"file"`
				Line int    `json:"line"`
			} `json:"Filesystem"`
		} `json:"Data"`
	} `json:"SourceMetadata"`
	DetectorName        string `json:"DetectorName"`
	DetectorDescription string `json:"DetectorDescription"`
	Verified            bool   `json:"Verified"`
	Raw                 string `json:"Raw"`
}

// Trufflehog parses a trufflehog report: a list of detected secrets. The
// repository name is used to strip temporary-clone prefixes from file paths.
// Drafts carry the raw secret value for activity validation; the ingestion
// driver assigns the final severity from the validation verdict.
func (p *Parser) Trufflehog(path, repoName string) ([]finding.Draft, int) {
	data, ok := p.readReport(path)
	if !ok {
		return nil, 0
	}

	var entries []trufflehogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		p.fail(string(finding.ScannerTrufflehog), path, err)
		return nil, 0
	}

	drafts := make([]finding.Draft, 0, len(entries))
	for _, e := range entries {
		file := stripClonePrefix(e.SourceMetadata.Data.Filesystem.File, repoName)
		drafts = append(drafts, finding.Draft{
			Scanner:             finding.ScannerTrufflehog,
			Type:                finding.TypeSecret,
			Severity:            finding.SeverityMedium, // provisional until validated
			Title:               fmt.Sprintf("%s secret detected", e.DetectorName),
			Description:         e.DetectorDescription,
			FilePath:            file,
			LineStart:           e.SourceMetadata.Data.Filesystem.Line,
			LineEnd:             e.SourceMetadata.Data.Filesystem.Line,
			CodeSnippet:         e.Raw,
			DetectorName:        e.DetectorName,
			SecretValue:         e.Raw,
			IsVerifiedByScanner: e.Verified,
		})
	}
	return drafts, len(drafts)
}

// stripClonePrefix removes a temporary-clone prefix from a scanned file
// path: everything up to and including the repository name segment is cut.
// Paths that do not contain the repository name are returned unchanged.
func stripClonePrefix(path, repoName string) string {
	if repoName == "" || path == "" {
		return path
	}

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg == repoName && i < len(segments)-1 {
			return strings.Join(segments[i+1:], "/")
		}
	}
	return path
}
