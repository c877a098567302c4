// Package reports parses scanner-native report files into canonical finding
// drafts.
//
// Every parser follows the same contract: given a file path it returns the
// drafts and their count. A missing file is expected (not every scanner runs
// for every repository) and yields zero drafts silently; malformed JSON or a
// wrong top-level shape is logged and also yields zero drafts. Parsers never
// return an error to the caller.
package reports

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/repolens/ingest/pkg/logger"
)

// Parser reads scanner report files and produces canonical finding drafts.
type Parser struct {
	log *logger.Logger

	// onFailure is invoked once per unparseable report file.
	onFailure func(scanner string)
}

// New creates a report parser.
func New(log *logger.Logger) *Parser {
	return &Parser{
		log:       log.With("component", "reports"),
		onFailure: func(string) {},
	}
}

// SetFailureCallback sets the callback invoked when a report file cannot be
// parsed. The caller uses it to count parse failures.
func (p *Parser) SetFailureCallback(fn func(scanner string)) {
	if fn != nil {
		p.onFailure = fn
	}
}

// fail logs an unparseable report and notifies the failure callback.
func (p *Parser) fail(scanner, path string, err error) {
	if err != nil {
		p.log.Warn("invalid report file", "scanner", scanner, "path", path, "error", err)
	} else {
		p.log.Warn("invalid report file", "scanner", scanner, "path", path)
	}
	p.onFailure(scanner)
}

// readReport loads a report file. A missing file returns (nil, false)
// without logging; any other read error is logged and skipped too.
func (p *Parser) readReport(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			p.log.Warn("failed to read report file", "path", path, "error", err)
		}
		return nil, false
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false
	}
	return data, true
}

// decodeObjectOrArray normalizes a payload that is either a single JSON
// object or an array of objects into a slice of raw elements. Checkov emits
// both shapes depending on how many frameworks ran.
func decodeObjectOrArray(data []byte) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, false
	}

	switch trimmed[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return nil, false
		}
		return elems, true
	case '{':
		return []json.RawMessage{json.RawMessage(trimmed)}, true
	default:
		return nil, false
	}
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
