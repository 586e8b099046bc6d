package parser

import (
	"strings"
)

// MaxDiagnostics caps the advisory diagnostics kept per batch so a large
// unstructured upload cannot blow up the response size.
const MaxDiagnostics = 10

// Result is the outcome of parsing one multi-line batch.
type Result struct {
	Records     []Record
	TotalLines  int // every line in the input, blank ones included
	Structured  int // lines matched by a layout recognizer
	Fallback    int // lines that needed the fallback scraper
	Diagnostics []Diagnostic
}

// Parse splits content into lines and produces exactly one Record per
// non-blank line. Blank lines are skipped silently. Lines no recognizer
// matched still succeed through the fallback scraper and contribute an
// advisory Diagnostic (first MaxDiagnostics only).
//
// Parsing is deterministic: the same content always yields the same Result.
func Parse(content string) *Result {
	res := &Result{}

	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return res
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		res.TotalLines++

		if strings.TrimSpace(line) == "" {
			continue
		}

		if r, ok := Recognize(line); ok {
			res.Structured++
			res.Records = append(res.Records, *r)
			continue
		}

		res.Fallback++
		res.Records = append(res.Records, *Scrape(line))
		if len(res.Diagnostics) < MaxDiagnostics {
			res.Diagnostics = append(res.Diagnostics, diagnose(res.TotalLines, line))
		}
	}

	return res
}
