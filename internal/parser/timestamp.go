package parser

import (
	"regexp"
	"strings"
	"time"
)

// TimestampRecognizer is the loosest structured layout: an ISO-8601 style
// timestamp prefix followed by free text, with no recognizable level tag.
// It runs after the stricter recognizers so the level-tagged variants are
// preferred.
type TimestampRecognizer struct{}

var timestampRegex = regexp.MustCompile(`^\[?(\d{4}-\d{2}-\d{2}[T\s]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?)\]?\s+(.*)$`)

func (rec *TimestampRecognizer) Recognize(line string) (*Record, bool) {
	matches := timestampRegex.FindStringSubmatch(line)
	if matches == nil {
		return nil, false
	}

	r := &Record{
		Timestamp: matches[1],
		Time:      parseTimestamp(matches[1]),
		Message:   matches[2],
	}
	scrapeInto(r)
	return r, true
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) time.Time {
	// Normalize "+0000" style offsets so RFC3339 layouts apply.
	if len(s) > 5 && (s[len(s)-5] == '+' || s[len(s)-5] == '-') && !strings.Contains(s[len(s)-5:], ":") {
		s = s[:len(s)-2] + ":" + s[len(s)-2:]
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
