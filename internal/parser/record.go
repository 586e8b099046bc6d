package parser

import (
	"time"
)

// Record is the structured form of one log line. Message is always
// populated; every other field is best-effort and left at its zero
// value when the line did not carry it.
type Record struct {
	Timestamp string    `json:"timestamp,omitempty"` // raw matched text, e.g. "2024-01-15 10:30:45"
	Time      time.Time `json:"-"`                   // parsed form when the layout is known
	SourceIP  string    `json:"source_ip,omitempty"`
	Identity  string    `json:"identity,omitempty"`
	Level     string    `json:"level,omitempty"`
	Method    string    `json:"method,omitempty"`
	Path      string    `json:"path,omitempty"`
	Status    int       `json:"status,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Message   string    `json:"message"`
}

// Diagnostic explains why a stricter structured parse did not apply to a
// line. Advisory only: the line still produced a Record via the fallback
// scraper.
type Diagnostic struct {
	LineNumber   int    `json:"line_number"`
	RawExcerpt   string `json:"raw_excerpt"`
	Reason       string `json:"reason"`
	SuggestedFix string `json:"suggested_fix"`
}

// Recognizer attempts to match one known log layout. It either fully
// matches and returns a Record, or declines with ok=false.
type Recognizer interface {
	Recognize(line string) (*Record, bool)
}
