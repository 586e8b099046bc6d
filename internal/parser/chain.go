package parser

// chain holds the structured layout recognizers in the order they are
// tried. Order matters: stricter layouts first, so a line is attributed
// to the most specific format that fully matches it.
var chain = []Recognizer{
	&CombinedRecognizer{},
	&BracketedRecognizer{},
	&SyslogRecognizer{},
	&TimestampRecognizer{},
}

// Recognize runs the chain against one line and returns the first match.
// ok=false means no structured layout applied; the caller falls back to
// Scrape, which cannot fail.
func Recognize(line string) (*Record, bool) {
	for _, rec := range chain {
		if r, ok := rec.Recognize(line); ok {
			return r, true
		}
	}
	return nil, false
}
