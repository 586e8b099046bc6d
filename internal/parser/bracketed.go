package parser

import (
	"regexp"
	"time"
)

// BracketedRecognizer matches the level-tagged application log layouts:
//
//	2024-01-15 10:30:45 [ERROR] message
//	[2024-01-15 10:30:45] ERROR: message
//	2024/01/15 10:30:45 [ERROR] message
//	01/15/2024 10:30:45 [ERROR] message
//	2024-01-15 10:30:45 ERROR   message
//
// The variants are tried in order; the first full match wins.
type BracketedRecognizer struct{}

type bracketedVariant struct {
	re     *regexp.Regexp
	layout string // for Time; empty when the date layout is ambiguous
}

var bracketedVariants = []bracketedVariant{
	{regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) \[(\w+)\] (.*)$`), "2006-01-02 15:04:05"},
	{regexp.MustCompile(`^\[(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})\] (\w+): (.*)$`), "2006-01-02 15:04:05"},
	{regexp.MustCompile(`^(\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}) \[(\w+)\] (.*)$`), "2006/01/02 15:04:05"},
	{regexp.MustCompile(`^(\d{2}/\d{2}/\d{4} \d{2}:\d{2}:\d{2}) \[(\w+)\] (.*)$`), "01/02/2006 15:04:05"},
	{regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) (ERROR|WARN|INFO|CRITICAL|DEBUG|FATAL)\s+(.*)$`), "2006-01-02 15:04:05"},
}

func (rec *BracketedRecognizer) Recognize(line string) (*Record, bool) {
	for _, v := range bracketedVariants {
		matches := v.re.FindStringSubmatch(line)
		if matches == nil {
			continue
		}

		t, _ := time.Parse(v.layout, matches[1])
		r := &Record{
			Timestamp: matches[1],
			Time:      t,
			Level:     matches[2],
			Message:   matches[3],
		}
		scrapeInto(r)
		return r, true
	}
	return nil, false
}
