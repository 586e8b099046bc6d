package parser

import (
	"regexp"
	"time"
)

// SyslogRecognizer matches the classic BSD syslog header:
//
//	Feb  2 15:04:05 myhost sshd[1234]: Failed password for admin from 10.0.0.1
//
// Syslog timestamps carry no year; the parsed Time assumes the current one.
type SyslogRecognizer struct{}

var syslogRegex = regexp.MustCompile(`^([A-Z][a-z]{2}\s+\d{1,2}\s\d{2}:\d{2}:\d{2})\s+(\S+)\s+([^:\s]+):\s+(.*)$`)

func (rec *SyslogRecognizer) Recognize(line string) (*Record, bool) {
	matches := syslogRegex.FindStringSubmatch(line)
	if matches == nil {
		return nil, false
	}

	t, err := time.Parse("Jan 2 15:04:05", matches[1])
	if err == nil {
		t = t.AddDate(time.Now().Year(), 0, 0)
	}

	r := &Record{
		Timestamp: matches[1],
		Time:      t,
		Message:   matches[4],
	}
	scrapeInto(r)
	return r, true
}
