package parser

import (
	"regexp"
	"strconv"
	"time"
)

// CombinedRecognizer matches the Common/Combined access log format shared
// by nginx, Apache and Caddy:
// IP - User [Time] "Method Path Protocol" Status Bytes "Referer" "UserAgent"
// The common (referer-less) variant is accepted too.
type CombinedRecognizer struct{}

var combinedRegex = regexp.MustCompile(`^(\S+) \S+ (\S+) \[([^\]]+)\] "(\S+) (\S+) (\S+)" (\d+) (\d+|-)(?: "([^"]*)" "([^"]*)")?`)

const combinedTimeLayout = "02/Jan/2006:15:04:05 -0700"

func (rec *CombinedRecognizer) Recognize(line string) (*Record, bool) {
	matches := combinedRegex.FindStringSubmatch(line)
	if matches == nil {
		return nil, false
	}

	t, _ := time.Parse(combinedTimeLayout, matches[3])
	status, _ := strconv.Atoi(matches[7])

	identity := matches[2]
	if identity == "-" {
		identity = ""
	}

	r := &Record{
		Timestamp: matches[3],
		Time:      t,
		SourceIP:  matches[1],
		Identity:  identity,
		Method:    matches[4],
		Path:      matches[5],
		Status:    status,
		UserAgent: matches[10],
		Message:   line,
	}
	return r, true
}
