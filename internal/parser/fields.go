package parser

import (
	"regexp"
)

// Field scrapers shared by the recognizers and the fallback path.
// Each scans free text independently and returns "" when nothing matches.

var (
	ipRegex       = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
	levelRegex    = regexp.MustCompile(`\b(ERROR|WARN|INFO|CRITICAL|DEBUG|FATAL)\b`)
	identityRegex = regexp.MustCompile(`(?i)\b(?:username|user|login|account)[:=]\s*(\S+)`)
)

func extractIP(text string) string {
	return ipRegex.FindString(text)
}

func extractLevel(text string) string {
	return levelRegex.FindString(text)
}

func extractIdentity(text string) string {
	if m := identityRegex.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// scrapeInto fills SourceIP, Identity and (if still empty) Level from the
// record's message text.
func scrapeInto(r *Record) {
	r.SourceIP = extractIP(r.Message)
	r.Identity = extractIdentity(r.Message)
	if r.Level == "" {
		r.Level = extractLevel(r.Message)
	}
}
