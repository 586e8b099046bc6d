package parser

import (
	"regexp"
	"strings"
	"unicode"
)

const excerptLimit = 100

var (
	dottedDateRegex = regexp.MustCompile(`\b\d{4}\.\d{2}\.\d{2}\b|\b\d{2}\.\d{2}\.\d{4}\b`)
	bareLevelRegex  = regexp.MustCompile(`\b(?:ERROR|WARN|INFO|CRITICAL|DEBUG|FATAL)\b`)
)

// diagnose explains why no structured layout matched a line and suggests a
// fix. Called only for lines that already degraded to the fallback scraper,
// so the verdict is advisory.
func diagnose(lineNumber int, line string) Diagnostic {
	reason, fix := classifyFailure(line)
	return Diagnostic{
		LineNumber:   lineNumber,
		RawExcerpt:   truncate(line, excerptLimit),
		Reason:       reason,
		SuggestedFix: fix,
	}
}

func classifyFailure(line string) (reason, fix string) {
	hasLetter := strings.ContainsFunc(line, unicode.IsLetter)
	hasDigit := strings.ContainsFunc(line, unicode.IsDigit)

	switch {
	case !hasLetter && !hasDigit:
		return "Invalid content",
			"Line contains only special characters or whitespace"
	case dottedDateRegex.MatchString(line):
		return "Wrong date format",
			"Use YYYY-MM-DD HH:MM:SS instead of dot-separated dates"
	case bareLevelRegex.MatchString(line):
		return "Level present but no timestamp",
			"Prefix the line with a timestamp like 2024-01-15 10:30:45"
	default:
		return "Missing timestamp",
			"Line was processed by keyword scraping; add a leading timestamp for structured parsing"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Back up to a rune boundary before cutting.
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n] + "..."
}
