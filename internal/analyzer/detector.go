package analyzer

import (
	"regexp"
	"strings"

	"threatlens/internal/cvss"
	"threatlens/internal/parser"
)

// Detector classifies parsed records against the fixed signature
// catalogue. Rules are evaluated in priority order (most severe first) and
// evaluation stops at the first match, so one record contributes to at
// most one threat type even when its text would match several signatures.
// This deliberately undercounts compound attacks in exchange for never
// double-counting one event.
type Detector struct {
	rules []rule
}

type rule struct {
	threat cvss.ThreatType
	match  func(rec *parser.Record, subject string) bool
}

var (
	sqliRegex      = regexp.MustCompile(`(?i)(union\s+select|\bor\s+1\s*=\s*1|or\s+'1'\s*=\s*'1|drop\s+table|--|sql injection)`)
	cmdInjectRegex = regexp.MustCompile("(?i)([;|`]\\s*(cat|ls|rm|wget|curl|sh|bash|nc|whoami|id)\\b|&&\\s*(cat|ls|rm|wget|curl|sh|bash|nc|whoami|id)\\b|\\$\\((cat|ls|rm|wget|curl|sh|bash)\\b)")
	malwareRegex   = regexp.MustCompile(`(?i)(malware|trojan|virus|ransomware|backdoor|rootkit)`)
	rootRegex      = regexp.MustCompile(`(?i)(user:\s*root\b|root access|sudo\s+su\b|su\s+-\s+root)`)
	traversalRegex = regexp.MustCompile(`(?i)(\.\./|\.\.\\|%2e%2e%2f|%2e%2e/)`)
	fileRegex      = regexp.MustCompile(`(?i)(/etc/passwd|/etc/shadow|suspicious file)`)
	xssRegex       = regexp.MustCompile(`(?i)(<script|javascript:|onerror=|onload=)`)
	loginRegex     = regexp.MustCompile(`(?i)(failed login|failed password|authentication fail|invalid login|login fail)`)
	scannerRegex   = regexp.MustCompile(`(?i)(port scan|nmap|masscan|nikto|sqlmap|nessus|burp|acunetix|zgrab)`)
)

func NewDetector() *Detector {
	return &Detector{rules: []rule{
		{cvss.SQLInjection, func(_ *parser.Record, s string) bool {
			return sqliRegex.MatchString(s)
		}},
		{cvss.CommandInjection, func(_ *parser.Record, s string) bool {
			return cmdInjectRegex.MatchString(s)
		}},
		{cvss.Malware, func(_ *parser.Record, s string) bool {
			return malwareRegex.MatchString(s)
		}},
		{cvss.RootAccess, func(rec *parser.Record, s string) bool {
			return rec.Identity == "root" || rootRegex.MatchString(s)
		}},
		{cvss.CriticalAlert, func(rec *parser.Record, _ string) bool {
			return rec.Level == "CRITICAL"
		}},
		{cvss.PathTraversal, func(_ *parser.Record, s string) bool {
			return traversalRegex.MatchString(s)
		}},
		{cvss.SuspiciousFileAccess, func(_ *parser.Record, s string) bool {
			return fileRegex.MatchString(s)
		}},
		{cvss.XSS, func(_ *parser.Record, s string) bool {
			return xssRegex.MatchString(s)
		}},
		{cvss.FailedLogin, func(rec *parser.Record, s string) bool {
			return rec.Status == 401 || rec.Status == 403 || loginRegex.MatchString(s)
		}},
		{cvss.PortScanning, func(_ *parser.Record, s string) bool {
			return scannerRegex.MatchString(s)
		}},
	}}
}

// Detect returns the single threat classification for a record, or
// ok=false when nothing in the catalogue matches.
func (d *Detector) Detect(rec *parser.Record) (cvss.ThreatType, bool) {
	subject := subjectText(rec)
	for _, r := range d.rules {
		if r.match(rec, subject) {
			return r.threat, true
		}
	}
	return "", false
}

// subjectText is the searchable text of a record: the message plus the
// request fields when present. Path and user agent are part of the message
// for access-log lines, but records built from other layouts carry them
// separately.
func subjectText(rec *parser.Record) string {
	parts := []string{rec.Message}
	if rec.Path != "" && !strings.Contains(rec.Message, rec.Path) {
		parts = append(parts, rec.Path)
	}
	if rec.UserAgent != "" && !strings.Contains(rec.Message, rec.UserAgent) {
		parts = append(parts, rec.UserAgent)
	}
	return strings.Join(parts, " ")
}
