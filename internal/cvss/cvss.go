// Package cvss holds the CVSS 3.1 scoring data for every threat type the
// detector can report, plus the batch aggregation rule.
//
// Score range: 0.0 - 10.0
//   - None:     0.0
//   - Low:      0.1-3.9
//   - Medium:   4.0-6.9
//   - High:     7.0-8.9
//   - Critical: 9.0-10.0
package cvss

import "fmt"

type Severity string

const (
	SeverityNone     Severity = "None"
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// SeverityFromScore maps a base score onto the standard CVSS 3.1 tiers.
func SeverityFromScore(score float64) Severity {
	switch {
	case score == 0.0:
		return SeverityNone
	case score < 4.0:
		return SeverityLow
	case score < 7.0:
		return SeverityMedium
	case score < 9.0:
		return SeverityHigh
	default:
		return SeverityCritical
	}
}

// Score is a CVSS 3.1 base score with its vector string and a
// human-readable explanation.
type Score struct {
	BaseScore    float64  `json:"base_score"`
	Severity     Severity `json:"severity"`
	VectorString string   `json:"vector_string"`
	Explanation  string   `json:"explanation"`
}

func newScore(base float64, vector, explanation string) Score {
	return Score{
		BaseScore:    base,
		Severity:     SeverityFromScore(base),
		VectorString: vector,
		Explanation:  explanation,
	}
}

// ThreatType is one entry in the fixed catalogue of recognized attack
// patterns. The value is the display name used in JSON output.
type ThreatType string

const (
	SQLInjection         ThreatType = "SQL Injection"
	CommandInjection     ThreatType = "Command Injection"
	Malware              ThreatType = "Malware"
	RootAccess           ThreatType = "Root Access Attempt"
	CriticalAlert        ThreatType = "Critical Alert"
	PathTraversal        ThreatType = "Path Traversal"
	SuspiciousFileAccess ThreatType = "Suspicious File Access"
	XSS                  ThreatType = "Cross-Site Scripting"
	FailedLogin          ThreatType = "Failed Login"
	PortScanning         ThreatType = "Port Scanning"
)

// Types lists every threat type in detection priority order (most severe
// first). The same order drives output so results are reproducible.
var Types = []ThreatType{
	SQLInjection,
	CommandInjection,
	Malware,
	RootAccess,
	CriticalAlert,
	PathTraversal,
	SuspiciousFileAccess,
	XSS,
	FailedLogin,
	PortScanning,
}

// scoreTable is hand-authored, versioned domain data. It is never computed
// or mutated at runtime.
var scoreTable = map[ThreatType]Score{
	SQLInjection: newScore(9.8,
		"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H",
		"Network-accessible SQL injection with no authentication required. "+
			"High impact on confidentiality, integrity, and availability. "+
			"Attacker can read, modify, or delete database contents."),

	CommandInjection: newScore(9.8,
		"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H",
		"Network-accessible command injection with no authentication. "+
			"Attacker can execute arbitrary system commands, leading to "+
			"complete system compromise."),

	Malware: newScore(9.8,
		"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H",
		"Malware detection indicates system compromise. "+
			"High impact on all security properties. "+
			"Can lead to data theft, system damage, or ransomware."),

	RootAccess: newScore(8.8,
		"CVSS:3.1/AV:N/AC:L/PR:L/UI:N/S:U/C:H/I:H/A:H",
		"Attempt to access root/admin account. If successful, "+
			"grants complete system control with high impact on all "+
			"security properties."),

	CriticalAlert: newScore(8.0,
		"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:N",
		"Critical severity event requiring immediate attention. "+
			"Specific impact depends on alert type but generally "+
			"indicates serious security incident."),

	PathTraversal: newScore(7.5,
		"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:N/A:N",
		"Network-accessible path traversal allowing unauthorized file access. "+
			"High confidentiality impact as attacker can read sensitive files "+
			"like /etc/passwd or application configs."),

	SuspiciousFileAccess: newScore(7.5,
		"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:N/A:N",
		"Access to sensitive system files (/etc/passwd, /etc/shadow). "+
			"High confidentiality impact as these files contain user "+
			"credentials and system information."),

	XSS: newScore(6.1,
		"CVSS:3.1/AV:N/AC:L/PR:N/UI:R/S:C/C:L/I:L/A:N",
		"Network-accessible cross-site scripting requiring user interaction. "+
			"Can steal session cookies, redirect users, or deface pages. "+
			"Scope changed as attack affects other users."),

	FailedLogin: newScore(5.3,
		"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:N/I:N/A:L",
		"Failed login attempts indicate potential brute force attack. "+
			"Low availability impact from resource consumption. "+
			"Becomes critical if successful or repeated from same IP."),

	PortScanning: newScore(5.3,
		"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:L/I:N/A:N",
		"Port scanning indicates reconnaissance activity. "+
			"Low confidentiality impact from service discovery. "+
			"Often precedes more serious attacks."),
}

// A missing table entry is a programming defect; fail at startup rather
// than at request time.
func init() {
	for _, t := range Types {
		if _, ok := scoreTable[t]; !ok {
			panic(fmt.Sprintf("cvss: no score table entry for threat type %q", t))
		}
	}
	if len(scoreTable) != len(Types) {
		panic("cvss: score table and type list out of sync")
	}
}

// ForType returns the fixed CVSS score for a threat type.
func ForType(t ThreatType) Score {
	return scoreTable[t]
}
