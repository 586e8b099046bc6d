package analyzer

import (
	"threatlens/internal/cvss"
	"threatlens/internal/parser"
)

// Report is the root aggregate produced by one batch analysis. It is the
// JSON shape consumed by the front-end and the persistence layer.
type Report struct {
	ThreatStatistics ThreatStats    `json:"threat_statistics"`
	IPAnalysis       IPAnalysis     `json:"ip_analysis"`
	RiskAssessment   RiskAssessment `json:"risk_assessment"`
	ParsingInfo      ParsingInfo    `json:"parsing_info"`

	// Records is the ordered list of parsed records, handed unmodified to
	// the optional deep-analysis collaborator. Not serialized with the
	// report itself.
	Records []parser.Record `json:"-"`
}

// ThreatStats holds per-type counts plus the per-type CVSS scores for
// every type observed in the batch.
type ThreatStats struct {
	SQLInjectionAttempts     int `json:"sql_injection_attempts"`
	CommandInjectionAttempts int `json:"command_injection_attempts"`
	MalwareDetections        int `json:"malware_detections"`
	RootAttempts             int `json:"root_attempts"`
	CriticalAlerts           int `json:"critical_alerts"`
	PathTraversalAttempts    int `json:"path_traversal_attempts"`
	SuspiciousFileAccess     int `json:"suspicious_file_access"`
	XSSAttempts              int `json:"xss_attempts"`
	FailedLogins             int `json:"failed_logins"`
	PortScanningAttempts     int `json:"port_scanning_attempts"`

	CVSSScores []ThreatScore `json:"cvss_scores"`
}

// ThreatScore pairs one observed threat type with its count and fixed
// CVSS rating.
type ThreatScore struct {
	ThreatType   string  `json:"threat_type"`
	Count        int     `json:"count"`
	CVSSScore    float64 `json:"cvss_score"`
	Severity     string  `json:"severity"`
	VectorString string  `json:"vector_string"`
	Explanation  string  `json:"explanation"`
}

type IPAnalysis struct {
	HighRiskIPs []IPInfo `json:"high_risk_ips"`
	AllIPs      []IPInfo `json:"all_ips"`
}

type RiskAssessment struct {
	Level              string  `json:"level"`
	TotalThreats       int     `json:"total_threats"`
	Description        string  `json:"description"`
	CVSSAggregateScore float64 `json:"cvss_aggregate_score"`
	CVSSSeverity       string  `json:"cvss_severity"`
}

// ParsingInfo is the batch quality signal: successfully_parsed counts
// lines a layout recognizer matched, failed_to_parse counts lines that
// needed the fallback scraper (which still produced a usable record).
type ParsingInfo struct {
	TotalLines         int                 `json:"total_lines"`
	SuccessfullyParsed int                 `json:"successfully_parsed"`
	FailedToParse      int                 `json:"failed_to_parse"`
	Errors             []parser.Diagnostic `json:"errors"`
}

// counterFor routes a threat type to its ThreatStats field.
func (ts *ThreatStats) counterFor(t cvss.ThreatType) *int {
	switch t {
	case cvss.SQLInjection:
		return &ts.SQLInjectionAttempts
	case cvss.CommandInjection:
		return &ts.CommandInjectionAttempts
	case cvss.Malware:
		return &ts.MalwareDetections
	case cvss.RootAccess:
		return &ts.RootAttempts
	case cvss.CriticalAlert:
		return &ts.CriticalAlerts
	case cvss.PathTraversal:
		return &ts.PathTraversalAttempts
	case cvss.SuspiciousFileAccess:
		return &ts.SuspiciousFileAccess
	case cvss.XSS:
		return &ts.XSSAttempts
	case cvss.FailedLogin:
		return &ts.FailedLogins
	case cvss.PortScanning:
		return &ts.PortScanningAttempts
	}
	return nil
}
