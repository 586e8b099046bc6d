package analyzer

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestAnalyzeBruteForceBatch(t *testing.T) {
	// One address hammering logins five times, one benign line.
	content := strings.Join([]string{
		"2024-01-15 10:30:45 [ERROR] Failed login attempt from 192.168.1.100 user: admin",
		"2024-01-15 10:30:47 [ERROR] Failed login attempt from 192.168.1.100 user: admin",
		"2024-01-15 10:30:49 [ERROR] Failed login attempt from 192.168.1.100 user: admin",
		"2024-01-15 10:30:51 [ERROR] Failed login attempt from 192.168.1.100 user: root",
		"2024-01-15 10:30:53 [ERROR] Failed login attempt from 192.168.1.100 user: guest",
		"2024-01-15 10:31:00 [INFO] scheduled job completed",
	}, "\n")

	report := New().Analyze(content)

	// One attempt targets root and classifies as a root access attempt.
	if report.ThreatStatistics.FailedLogins != 4 {
		t.Errorf("FailedLogins = %d; want 4", report.ThreatStatistics.FailedLogins)
	}
	if report.ThreatStatistics.RootAttempts != 1 {
		t.Errorf("RootAttempts = %d; want 1", report.ThreatStatistics.RootAttempts)
	}
	if report.RiskAssessment.TotalThreats != 5 {
		t.Errorf("TotalThreats = %d; want 5", report.RiskAssessment.TotalThreats)
	}
	if report.RiskAssessment.Level != "MEDIUM" {
		t.Errorf("Level = %s; want MEDIUM", report.RiskAssessment.Level)
	}

	if len(report.IPAnalysis.AllIPs) != 1 {
		t.Fatalf("AllIPs has %d entries; want 1", len(report.IPAnalysis.AllIPs))
	}
	ip := report.IPAnalysis.AllIPs[0]
	if ip.Address != "192.168.1.100" || ip.Count != 5 || ip.RiskLevel != "high" {
		t.Errorf("unexpected IP info: %+v", ip)
	}
	if len(report.IPAnalysis.HighRiskIPs) != 1 {
		t.Errorf("HighRiskIPs has %d entries; want 1", len(report.IPAnalysis.HighRiskIPs))
	}
}

func TestAnalyzeIPThreshold(t *testing.T) {
	// 10.0.0.1 appears three times (at threshold), 10.0.0.2 twice (below).
	content := strings.Join([]string{
		"2024-01-15 10:00:01 [INFO] request from 10.0.0.1",
		"2024-01-15 10:00:02 [INFO] request from 10.0.0.1",
		"2024-01-15 10:00:03 [INFO] request from 10.0.0.1",
		"2024-01-15 10:00:04 [INFO] request from 10.0.0.2",
		"2024-01-15 10:00:05 [INFO] request from 10.0.0.2",
	}, "\n")

	report := New().Analyze(content)

	if len(report.IPAnalysis.AllIPs) != 2 {
		t.Fatalf("AllIPs has %d entries; want 2", len(report.IPAnalysis.AllIPs))
	}
	// Busiest first.
	if report.IPAnalysis.AllIPs[0].Address != "10.0.0.1" || report.IPAnalysis.AllIPs[0].RiskLevel != "high" {
		t.Errorf("first entry = %+v; want 10.0.0.1 high", report.IPAnalysis.AllIPs[0])
	}
	if report.IPAnalysis.AllIPs[1].Address != "10.0.0.2" || report.IPAnalysis.AllIPs[1].RiskLevel != "low" {
		t.Errorf("second entry = %+v; want 10.0.0.2 low", report.IPAnalysis.AllIPs[1])
	}
	if len(report.IPAnalysis.HighRiskIPs) != 1 || report.IPAnalysis.HighRiskIPs[0].Address != "10.0.0.1" {
		t.Errorf("HighRiskIPs = %+v; want only 10.0.0.1", report.IPAnalysis.HighRiskIPs)
	}
}

func TestAnalyzeParsingInfo(t *testing.T) {
	content := strings.Join([]string{
		"2024-01-15 10:30:45 [INFO] structured line one",
		`203.0.113.9 - - [15/Jan/2024:10:31:02 +0000] "GET /index.html HTTP/1.1" 200 512`,
		"",
		"free text that no layout matches",
	}, "\n")

	report := New().Analyze(content)
	pi := report.ParsingInfo

	if pi.TotalLines != 4 {
		t.Errorf("TotalLines = %d; want 4", pi.TotalLines)
	}
	if pi.SuccessfullyParsed != 2 {
		t.Errorf("SuccessfullyParsed = %d; want 2", pi.SuccessfullyParsed)
	}
	if pi.FailedToParse != 1 {
		t.Errorf("FailedToParse = %d; want 1", pi.FailedToParse)
	}
	if len(pi.Errors) != 1 {
		t.Errorf("Errors has %d entries; want 1", len(pi.Errors))
	}
	if pi.Errors[0].LineNumber != 4 {
		t.Errorf("diagnostic LineNumber = %d; want 4", pi.Errors[0].LineNumber)
	}
}

func TestAnalyzeAggregateScore(t *testing.T) {
	var lines []string
	for i := 0; i < 7; i++ {
		lines = append(lines, "2024-01-15 10:30:45 [WARN] GET /items?id=1 UNION SELECT secret")
	}
	for i := 0; i < 15; i++ {
		lines = append(lines, "2024-01-15 10:30:46 [ERROR] failed login for account guest")
	}

	report := New().Analyze(strings.Join(lines, "\n"))

	if report.RiskAssessment.TotalThreats != 22 {
		t.Fatalf("TotalThreats = %d; want 22", report.RiskAssessment.TotalThreats)
	}
	want := (7*9.8 + 15*5.3) / 22 * 1.15
	if math.Abs(report.RiskAssessment.CVSSAggregateScore-want) > 0.001 {
		t.Errorf("CVSSAggregateScore = %.4f; want %.4f", report.RiskAssessment.CVSSAggregateScore, want)
	}
	if report.RiskAssessment.CVSSSeverity != "High" {
		t.Errorf("CVSSSeverity = %s; want High", report.RiskAssessment.CVSSSeverity)
	}
	if report.RiskAssessment.Level != "HIGH" {
		t.Errorf("Level = %s; want HIGH", report.RiskAssessment.Level)
	}

	// CVSS scores come out in priority order: SQL injection before failed login.
	scores := report.ThreatStatistics.CVSSScores
	if len(scores) != 2 {
		t.Fatalf("CVSSScores has %d entries; want 2", len(scores))
	}
	if scores[0].ThreatType != "SQL Injection" || scores[0].Count != 7 {
		t.Errorf("scores[0] = %+v", scores[0])
	}
	if scores[1].ThreatType != "Failed Login" || scores[1].Count != 15 {
		t.Errorf("scores[1] = %+v", scores[1])
	}
}

func TestAnalyzeEmptyContent(t *testing.T) {
	report := New().Analyze("")

	if report.RiskAssessment.TotalThreats != 0 {
		t.Errorf("TotalThreats = %d; want 0", report.RiskAssessment.TotalThreats)
	}
	if report.RiskAssessment.CVSSAggregateScore != 0.0 {
		t.Errorf("CVSSAggregateScore = %.2f; want 0.0", report.RiskAssessment.CVSSAggregateScore)
	}
	if report.RiskAssessment.CVSSSeverity != "None" {
		t.Errorf("CVSSSeverity = %s; want None", report.RiskAssessment.CVSSSeverity)
	}
	if report.RiskAssessment.Level != "LOW" {
		t.Errorf("Level = %s; want LOW", report.RiskAssessment.Level)
	}

	// Empty collections serialize as [], never null.
	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"cvss_scores":[]`, `"all_ips":[]`, `"high_risk_ips":[]`, `"errors":[]`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("serialized report missing %s:\n%s", key, data)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	content := strings.Join([]string{
		"2024-01-15 10:30:45 [ERROR] failed login from 10.1.1.1 user: admin",
		"2024-01-15 10:30:46 [ERROR] failed login from 10.2.2.2 user: admin",
		"2024-01-15 10:30:47 [CRITICAL] trojan found on 10.1.1.1",
		"noise line",
	}, "\n")

	a := New()
	first := a.Analyze(content)
	second := a.Analyze(content)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Analyze is not deterministic for identical input")
	}
}
