package analyzer

import (
	"threatlens/internal/cvss"
	"threatlens/internal/parser"
)

// Analyzer runs the full batch pipeline: parse, classify, tally, score.
// It holds only compiled signatures; all mutable state lives in a
// batchContext local to one Analyze call, so a single Analyzer is safe for
// concurrent use.
type Analyzer struct {
	detector *Detector
}

func New() *Analyzer {
	return &Analyzer{detector: NewDetector()}
}

// batchContext collects the per-batch counters. Discarded when the Report
// has been built.
type batchContext struct {
	threatCounts map[cvss.ThreatType]int
}

// Analyze processes one batch of raw text and produces the Report. It is
// a pure CPU pass over the input: no I/O, no shared state, deterministic
// for identical input.
func (a *Analyzer) Analyze(content string) *Report {
	parsed := parser.Parse(content)

	ctx := batchContext{threatCounts: make(map[cvss.ThreatType]int)}
	for i := range parsed.Records {
		if t, ok := a.detector.Detect(&parsed.Records[i]); ok {
			ctx.threatCounts[t]++
		}
	}

	report := &Report{Records: parsed.Records}
	report.ParsingInfo = ParsingInfo{
		TotalLines:         parsed.TotalLines,
		SuccessfullyParsed: parsed.Structured,
		FailedToParse:      parsed.Fallback,
		Errors:             parsed.Diagnostics,
	}
	if report.ParsingInfo.Errors == nil {
		report.ParsingInfo.Errors = []parser.Diagnostic{}
	}

	// Per-type counts and scores, emitted in fixed priority order.
	var findings []cvss.Finding
	totalThreats := 0
	for _, t := range cvss.Types {
		count := ctx.threatCounts[t]
		if count == 0 {
			continue
		}
		totalThreats += count
		findings = append(findings, cvss.Finding{Type: t, Count: count})

		*report.ThreatStatistics.counterFor(t) = count
		score := cvss.ForType(t)
		report.ThreatStatistics.CVSSScores = append(report.ThreatStatistics.CVSSScores, ThreatScore{
			ThreatType:   string(t),
			Count:        count,
			CVSSScore:    score.BaseScore,
			Severity:     string(score.Severity),
			VectorString: score.VectorString,
			Explanation:  score.Explanation,
		})
	}
	if report.ThreatStatistics.CVSSScores == nil {
		report.ThreatStatistics.CVSSScores = []ThreatScore{}
	}

	allIPs := tallyIPs(parsed.Records)
	highRisk := make([]IPInfo, 0)
	for _, info := range allIPs {
		if info.RiskLevel == "high" {
			highRisk = append(highRisk, info)
		}
	}
	report.IPAnalysis = IPAnalysis{HighRiskIPs: highRisk, AllIPs: allIPs}
	if report.IPAnalysis.AllIPs == nil {
		report.IPAnalysis.AllIPs = []IPInfo{}
	}

	aggregate := cvss.Aggregate(findings)
	report.RiskAssessment = RiskAssessment{
		Level:              riskLevel(totalThreats),
		TotalThreats:       totalThreats,
		Description:        riskDescription(totalThreats),
		CVSSAggregateScore: aggregate.BaseScore,
		CVSSSeverity:       string(aggregate.Severity),
	}

	return report
}

func riskLevel(totalThreats int) string {
	switch {
	case totalThreats >= 10:
		return "HIGH"
	case totalThreats >= 5:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

func riskDescription(totalThreats int) string {
	switch {
	case totalThreats >= 10:
		return "Immediate action required"
	case totalThreats >= 5:
		return "Monitor closely"
	default:
		return "Normal activity"
	}
}
