package collector

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"threatlens/internal/analyzer"
)

// Metrics exposes the analysis pipeline counters on /metrics.
type Metrics struct {
	BatchesAnalyzed prometheus.Counter
	LinesParsed     *prometheus.CounterVec // result: structured | fallback
	ThreatsDetected *prometheus.CounterVec // type
	AlertBatches    prometheus.Counter
	LastAggregate   prometheus.Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		BatchesAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "threatlens_batches_analyzed_total",
			Help: "Total number of log batches analyzed.",
		}),
		LinesParsed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "threatlens_lines_parsed_total",
				Help: "Total log lines parsed, by parse result.",
			},
			[]string{"result"},
		),
		ThreatsDetected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "threatlens_threats_detected_total",
				Help: "Total threat classifications, by threat type.",
			},
			[]string{"type"},
		),
		AlertBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "threatlens_alert_batches_total",
			Help: "Batches whose aggregate severity was High or Critical.",
		}),
		LastAggregate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "threatlens_last_aggregate_score",
			Help: "Aggregate CVSS score of the most recently analyzed batch.",
		}),
	}
}

func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		m.BatchesAnalyzed,
		m.LinesParsed,
		m.ThreatsDetected,
		m.AlertBatches,
		m.LastAggregate,
	)
}

// Observe records one finished batch analysis.
func (m *Metrics) Observe(report *analyzer.Report) {
	m.BatchesAnalyzed.Inc()
	m.LinesParsed.WithLabelValues("structured").Add(float64(report.ParsingInfo.SuccessfullyParsed))
	m.LinesParsed.WithLabelValues("fallback").Add(float64(report.ParsingInfo.FailedToParse))

	for _, ts := range report.ThreatStatistics.CVSSScores {
		label := strings.ToLower(strings.ReplaceAll(ts.ThreatType, " ", "_"))
		m.ThreatsDetected.WithLabelValues(label).Add(float64(ts.Count))
	}

	m.LastAggregate.Set(report.RiskAssessment.CVSSAggregateScore)
	if sev := report.RiskAssessment.CVSSSeverity; sev == "High" || sev == "Critical" {
		m.AlertBatches.Inc()
	}
}
