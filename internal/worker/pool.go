package worker

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"threatlens/internal/alerts"
	"threatlens/internal/analyzer"
	"threatlens/internal/collector"
	"threatlens/internal/enricher"
	"threatlens/internal/intelligence"
	"threatlens/internal/storage"
)

// Job is one window of lines from a monitored log file, analyzed as an
// independent batch.
type Job struct {
	ServiceName string
	LogPath     string
	Lines       []string
}

type Pool struct {
	JobQueue    chan Job
	WorkerCount int

	Analyzer *analyzer.Analyzer
	Enricher *enricher.Enricher
	Intel    *intelligence.CrowdSecBouncer // nil when disabled
	Metrics  *collector.Metrics
	Store    storage.Store
	Alerts   *alerts.Dispatcher
}

func NewPool(workers int, a *analyzer.Analyzer, e *enricher.Enricher, intel *intelligence.CrowdSecBouncer,
	m *collector.Metrics, store storage.Store, al *alerts.Dispatcher) *Pool {
	return &Pool{
		JobQueue:    make(chan Job, 1000), // Buffered channel
		WorkerCount: workers,
		Analyzer:    a,
		Enricher:    e,
		Intel:       intel,
		Metrics:     m,
		Store:       store,
		Alerts:      al,
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.WorkerCount; i++ {
		go p.worker()
	}
	log.Printf("Worker pool started with %d workers", p.WorkerCount)
}

func (p *Pool) worker() {
	for job := range p.JobQueue {
		// 1. Analyze the window as one batch
		report := p.Analyzer.Analyze(strings.Join(job.Lines, "\n"))

		// 2. Enrichment + threat intel
		p.Enricher.Annotate(report)
		if p.Intel != nil {
			p.Intel.Annotate(report)
		}

		// 3. Metrics
		p.Metrics.Observe(report)

		// 4. Persist
		full, err := json.Marshal(report)
		if err != nil {
			log.Printf("Worker: failed to marshal report for %s: %v", job.ServiceName, err)
			continue
		}
		id, err := p.Store.SaveReport(storage.ReportSummary{
			CreatedAt:      time.Now().Format(time.RFC3339),
			Source:         job.ServiceName,
			TotalLines:     report.ParsingInfo.TotalLines,
			TotalThreats:   report.RiskAssessment.TotalThreats,
			AggregateScore: report.RiskAssessment.CVSSAggregateScore,
			Severity:       report.RiskAssessment.CVSSSeverity,
		}, full)
		if err != nil {
			log.Printf("Worker: failed to persist report for %s: %v", job.ServiceName, err)
		}

		// 5. Alert on hot batches
		p.Alerts.ReportAlert(job.ServiceName, report)

		if report.RiskAssessment.TotalThreats > 0 {
			log.Printf("Worker: %s window → %d threat(s), aggregate %.1f (%s), report %s",
				job.ServiceName, report.RiskAssessment.TotalThreats,
				report.RiskAssessment.CVSSAggregateScore, report.RiskAssessment.CVSSSeverity, id)
		}
	}
}

func (p *Pool) Submit(job Job) {
	// Blocking submit for backpressure
	p.JobQueue <- job
}
