package intelligence

import (
	"context"
	"log"
	"sync"

	"github.com/crowdsecurity/crowdsec/pkg/models"
	csbouncer "github.com/crowdsecurity/go-cs-bouncer"
	"github.com/prometheus/client_golang/prometheus"

	"threatlens/internal/analyzer"
)

// CrowdSecBouncer keeps a local cache of IPs currently banned by a
// CrowdSec LAPI and marks them as known offenders in analysis reports.
type CrowdSecBouncer struct {
	StreamBouncer *csbouncer.StreamBouncer
	OffenderHits  prometheus.Counter

	bannedIPs map[string]bool
	mu        sync.RWMutex
}

func NewCrowdSecBouncer(apiKey, apiURL string) (*CrowdSecBouncer, error) {
	cb := &CrowdSecBouncer{
		bannedIPs: make(map[string]bool),
		OffenderHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "threatlens_known_offender_ips_total",
			Help: "Total number of analyzed source IPs that carry a CrowdSec ban decision.",
		}),
	}

	cb.StreamBouncer = &csbouncer.StreamBouncer{
		APIKey:         apiKey,
		APIUrl:         apiURL,
		TickerInterval: "15s",
		UserAgent:      "threatlens/v1.0.0",
	}

	return cb, nil
}

func (cb *CrowdSecBouncer) Register(reg prometheus.Registerer) {
	reg.MustRegister(cb.OffenderHits)
}

func (cb *CrowdSecBouncer) Start() error {
	log.Println("Starting CrowdSec StreamBouncer...")
	return cb.StreamBouncer.Init()
}

func (cb *CrowdSecBouncer) Run() {
	ctx := context.Background()

	go cb.StreamBouncer.Run(ctx)

	for decisions := range cb.StreamBouncer.Stream {
		cb.handleDecisions(decisions)
	}
}

func (cb *CrowdSecBouncer) handleDecisions(decisions *models.DecisionsStreamResponse) {
	if decisions == nil {
		return
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	for _, decision := range decisions.New {
		if *decision.Type == "ban" {
			cb.bannedIPs[*decision.Value] = true
		}
	}

	for _, decision := range decisions.Deleted {
		if *decision.Type == "ban" {
			delete(cb.bannedIPs, *decision.Value)
		}
	}
}

// Check reports whether an IP currently carries a ban decision.
func (cb *CrowdSecBouncer) Check(ipStr string) bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.bannedIPs[ipStr]
}

// Annotate marks known offenders in the report's IP analysis.
func (cb *CrowdSecBouncer) Annotate(report *analyzer.Report) {
	for i := range report.IPAnalysis.AllIPs {
		if cb.Check(report.IPAnalysis.AllIPs[i].Address) {
			report.IPAnalysis.AllIPs[i].KnownOffender = true
			cb.OffenderHits.Inc()
		}
	}
	for i := range report.IPAnalysis.HighRiskIPs {
		if cb.Check(report.IPAnalysis.HighRiskIPs[i].Address) {
			report.IPAnalysis.HighRiskIPs[i].KnownOffender = true
		}
	}
}
