package analyzer

import (
	"sort"

	"threatlens/internal/parser"
)

// HighRiskThreshold is the per-batch occurrence count at which a source
// address is flagged high-risk.
const HighRiskThreshold = 3

// IPInfo describes one source address observed in a batch. The enrichment
// fields (country, city, is_vpn, known_offender) are filled in by the
// serving layer when GeoIP or threat-intel data is available; the core
// leaves them empty.
type IPInfo struct {
	Address       string `json:"address"`
	Count         int    `json:"occurrence_count"`
	RiskLevel     string `json:"risk_level"`
	Country       string `json:"country,omitempty"`
	City          string `json:"city,omitempty"`
	IsVPN         bool   `json:"is_vpn,omitempty"`
	KnownOffender bool   `json:"known_offender,omitempty"`
}

// tallyIPs counts source addresses across all records of one batch and
// flags those at or above the threshold. Counting is local to the batch;
// nothing persists across invocations.
func tallyIPs(records []parser.Record) []IPInfo {
	freq := make(map[string]int)
	for i := range records {
		if ip := records[i].SourceIP; ip != "" {
			freq[ip]++
		}
	}

	infos := make([]IPInfo, 0, len(freq))
	for ip, count := range freq {
		risk := "low"
		if count >= HighRiskThreshold {
			risk = "high"
		}
		infos = append(infos, IPInfo{Address: ip, Count: count, RiskLevel: risk})
	}

	// Busiest first; ties broken by address so output is reproducible.
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Count != infos[j].Count {
			return infos[i].Count > infos[j].Count
		}
		return infos[i].Address < infos[j].Address
	})

	return infos
}
