package enricher

import (
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"

	"threatlens/internal/analyzer"
)

// Enricher annotates the IP analysis of a report with GeoIP data. Both
// databases are optional; without them enrichment is a no-op and reports
// keep the core's deterministic output.
type Enricher struct {
	cityDB *geoip2.Reader
	asnDB  *geoip2.Reader
}

func New(cityDBPath, asnDBPath string) *Enricher {
	e := &Enricher{}

	if cityDBPath != "" {
		if db, err := geoip2.Open(cityDBPath); err == nil {
			e.cityDB = db
		}
	}
	if asnDBPath != "" {
		if db, err := geoip2.Open(asnDBPath); err == nil {
			e.asnDB = db
		}
	}

	return e
}

// Close should be called on shutdown.
func (e *Enricher) Close() {
	if e.cityDB != nil {
		e.cityDB.Close()
	}
	if e.asnDB != nil {
		e.asnDB.Close()
	}
}

// vpnMarkers flag ASN organizations that are overwhelmingly VPN exits or
// rented infrastructure rather than residential networks.
var vpnMarkers = []string{"vpn", "hosting", "datacenter", "data center", "cloud", "proxy"}

// Annotate fills Country, City and IsVPN on every address in the report's
// IP analysis. Private and unparseable addresses are left untouched.
func (e *Enricher) Annotate(report *analyzer.Report) {
	if e.cityDB == nil && e.asnDB == nil {
		return
	}
	annotateList(e, report.IPAnalysis.AllIPs)
	annotateList(e, report.IPAnalysis.HighRiskIPs)
}

func annotateList(e *Enricher, infos []analyzer.IPInfo) {
	for i := range infos {
		ip := net.ParseIP(infos[i].Address)
		if ip == nil || ip.IsPrivate() || ip.IsLoopback() {
			continue
		}

		if e.cityDB != nil {
			if record, err := e.cityDB.City(ip); err == nil {
				infos[i].Country = record.Country.IsoCode
				infos[i].City = record.City.Names["en"]
			}
		}

		if e.asnDB != nil {
			if record, err := e.asnDB.ASN(ip); err == nil {
				org := strings.ToLower(record.AutonomousSystemOrganization)
				for _, marker := range vpnMarkers {
					if strings.Contains(org, marker) {
						infos[i].IsVPN = true
						break
					}
				}
			}
		}
	}
}

// ClassifyIP returns "internal", "external", "loopback" or "invalid".
func ClassifyIP(ipStr string) string {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return "invalid"
	}
	if ip.IsLoopback() {
		return "loopback"
	}
	if ip.IsPrivate() {
		return "internal"
	}
	return "external"
}
