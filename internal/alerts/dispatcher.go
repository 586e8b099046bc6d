package alerts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"threatlens/internal/analyzer"
)

// Dispatcher posts alerts to a configured webhook. An empty URL disables
// alerting entirely.
type Dispatcher struct {
	WebhookURL string
	client     *http.Client
}

func NewDispatcher(webhookURL string) *Dispatcher {
	return &Dispatcher{
		WebhookURL: webhookURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// ReportAlert fires when a batch scores High or Critical. The message is a
// short summary; the full report stays in storage.
func (d *Dispatcher) ReportAlert(source string, report *analyzer.Report) {
	sev := report.RiskAssessment.CVSSSeverity
	if sev != "High" && sev != "Critical" {
		return
	}

	description := fmt.Sprintf(
		"%d threat indicator(s), aggregate CVSS %.1f. High-risk IPs: %d.",
		report.RiskAssessment.TotalThreats,
		report.RiskAssessment.CVSSAggregateScore,
		len(report.IPAnalysis.HighRiskIPs))

	d.Send("Security threats detected", description, sev, source)
}

func (d *Dispatcher) Send(title, description, severity, source string) {
	if d.WebhookURL == "" {
		return // Webhooks disabled
	}

	// Generic content payload; Discord-compatible, fine for custom
	// receivers too.
	type webhookPayload struct {
		Content string `json:"content"`
	}

	msg := fmt.Sprintf("[%s] **%s**\n%s\nSource: %s", severity, title, description, source)
	wp := webhookPayload{Content: msg}

	body, err := json.Marshal(wp)
	if err != nil {
		log.Printf("Failed to marshal alert: %v", err)
		return
	}

	go func() {
		resp, err := d.client.Post(d.WebhookURL, "application/json", bytes.NewBuffer(body))
		if err != nil {
			log.Printf("Failed to send webhook: %v", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			log.Printf("Webhook returned status %d", resp.StatusCode)
		}
	}()
}
