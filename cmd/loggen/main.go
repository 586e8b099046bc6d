// Log generator: produces a synthetic attack log and submits it to a
// running ThreatLens server for analysis.
// Run: go run cmd/loggen/main.go
// Verify: curl http://localhost:8080/api/reports

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"
)

var attackLines = []string{
	"2024-01-15 10:30:45 [ERROR] Failed login attempt from 192.168.1.100 user: admin",
	"2024-01-15 10:30:47 [ERROR] Failed login attempt from 192.168.1.100 user: admin",
	"2024-01-15 10:30:49 [ERROR] Failed login attempt from 192.168.1.100 user: root",
	`203.0.113.50 - - [15/Jan/2024:10:31:02 +0000] "GET /products?id=1' OR '1'='1 HTTP/1.1" 200 512`,
	`203.0.113.50 - - [15/Jan/2024:10:31:05 +0000] "GET /products?id=1 UNION SELECT password FROM users HTTP/1.1" 500 128`,
	`198.51.100.7 - - [15/Jan/2024:10:31:20 +0000] "GET /search?q=<script>alert(1)</script> HTTP/1.1" 200 256`,
	`198.51.100.7 - - [15/Jan/2024:10:31:33 +0000] "GET /../../etc/passwd HTTP/1.1" 403 64`,
	"Jan 15 10:32:01 gateway sshd: root access attempt denied for 203.0.113.50",
	"2024-01-15 10:32:10 [CRITICAL] malware signature matched in upload from 198.51.100.7",
	"2024-01-15 10:32:30 [WARN] port scan detected: nmap probe from 203.0.113.50",
	"some completely unstructured noise the generator throws in",
	"2024-01-15 10:33:00 [INFO] nightly backup completed successfully",
}

func main() {
	server := flag.String("server", "http://localhost:8080", "ThreatLens server base URL")
	lines := flag.Int("lines", 60, "number of log lines to generate")
	flag.Parse()

	fmt.Println("=== ThreatLens Log Generator ===")
	fmt.Printf("Generating %d lines for %s\n\n", *lines, *server)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var b strings.Builder
	for i := 0; i < *lines; i++ {
		b.WriteString(attackLines[rng.Intn(len(attackLines))])
		b.WriteString("\n")
	}

	resp, err := http.Post(*server+"/api/analyze", "text/plain", bytes.NewBufferString(b.String()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "POST failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "server returned %s\n", resp.Status)
		os.Exit(1)
	}

	var report struct {
		RiskAssessment struct {
			Level              string  `json:"level"`
			TotalThreats       int     `json:"total_threats"`
			CVSSAggregateScore float64 `json:"cvss_aggregate_score"`
			CVSSSeverity       string  `json:"cvss_severity"`
		} `json:"risk_assessment"`
		ParsingInfo struct {
			TotalLines         int `json:"total_lines"`
			SuccessfullyParsed int `json:"successfully_parsed"`
			FailedToParse      int `json:"failed_to_parse"`
		} `json:"parsing_info"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		fmt.Fprintf(os.Stderr, "decode response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Report %s\n", resp.Header.Get("X-Report-ID"))
	fmt.Printf("  Lines:     %d total, %d structured, %d scraped\n",
		report.ParsingInfo.TotalLines, report.ParsingInfo.SuccessfullyParsed, report.ParsingInfo.FailedToParse)
	fmt.Printf("  Threats:   %d (%s risk)\n", report.RiskAssessment.TotalThreats, report.RiskAssessment.Level)
	fmt.Printf("  Aggregate: %.1f (%s)\n", report.RiskAssessment.CVSSAggregateScore, report.RiskAssessment.CVSSSeverity)
}
