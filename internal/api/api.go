package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"threatlens/internal/alerts"
	"threatlens/internal/analyzer"
	"threatlens/internal/collector"
	"threatlens/internal/config"
	"threatlens/internal/enricher"
	"threatlens/internal/intelligence"
	"threatlens/internal/storage"
)

// maxUploadBytes caps one uploaded log file at 32 MiB.
const maxUploadBytes = 32 << 20

// API holds shared state for all handlers.
type API struct {
	Config   *config.Config
	Analyzer *analyzer.Analyzer
	Enricher *enricher.Enricher
	Intel    *intelligence.CrowdSecBouncer // nil when disabled
	Metrics  *collector.Metrics
	Store    storage.Store
	Alerts   *alerts.Dispatcher
}

func NewAPI(cfg *config.Config, a *analyzer.Analyzer, e *enricher.Enricher,
	intel *intelligence.CrowdSecBouncer, m *collector.Metrics, store storage.Store,
	al *alerts.Dispatcher) *API {
	return &API{
		Config:   cfg,
		Analyzer: a,
		Enricher: e,
		Intel:    intel,
		Metrics:  m,
		Store:    store,
		Alerts:   al,
	}
}

// RegisterRoutes mounts all API endpoints on the given mux.
func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/analyze", a.cors(a.handleAnalyze))
	mux.HandleFunc("/api/reports", a.cors(a.handleReports))
	mux.HandleFunc("/api/health", a.cors(a.handleHealth))
}

// ── CORS middleware ──────────────────────────────────────────────
func (a *API) cors(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

// ── Analyze ──────────────────────────────────────────────────────

// handleAnalyze accepts a log batch as a multipart "file" field or as a
// raw text body, runs it through the pipeline and returns the full report.
func (a *API) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	content, err := readLogContent(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if content == "" {
		http.Error(w, "Empty log content", http.StatusBadRequest)
		return
	}

	report := a.Analyzer.Analyze(content)
	a.Enricher.Annotate(report)
	if a.Intel != nil {
		a.Intel.Annotate(report)
	}
	a.Metrics.Observe(report)

	full, err := json.Marshal(report)
	if err != nil {
		http.Error(w, "Failed to encode report: "+err.Error(), http.StatusInternalServerError)
		return
	}

	id, err := a.Store.SaveReport(storage.ReportSummary{
		CreatedAt:      time.Now().Format(time.RFC3339),
		Source:         "upload",
		TotalLines:     report.ParsingInfo.TotalLines,
		TotalThreats:   report.RiskAssessment.TotalThreats,
		AggregateScore: report.RiskAssessment.CVSSAggregateScore,
		Severity:       report.RiskAssessment.CVSSSeverity,
	}, full)
	if err != nil {
		// The analysis itself succeeded; log and keep serving the result.
		log.Printf("API: failed to persist report: %v", err)
	}

	a.Alerts.ReportAlert("upload", report)

	w.Header().Set("Content-Type", "application/json")
	if err == nil {
		w.Header().Set("X-Report-ID", id)
	}
	w.Write(full)
}

func readLogContent(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return "", err
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ── Reports ──────────────────────────────────────────────────────

func (a *API) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Single report by ID
	if id := r.URL.Query().Get("id"); id != "" {
		data, err := a.Store.GetReport(id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	opts := storage.ListOpts{
		Severity: r.URL.Query().Get("severity"),
		Source:   r.URL.Query().Get("source"),
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		opts.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil {
		opts.PageSize = v
	}
	if t, err := time.Parse(time.RFC3339, r.URL.Query().Get("since")); err == nil {
		opts.Since = t
	}
	if t, err := time.Parse(time.RFC3339, r.URL.Query().Get("until")); err == nil {
		opts.Until = t
	}

	result, err := a.Store.ListReports(opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ── Health ───────────────────────────────────────────────────────

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	health := map[string]interface{}{
		"status":   "ok",
		"services": len(a.Config.Services),
	}

	if percent, err := cpu.Percent(0, false); err == nil && len(percent) > 0 {
		health["cpu_percent"] = percent[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		health["mem_percent"] = vm.UsedPercent
	}

	writeJSON(w, http.StatusOK, health)
}

// ── Helpers ──────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
