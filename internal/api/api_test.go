package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"threatlens/internal/alerts"
	"threatlens/internal/analyzer"
	"threatlens/internal/collector"
	"threatlens/internal/config"
	"threatlens/internal/enricher"
	"threatlens/internal/storage"
)

// stubStore keeps reports in memory and can be told to fail saves.
type stubStore struct {
	failSaves bool
	reports   map[string][]byte
}

func newStubStore() *stubStore {
	return &stubStore{reports: make(map[string][]byte)}
}

func (s *stubStore) SaveReport(summary storage.ReportSummary, full []byte) (string, error) {
	if s.failSaves {
		return "", fmt.Errorf("disk full")
	}
	id := fmt.Sprintf("r%d", len(s.reports)+1)
	s.reports[id] = full
	return id, nil
}

func (s *stubStore) GetReport(id string) ([]byte, error) {
	if data, ok := s.reports[id]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("report %s not found", id)
}

func (s *stubStore) ListReports(opts storage.ListOpts) (*storage.ListResult[storage.ReportSummary], error) {
	return &storage.ListResult[storage.ReportSummary]{Items: []storage.ReportSummary{}}, nil
}

func (s *stubStore) DeleteOldReports(olderThan time.Duration) (int, error) { return 0, nil }

func (s *stubStore) Close() error { return nil }

func newTestAPI(store storage.Store) *API {
	return NewAPI(
		&config.Config{},
		analyzer.New(),
		enricher.New("", ""),
		nil,
		collector.NewMetrics(),
		store,
		alerts.NewDispatcher(""),
	)
}

func TestHandleAnalyzeReportID(t *testing.T) {
	store := newStubStore()
	a := newTestAPI(store)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze",
		strings.NewReader("2024-01-15 10:30:45 [ERROR] failed login from 10.0.0.1 user: admin"))
	w := httptest.NewRecorder()
	a.handleAnalyze(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	id := w.Header().Get("X-Report-ID")
	if id == "" {
		t.Fatal("X-Report-ID header missing after successful save")
	}
	if _, err := store.GetReport(id); err != nil {
		t.Errorf("report %s not persisted: %v", id, err)
	}
}

// A persistence failure still serves the analysis but must not emit an
// empty report ID header.
func TestHandleAnalyzeSaveFailure(t *testing.T) {
	store := newStubStore()
	store.failSaves = true
	a := newTestAPI(store)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze",
		strings.NewReader("2024-01-15 10:30:45 [ERROR] failed login from 10.0.0.1 user: admin"))
	w := httptest.NewRecorder()
	a.handleAnalyze(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200 (analysis succeeded)", w.Code)
	}
	if _, present := w.Result().Header["X-Report-Id"]; present {
		t.Error("X-Report-ID header set although the save failed")
	}
	if !strings.Contains(w.Body.String(), `"risk_assessment"`) {
		t.Error("response body missing the analysis report")
	}
}

func TestHandleAnalyzeEmptyBody(t *testing.T) {
	a := newTestAPI(newStubStore())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(""))
	w := httptest.NewRecorder()
	a.handleAnalyze(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400 for empty content", w.Code)
	}
}
