package storage

import "time"

// ── Data Types ───────────────────────────────────────────────────

// ReportSummary is a lightweight view of a persisted analysis report
// (no per-IP or per-threat detail).
type ReportSummary struct {
	ID             string  `json:"id"`
	CreatedAt      string  `json:"created_at"`
	Source         string  `json:"source"` // "upload" or the monitored file path
	TotalLines     int     `json:"total_lines"`
	TotalThreats   int     `json:"total_threats"`
	AggregateScore float64 `json:"aggregate_score"`
	Severity       string  `json:"severity"`
}

// ListOpts defines pagination and filtering for list queries.
type ListOpts struct {
	Page     int    // 1-indexed
	PageSize int    // default 20
	Severity string // filter by aggregate severity (empty = all)
	Source   string // filter by source (empty = all)
	Since    time.Time
	Until    time.Time
}

// ListResult wraps a paginated result set.
type ListResult[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// ── Store Interface ──────────────────────────────────────────────

// Store is the persistence interface for analysis reports.
// Implementations must be goroutine-safe.
type Store interface {
	SaveReport(summary ReportSummary, full []byte) (string, error)
	GetReport(id string) ([]byte, error)
	ListReports(opts ListOpts) (*ListResult[ReportSummary], error)
	DeleteOldReports(olderThan time.Duration) (int, error)

	Close() error
}
