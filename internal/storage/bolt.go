package storage

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketReports    = []byte("reports")     // full report JSON
	bucketReportMeta = []byte("report_meta") // lightweight summaries
)

// BoltStore implements the Store interface using bbolt.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) a bbolt database at the given path.
func NewBoltStore(path string) (*BoltStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketReports, bucketReportMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}

	log.Printf("BoltStore: opened %s", path)
	return &BoltStore{db: db}, nil
}

// ── Reports ──────────────────────────────────────────────────────

func (s *BoltStore) SaveReport(summary ReportSummary, full []byte) (string, error) {
	if summary.ID == "" {
		summary.ID = generateStoreID()
	}
	if summary.CreatedAt == "" {
		summary.CreatedAt = time.Now().Format(time.RFC3339)
	}

	meta, err := json.Marshal(summary)
	if err != nil {
		return "", err
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketReports).Put([]byte(summary.ID), full); err != nil {
			return err
		}
		return tx.Bucket(bucketReportMeta).Put([]byte(summary.ID), meta)
	})
	return summary.ID, err
}

func (s *BoltStore) GetReport(id string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketReports).Get([]byte(id))
		if v == nil {
			return fmt.Errorf("report %s not found", id)
		}
		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	return data, err
}

func (s *BoltStore) ListReports(opts ListOpts) (*ListResult[ReportSummary], error) {
	opts = normalizeOpts(opts)

	var all []ReportSummary
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketReportMeta).ForEach(func(_, v []byte) error {
			var rs ReportSummary
			if err := json.Unmarshal(v, &rs); err != nil {
				return nil // skip corrupt entries
			}
			if opts.Severity != "" && !strings.EqualFold(rs.Severity, opts.Severity) {
				return nil
			}
			if opts.Source != "" && !strings.EqualFold(rs.Source, opts.Source) {
				return nil
			}
			if !opts.Since.IsZero() {
				t, _ := time.Parse(time.RFC3339, rs.CreatedAt)
				if t.Before(opts.Since) {
					return nil
				}
			}
			if !opts.Until.IsZero() {
				t, _ := time.Parse(time.RFC3339, rs.CreatedAt)
				if t.After(opts.Until) {
					return nil
				}
			}
			all = append(all, rs)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	// Sort newest first
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt > all[j].CreatedAt
	})

	return paginate(all, opts), nil
}

func (s *BoltStore) DeleteOldReports(olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	deleted := 0

	err := s.db.Update(func(tx *bolt.Tx) error {
		metaBucket := tx.Bucket(bucketReportMeta)
		reportBucket := tx.Bucket(bucketReports)

		var toDelete [][]byte
		metaBucket.ForEach(func(k, v []byte) error {
			var rs ReportSummary
			if err := json.Unmarshal(v, &rs); err != nil {
				return nil
			}
			t, _ := time.Parse(time.RFC3339, rs.CreatedAt)
			if !t.IsZero() && t.Before(cutoff) {
				key := make([]byte, len(k))
				copy(key, k)
				toDelete = append(toDelete, key)
			}
			return nil
		})

		for _, k := range toDelete {
			metaBucket.Delete(k)
			reportBucket.Delete(k)
			deleted++
		}
		return nil
	})

	if deleted > 0 {
		log.Printf("BoltStore: pruned %d reports older than %s", deleted, olderThan)
	}
	return deleted, err
}

// ── Lifecycle ────────────────────────────────────────────────────

func (s *BoltStore) Close() error {
	log.Println("BoltStore: closing database")
	return s.db.Close()
}

// ── Helpers ──────────────────────────────────────────────────────

func normalizeOpts(opts ListOpts) ListOpts {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 || opts.PageSize > 100 {
		opts.PageSize = 20
	}
	return opts
}

func paginate[T any](all []T, opts ListOpts) *ListResult[T] {
	total := len(all)
	totalPages := (total + opts.PageSize - 1) / opts.PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.PageSize
	if start >= total {
		return &ListResult[T]{Items: []T{}, Total: total, Page: opts.Page, PageSize: opts.PageSize, TotalPages: totalPages}
	}
	end := start + opts.PageSize
	if end > total {
		end = total
	}

	return &ListResult[T]{
		Items:      all[start:end],
		Total:      total,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalPages: totalPages,
	}
}

func generateStoreID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
