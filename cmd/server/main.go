package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"threatlens/internal/alerts"
	"threatlens/internal/analyzer"
	"threatlens/internal/api"
	"threatlens/internal/collector"
	"threatlens/internal/config"
	"threatlens/internal/enricher"
	"threatlens/internal/intelligence"
	"threatlens/internal/storage"
	"threatlens/internal/tailer"
	"threatlens/internal/worker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxWindowWait flushes a partially-filled window after this long.
const maxWindowWait = 10 * time.Second

func main() {
	// 1. Load Configuration (env vars + services.json)
	cfg := config.Load()
	log.Printf("Starting ThreatLens on port %d...", cfg.Port)

	// 1a. Initialize BoltDB Storage
	store, err := storage.NewBoltStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	// 2. Initialize Core Components
	enrich := enricher.New(cfg.GeoIPCityPath, cfg.GeoIPASNPath)
	defer enrich.Close()

	metrics := collector.NewMetrics()
	metrics.Register(prometheus.DefaultRegisterer)

	secAnalyzer := analyzer.New()
	alerter := alerts.NewDispatcher(cfg.WebhookURL)

	// 2a. CrowdSec threat intelligence (optional)
	var intel *intelligence.CrowdSecBouncer
	if cfg.CrowdSecAPIKey != "" {
		intel, err = intelligence.NewCrowdSecBouncer(cfg.CrowdSecAPIKey, cfg.CrowdSecAPIURL)
		if err != nil {
			log.Printf("CrowdSec disabled: %v", err)
			intel = nil
		} else if err := intel.Start(); err != nil {
			log.Printf("CrowdSec disabled: %v", err)
			intel = nil
		} else {
			intel.Register(prometheus.DefaultRegisterer)
			go intel.Run()
		}
	}

	// 2b. Worker Pool
	wp := worker.NewPool(cfg.Workers, secAnalyzer, enrich, intel, metrics, store, alerter)
	wp.Start()

	// 3. Start monitored services from config
	log.Printf("Starting %d configured services...", len(cfg.Services))
	for _, svc := range cfg.Services {
		if !svc.Enabled {
			log.Printf("  [SKIP] %s (disabled)", svc.Name)
			continue
		}
		if svc.LogPath == "" {
			log.Printf("  [SKIP] %s (no log_path)", svc.Name)
			continue
		}
		log.Printf("  [OK]   %s → %s", svc.Name, svc.LogPath)
		startMonitoring(svc, cfg.WindowLines, wp)
	}

	cfg.WatchConfig(func() {
		if err := cfg.LoadServices(); err != nil {
			log.Printf("Failed to reload services: %v", err)
		}
		// New entries take effect on restart; windows already tailing keep running.
	})

	// 4. Retention: prune old reports daily
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := store.DeleteOldReports(time.Duration(cfg.RetentionDays) * 24 * time.Hour); err != nil {
				log.Printf("Retention prune failed: %v", err)
			}
		}
	}()

	// 5. REST API
	apiHandler := api.NewAPI(cfg, secAnalyzer, enrich, intel, metrics, store, alerter)
	mux := http.DefaultServeMux
	apiHandler.RegisterRoutes(mux)

	// 6. Prometheus Metrics
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("HTTP server listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}

// startMonitoring tails one service's log file, groups lines into windows
// and submits each window to the pool as an independent batch.
func startMonitoring(svc config.ServiceDef, windowLines int, wp *worker.Pool) {
	lines := make(chan string, 100)
	windows := make(chan []string)

	tailer.TailFile(svc.LogPath, lines)
	tailer.CollectWindows(lines, windowLines, maxWindowWait, windows)

	go func() {
		for window := range windows {
			wp.Submit(worker.Job{
				ServiceName: svc.Name,
				LogPath:     svc.LogPath,
				Lines:       window,
			})
		}
	}()
}
