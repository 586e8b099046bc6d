package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"

	"github.com/fsnotify/fsnotify"
)

// ServiceDef describes one log file the server follows continuously.
type ServiceDef struct {
	Name    string `json:"name"`
	LogPath string `json:"log_path"`
	Enabled bool   `json:"enabled"`
}

type Config struct {
	Port   int
	DBPath string

	// Batch windowing for monitored files
	WindowLines int
	Workers     int

	// Optional integrations
	WebhookURL     string
	GeoIPCityPath  string
	GeoIPASNPath   string
	CrowdSecAPIKey string
	CrowdSecAPIURL string

	RetentionDays int

	ServicesConfigPath string
	Services           []ServiceDef
}

func Load() *Config {
	cfg := &Config{
		Port:               getEnvInt("PORT", 8080),
		DBPath:             getEnv("DB_PATH", "data/threatlens.db"),
		WindowLines:        getEnvInt("WINDOW_LINES", 200),
		Workers:            getEnvInt("WORKERS", 5),
		WebhookURL:         getEnv("WEBHOOK_URL", ""),
		GeoIPCityPath:      getEnv("GEOIP_CITY_PATH", ""),
		GeoIPASNPath:       getEnv("GEOIP_ASN_PATH", ""),
		CrowdSecAPIKey:     getEnv("CROWDSEC_API_KEY", ""),
		CrowdSecAPIURL:     getEnv("CROWDSEC_API_URL", "http://localhost:8080/"),
		RetentionDays:      getEnvInt("RETENTION_DAYS", 30),
		ServicesConfigPath: getEnv("SERVICES_CONFIG_PATH", "services.json"),
	}

	if err := cfg.LoadServices(); err != nil {
		log.Printf("Config: no services file loaded (%v), starting with none", err)
	}
	return cfg
}

// LoadServices reads the monitored services list from the JSON config file.
func (c *Config) LoadServices() error {
	data, err := os.ReadFile(c.ServicesConfigPath)
	if err != nil {
		return err
	}

	var wrapper struct {
		Services []ServiceDef `json:"services"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}

	c.Services = wrapper.Services
	return nil
}

// WatchConfig invokes onChange whenever the services file is rewritten.
// API edits and manual edits both flow through here.
func (c *Config) WatchConfig(onChange func()) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("Config: watch disabled: %v", err)
		return
	}

	if err := watcher.Add(c.ServicesConfigPath); err != nil {
		log.Printf("Config: cannot watch %s: %v", c.ServicesConfigPath, err)
		watcher.Close()
		return
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					log.Printf("Config: %s changed, reloading", c.ServicesConfigPath)
					onChange()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("Config: watch error: %v", err)
			}
		}
	}()
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
