// Package config loads service settings from the environment, optionally
// layered over a YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileEnv names the environment variable pointing at a YAML config file.
const FileEnv = "DTCSCAN_CONFIG"

type Config struct {
	Port string `yaml:"port"`

	// Auth
	APIKey string `yaml:"api_key"`

	// Worker pool
	WorkerCount  int `yaml:"worker_count"`
	MaxQueueSize int `yaml:"max_queue_size"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Job state
	JobTTL time.Duration `yaml:"job_ttl"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`

	// Tracker enrichment
	TrackerURLTemplate string `yaml:"tracker_url_template"`
	TrackerMatch       string `yaml:"tracker_match"`
	TrackerSheet       string `yaml:"tracker_sheet"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:                 "8090",
		WorkerCount:          4,
		MaxQueueSize:         100,
		MaxUploadBytes:       52428800, // 50MB
		JobTTL:               1 * time.Hour,
		PDFFallbackPdftotext: true,
		TrackerURLTemplate:   "https://jira.kostal.com/browse/{ticket}",
		TrackerMatch:         "loose",
		TrackerSheet:         "Exporter",
	}
}

// Load reads settings from the environment over the defaults.
func Load() Config {
	cfg := Default()
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg
}

// LoadFile reads a YAML file over the defaults, then the environment over
// that.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// Resolve loads path when given, else the file named by DTCSCAN_CONFIG,
// else the environment alone.
func Resolve(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(FileEnv)
	}
	if path == "" {
		return Load(), nil
	}
	return LoadFile(path)
}

func (c *Config) applyEnv() {
	c.Port = envOr("PORT", c.Port)
	c.APIKey = envOr("DTCSCAN_API_KEY", c.APIKey)
	c.WorkerCount = envInt("WORKER_COUNT", c.WorkerCount)
	c.MaxQueueSize = envInt("MAX_QUEUE_SIZE", c.MaxQueueSize)
	c.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", c.MaxUploadBytes)
	c.JobTTL = envDuration("JOB_TTL", c.JobTTL)
	c.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", c.PDFFallbackPdftotext)
	c.TrackerURLTemplate = envOr("TRACKER_URL_TEMPLATE", c.TrackerURLTemplate)
	c.TrackerMatch = envOr("TRACKER_MATCH", c.TrackerMatch)
	c.TrackerSheet = envOr("TRACKER_SHEET", c.TrackerSheet)
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Port == "" {
		c.Port = d.Port
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = d.WorkerCount
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = d.MaxQueueSize
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.JobTTL <= 0 {
		c.JobTTL = d.JobTTL
	}
	if c.TrackerURLTemplate == "" {
		c.TrackerURLTemplate = d.TrackerURLTemplate
	}
	if c.TrackerMatch == "" {
		c.TrackerMatch = d.TrackerMatch
	}
	if c.TrackerSheet == "" {
		c.TrackerSheet = d.TrackerSheet
	}
}

// Validate checks the settings the HTTP service needs.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DTCSCAN_API_KEY is required")
	}
	return c.ValidateTracker()
}

// ValidateTracker checks the tracker enrichment settings.
func (c Config) ValidateTracker() error {
	if !strings.Contains(c.TrackerURLTemplate, "{ticket}") {
		return fmt.Errorf("TRACKER_URL_TEMPLATE must contain {ticket}")
	}
	switch strings.ToLower(c.TrackerMatch) {
	case "loose", "bounded":
	default:
		return fmt.Errorf("TRACKER_MATCH must be loose or bounded, got %q", c.TrackerMatch)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
