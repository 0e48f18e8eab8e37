// Package config loads service settings from environment variables, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for the PACS sheet and the Koh Phangan map viewport.
const (
	defaultSheetID      = "1PDDu74ZpcZeb6pWxjoRgVtZdHiPb-W2MfBzpT_suUFw"
	defaultSheetGID     = "1076834206"
	defaultPublishedURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vRbjv9C088piZwRGSqqW4sFlctHS_pLfRdwuvPtUOUIVtA4TCiPFJQqmvdHw7R69KK1Y56ezUKguxi6/pub?gid=1076834206&single=true&output=csv"

	defaultMapCenterLat = 9.731
	defaultMapCenterLng = 99.990
	defaultMapZoom      = 12
)

// Config holds all settings, populated from environment variables.
type Config struct {
	SheetID      string
	SheetGID     string
	PublishedURL string

	DatabasePath    string
	OutputMapPath   string
	ReportPath      string
	SnapshotTimeout time.Duration

	MapCenterLat float64
	MapCenterLng float64
	MapZoom      int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is merged in first when
// present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load() // absent .env is the normal case

	snapshotTimeout, err := parseDuration("SNAPSHOT_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	mapCenterLat, err := parseFloat("MAP_CENTER_LAT", defaultMapCenterLat)
	if err != nil {
		return nil, err
	}
	mapCenterLng, err := parseFloat("MAP_CENTER_LNG", defaultMapCenterLng)
	if err != nil {
		return nil, err
	}
	mapZoom, err := parseInt("MAP_ZOOM", defaultMapZoom)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		SheetID:      envOrDefault("GOOGLE_SHEET_ID", defaultSheetID),
		SheetGID:     envOrDefault("GOOGLE_SHEET_GID", defaultSheetGID),
		PublishedURL: envOrDefault("SHEET_PUBLISHED_URL", defaultPublishedURL),

		DatabasePath:    envOrDefault("DATABASE_PATH", "data/records.db"),
		OutputMapPath:   envOrDefault("OUTPUT_MAP_PATH", "web/index.html"),
		ReportPath:      envOrDefault("REPORT_PATH", "data/field_report.csv"),
		SnapshotTimeout: snapshotTimeout,

		MapCenterLat: mapCenterLat,
		MapCenterLng: mapCenterLng,
		MapZoom:      mapZoom,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "text"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.SheetID == "" {
		return nil, errors.New("GOOGLE_SHEET_ID is required")
	}
	if cfg.MapCenterLat < -90 || cfg.MapCenterLat > 90 {
		return nil, errors.New("MAP_CENTER_LAT out of range")
	}
	if cfg.MapCenterLng < -180 || cfg.MapCenterLng > 180 {
		return nil, errors.New("MAP_CENTER_LNG out of range")
	}

	return cfg, nil
}

// SnapshotURLs returns the CSV sources in fetch-priority order: the
// published URL first (more reliable behind automation), then the direct
// export URL as fallback.
func (c *Config) SnapshotURLs() []string {
	export := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s",
		c.SheetID, c.SheetGID)
	if c.PublishedURL == "" {
		return []string{export}
	}
	return []string{c.PublishedURL, export}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	v := envOrDefault(key, fallback)
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}
