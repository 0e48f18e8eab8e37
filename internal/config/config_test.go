package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultSheetID, cfg.SheetID)
	assert.Equal(t, defaultSheetGID, cfg.SheetGID)
	assert.Equal(t, "data/records.db", cfg.DatabasePath)
	assert.Equal(t, "web/index.html", cfg.OutputMapPath)
	assert.Equal(t, 30*time.Second, cfg.SnapshotTimeout)
	assert.Equal(t, 9.731, cfg.MapCenterLat)
	assert.Equal(t, 99.990, cfg.MapCenterLng)
	assert.Equal(t, 12, cfg.MapZoom)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("GOOGLE_SHEET_ID", "custom-sheet")
	t.Setenv("GOOGLE_SHEET_GID", "42")
	t.Setenv("SHEET_PUBLISHED_URL", "https://example.com/pub.csv")
	t.Setenv("DATABASE_PATH", "/tmp/test.db")
	t.Setenv("SNAPSHOT_TIMEOUT", "5s")
	t.Setenv("MAP_CENTER_LAT", "13.75")
	t.Setenv("MAP_CENTER_LNG", "100.5")
	t.Setenv("MAP_ZOOM", "14")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "custom-sheet", cfg.SheetID)
	assert.Equal(t, "/tmp/test.db", cfg.DatabasePath)
	assert.Equal(t, 5*time.Second, cfg.SnapshotTimeout)
	assert.Equal(t, 13.75, cfg.MapCenterLat)
	assert.Equal(t, 100.5, cfg.MapCenterLng)
	assert.Equal(t, 14, cfg.MapZoom)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad snapshot timeout", "SNAPSHOT_TIMEOUT", "soon"},
		{"negative shutdown timeout", "SHUTDOWN_TIMEOUT", "-1s"},
		{"non-numeric latitude", "MAP_CENTER_LAT", "north"},
		{"latitude out of range", "MAP_CENTER_LAT", "120"},
		{"longitude out of range", "MAP_CENTER_LNG", "181"},
		{"non-numeric zoom", "MAP_ZOOM", "close"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestSnapshotURLs(t *testing.T) {
	t.Setenv("GOOGLE_SHEET_ID", "sheet-a")
	t.Setenv("GOOGLE_SHEET_GID", "7")
	t.Setenv("SHEET_PUBLISHED_URL", "https://example.com/pub.csv")

	cfg, err := Load()
	require.NoError(t, err)

	urls := cfg.SnapshotURLs()
	require.Len(t, urls, 2)
	assert.Equal(t, "https://example.com/pub.csv", urls[0])
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/sheet-a/export?format=csv&gid=7", urls[1])
}
