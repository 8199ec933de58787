package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "./data", cfg.Poller.DataDir)
	assert.Equal(t, "buildID.json", cfg.Poller.MarkerFile)
	assert.Equal(t, "@every 10s", cfg.Poller.Schedule)
	assert.True(t, cfg.Poller.RunOnStart)
	assert.Equal(t, "8000", cfg.HTTPServer.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTPServer.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.JSON)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ERATECACHE_DATA_DIR", "/srv/rates")
	t.Setenv("ERATECACHE_SCHEDULE", "30")
	t.Setenv("LOG_JSON", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/rates", cfg.Poller.DataDir)
	assert.Equal(t, "30", cfg.Poller.Schedule)
	assert.True(t, cfg.Log.JSON)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "eratecache.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
poller:
  data_dir: /var/lib/rates
  marker_file: marker.json
  schedule: "*/5 * * * *"
http:
  port: "9090"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/rates", cfg.Poller.DataDir)
	assert.Equal(t, "marker.json", cfg.Poller.MarkerFile)
	assert.Equal(t, "9090", cfg.HTTPServer.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_InvalidSchedule(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ERATECACHE_SCHEDULE", "every so often")

	_, err := Load("")
	assert.Error(t, err)
}

func TestParseSchedule(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	s, err := ParseSchedule("15")
	require.NoError(t, err)
	assert.Equal(t, start.Add(15*time.Second), s.Next(start))

	s, err = ParseSchedule("@every 1m")
	require.NoError(t, err)
	assert.Equal(t, start.Add(time.Minute), s.Next(start))

	s, err = ParseSchedule("*/5 * * * *")
	require.NoError(t, err)
	assert.Equal(t, start.Add(5*time.Minute), s.Next(start))

	_, err = ParseSchedule("0")
	assert.Error(t, err)
	_, err = ParseSchedule("-3")
	assert.Error(t, err)
	_, err = ParseSchedule("soon")
	assert.Error(t, err)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores the original one when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
