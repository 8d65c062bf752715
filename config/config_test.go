package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "absence.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileThenEnv(t *testing.T) {
	// GIVEN: A YAML file setting every field
	// WHEN: ABSENCE_DB and ABSENCE_CORS_ORIGINS are also set
	// THEN: The environment wins for those two, the file for the rest
	path := writeFile(t, `
addr: ":9090"
db: "from-file.db"
log_level: debug
cors_origins: ["https://hr.example.com"]
shutdown_timeout: 45s
warm_years: 3
`)
	t.Setenv("ABSENCE_DB", "from-env.db")
	t.Setenv("ABSENCE_CORS_ORIGINS", "https://a.example.com, ,https://b.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "from-env.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 45*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 3, cfg.WarmYears)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "addr: [unclosed"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "log_level: loud"))
	assert.ErrorContains(t, err, "log_level")

	_, err = Load(writeFile(t, "warm_years: -1"))
	assert.ErrorContains(t, err, "warm_years")
}

func TestLoad_BadEnvNumbersFallBack(t *testing.T) {
	t.Setenv("ABSENCE_WARM_YEARS", "many")
	t.Setenv("ABSENCE_SHUTDOWN_TIMEOUT", "soon")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.WarmYears)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
