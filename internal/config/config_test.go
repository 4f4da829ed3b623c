package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/siterisk-cli/internal/model"
)

func chtemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chtemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.Store.Driver)
	assert.Equal(t, "data/sites.csv", cfg.Store.SitesPath)
	assert.Equal(t, "siterisk.db", cfg.Store.SQLitePath)
	assert.Equal(t, 100, cfg.Scoring.InitialScore)
	assert.Equal(t, 25, cfg.Scoring.PenaltyPerSite)
	assert.Equal(t, 0, cfg.Scoring.MinScore)
	assert.InDelta(t, 50, cfg.Scoring.RadiusMiles, 0.001)
	assert.Equal(t, 5, cfg.Scoring.BatchConcurrency)
	assert.InDelta(t, 50, cfg.Geocode.RateLimit, 0.001)
	assert.Equal(t, 10, cfg.Geocode.TimeoutSecs)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chtemp(t)

	yaml := `
store:
  driver: sqlite
  sqlite_path: /var/lib/siterisk.db
scoring:
  radius_miles: 25
  penalty_per_site: 10
log:
  level: debug
  format: console
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "/var/lib/siterisk.db", cfg.Store.SQLitePath)
	assert.InDelta(t, 25, cfg.Scoring.RadiusMiles, 0.001)
	assert.Equal(t, 10, cfg.Scoring.PenaltyPerSite)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values
	assert.Equal(t, 100, cfg.Scoring.InitialScore)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chtemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("SITERISK_STORE_DRIVER", "postgres")
	t.Setenv("SITERISK_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chtemp(t)

	t.Setenv("SITERISK_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func validDefaults() *Config {
	return &Config{
		Store: StoreConfig{Driver: "csv"},
		Scoring: ScoringConfig{
			InitialScore:     100,
			PenaltyPerSite:   25,
			RadiusMiles:      50,
			BatchConcurrency: 5,
		},
		Server: ServerConfig{Port: 8080},
	}
}

func TestValidateScore(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("score"))

	cfg := validDefaults()
	cfg.Scoring.PenaltyPerSite = 0
	cfg.Scoring.RadiusMiles = -1
	err := cfg.Validate("score")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "penalty_per_site")
	assert.Contains(t, err.Error(), "radius_miles")
}

func TestValidateConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Scoring.BatchConcurrency = 0
	err := cfg.Validate("score")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "batch_concurrency must be between 1 and 50")

	cfg.Scoring.BatchConcurrency = 51
	assert.Error(t, cfg.Validate("score"))

	cfg.Scoring.BatchConcurrency = 50
	assert.NoError(t, cfg.Validate("score"))
}

func TestValidateServe(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("serve"))

	cfg.Server.Port = 0
	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestValidateDriver(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "oracle"
	err := cfg.Validate("score")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver")

	cfg.Store.Driver = "postgres"
	err = cfg.Validate("score")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")

	cfg.Store.DatabaseURL = "postgres://localhost/siterisk"
	assert.NoError(t, cfg.Validate("score"))
}

func TestValidateImportNeedsDatabase(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite or postgres")

	cfg.Store.Driver = "sqlite"
	cfg.Store.SQLitePath = "siterisk.db"
	assert.NoError(t, cfg.Validate("import"))
}

func TestValidateUnknownMode(t *testing.T) {
	err := validDefaults().Validate("unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestLoadThresholds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("100: safe\n75: Low\n50: MEDIUM\n25: high\n0: critical\n"), 0644))

	got, err := LoadThresholds(path)
	require.NoError(t, err)
	assert.Equal(t, map[int]model.RiskLevel{
		100: model.RiskSafe,
		75:  model.RiskLow,
		50:  model.RiskMedium,
		25:  model.RiskHigh,
		0:   model.RiskCritical,
	}, got)
}

func TestLoadThresholdsErrors(t *testing.T) {
	_, err := LoadThresholds(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte(""), 0644))
	_, err = LoadThresholds(empty)
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
