package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/siterisk-cli/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Geocode GeocodeConfig `yaml:"geocode" mapstructure:"geocode"`
	Scoring ScoringConfig `yaml:"scoring" mapstructure:"scoring"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the record backend.
type StoreConfig struct {
	Driver       string `yaml:"driver" mapstructure:"driver"`
	SitesPath    string `yaml:"sites_path" mapstructure:"sites_path"`
	PoliciesPath string `yaml:"policies_path" mapstructure:"policies_path"`
	SQLitePath   string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	DatabaseURL  string `yaml:"database_url" mapstructure:"database_url"`
}

// GeocodeConfig configures the Census geocoder client.
type GeocodeConfig struct {
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
}

// ScoringConfig configures the safety scorer.
type ScoringConfig struct {
	InitialScore     int     `yaml:"initial_score" mapstructure:"initial_score"`
	PenaltyPerSite   int     `yaml:"penalty_per_site" mapstructure:"penalty_per_site"`
	MinScore         int     `yaml:"min_score" mapstructure:"min_score"`
	RadiusMiles      float64 `yaml:"radius_miles" mapstructure:"radius_miles"`
	BatchConcurrency int     `yaml:"batch_concurrency" mapstructure:"batch_concurrency"`
	ThresholdsFile   string  `yaml:"thresholds_file" mapstructure:"thresholds_file"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SITERISK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "csv")
	v.SetDefault("store.sites_path", "data/sites.csv")
	v.SetDefault("store.policies_path", "data/policies.csv")
	v.SetDefault("store.sqlite_path", "siterisk.db")
	v.SetDefault("geocode.rate_limit", 50)
	v.SetDefault("geocode.timeout_secs", 10)
	v.SetDefault("scoring.initial_score", 100)
	v.SetDefault("scoring.penalty_per_site", 25)
	v.SetDefault("scoring.min_score", 0)
	v.SetDefault("scoring.radius_miles", 50)
	v.SetDefault("scoring.batch_concurrency", 5)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration required for the given mode. Modes are
// command groups: "score" covers the scoring commands, "serve" the HTTP
// server, "import" the data import commands.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch c.Store.Driver {
	case "csv", "sqlite", "postgres":
	default:
		errs = append(errs, eris.Errorf("store.driver must be csv, sqlite or postgres, got %q", c.Store.Driver).Error())
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		errs = append(errs, "store.database_url is required for the postgres driver")
	}
	if c.Store.Driver == "sqlite" && c.Store.SQLitePath == "" {
		errs = append(errs, "store.sqlite_path is required for the sqlite driver")
	}

	switch mode {
	case "score":
		if c.Scoring.PenaltyPerSite <= 0 {
			errs = append(errs, "scoring.penalty_per_site must be > 0")
		}
		if c.Scoring.RadiusMiles <= 0 {
			errs = append(errs, "scoring.radius_miles must be > 0")
		}
		if c.Scoring.BatchConcurrency < 1 || c.Scoring.BatchConcurrency > 50 {
			errs = append(errs, "scoring.batch_concurrency must be between 1 and 50")
		}
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be between 1 and 65535")
		}
	case "import":
		if c.Store.Driver == "csv" {
			errs = append(errs, "import requires the sqlite or postgres driver")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// LoadThresholds reads a score-to-risk threshold table from a YAML file.
// The file maps minimum scores to risk level names:
//
//	100: SAFE
//	75: LOW
func LoadThresholds(path string) (map[int]model.RiskLevel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read thresholds %s", path)
	}

	var raw map[int]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrapf(err, "config: parse thresholds %s", path)
	}
	if len(raw) == 0 {
		return nil, eris.Errorf("config: thresholds file %s is empty", path)
	}

	thresholds := make(map[int]model.RiskLevel, len(raw))
	for min, name := range raw {
		thresholds[min] = model.RiskLevel(strings.ToUpper(strings.TrimSpace(name)))
	}
	return thresholds, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
