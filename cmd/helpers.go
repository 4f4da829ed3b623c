package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/siterisk-cli/internal/config"
	"github.com/sells-group/siterisk-cli/internal/scorer"
	"github.com/sells-group/siterisk-cli/internal/source"
	"github.com/sells-group/siterisk-cli/pkg/geocode"
)

// initSource builds the record source selected by store.driver.
func initSource(ctx context.Context) (source.Source, error) {
	switch cfg.Store.Driver {
	case "csv":
		return source.NewCSV(cfg.Store.SitesPath, cfg.Store.PoliciesPath), nil
	case "sqlite":
		src, err := source.NewSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := src.Migrate(ctx); err != nil {
			_ = src.Close()
			return nil, err
		}
		return src, nil
	case "postgres":
		src, err := source.NewPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := src.Migrate(ctx); err != nil {
			_ = src.Close()
			return nil, err
		}
		return src, nil
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initGeocoder builds the Census geocoder client from config.
func initGeocoder() geocode.Client {
	opts := []geocode.Option{
		geocode.WithRateLimit(cfg.Geocode.RateLimit),
		geocode.WithTimeout(time.Duration(cfg.Geocode.TimeoutSecs) * time.Second),
	}
	if cfg.Geocode.BaseURL != "" {
		opts = append(opts, geocode.WithBaseURL(cfg.Geocode.BaseURL))
	}
	return geocode.NewClient(opts...)
}

// scorerConfig maps config.ScoringConfig onto a scorer.Config, loading the
// threshold table from file when one is configured.
func scorerConfig(sc config.ScoringConfig) (scorer.Config, error) {
	c := scorer.Default()
	c.InitialScore = sc.InitialScore
	c.PenaltyPerSite = sc.PenaltyPerSite
	c.MinScore = sc.MinScore
	c.RadiusMiles = sc.RadiusMiles
	c.BatchConcurrency = sc.BatchConcurrency

	if sc.ThresholdsFile != "" {
		thresholds, err := config.LoadThresholds(sc.ThresholdsFile)
		if err != nil {
			return scorer.Config{}, err
		}
		c.Thresholds = thresholds
	}
	return c, nil
}

// initScorer wires the source, geocoder and scoring config together.
func initScorer(ctx context.Context) (*scorer.Scorer, source.Source, error) {
	if err := cfg.Validate("score"); err != nil {
		return nil, nil, err
	}

	src, err := initSource(ctx)
	if err != nil {
		return nil, nil, err
	}

	scfg, err := scorerConfig(cfg.Scoring)
	if err != nil {
		_ = src.Close()
		return nil, nil, err
	}

	s, err := scorer.New(scfg, src, initGeocoder())
	if err != nil {
		_ = src.Close()
		return nil, nil, err
	}
	return s, src, nil
}
