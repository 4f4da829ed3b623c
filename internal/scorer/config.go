// Package scorer computes contamination safety scores for locations and
// insurance policies.
package scorer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/siterisk-cli/internal/model"
)

// Config holds the scoring knobs.
type Config struct {
	// InitialScore is the score for a location with no nearby unremediated
	// sites. Each site inside the radius deducts PenaltyPerSite, floored at
	// MinScore.
	InitialScore   int
	PenaltyPerSite int
	MinScore       int

	// RadiusMiles is the default search radius.
	RadiusMiles float64

	// BatchConcurrency bounds how many policies score in parallel.
	BatchConcurrency int

	// Thresholds maps a minimum score to the risk level it earns. A score
	// qualifies for the highest threshold it meets or exceeds.
	Thresholds map[int]model.RiskLevel
}

// Default returns the standard scoring configuration.
func Default() Config {
	return Config{
		InitialScore:     100,
		PenaltyPerSite:   25,
		MinScore:         0,
		RadiusMiles:      50,
		BatchConcurrency: 5,
		Thresholds: map[int]model.RiskLevel{
			100: model.RiskSafe,
			75:  model.RiskLow,
			50:  model.RiskMedium,
			25:  model.RiskHigh,
			0:   model.RiskCritical,
		},
	}
}

// Validate checks that a Config is internally consistent.
func (c Config) Validate() error {
	var errs []string

	if c.InitialScore <= 0 {
		errs = append(errs, "initial_score must be > 0")
	}
	if c.PenaltyPerSite <= 0 {
		errs = append(errs, "penalty_per_site must be > 0")
	}
	if c.MinScore < 0 {
		errs = append(errs, "min_score must be >= 0")
	}
	if c.MinScore > c.InitialScore {
		errs = append(errs, "min_score must be <= initial_score")
	}
	if c.RadiusMiles <= 0 {
		errs = append(errs, "radius_miles must be > 0")
	}
	if c.BatchConcurrency <= 0 {
		errs = append(errs, "batch_concurrency must be > 0")
	}
	if len(c.Thresholds) == 0 {
		errs = append(errs, "thresholds must not be empty")
	}
	for min := range c.Thresholds {
		if min < 0 || min > c.InitialScore {
			errs = append(errs, fmt.Sprintf("threshold %d outside [0, %d]", min, c.InitialScore))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// riskFor returns the risk level for a score: the level of the highest
// threshold the score meets. Scores below every threshold take the lowest
// threshold's level.
func (c Config) riskFor(score int) model.RiskLevel {
	mins := make([]int, 0, len(c.Thresholds))
	for min := range c.Thresholds {
		mins = append(mins, min)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(mins)))

	for _, min := range mins {
		if score >= min {
			return c.Thresholds[min]
		}
	}
	return c.Thresholds[mins[len(mins)-1]]
}
