package model

// RiskLevel is the categorical label derived from a safety score.
type RiskLevel string

// Risk levels, from best to worst. RiskError tags batch rows whose scoring
// failed; it is never produced by a successful scoring call.
const (
	RiskSafe     RiskLevel = "SAFE"
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
	RiskError    RiskLevel = "ERROR"
)

// ScoreResult is the outcome of scoring a single location. Created fresh per
// call and never persisted.
type ScoreResult struct {
	Score       int       `json:"score"`
	Risk        RiskLevel `json:"risk_level"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	RadiusMiles float64   `json:"radius_miles"`
	SiteCount   int       `json:"site_count"`
	Sites       []Site    `json:"nearby_sites"`
}

// PolicyScore is one row of a batch scoring run. Score, SiteCount, and the
// coordinates are nil when the row failed; Error then carries the reason.
type PolicyScore struct {
	PolicyID  string    `json:"policy_id"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	State     string    `json:"state,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Score     *int      `json:"score,omitempty"`
	Risk      RiskLevel `json:"risk_level"`
	SiteCount *int      `json:"site_count,omitempty"`
	Error     string    `json:"error,omitempty"`
}
