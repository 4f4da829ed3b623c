package scorer

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/siterisk-cli/internal/model"
	"github.com/sells-group/siterisk-cli/internal/source"
	"github.com/sells-group/siterisk-cli/internal/spec"
	"github.com/sells-group/siterisk-cli/pkg/geocode"
)

// Scorer scores locations against the unremediated contamination sites
// within a search radius.
type Scorer struct {
	cfg Config
	src source.Source
	geo geocode.Client
}

// New creates a Scorer. The geocode client may be nil when every request
// carries coordinates.
func New(cfg Config, src source.Source, geo geocode.Client) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{cfg: cfg, src: src, geo: geo}, nil
}

// Request identifies the location to score. Coordinates take precedence;
// the address is geocoded only when either coordinate is missing.
type Request struct {
	Address     string
	Latitude    *float64
	Longitude   *float64
	RadiusMiles *float64
}

// Score evaluates a single location.
func (s *Scorer) Score(ctx context.Context, req Request) (*model.ScoreResult, error) {
	lat, lon, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	radius := s.cfg.RadiusMiles
	if req.RadiusMiles != nil {
		radius = *req.RadiusMiles
	}

	nearby, err := spec.WithinRadius[model.Site](lat, lon, radius)
	if err != nil {
		return nil, err
	}
	sites, err := s.src.FilterSites(ctx, spec.And[model.Site](nearby, spec.Unremediated[model.Site]()))
	if err != nil {
		return nil, err
	}

	score := s.cfg.InitialScore - len(sites)*s.cfg.PenaltyPerSite
	if score < s.cfg.MinScore {
		score = s.cfg.MinScore
	}

	result := &model.ScoreResult{
		Score:       score,
		Risk:        s.cfg.riskFor(score),
		Latitude:    lat,
		Longitude:   lon,
		RadiusMiles: radius,
		SiteCount:   len(sites),
		Sites:       sites,
	}

	zap.L().Debug("scored location",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.Int("sites", len(sites)),
		zap.Int("score", score),
		zap.String("risk", string(result.Risk)),
	)
	return result, nil
}

// ScorePolicy scores a single policy, preferring its stored coordinates and
// geocoding its address otherwise.
func (s *Scorer) ScorePolicy(ctx context.Context, policy model.Policy) (model.PolicyScore, error) {
	ps := model.PolicyScore{
		PolicyID:  policy.ID,
		Address:   policy.Address,
		City:      policy.City,
		State:     policy.State,
		Latitude:  policy.Latitude,
		Longitude: policy.Longitude,
	}

	req := Request{Latitude: policy.Latitude, Longitude: policy.Longitude}
	if policy.Latitude == nil || policy.Longitude == nil {
		req = Request{Address: policy.OneLineAddress()}
	}

	result, err := s.Score(ctx, req)
	if err != nil {
		return ps, err
	}

	ps.Latitude = &result.Latitude
	ps.Longitude = &result.Longitude
	ps.Score = &result.Score
	ps.Risk = result.Risk
	ps.SiteCount = &result.SiteCount
	return ps, nil
}

// resolve determines the coordinates to score. Missing coordinates fall
// back to geocoding the address.
func (s *Scorer) resolve(ctx context.Context, req Request) (lat, lon float64, err error) {
	if req.Latitude != nil && req.Longitude != nil {
		return *req.Latitude, *req.Longitude, nil
	}
	if req.Address == "" {
		return 0, 0, eris.New("scorer: request has neither coordinates nor an address")
	}
	if s.geo == nil {
		return 0, 0, eris.New("scorer: no geocoder configured for address lookup")
	}

	res, err := s.geo.Geocode(ctx, req.Address)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "scorer: geocode %q", req.Address)
	}
	if !res.Matched {
		return 0, 0, eris.Errorf("scorer: address %q could not be geocoded", req.Address)
	}
	return res.Latitude, res.Longitude, nil
}
