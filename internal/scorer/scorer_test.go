package scorer

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/siterisk-cli/internal/model"
	"github.com/sells-group/siterisk-cli/internal/spec"
	"github.com/sells-group/siterisk-cli/pkg/geocode"
)

// memSource serves in-memory fixtures through the Source interface.
type memSource struct {
	sites    []model.Site
	policies []model.Policy
}

func (m *memSource) Sites(context.Context) ([]model.Site, error)      { return m.sites, nil }
func (m *memSource) Policies(context.Context) ([]model.Policy, error) { return m.policies, nil }
func (m *memSource) Close() error                                     { return nil }

func (m *memSource) FilterSites(_ context.Context, s spec.Spec[model.Site]) ([]model.Site, error) {
	return s.Filter(m.sites), nil
}

func (m *memSource) FilterPolicies(_ context.Context, s spec.Spec[model.Policy]) ([]model.Policy, error) {
	return s.Filter(m.policies), nil
}

type fakeGeo struct {
	res *geocode.Result
	err error
}

func (f *fakeGeo) Geocode(context.Context, string) (*geocode.Result, error) {
	return f.res, f.err
}

func f64(v float64) *float64 { return &v }

// albanySites returns n unremediated sites within a few miles of downtown
// Albany, plus a remediated one and one far outside any 50 mile radius.
func albanySites(n int) []model.Site {
	sites := make([]model.Site, 0, n+2)
	for i := 0; i < n; i++ {
		sites = append(sites, model.Site{
			ID:                fmt.Sprintf("S%d", i+1),
			Name:              fmt.Sprintf("Site %d", i+1),
			RemediationStatus: "In Progress",
			StateProvince:     "NY",
			Latitude:          f64(42.65 + float64(i)*0.01),
			Longitude:         f64(-73.75),
		})
	}
	sites = append(sites,
		model.Site{ID: "DONE", RemediationStatus: "Completed", Latitude: f64(42.66), Longitude: f64(-73.74)},
		model.Site{ID: "FAR", RemediationStatus: "In Progress", Latitude: f64(34.05), Longitude: f64(-118.24)},
	)
	return sites
}

func newTestScorer(t *testing.T, sites []model.Site, geo geocode.Client) *Scorer {
	t.Helper()
	s, err := New(Default(), &memSource{sites: sites}, geo)
	require.NoError(t, err)
	return s
}

func TestScorer_ScoreTable(t *testing.T) {
	tests := []struct {
		nearby    int
		wantScore int
		wantRisk  model.RiskLevel
	}{
		{0, 100, model.RiskSafe},
		{1, 75, model.RiskLow},
		{2, 50, model.RiskMedium},
		{3, 25, model.RiskHigh},
		{4, 0, model.RiskCritical},
		{7, 0, model.RiskCritical}, // floored at min score
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_sites", tt.nearby), func(t *testing.T) {
			s := newTestScorer(t, albanySites(tt.nearby), nil)

			res, err := s.Score(context.Background(), Request{Latitude: f64(42.65), Longitude: f64(-73.75)})
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, res.Score)
			assert.Equal(t, tt.wantRisk, res.Risk)
			assert.Equal(t, tt.nearby, res.SiteCount)
			assert.Len(t, res.Sites, tt.nearby)
			assert.Equal(t, 50.0, res.RadiusMiles)
		})
	}
}

func TestScorer_RemediatedSitesDoNotCount(t *testing.T) {
	s := newTestScorer(t, albanySites(0), nil)

	res, err := s.Score(context.Background(), Request{Latitude: f64(42.65), Longitude: f64(-73.75)})
	require.NoError(t, err)
	assert.Equal(t, 100, res.Score)
	assert.Empty(t, res.Sites)
}

func TestScorer_CustomRadius(t *testing.T) {
	// One unremediated site roughly 34 miles north of the query point.
	sites := []model.Site{
		{ID: "S1", RemediationStatus: "Not Started", Latitude: f64(43.15), Longitude: f64(-73.75)},
	}
	s := newTestScorer(t, sites, nil)
	ctx := context.Background()
	base := Request{Latitude: f64(42.65), Longitude: f64(-73.75)}

	res, err := s.Score(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, 1, res.SiteCount)

	narrow := base
	narrow.RadiusMiles = f64(10)
	res, err = s.Score(ctx, narrow)
	require.NoError(t, err)
	assert.Equal(t, 0, res.SiteCount)
	assert.Equal(t, 10.0, res.RadiusMiles)
}

func TestScorer_GeocodesAddressWhenCoordsMissing(t *testing.T) {
	geo := &fakeGeo{res: &geocode.Result{Latitude: 42.65, Longitude: -73.75, Matched: true}}
	s := newTestScorer(t, albanySites(2), geo)

	res, err := s.Score(context.Background(), Request{Address: "12 Elm St, Albany, NY"})
	require.NoError(t, err)
	assert.Equal(t, 50, res.Score)
	assert.Equal(t, 42.65, res.Latitude)
}

func TestScorer_GeocodeMissIsAnError(t *testing.T) {
	geo := &fakeGeo{res: &geocode.Result{Matched: false}}
	s := newTestScorer(t, albanySites(0), geo)

	_, err := s.Score(context.Background(), Request{Address: "1 Nowhere Ln"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not be geocoded")
}

func TestScorer_NoCoordsNoAddress(t *testing.T) {
	s := newTestScorer(t, albanySites(0), nil)
	_, err := s.Score(context.Background(), Request{})
	assert.Error(t, err)
}

func TestScorer_StoredPolicyCoordsSkipGeocoding(t *testing.T) {
	geo := &fakeGeo{err: assert.AnError} // would fail if consulted
	s := newTestScorer(t, albanySites(1), geo)

	policy := model.Policy{ID: "P1", Latitude: f64(42.65), Longitude: f64(-73.75)}
	ps, err := s.ScorePolicy(context.Background(), policy)
	require.NoError(t, err)
	require.NotNil(t, ps.Score)
	assert.Equal(t, 75, *ps.Score)
	assert.Equal(t, model.RiskLow, ps.Risk)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	bad := Default()
	bad.PenaltyPerSite = 0
	bad.RadiusMiles = -1
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "penalty_per_site")
	assert.Contains(t, err.Error(), "radius_miles")

	empty := Default()
	empty.Thresholds = nil
	assert.Error(t, empty.Validate())
}

func TestConfig_RiskFor(t *testing.T) {
	cfg := Default()
	assert.Equal(t, model.RiskSafe, cfg.riskFor(100))
	assert.Equal(t, model.RiskLow, cfg.riskFor(99))
	assert.Equal(t, model.RiskLow, cfg.riskFor(75))
	assert.Equal(t, model.RiskMedium, cfg.riskFor(74))
	assert.Equal(t, model.RiskHigh, cfg.riskFor(30))
	assert.Equal(t, model.RiskCritical, cfg.riskFor(0))
}
