package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/siterisk-cli/internal/model"
	"github.com/sells-group/siterisk-cli/internal/scorer"
	"github.com/sells-group/siterisk-cli/internal/source"
)

const testSitesCSV = `Id,SiteName,PollutionType,RemediationStatus,City,StateProvince,Latitude,Longitude
S1,Hudson Mill,Chemical,Completed,Albany,NY,42.66,-73.75
S2,Erie Yard,Heavy Metal,In Progress,Troy,NY,42.70,-73.80
S3,Pine Works,Solvent,Not Started,Trenton,NJ,40.22,-74.76
`

const testPoliciesCSV = `Id,PolicyNumber,PolicyType,Status,State,EndorsementAmount,Latitude,Longitude
P1,POL-001,Comprehensive,Active,NY,500000,42.65,-73.76
P2,POL-002,Fire,Active,NJ,250000,40.22,-74.76
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	sitesPath := filepath.Join(dir, "sites.csv")
	policiesPath := filepath.Join(dir, "policies.csv")
	require.NoError(t, os.WriteFile(sitesPath, []byte(testSitesCSV), 0o644))
	require.NoError(t, os.WriteFile(policiesPath, []byte(testPoliciesCSV), 0o644))

	src := source.NewCSV(sitesPath, policiesPath)
	s, err := scorer.New(scorer.Default(), src, nil)
	require.NoError(t, err)

	srv := httptest.NewServer(newRouter(s, src))
	t.Cleanup(srv.Close)
	return srv
}

func TestServeHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServeScore(t *testing.T) {
	srv := newTestServer(t)

	body := `{"latitude": 42.65, "longitude": -73.75}`
	resp, err := http.Post(srv.URL+"/v1/score", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result model.ScoreResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	// S2 and S3 are unremediated; only S2 is within 50 miles of Albany.
	assert.Equal(t, 75, result.Score)
	assert.Equal(t, model.RiskLow, result.Risk)
	assert.Equal(t, 1, result.SiteCount)
}

func TestServeScoreValidation(t *testing.T) {
	srv := newTestServer(t)

	for _, body := range []string{`{}`, `not json`, `{"latitude": 42.65}`} {
		resp, err := http.Post(srv.URL+"/v1/score", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body: %s", body)
	}
}

func TestServeScoreUnresolvable(t *testing.T) {
	srv := newTestServer(t) // no geocoder wired

	resp, err := http.Post(srv.URL+"/v1/score", "application/json",
		strings.NewReader(`{"address": "12 Elm St, Albany, NY"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestServeSitesFiltered(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/sites?state=NY&unremediated=true")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sites []model.Site
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sites))
	require.Len(t, sites, 1)
	assert.Equal(t, "S2", sites[0].ID)
}

func TestServeSitesGeoJSON(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/sites.geojson")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/geo+json", resp.Header.Get("Content-Type"))

	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Len(t, fc.Features, 3)
}

func TestServeBatch(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/batch", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var scores []model.PolicyScore
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&scores))
	require.Len(t, scores, 2)
	assert.Equal(t, "P1", scores[0].PolicyID)
	require.NotNil(t, scores[0].Score)
	assert.Equal(t, 75, *scores[0].Score)
}
