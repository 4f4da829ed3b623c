package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSiteShapefile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sites.shp")

	w, err := shp.Create(path, shp.POINT)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{
		shp.StringField("SITE_ID", 20),
		shp.StringField("NAME", 50),
		shp.StringField("NPL_STATUS", 25),
		shp.StringField("STATE", 2),
		shp.StringField("CONTAM", 50),
	}))

	rows := []struct {
		point shp.Point
		attrs []string
	}{
		{shp.Point{X: -73.75, Y: 42.66}, []string{"S1", "Hudson Mill", "Completed", "NY", "benzene"}},
		{shp.Point{X: -74.50, Y: 40.22}, []string{"", "Anonymous Site", "In Progress", "NJ", ""}},
	}
	for i, r := range rows {
		p := r.point
		w.Write(&p)
		for col, v := range r.attrs {
			require.NoError(t, w.WriteAttribute(i, col, v))
		}
	}
	w.Close()

	// go-shp v0.1.1's Writer strips the ".shp" extension from the base name
	// but appends a bare "dbf" when creating the attribute file, so it lands
	// at "sitesdbf" instead of "sites.dbf" where the reader looks for it.
	dir := filepath.Dir(path)
	require.NoError(t, os.Rename(filepath.Join(dir, "sitesdbf"), filepath.Join(dir, "sites.dbf")))
	return path
}

func TestSitesFromShapefile(t *testing.T) {
	path := writeSiteShapefile(t)

	sites, err := SitesFromShapefile(path)
	require.NoError(t, err)
	require.Len(t, sites, 2)

	assert.Equal(t, "S1", sites[0].ID)
	assert.Equal(t, "Hudson Mill", sites[0].Name)
	assert.Equal(t, "Completed", sites[0].RemediationStatus)
	assert.Equal(t, "NY", sites[0].StateProvince)
	assert.Equal(t, "benzene", sites[0].Contaminants)
	require.NotNil(t, sites[0].Latitude)
	assert.InDelta(t, 42.66, *sites[0].Latitude, 1e-9)
	require.NotNil(t, sites[0].Longitude)
	assert.InDelta(t, -73.75, *sites[0].Longitude, 1e-9)

	// Records without an ID attribute get one assigned.
	assert.NotEmpty(t, sites[1].ID)
	assert.NotEqual(t, sites[0].ID, sites[1].ID)
}

func TestSitesFromShapefile_MissingFile(t *testing.T) {
	_, err := SitesFromShapefile(filepath.Join(t.TempDir(), "nope.shp"))
	assert.Error(t, err)
}
