package report

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/siterisk-cli/internal/model"
)

// SitesGeoJSON writes sites as a GeoJSON FeatureCollection of points.
// Sites without coordinates are skipped.
func SitesGeoJSON(w io.Writer, sites []model.Site) error {
	fc := geojson.FeatureCollection{Features: []*geojson.Feature{}}

	for _, site := range sites {
		lat, lon, ok := site.Coordinates()
		if !ok {
			continue
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       site.ID,
			Geometry: geom.NewPointFlat(geom.XY, []float64{lon, lat}),
			Properties: map[string]interface{}{
				"name":               site.Name,
				"pollution_class":    site.PollutionClass,
				"pollution_type":     site.PollutionType,
				"remediation_status": site.RemediationStatus,
				"address":            site.OneLineAddress(),
			},
		})
	}

	enc := json.NewEncoder(w)
	return eris.Wrap(enc.Encode(&fc), "report: encode geojson")
}
