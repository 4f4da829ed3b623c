package source

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/siterisk-cli/internal/model"
)

// SitesFromShapefile reads contamination sites from a point shapefile, such
// as the EPA site extracts. Attribute names are matched case-insensitively;
// the first matching alias wins. Non-point shapes are skipped.
func SitesFromShapefile(path string) ([]model.Site, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "source: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	attr := func(names ...string) string {
		for _, n := range names {
			idx, ok := fieldIdx[strings.ToLower(n)]
			if !ok {
				continue
			}
			v := strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
			if v != "" {
				return v
			}
		}
		return ""
	}

	var sites []model.Site
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()
		point, ok := shape.(*shp.Point)
		if !ok {
			skipped++
			continue
		}

		lat, lon := point.Y, point.X
		site := model.Site{
			ID:                attr("ID", "SITE_ID", "EPA_ID"),
			Name:              attr("NAME", "SITE_NAME", "SITENAME"),
			PollutionClass:    attr("CLASS", "POLL_CLASS"),
			PollutionType:     attr("TYPE", "POLL_TYPE"),
			RemediationStatus: attr("STATUS", "REM_STATUS", "NPL_STATUS"),
			Contaminants:      attr("CONTAM", "CONTAMINAN"),
			Address:           attr("ADDRESS", "ADDR"),
			City:              attr("CITY"),
			StateProvince:     attr("STATE", "STATE_CODE"),
			PostalCode:        attr("ZIP", "ZIP_CODE", "POSTAL"),
			Latitude:          &lat,
			Longitude:         &lon,
		}
		if site.ID == "" {
			site.ID = uuid.New().String()
		}
		sites = append(sites, site)
	}

	if skipped > 0 {
		zap.L().Debug("skipped non-point shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	if sites == nil {
		sites = []model.Site{}
	}

	zap.L().Info("loaded sites from shapefile",
		zap.String("path", path),
		zap.Int("records", len(sites)),
	)
	return sites, nil
}
