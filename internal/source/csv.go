package source

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/siterisk-cli/internal/model"
	"github.com/sells-group/siterisk-cli/internal/spec"
)

// CSVSource loads sites and policies from CSV files. Each file is read at
// most once; a missing file logs a warning and yields an empty collection.
type CSVSource struct {
	sitesPath    string
	policiesPath string

	sitesOnce    sync.Once
	sites        []model.Site
	sitesErr     error
	policiesOnce sync.Once
	policies     []model.Policy
	policiesErr  error
}

// NewCSV creates a CSVSource reading from the given file paths.
func NewCSV(sitesPath, policiesPath string) *CSVSource {
	return &CSVSource{sitesPath: sitesPath, policiesPath: policiesPath}
}

// Sites implements Source.
func (c *CSVSource) Sites(ctx context.Context) ([]model.Site, error) {
	c.sitesOnce.Do(func() {
		c.sites, c.sitesErr = loadCSV(ctx, c.sitesPath, "sites", siteFromRow)
	})
	return c.sites, c.sitesErr
}

// Policies implements Source.
func (c *CSVSource) Policies(ctx context.Context) ([]model.Policy, error) {
	c.policiesOnce.Do(func() {
		c.policies, c.policiesErr = loadCSV(ctx, c.policiesPath, "policies", policyFromRow)
	})
	return c.policies, c.policiesErr
}

// FilterSites implements Source.
func (c *CSVSource) FilterSites(ctx context.Context, s spec.Spec[model.Site]) ([]model.Site, error) {
	return filterSites(ctx, c, s)
}

// FilterPolicies implements Source.
func (c *CSVSource) FilterPolicies(ctx context.Context, s spec.Spec[model.Policy]) ([]model.Policy, error) {
	return filterPolicies(ctx, c, s)
}

// Close implements Source. CSV snapshots hold no resources.
func (c *CSVSource) Close() error { return nil }

// row is one CSV record with header-based, case-insensitive field access.
type row struct {
	header map[string]int
	fields []string
}

func (r row) get(names ...string) string {
	for _, n := range names {
		if i, ok := r.header[strings.ToLower(n)]; ok && i < len(r.fields) {
			return strings.TrimSpace(r.fields[i])
		}
	}
	return ""
}

// getFloat parses an optional float column. Unparseable or blank values come
// back nil; the radius predicate treats records without coordinates as
// non-matching, so a malformed row degrades instead of failing the load.
func (r row) getFloat(names ...string) *float64 {
	raw := r.get(names...)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func loadCSV[T any](ctx context.Context, path, kind string, fromRow func(row) T) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Warn("csv file not found, serving empty collection",
				zap.String("kind", kind),
				zap.String("path", path),
			)
			return []T{}, nil
		}
		return nil, eris.Wrapf(err, "source: open %s csv", kind)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	headerRow, err := reader.Read()
	if err == io.EOF {
		return []T{}, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "source: read %s header", kind)
	}

	header := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var out []T
	for {
		if ctx.Err() != nil {
			return nil, eris.Wrapf(ctx.Err(), "source: load %s cancelled", kind)
		}
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "source: read %s row", kind)
		}
		out = append(out, fromRow(row{header: header, fields: fields}))
	}

	if out == nil {
		out = []T{}
	}
	zap.L().Info("loaded csv collection", zap.String("kind", kind), zap.Int("records", len(out)))
	return out, nil
}

func siteFromRow(r row) model.Site {
	s := model.Site{
		ID:                r.get("Id", "SiteId"),
		Name:              r.get("SiteName", "Name"),
		PollutionClass:    r.get("PollutionClass"),
		PollutionType:     r.get("PollutionType"),
		RemediationStatus: r.get("RemediationStatus"),
		RemediationStart:  r.get("RemediationStart"),
		RemediationFinish: r.get("RemediationFinish"),
		Contaminants:      r.get("Contaminants"),
		Address:           r.get("AddressLine", "Address"),
		City:              r.get("City"),
		StateProvince:     r.get("StateProvince", "State"),
		PostalCode:        r.get("PostalCode"),
		Country:           r.get("Country"),
		Latitude:          r.getFloat("Latitude"),
		Longitude:         r.getFloat("Longitude"),
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return s
}

func policyFromRow(r row) model.Policy {
	p := model.Policy{
		ID:                r.get("Id", "PolicyId"),
		PolicyNumber:      r.get("PolicyNumber"),
		PolicyType:        r.get("PolicyType", "CoverageType"),
		EffectiveDate:     r.get("EffectiveDate"),
		ExpirationDate:    r.get("ExpirationDate"),
		Status:            r.get("Status"),
		EndorsementAmount: r.getFloat("EndorsementAmount", "PropertyValue"),
		Address:           r.get("Address", "AddressLine"),
		City:              r.get("City"),
		State:             r.get("State", "StateProvince"),
		PostalCode:        r.get("PostalCode"),
		Country:           r.get("Country"),
		Latitude:          r.getFloat("Latitude"),
		Longitude:         r.getFloat("Longitude"),
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return p
}
