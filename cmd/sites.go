package main

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/siterisk-cli/internal/model"
	"github.com/sells-group/siterisk-cli/internal/report"
	"github.com/sells-group/siterisk-cli/internal/spec"
)

var (
	sitesState        string
	sitesStatus       string
	sitesUnremediated bool
	sitesType         string
	sitesContains     string
	sitesNear         string
	sitesRadius       float64
	sitesGeoJSON      bool
)

// parseLatLon splits a "lat,lon" flag value.
func parseLatLon(s string) (lat, lon float64, err error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, eris.Errorf("expected lat,lon, got %q", s)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "parse latitude from %q", s)
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "parse longitude from %q", s)
	}
	return lat, lon, nil
}

// siteSpec composes the filter from the sites command flags. A nil return
// means no filtering was requested.
func siteSpec() (spec.Spec[model.Site], error) {
	var specs []spec.Spec[model.Site]

	if sitesState != "" {
		specs = append(specs, spec.State[model.Site](sitesState))
	}
	if sitesStatus != "" {
		specs = append(specs, spec.Status[model.Site](sitesStatus))
	}
	if sitesUnremediated {
		specs = append(specs, spec.Unremediated[model.Site]())
	}
	if sitesType != "" {
		specs = append(specs, spec.TypeContains[model.Site](sitesType))
	}
	if sitesContains != "" {
		specs = append(specs, spec.TextContains[model.Site](sitesContains))
	}
	if sitesNear != "" {
		lat, lon, err := parseLatLon(sitesNear)
		if err != nil {
			return nil, err
		}
		within, err := spec.WithinRadius[model.Site](lat, lon, sitesRadius)
		if err != nil {
			return nil, err
		}
		specs = append(specs, within)
	}

	if len(specs) == 0 {
		return nil, nil
	}
	composed := specs[0]
	for _, s := range specs[1:] {
		composed = spec.And(composed, s)
	}
	return composed, nil
}

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List contamination sites, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("score"); err != nil {
			return err
		}
		src, err := initSource(ctx)
		if err != nil {
			return err
		}
		defer src.Close()

		filter, err := siteSpec()
		if err != nil {
			return err
		}

		var sites []model.Site
		if filter == nil {
			sites, err = src.Sites(ctx)
		} else {
			sites, err = src.FilterSites(ctx, filter)
		}
		if err != nil {
			return err
		}

		if sitesGeoJSON {
			return report.SitesGeoJSON(os.Stdout, sites)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sites)
	},
}

func init() {
	sitesCmd.Flags().StringVar(&sitesState, "state", "", "filter by state code")
	sitesCmd.Flags().StringVar(&sitesStatus, "status", "", "filter by remediation status")
	sitesCmd.Flags().BoolVar(&sitesUnremediated, "unremediated", false, "only sites not yet remediated")
	sitesCmd.Flags().StringVar(&sitesType, "type", "", "filter by pollution type substring")
	sitesCmd.Flags().StringVar(&sitesContains, "contains", "", "filter by contaminant text substring")
	sitesCmd.Flags().StringVar(&sitesNear, "near", "", "filter by proximity to lat,lon")
	sitesCmd.Flags().Float64Var(&sitesRadius, "radius", 50, "radius in miles for --near")
	sitesCmd.Flags().BoolVar(&sitesGeoJSON, "geojson", false, "emit GeoJSON instead of JSON")
	rootCmd.AddCommand(sitesCmd)
}
