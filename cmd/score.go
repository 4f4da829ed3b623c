package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/siterisk-cli/internal/report"
	"github.com/sells-group/siterisk-cli/internal/scorer"
)

var (
	scoreAddress string
	scoreLat     float64
	scoreLon     float64
	scoreRadius  float64
	scoreJSON    bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a single location",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, src, err := initScorer(ctx)
		if err != nil {
			return err
		}
		defer src.Close()

		req := scorer.Request{Address: scoreAddress}
		if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon") {
			req.Latitude = &scoreLat
			req.Longitude = &scoreLon
		} else if scoreAddress == "" {
			return eris.New("either --address or both --lat and --lon are required")
		}
		if cmd.Flags().Changed("radius") {
			req.RadiusMiles = &scoreRadius
		}

		result, err := s.Score(ctx, req)
		if err != nil {
			return err
		}

		if scoreJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		return report.Text(os.Stdout, result)
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreAddress, "address", "", "address to score")
	scoreCmd.Flags().Float64Var(&scoreLat, "lat", 0, "latitude (overrides geocoding)")
	scoreCmd.Flags().Float64Var(&scoreLon, "lon", 0, "longitude (overrides geocoding)")
	scoreCmd.Flags().Float64Var(&scoreRadius, "radius", 0, "search radius in miles (default from config)")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "emit JSON instead of text")
	rootCmd.AddCommand(scoreCmd)
}
