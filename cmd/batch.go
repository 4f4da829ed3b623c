package main

import (
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/siterisk-cli/internal/report"
)

var (
	batchOut    string
	batchFormat string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score every policy in the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, src, err := initScorer(ctx)
		if err != nil {
			return err
		}
		defer src.Close()

		policies, err := src.Policies(ctx)
		if err != nil {
			return err
		}

		scores, err := s.ScoreAll(ctx, policies)
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if batchOut != "" {
			f, err := os.Create(batchOut)
			if err != nil {
				return eris.Wrapf(err, "create output file %s", batchOut)
			}
			defer f.Close()
			w = f
		}

		switch strings.ToLower(batchFormat) {
		case "csv":
			err = report.PolicyScoresCSV(w, scores)
		case "xlsx":
			if batchOut == "" {
				return eris.New("xlsx output requires --out")
			}
			err = report.PolicyScoresXLSX(w, scores)
		default:
			return eris.Errorf("unknown format %q (csv or xlsx)", batchFormat)
		}
		if err != nil {
			return err
		}

		if batchOut != "" {
			zap.L().Info("batch report written",
				zap.String("path", batchOut),
				zap.Int("policies", len(scores)),
			)
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchOut, "out", "", "output file (default stdout)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "csv", "output format: csv or xlsx")
	rootCmd.AddCommand(batchCmd)
}
