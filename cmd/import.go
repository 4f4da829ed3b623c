package main

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/siterisk-cli/internal/model"
	"github.com/sells-group/siterisk-cli/internal/source"
)

var (
	importSitesPath    string
	importPoliciesPath string
)

// importer is satisfied by the sqlite and postgres sources.
type importer interface {
	ImportSites(ctx context.Context, sites []model.Site) (int, error)
	ImportPolicies(ctx context.Context, policies []model.Policy) (int, error)
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import sites and policies into the database",
	Long:  "Loads site records from CSV or shapefile and policy records from CSV into the configured sqlite or postgres store, replacing existing rows.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("import"); err != nil {
			return err
		}
		if importSitesPath == "" && importPoliciesPath == "" {
			return eris.New("at least one of --sites or --policies is required")
		}

		src, err := initSource(ctx)
		if err != nil {
			return err
		}
		defer src.Close()

		imp, ok := src.(importer)
		if !ok {
			return eris.Errorf("store driver %q does not support import", cfg.Store.Driver)
		}

		if importSitesPath != "" {
			sites, err := loadSitesFile(ctx, importSitesPath)
			if err != nil {
				return err
			}
			n, err := imp.ImportSites(ctx, sites)
			if err != nil {
				return err
			}
			zap.L().Info("sites imported",
				zap.String("path", importSitesPath),
				zap.Int("count", n),
			)
		}

		if importPoliciesPath != "" {
			csvSrc := source.NewCSV("", importPoliciesPath)
			policies, err := csvSrc.Policies(ctx)
			if err != nil {
				return err
			}
			n, err := imp.ImportPolicies(ctx, policies)
			if err != nil {
				return err
			}
			zap.L().Info("policies imported",
				zap.String("path", importPoliciesPath),
				zap.Int("count", n),
			)
		}

		return nil
	},
}

// loadSitesFile reads sites from CSV or, for .shp paths, from a shapefile.
func loadSitesFile(ctx context.Context, path string) ([]model.Site, error) {
	if strings.HasSuffix(strings.ToLower(path), ".shp") {
		return source.SitesFromShapefile(path)
	}
	return source.NewCSV(path, "").Sites(ctx)
}

func init() {
	importCmd.Flags().StringVar(&importSitesPath, "sites", "", "path to sites CSV or shapefile")
	importCmd.Flags().StringVar(&importPoliciesPath, "policies", "", "path to policies CSV")
	rootCmd.AddCommand(importCmd)
}
