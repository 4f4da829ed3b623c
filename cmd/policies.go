package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/siterisk-cli/internal/model"
	"github.com/sells-group/siterisk-cli/internal/spec"
)

var (
	policiesState    string
	policiesStatus   string
	policiesType     string
	policiesMinValue float64
	policiesMaxValue float64
)

// policySpec composes the filter from the policies command flags.
func policySpec(cmd *cobra.Command) (spec.Spec[model.Policy], error) {
	var specs []spec.Spec[model.Policy]

	if policiesState != "" {
		specs = append(specs, spec.State[model.Policy](policiesState))
	}
	if policiesStatus != "" {
		specs = append(specs, spec.Status[model.Policy](policiesStatus))
	}
	if policiesType != "" {
		specs = append(specs, spec.TypeContains[model.Policy](policiesType))
	}
	if cmd.Flags().Changed("min-value") || cmd.Flags().Changed("max-value") {
		var min, max *float64
		if cmd.Flags().Changed("min-value") {
			min = &policiesMinValue
		}
		if cmd.Flags().Changed("max-value") {
			max = &policiesMaxValue
		}
		between, err := spec.ValueBetween[model.Policy](min, max)
		if err != nil {
			return nil, err
		}
		specs = append(specs, between)
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

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List insurance policies, optionally filtered",
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

		filter, err := policySpec(cmd)
		if err != nil {
			return err
		}

		var policies []model.Policy
		if filter == nil {
			policies, err = src.Policies(ctx)
		} else {
			policies, err = src.FilterPolicies(ctx, filter)
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(policies)
	},
}

func init() {
	policiesCmd.Flags().StringVar(&policiesState, "state", "", "filter by state code")
	policiesCmd.Flags().StringVar(&policiesStatus, "status", "", "filter by policy status")
	policiesCmd.Flags().StringVar(&policiesType, "type", "", "filter by policy type substring")
	policiesCmd.Flags().Float64Var(&policiesMinValue, "min-value", 0, "minimum endorsement amount")
	policiesCmd.Flags().Float64Var(&policiesMaxValue, "max-value", 0, "maximum endorsement amount")
	rootCmd.AddCommand(policiesCmd)
}
