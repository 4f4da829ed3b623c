package scorer

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/siterisk-cli/internal/model"
)

// ScoreAll scores every policy in the slice, preserving input order. A
// policy that fails to score yields an error-tagged row instead of aborting
// the batch; the returned error is reserved for context cancellation.
func (s *Scorer) ScoreAll(ctx context.Context, policies []model.Policy) ([]model.PolicyScore, error) {
	results := make([]model.PolicyScore, len(policies))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchConcurrency)

	for i, policy := range policies {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			ps, err := s.ScorePolicy(ctx, policy)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				ps.Risk = model.RiskError
				ps.Error = err.Error()
				zap.L().Warn("policy failed to score",
					zap.String("policy_id", policy.ID),
					zap.Error(err),
				)
			}
			results[i] = ps
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var failed int
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	zap.L().Info("batch scoring complete",
		zap.Int("policies", len(policies)),
		zap.Int("failed", failed),
	)
	return results, nil
}
