// Package source provides the record sources serving the site and policy
// collections. All implementations load each collection once, cache the
// snapshot for the life of the process, and filter by applying a spec to
// the cached snapshot; filters return new slices, never the cache itself.
package source

import (
	"context"

	"github.com/sells-group/siterisk-cli/internal/model"
	"github.com/sells-group/siterisk-cli/internal/spec"
)

// Source serves the two record collections and filters them with specs.
// A missing underlying store yields empty collections, not errors.
type Source interface {
	Sites(ctx context.Context) ([]model.Site, error)
	Policies(ctx context.Context) ([]model.Policy, error)
	FilterSites(ctx context.Context, s spec.Spec[model.Site]) ([]model.Site, error)
	FilterPolicies(ctx context.Context, s spec.Spec[model.Policy]) ([]model.Policy, error)
	Close() error
}

// filterSites is the shared filter path: load the snapshot, apply the spec.
func filterSites(ctx context.Context, src Source, s spec.Spec[model.Site]) ([]model.Site, error) {
	sites, err := src.Sites(ctx)
	if err != nil {
		return nil, err
	}
	return s.Filter(sites), nil
}

func filterPolicies(ctx context.Context, src Source, s spec.Spec[model.Policy]) ([]model.Policy, error) {
	policies, err := src.Policies(ctx)
	if err != nil {
		return nil, err
	}
	return s.Filter(policies), nil
}
