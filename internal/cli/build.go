package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/naming/internal/config"
	"github.com/syssam/naming/metadata"
	"github.com/syssam/naming/plan"
	"github.com/syssam/naming/rewrite"
	"github.com/syssam/naming/schema"
)

// result is the plan built from one description file.
type result struct {
	path string
	plan *plan.Plan
}

// name returns the base name of the description file without extension.
func (r result) name() string {
	base := filepath.Base(r.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// buildPlans builds the model of every file concurrently. Each model gets its
// own convention set. Results keep the order of paths.
func buildPlans(ctx context.Context, cfg *config.Config, logger *zap.Logger, paths []string) ([]result, error) {
	results := make([]result, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.Workers)
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := buildPlan(cfg, logger.With(zap.String("file", path)), path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = result{path: path, plan: p}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func buildPlan(cfg *config.Config, logger *zap.Logger, path string) (*plan.Plan, error) {
	doc, err := schema.LoadFile(path)
	if err != nil {
		return nil, err
	}
	set, err := cfg.Conventions(logger)
	if err != nil {
		return nil, err
	}
	m := metadata.New(set, metadata.WithLogger(logger))
	if err := schema.Build(doc, m); err != nil {
		return nil, err
	}
	if err := m.Finalize(); err != nil {
		return nil, err
	}
	p := plan.FromModel(m)
	p.Style = cfg.Naming.Style
	if c, err := rewrite.ParseCulture(cfg.Naming.Culture); err == nil && !c.IsInvariant() {
		p.Culture = c.String()
	}
	logger.Debug("model built", zap.Int("types", len(p.Types)))
	return p, nil
}
