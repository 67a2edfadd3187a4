package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/naming/internal/config"
	"github.com/syssam/naming/plan"
)

func newPlanCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan FILE...",
		Short: "Print the resolved names of model descriptions",
		Long: `Plan builds every model description, applies the naming convention and
prints the resolved names as JSON, YAML or MessagePack.

With --out, each description is written to DIR/<name>.<format>.

Examples:
  # Print snake_case names as YAML
  namingc plan blog.yaml

  # Upper snake case under the Turkish culture, as JSON
  namingc plan --style upper-snake-case --culture tr-TR --format json blog.yaml

  # Rewrite the plans whenever a description changes
  namingc plan --out plans --watch models/*.yaml
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			run := func(ctx context.Context) error {
				return runPlan(ctx, cfg, logger, cmd.OutOrStdout(), args)
			}
			if opts.watch {
				return watch(cmd.Context(), logger, args, run)
			}
			return run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: json, yaml or msgpack")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "rebuild when a description changes")
	return cmd
}

func runPlan(ctx context.Context, cfg *config.Config, logger *zap.Logger, stdout io.Writer, paths []string) error {
	format, err := plan.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	results, err := buildPlans(ctx, cfg, logger, paths)
	if err != nil {
		return err
	}
	if cfg.Output.Dir == "" {
		for _, r := range results {
			if err := plan.Encode(stdout, r.plan, format); err != nil {
				return err
			}
		}
		return nil
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, r := range results {
		path := filepath.Join(cfg.Output.Dir, r.name()+"."+string(format))
		if err := writePlan(path, r.plan, format); err != nil {
			return err
		}
		logger.Info("plan written", zap.String("path", path), zap.Int("types", len(r.plan.Types)))
	}
	return nil
}

func writePlan(path string, p *plan.Plan, format plan.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := plan.Encode(f, p, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
