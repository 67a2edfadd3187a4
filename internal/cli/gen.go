package cli

import (
	"context"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/naming/codegen"
	"github.com/syssam/naming/internal/config"
)

func newGenCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen FILE...",
		Short: "Generate Go constants for the resolved names",
		Long: `Gen builds every model description and renders its resolved names as Go
constants. With --out, each description is written to DIR/<name>.go.

Example:
  namingc gen --package dbnames --out internal/dbnames blog.yaml
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			return runGen(cmd.Context(), cfg, logger, cmd.OutOrStdout(), args)
		},
	}
	cmd.Flags().StringVarP(&opts.pkg, "package", "p", "", "package of the generated files")
	return cmd
}

func runGen(ctx context.Context, cfg *config.Config, logger *zap.Logger, stdout io.Writer, paths []string) error {
	results, err := buildPlans(ctx, cfg, logger, paths)
	if err != nil {
		return err
	}
	for _, r := range results {
		if cfg.Output.Dir == "" {
			if err := codegen.Render(stdout, r.plan, cfg.Output.Package); err != nil {
				return err
			}
			continue
		}
		path := filepath.Join(cfg.Output.Dir, r.name()+".go")
		if err := codegen.WriteFile(path, r.plan, cfg.Output.Package); err != nil {
			return err
		}
		logger.Info("constants written", zap.String("path", path))
	}
	return nil
}
