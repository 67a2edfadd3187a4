// Package cli implements the namingc command.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/naming/internal/config"
)

// Version is set with ldflags at build time.
var Version = "dev"

// options holds the flags shared by every command.
type options struct {
	configFile string
	verbose    bool
	style      string
	culture    string
	format     string
	pkg        string
	out        string
	workers    int
	watch      bool
}

// NewRootCommand returns the namingc command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "namingc",
		Short: "Resolve database names of a model description",
		Long: `namingc builds the relational model described by YAML files, applies
a naming convention such as snake_case and prints the resulting table,
column, key, foreign key and index names.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default is ./namingc.yaml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log rewrite decisions")
	flags.StringVarP(&opts.style, "style", "s", "", "naming style, see 'namingc styles'")
	flags.StringVar(&opts.culture, "culture", "", "culture used for casing, e.g. tr-TR")
	flags.StringVarP(&opts.out, "out", "o", "", "output directory (default is stdout)")
	flags.IntVar(&opts.workers, "workers", 0, "number of files processed concurrently")

	root.AddCommand(
		newPlanCommand(opts),
		newGenCommand(opts),
		newStylesCommand(opts),
	)
	return root
}

// Execute runs the namingc command. It is called by main.main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "namingc:", err)
		os.Exit(1)
	}
}

// load reads the configuration and applies the flags set on cmd.
func (o *options) load(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configFile != "" {
		cfg, err = config.NewFileLoader(o.configFile).Load()
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("style") {
		cfg.Naming.Style = o.style
	}
	if flags.Changed("culture") {
		cfg.Naming.Culture = o.culture
	}
	if flags.Changed("format") {
		cfg.Output.Format = o.format
	}
	if flags.Changed("package") {
		cfg.Output.Package = o.pkg
	}
	if flags.Changed("out") {
		cfg.Output.Dir = o.out
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if o.verbose {
		cfg.Log.Level = "debug"
		cfg.Log.Development = true
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
