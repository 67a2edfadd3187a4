package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/syssam/naming"
)

// sampleNames are rewritten by the styles command.
var sampleNames = []string{"SimpleBlog", "PK_SimpleBlog"}

func newStylesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List the naming styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STYLE\tTABLE\tPRIMARY KEY")
			for _, s := range naming.Styles() {
				if s == naming.Custom {
					continue
				}
				cfg, err := naming.NewConfig(naming.WithStyle(s), naming.WithCultureName(opts.culture))
				if err != nil {
					return err
				}
				r, err := naming.NewRewriter(cfg)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s", s)
				for _, name := range sampleNames {
					fmt.Fprintf(w, "\t%s", r.Rewrite(name))
				}
				fmt.Fprintln(w)
			}
			return w.Flush()
		},
	}
}
