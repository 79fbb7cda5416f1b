package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/handiism/fomu/internal/catalog"
	"github.com/handiism/fomu/internal/pool"
	"github.com/spf13/cobra"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := catalog.Default()
			resolver := pool.NewResolver(c)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tRANGE\tCENTER\tPOOLS\tTRACKS\tDESCRIPTION")
			for _, p := range c.Presets() {
				fmt.Fprintf(w, "%s\t%g-%g Hz\t%g Hz\t%s\t%d\t%s\n",
					p.Name, p.HzMin, p.HzMax, p.HzCenter(), strings.Join(p.PoolNames(), ","), len(resolver.Resolve(p)), p.Description)
			}
			return w.Flush()
		},
	}
}
