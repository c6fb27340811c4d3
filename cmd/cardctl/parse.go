package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/schikamarun/christmas-cards/internal/routing"
)

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse FRAGMENT",
		Short: "Parse a fragment and print its canonical form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fragment string
			if len(args) > 0 {
				fragment = args[0]
			}
			route := routing.FromFragment(fragment)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "KIND\t%s\n", route.Kind)
			fmt.Fprintf(w, "COLLECTION\t%s\n", valueOrDash(route.CollectionSlug))
			fmt.Fprintf(w, "RECIPIENT\t%s\n", valueOrDash(route.RecipientSlug))
			fmt.Fprintf(w, "CANONICAL\t%s\n", route.Fragment)
			fmt.Fprintf(w, "DISPLAY\t%s\n", route.Display)
			fmt.Fprintf(w, "REPLACE\t%t\n", route.NeedsReplace(fragment))
			return w.Flush()
		},
	}
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
