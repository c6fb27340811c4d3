package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootCmd returns the cardctl command tree.
func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cardctl",
		Short: "Inspect card routes and data documents",
		Long: `cardctl parses card fragments, resolves them against a data set, builds
share links and validates data documents before they are published.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(parseCmd())
	cmd.AddCommand(resolveCmd())
	cmd.AddCommand(shareCmd())
	cmd.AddCommand(validateCmd())

	return cmd
}
