package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schikamarun/christmas-cards/internal/routing"
	"github.com/schikamarun/christmas-cards/internal/services"
)

func shareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share FRAGMENT",
		Short: "Build the share link and invitation text for a fragment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fragment string
			if len(args) > 0 {
				fragment = args[0]
			}
			href, _ := cmd.Flags().GetString("href")
			if href == "" {
				return errors.New("--href is required")
			}
			data, _ := cmd.Flags().GetString("data")

			host, err := services.HostContextFromHref(href)
			if err != nil {
				return err
			}
			store, err := loadStore(cmd.Context(), data)
			if err != nil {
				return err
			}

			route := routing.FromFragment(fragment)
			url := services.BuildShareURL(route, host)
			var name string
			if binding := services.Resolve(route, store); binding.Recipient != nil {
				name = binding.Recipient.Name
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			fmt.Fprintln(cmd.OutOrStdout(), services.ShareMessage(name, url))
			return nil
		},
	}
	cmd.Flags().String("href", "", "location the card is served from")
	cmd.Flags().String("data", "", "data directory or base URL (default: embedded sample)")
	return cmd
}
