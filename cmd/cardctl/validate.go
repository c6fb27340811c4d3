package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/schikamarun/christmas-cards/internal/domain"
	"github.com/schikamarun/christmas-cards/internal/routing"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check data documents for dangling references",
		Long: `Load the collections and recipients documents without the sample fallback
and report recipient groups whose collection does not exist, a dangling
default collection, slugs that cannot be addressed and unrecognized themes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, _ := cmd.Flags().GetString("data")
			if data == "" {
				return fmt.Errorf("--data is required")
			}
			store, err := loadStore(cmd.Context(), data)
			if err != nil {
				return err
			}

			problems := validateStore(store)
			out := cmd.OutOrStdout()
			for _, p := range problems {
				fmt.Fprintln(out, p)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d problem(s) found", len(problems))
			}
			fmt.Fprintf(out, "ok: %d collection(s), %d recipient group(s)\n", store.Collections.Len(), len(store.Recipients.ByCollection))
			return nil
		},
	}
	cmd.Flags().String("data", "", "data directory or base URL")
	return cmd
}

func validateStore(store domain.DataStore) []string {
	var problems []string

	for _, slug := range store.Collections.Slugs() {
		if !routing.ValidSlug(slug) {
			problems = append(problems, fmt.Sprintf("collection %q: slug cannot be addressed", slug))
		}
		c, _ := store.Collections.Lookup(slug)
		if c.DefaultTheme != "" {
			if _, ok := domain.ParseTheme(c.DefaultTheme); !ok {
				problems = append(problems, fmt.Sprintf("collection %q: unrecognized theme %q", slug, c.DefaultTheme))
			}
		}
	}

	if def := store.Recipients.DefaultCollection; def != "" {
		if _, ok := store.Collections.Lookup(def); !ok {
			problems = append(problems, fmt.Sprintf("defaultCollection %q: unknown collection", def))
		}
	}

	groups := make([]string, 0, len(store.Recipients.ByCollection))
	for slug := range store.Recipients.ByCollection {
		groups = append(groups, slug)
	}
	sort.Strings(groups)
	for _, group := range groups {
		if _, ok := store.Collections.Lookup(group); !ok {
			problems = append(problems, fmt.Sprintf("recipients %q: unknown collection", group))
		}
		recipients := store.Recipients.ByCollection[group]
		slugs := make([]string, 0, len(recipients))
		for slug := range recipients {
			slugs = append(slugs, slug)
		}
		sort.Strings(slugs)
		for _, slug := range slugs {
			if !routing.ValidSlug(slug) {
				problems = append(problems, fmt.Sprintf("recipient %s/%s: slug cannot be addressed", group, slug))
			}
			if theme := recipients[slug].Theme; theme != "" {
				if _, ok := domain.ParseTheme(theme); !ok {
					problems = append(problems, fmt.Sprintf("recipient %s/%s: unrecognized theme %q", group, slug, theme))
				}
			}
		}
	}
	return problems
}
