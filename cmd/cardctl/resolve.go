package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/schikamarun/christmas-cards/internal/datasource"
	"github.com/schikamarun/christmas-cards/internal/domain"
	"github.com/schikamarun/christmas-cards/internal/routing"
	"github.com/schikamarun/christmas-cards/internal/services"
)

const loadTimeout = 15 * time.Second

func resolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve FRAGMENT",
		Short: "Resolve a fragment against a data set and print the binding",
		Long: `Resolve a fragment and print the binding as JSON.

--data accepts a directory holding collections and recipients documents or the
base URL of a deployment serving /data/*.json. Without it the embedded sample
data is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fragment string
			if len(args) > 0 {
				fragment = args[0]
			}
			data, _ := cmd.Flags().GetString("data")
			store, err := loadStore(cmd.Context(), data)
			if err != nil {
				return err
			}

			route := routing.FromFragment(fragment)
			out := struct {
				Fragment string         `json:"fragment"`
				Binding  domain.Binding `json:"binding"`
			}{
				Fragment: route.Fragment,
				Binding:  services.Resolve(route, store),
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().String("data", "", "data directory or base URL (default: embedded sample)")
	return cmd
}

// openSource picks the data source for a --data value.
func openSource(data string) (datasource.Source, error) {
	data = strings.TrimSpace(data)
	switch {
	case data == "":
		return datasource.SampleSource{}, nil
	case strings.HasPrefix(data, "http://"), strings.HasPrefix(data, "https://"):
		return datasource.NewHTTPSource(data)
	default:
		return datasource.NewDirSource(data), nil
	}
}

// loadStore loads both documents strictly; a failure is reported, never replaced by the sample.
func loadStore(ctx context.Context, data string) (domain.DataStore, error) {
	src, err := openSource(data)
	if err != nil {
		return domain.DataStore{}, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	store, err := datasource.Load(ctx, src)
	if err != nil {
		return domain.DataStore{}, fmt.Errorf("load data: %w", err)
	}
	return store, nil
}
