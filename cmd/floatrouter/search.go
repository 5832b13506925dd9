package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/floatrouter/v1/embedding"
	"github.com/Aleph-Alpha/floatrouter/v1/floats"
	"github.com/Aleph-Alpha/floatrouter/v1/router"
	"github.com/Aleph-Alpha/floatrouter/v1/vectordb"
)

var searchCmd = &cobra.Command{
	Use:   "search [TEXT]",
	Short: "Search the vector store directly, optionally narrowed by metadata",
	Long: `search bypasses the router and queries the float collection in Qdrant.
With TEXT the question is embedded and the nearest floats matching the
filters are returned. With --metadata-only no embedding is made and any
floats matching the filters are listed.`,
	Example: `  floatrouter search --region "Arabian Sea" --lat-min 10 "warm salty water"
  floatrouter search --metadata-only --deployed-since 2022-01-01 --exclude-region "Red Sea"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		metadataOnly, _ := cmd.Flags().GetBool("metadata-only")

		switch {
		case metadataOnly && filter.IsZero():
			return errors.New("--metadata-only needs at least one filter flag")
		case !metadataOnly && len(args) == 0:
			return errors.New("search needs TEXT unless --metadata-only is set")
		}

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		collection := cfg.Router.Collection

		var (
			store    vectordb.Service
			embedder *embedding.Client
		)
		return runOnce(cmd.Context(), func(ctx context.Context) error {
			if metadataOnly {
				results, err := store.SearchByMetadata(ctx, vectordb.MetadataRequest{
					CollectionName: collection,
					Filters:        filter.FilterSet(),
					Limit:          limit,
				})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), results)
			}

			backend := router.NewSemanticBackend(embedder, store, collection, limit)
			matches, err := backend.SearchWithFilters(ctx, args[0], filter.FilterSet())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), matches)
		},
			baseOptions(cfg),
			vectorOptions(),
			fx.Populate(&store, &embedder),
		)
	},
}

func init() {
	registerSearchFlags(searchCmd)
}

func registerSearchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSlice("region", nil, "only floats in one of these regions")
	f.StringSlice("exclude-region", nil, "drop floats in these regions")
	f.StringSlice("platform", nil, "only floats with one of these platform numbers")
	f.Float64("lat-min", 0, "southern latitude bound")
	f.Float64("lat-max", 0, "northern latitude bound")
	f.Float64("lon-min", 0, "western longitude bound")
	f.Float64("lon-max", 0, "eastern longitude bound")
	f.String("deployed-since", "", "only floats deployed on or after this date (YYYY-MM-DD)")
	f.Int("limit", 10, "maximum number of results")
	f.Bool("metadata-only", false, "list floats matching the filters without a text query")
}

// filterFromFlags builds a floats.Filter from the search flags. Bounds are
// set only for flags given on the command line, so 0 stays a usable value.
func filterFromFlags(cmd *cobra.Command) (floats.Filter, error) {
	f := cmd.Flags()

	var out floats.Filter
	out.Regions, _ = f.GetStringSlice("region")
	out.ExcludeRegions, _ = f.GetStringSlice("exclude-region")
	out.Platforms, _ = f.GetStringSlice("platform")

	bounds := []struct {
		name string
		dst  **float64
	}{
		{"lat-min", &out.LatMin},
		{"lat-max", &out.LatMax},
		{"lon-min", &out.LonMin},
		{"lon-max", &out.LonMax},
	}
	for _, b := range bounds {
		if !f.Changed(b.name) {
			continue
		}
		v, err := f.GetFloat64(b.name)
		if err != nil {
			return floats.Filter{}, err
		}
		*b.dst = &v
	}
	if out.LatMin != nil && out.LatMax != nil && *out.LatMin > *out.LatMax {
		return floats.Filter{}, fmt.Errorf("--lat-min %g is above --lat-max %g", *out.LatMin, *out.LatMax)
	}
	if out.LonMin != nil && out.LonMax != nil && *out.LonMin > *out.LonMax {
		return floats.Filter{}, fmt.Errorf("--lon-min %g is above --lon-max %g", *out.LonMin, *out.LonMax)
	}

	if s, _ := f.GetString("deployed-since"); strings.TrimSpace(s) != "" {
		t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
		if err != nil {
			return floats.Filter{}, fmt.Errorf("--deployed-since: %w", err)
		}
		out.DeployedSince = &t
	}
	return out, nil
}
