package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/norden-group/locintel-cli/internal/model"
	"github.com/norden-group/locintel-cli/internal/resolve"
)

var (
	filterType         string
	filterCity         string
	filterMinSize      int
	filterMaxSize      int
	filterUpdatedAfter string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the property dataset once and print a summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		filter, err := buildFilter()
		if err != nil {
			return err
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		dataset, stats, err := env.Pipeline().Resolve(ctx, filter)
		if err != nil {
			return err
		}

		printDataset(dataset, stats)
		return nil
	},
}

func init() {
	addFilterFlags(resolveCmd)
	rootCmd.AddCommand(resolveCmd)
}

// addFilterFlags registers the shared dataset filter flags on a command.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&filterType, "type", "", "property type filter (e.g. Office)")
	cmd.Flags().StringVar(&filterCity, "city", "", "city filter")
	cmd.Flags().IntVar(&filterMinSize, "min-size", 0, "minimum size in sqm")
	cmd.Flags().IntVar(&filterMaxSize, "max-size", 0, "maximum size in sqm")
	cmd.Flags().StringVar(&filterUpdatedAfter, "updated-after", "", "only records updated after this date (YYYY-MM-DD)")
}

// buildFilter converts the flag values into a model.Filter.
func buildFilter() (model.Filter, error) {
	filter := model.Filter{
		PropertyType: filterType,
		City:         filterCity,
		MinSize:      filterMinSize,
		MaxSize:      filterMaxSize,
	}
	if filterUpdatedAfter != "" {
		t, err := time.Parse("2006-01-02", filterUpdatedAfter)
		if err != nil {
			return model.Filter{}, eris.Wrapf(err, "parse --updated-after %q", filterUpdatedAfter)
		}
		filter.UpdatedAfter = &t
	}
	return filter, nil
}

// printDataset writes the run summary to stdout.
func printDataset(dataset *model.Dataset, stats *resolve.Stats) {
	for _, attempt := range stats.Attempts {
		if attempt.Outcome == "resolved" {
			continue
		}
		fmt.Printf("tried %s: %s", attempt.Adapter, attempt.Outcome)
		if attempt.Reason != "" {
			fmt.Printf(" (%s)", attempt.Reason)
		}
		fmt.Println()
	}

	fmt.Printf("run       %s\n", dataset.RunID)
	fmt.Printf("source    %s\n", dataset.Source)
	fmt.Printf("resolved  %s\n", dataset.ResolvedAt.Format(time.RFC3339))
	fmt.Printf("records   %d\n", dataset.Len())

	summary := dataset.Summarize()
	fmt.Printf("plottable %d\n", summary.WithCoordinates)
	fmt.Printf("dropped   %d\n", stats.Dropped)
	fmt.Printf("enriched  %d (failed %d, cache hits %d)\n",
		stats.Enrich.Enriched, stats.Enrich.Failed, stats.Enrich.CacheHits)
	if centroid := dataset.Centroid(); centroid != nil {
		fmt.Printf("centroid  %.4f, %.4f\n", centroid.Y(), centroid.X())
	}

	fmt.Println("\nby property type:")
	for _, key := range model.SortedKeys(summary.ByPropertyType) {
		st := summary.ByPropertyType[key]
		fmt.Printf("  %-12s %4d properties, %8d sqm total\n", key, st.Count, st.TotalSqm)
	}

	fmt.Println("\nby city:")
	for _, key := range model.SortedKeys(summary.ByCity) {
		st := summary.ByCity[key]
		fmt.Printf("  %-12s %4d properties, %8d sqm total\n", key, st.Count, st.TotalSqm)
	}
}
