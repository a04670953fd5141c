package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/norden-group/locintel-cli/internal/export"
)

var exportSummary bool

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Resolve the dataset and write it to an XLSX workbook",
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

		var path string
		if exportSummary {
			path, err = export.SummaryReport(dataset, cfg.Export.Dir)
		} else {
			path, err = export.Dataset(dataset, cfg.Export.Dir)
		}
		if err != nil {
			return err
		}

		fmt.Printf("\nexported  %s\n", path)
		return nil
	},
}

func init() {
	addFilterFlags(exportCmd)
	exportCmd.Flags().BoolVar(&exportSummary, "summary", false, "include summary report sheets")
	rootCmd.AddCommand(exportCmd)
}
