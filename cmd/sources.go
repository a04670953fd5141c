package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/norden-group/locintel-cli/internal/model"
	"github.com/norden-group/locintel-cli/internal/source"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Probe each configured source and report its health",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		for _, adapter := range env.Adapters {
			raws, fetchErr := adapter.Fetch(ctx, model.Filter{})
			switch {
			case fetchErr != nil:
				fmt.Printf("%-10s FAILED  %s: %s\n", adapter.Name(), source.FailureKind(fetchErr), rootMessage(fetchErr))
			case len(raws) == 0:
				fmt.Printf("%-10s EMPTY\n", adapter.Name())
			default:
				fmt.Printf("%-10s OK      %d raw records\n", adapter.Name(), len(raws))
			}
		}
		return nil
	},
}

// rootMessage unwraps to the innermost error text for compact output.
func rootMessage(err error) string {
	for {
		inner := errors.Unwrap(err)
		if inner == nil {
			return err.Error()
		}
		err = inner
	}
}

func init() { rootCmd.AddCommand(sourcesCmd) }
