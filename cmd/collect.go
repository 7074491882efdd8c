package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tresjolie.dev/transit"
	"tresjolie.dev/transit/format"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Loads stops and lines from the Journeys API and writes them as JSON",
	Args:  cobra.NoArgs,
	RunE:  collect,
}

var (
	collectOutput     string
	collectDirections string
	collectWorkers    int
)

func init() {
	collectCmd.Flags().StringVarP(&collectOutput, "output", "o", "", "Output file (default stdout)")
	collectCmd.Flags().StringVarP(&collectDirections, "directions", "d", "", "CSV file of stop directions (code,direction)")
	collectCmd.Flags().IntVarP(&collectWorkers, "workers", "w", transit.DefaultCollectWorkers, "Concurrent per-stop requests")
	rootCmd.AddCommand(collectCmd)
}

func collect(cmd *cobra.Command, args []string) error {
	client, err := journeysClient()
	if err != nil {
		return err
	}

	collector := transit.NewCollector(client)
	collector.Workers = collectWorkers
	if collectDirections != "" {
		collector.Directions, err = readOverrides(collectDirections)
		if err != nil {
			return fmt.Errorf("reading directions: %w", err)
		}
	}

	dataset, unmatched, err := collector.Collect(cmd.Context())
	if err != nil {
		return err
	}
	for _, u := range unmatched {
		fmt.Fprintln(cmd.ErrOrStderr(), u)
	}

	return writeOutput(collectOutput, func(w io.Writer) error {
		return format.WriteDataset(w, dataset)
	})
}
