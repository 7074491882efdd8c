package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tresjolie.dev/transit/format"
)

var exportCmd = &cobra.Command{
	Use:   "export <stops.json>",
	Short: "Writes stops and lines as CSV files",
	Args:  cobra.ExactArgs(1),
	RunE:  export,
}

var (
	exportStops string
	exportLines string
)

func init() {
	exportCmd.Flags().StringVarP(&exportStops, "stops", "", "stops.csv", "Stops output file")
	exportCmd.Flags().StringVarP(&exportLines, "lines", "", "lines.csv", "Lines output file")
	rootCmd.AddCommand(exportCmd)
}

func export(cmd *cobra.Command, args []string) error {
	dataset, err := readDataset(args[0])
	if err != nil {
		return err
	}

	err = writeOutput(exportStops, func(w io.Writer) error {
		return format.WriteStopsCSV(w, dataset.Stops)
	})
	if err != nil {
		return fmt.Errorf("writing stops: %w", err)
	}

	err = writeOutput(exportLines, func(w io.Writer) error {
		return format.WriteLinesCSV(w, dataset.Lines)
	})
	if err != nil {
		return fmt.Errorf("writing lines: %w", err)
	}

	return nil
}
