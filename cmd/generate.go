package main

import (
	"io"

	"github.com/spf13/cobra"

	"tresjolie.dev/transit/format"
)

var generateCmd = &cobra.Command{
	Use:   "generate <stops.json|stops.csv>",
	Short: "Generates source code listing the stops",
	Args:  cobra.ExactArgs(1),
	RunE:  generate,
}

var (
	generateSource string
	generateOutput string
)

func init() {
	generateCmd.Flags().StringVarP(&generateSource, "source", "s", "csv", "One of csv, java, csharp, objc, sql")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(generateCmd)
}

func generate(cmd *cobra.Command, args []string) error {
	flavor, err := format.ParseFlavor(generateSource)
	if err != nil {
		return err
	}

	stops, err := readStops(args[0])
	if err != nil {
		return err
	}

	return writeOutput(generateOutput, func(w io.Writer) error {
		return format.WriteSource(w, flavor, stops)
	})
}
