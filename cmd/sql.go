package main

import (
	"io"

	"github.com/spf13/cobra"

	"tresjolie.dev/transit/format"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <stops.json|stops.csv>",
	Short: "Generates SQL INSERT statements for the stops",
	Args:  cobra.ExactArgs(1),
	RunE:  sqlInserts,
}

var (
	sqlTable  string
	sqlOutput string
)

func init() {
	sqlCmd.Flags().StringVarP(&sqlTable, "table", "t", format.DefaultTable, "Table to insert into")
	sqlCmd.Flags().StringVarP(&sqlOutput, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(sqlCmd)
}

func sqlInserts(cmd *cobra.Command, args []string) error {
	stops, err := readStops(args[0])
	if err != nil {
		return err
	}

	return writeOutput(sqlOutput, func(w io.Writer) error {
		return format.WriteSQL(w, sqlTable, stops)
	})
}
