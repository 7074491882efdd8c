package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tresjolie.dev/transit/format"
	"tresjolie.dev/transit/model"
	"tresjolie.dev/transit/reconcile"
)

var overridesCmd = &cobra.Command{
	Use:   "overrides <stops.json|stops.csv> <overrides.csv>",
	Short: "Sets a field of stops from a code,value CSV file",
	Args:  cobra.ExactArgs(2),
	RunE:  overrides,
}

var (
	overridesField  string
	overridesOutput string
)

func init() {
	overridesCmd.Flags().StringVarP(&overridesField, "field", "f", "direction", "Field to set: direction, municipality, zone or lines")
	overridesCmd.Flags().StringVarP(&overridesOutput, "output", "o", "", "Output file, JSON (default stdout)")
	rootCmd.AddCommand(overridesCmd)
}

func overrides(cmd *cobra.Command, args []string) error {
	field, err := model.ParseField(overridesField)
	if err != nil {
		return err
	}

	dataset, err := readDataset(args[0])
	if err != nil {
		return err
	}
	values, err := readOverrides(args[1])
	if err != nil {
		return fmt.Errorf("reading overrides: %w", err)
	}

	set, err := reconcile.NewStopSet(args[0], dataset.Stops)
	if err != nil {
		return err
	}

	set, unmatched, err := reconcile.ApplyOverrides(set, values, field)
	if err != nil {
		return err
	}
	for _, u := range unmatched {
		fmt.Fprintln(cmd.ErrOrStderr(), u)
	}

	dataset.Stops = set.Stops()
	return writeOutput(overridesOutput, func(w io.Writer) error {
		return format.WriteDataset(w, dataset)
	})
}
