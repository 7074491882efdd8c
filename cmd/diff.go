package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tresjolie.dev/transit/format"
	"tresjolie.dev/transit/model"
	"tresjolie.dev/transit/reconcile"
)

var diffCmd = &cobra.Command{
	Use:   "diff <current> <fresh>",
	Short: "Reports stops added, removed and changed between two files",
	Args:  cobra.ExactArgs(2),
	RunE:  diff,
}

var diffFields []string

func init() {
	diffCmd.Flags().StringSliceVarP(&diffFields, "fields", "f", []string{}, "Fields to compare (default all)")
	rootCmd.AddCommand(diffCmd)
}

func parseFields(names []string) ([]model.Field, error) {
	fields := []model.Field{}
	for _, name := range names {
		f, err := model.ParseField(name)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func diff(cmd *cobra.Command, args []string) error {
	fields, err := parseFields(diffFields)
	if err != nil {
		return err
	}

	currentStops, err := readStops(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	freshStops, err := readStops(args[1])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[1], err)
	}

	current, err := reconcile.NewStopSet(args[0], currentStops)
	if err != nil {
		return err
	}
	fresh, err := reconcile.NewStopSet(args[1], freshStops)
	if err != nil {
		return err
	}

	result := reconcile.Reconciler{Fields: fields}.Merge(current, fresh)

	return format.WriteReport(cmd.OutOrStdout(), current, result, nil)
}
