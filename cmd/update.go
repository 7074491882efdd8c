package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tresjolie.dev/transit"
	"tresjolie.dev/transit/format"
	"tresjolie.dev/transit/reconcile"
)

var updateCmd = &cobra.Command{
	Use:   "update <fresh stops.json|stops.csv>",
	Short: "Brings the database or document store up to date with a fresh stop file",
	Args:  cobra.ExactArgs(1),
	RunE:  update,
}

var (
	updateTarget string
	updateDryRun bool
	updateFields []string
)

func init() {
	updateCmd.Flags().StringVarP(&updateTarget, "target", "t", "db", "Where to apply changes: db or docstore")
	updateCmd.Flags().BoolVarP(&updateDryRun, "dry-run", "n", false, "Only report what would change")
	updateCmd.Flags().StringSliceVarP(&updateFields, "fields", "f", []string{}, "Fields to compare (default all)")
	rootCmd.AddCommand(updateCmd)
}

// Target and a function releasing it.
func openTarget(name string) (transit.Target, func() error, error) {
	switch name {
	case "db":
		s, err := openStorage()
		if err != nil {
			return nil, nil, fmt.Errorf("opening storage: %w", err)
		}
		return transit.NewStorageTarget(s), s.Close, nil
	case "docstore":
		client, err := docstoreClient()
		if err != nil {
			return nil, nil, err
		}
		return client, func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown target '%s'", name)
}

func update(cmd *cobra.Command, args []string) error {
	fields, err := parseFields(updateFields)
	if err != nil {
		return err
	}

	fresh, err := readStops(args[0])
	if err != nil {
		return err
	}

	target, closeTarget, err := openTarget(updateTarget)
	if err != nil {
		return err
	}
	defer closeTarget()

	updater := transit.NewUpdater(target)
	updater.DryRun = updateDryRun
	updater.Reconciler = reconcile.Reconciler{Fields: fields}

	result, err := updater.Update(cmd.Context(), fresh)
	if err != nil {
		return err
	}

	return format.WriteReport(cmd.OutOrStdout(), nil, result, nil)
}
