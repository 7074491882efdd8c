package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tresjolie.dev/transit"
)

var seedCmd = &cobra.Command{
	Use:   "seed <stops.json>",
	Short: "Populates the database or document store with stops and lines",
	Args:  cobra.ExactArgs(1),
	RunE:  seed,
}

var seedTarget string

func init() {
	seedCmd.Flags().StringVarP(&seedTarget, "target", "t", "db", "Where to write: db or docstore")
	rootCmd.AddCommand(seedCmd)
}

func seed(cmd *cobra.Command, args []string) error {
	dataset, err := readDataset(args[0])
	if err != nil {
		return err
	}

	target, closeTarget, err := openTarget(seedTarget)
	if err != nil {
		return err
	}
	defer closeTarget()

	seeder, ok := target.(transit.Seeder)
	if !ok {
		return fmt.Errorf("target '%s' can't be seeded", seedTarget)
	}

	if err := seeder.Seed(cmd.Context(), dataset); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d stops and %d lines\n", len(dataset.Stops), len(dataset.Lines))
	return nil
}
