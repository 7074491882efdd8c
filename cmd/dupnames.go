package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"tresjolie.dev/transit/reconcile"
)

var dupnamesCmd = &cobra.Command{
	Use:   "dupnames <stops.json|stops.csv>",
	Short: "Lists stop names shared by more than one stop",
	Args:  cobra.ExactArgs(1),
	RunE:  dupnames,
}

func init() {
	rootCmd.AddCommand(dupnamesCmd)
}

func dupnames(cmd *cobra.Command, args []string) error {
	stops, err := readStops(args[0])
	if err != nil {
		return err
	}

	set, err := reconcile.NewStopSet(args[0], stops)
	if err != nil {
		return err
	}

	dups := reconcile.DuplicateNames(set)
	names := make([]string, 0, len(dups))
	for name := range dups {
		names = append(names, name)
	}
	sort.Strings(names)

	out := cmd.OutOrStdout()
	for _, name := range names {
		fmt.Fprintf(out, "%s (%d): %s\n", name, len(dups[name]), strings.Join(dups[name], " "))
	}
	fmt.Fprintf(out, "%d names, %d shared\n", set.Len()-sharedCount(dups), len(names))

	return nil
}

// Stops beyond the first for each shared name.
func sharedCount(dups map[string][]string) int {
	n := 0
	for _, codes := range dups {
		n += len(codes) - 1
	}
	return n
}
