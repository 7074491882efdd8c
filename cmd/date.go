package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tresjolie.dev/transit/stddate"
)

var dateCmd = &cobra.Command{
	Use:   "date <date>...",
	Short: "Normalizes dates to YYYY-MM-DD",
	Args:  cobra.MinimumNArgs(1),
	RunE:  date,
}

var (
	dateDelimiter string
	dateStyle     string
)

func init() {
	dateCmd.Flags().StringVarP(&dateDelimiter, "delimiter", "d", "-", "Separator between date components")
	dateCmd.Flags().StringVarP(&dateStyle, "style", "s", "dmy", "Component order: dmy, mdy, ymd or guess")
	rootCmd.AddCommand(dateCmd)
}

func date(cmd *cobra.Command, args []string) error {
	style, err := stddate.ParseStyle(dateStyle)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, arg := range args {
		d, err := stddate.ToStandardDate(arg, dateDelimiter, style, now)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), d)
	}

	return nil
}
