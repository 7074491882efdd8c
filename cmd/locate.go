package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tresjolie.dev/transit/geo"
)

var locateCmd = &cobra.Command{
	Use:   "locate <lat> <lon> [km]",
	Short: "Lists stops within a distance of a geographical location",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  locate,
}

var locateFile string

func init() {
	locateCmd.Flags().StringVarP(&locateFile, "file", "f", "", "Stop file to search (default: query the Journeys API)")
	rootCmd.AddCommand(locateCmd)
}

func locate(cmd *cobra.Command, args []string) error {
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid lat: %w", err)
	}
	lon, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid lon: %w", err)
	}
	distance := 0.5
	if len(args) == 3 {
		distance, err = strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid distance: %w", err)
		}
		if distance < 0 {
			return fmt.Errorf("distance must be >= 0")
		}
	}

	near, err := locateStops(cmd.Context(), lat, lon, distance)
	if err != nil {
		return err
	}

	for _, n := range near {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%.0f m)\n", n.Stop.Code, n.Stop.Name, n.Distance*1000)
	}

	return nil
}

// Stops within distance km, from locateFile or else the Journeys API.
// The API is queried with a bounding box built on the same radius the
// exact distance filter then uses.
func locateStops(ctx context.Context, lat, lon, distance float64) ([]geo.Nearby, error) {
	if locateFile != "" {
		stops, err := readStops(locateFile)
		if err != nil {
			return nil, err
		}
		return geo.NewIndex(stops).Within(lat, lon, distance), nil
	}

	client, err := journeysClient()
	if err != nil {
		return nil, err
	}

	radius := geo.GeocentricRadius(lat)
	sw, ne := geo.BoundingBox(lat, lon, distance, radius)
	stops, err := client.StopPointsInBounds(ctx, sw, ne)
	if err != nil {
		return nil, err
	}

	return geo.NewIndexWithRadius(stops, radius).Within(lat, lon, distance), nil
}
