package transit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"tresjolie.dev/transit/journeys"
	"tresjolie.dev/transit/model"
	"tresjolie.dev/transit/reconcile"
)

const DefaultCollectWorkers = 4

// Collects a dataset of stops and lines from the Journeys API.
type Collector struct {
	Client *journeys.Client

	// Running directions by stop code. The API has none.
	Directions map[string]string

	// Max number of concurrent per-stop line requests.
	Workers int

	Logger *slog.Logger
}

func NewCollector(client *journeys.Client) *Collector {
	return &Collector{
		Client:     client,
		Directions: map[string]string{},
		Workers:    DefaultCollectWorkers,
		Logger:     slog.Default().With(slog.String("component", "collector")),
	}
}

// Loads all lines and stop points, then the lines serving each stop.
// Stops come back ordered by code, each with its lines naturally
// sorted and direction taken from Directions.
//
// Directions with no matching stop are returned for the caller to
// report.
func (c *Collector) Collect(ctx context.Context) (*model.Dataset, []reconcile.UnmatchedOverride, error) {
	start := time.Now()

	lines, err := c.Client.Lines(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading lines: %w", err)
	}

	stops, err := c.Client.StopPoints(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading stop points: %w", err)
	}

	workers := c.Workers
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range stops {
		i := i
		g.Go(func() error {
			stopLines, err := c.Client.LinesForStop(gctx, stops[i].Code)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(stopLines))
			for _, l := range stopLines {
				names = append(names, l.Name)
			}
			reconcile.SortNatural(names)
			stops[i].Lines = names
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("loading lines for stops: %w", err)
	}

	set, err := reconcile.NewStopSet(journeys.EndpointStopPoints, stops)
	if err != nil {
		return nil, nil, err
	}

	set, unmatched, err := reconcile.ApplyOverrides(set, c.Directions, model.FieldDirection)
	if err != nil {
		return nil, nil, fmt.Errorf("applying directions: %w", err)
	}
	for _, u := range unmatched {
		c.Logger.Warn(u.String())
	}

	c.Logger.Info("collected",
		slog.Int("stops", set.Len()),
		slog.Int("lines", len(lines)),
		slog.Int("directions", len(c.Directions)),
		slog.Duration("elapsed", time.Since(start)))

	return &model.Dataset{Stops: set.Stops(), Lines: lines}, unmatched, nil
}
