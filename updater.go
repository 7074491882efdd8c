package transit

import (
	"context"
	"fmt"
	"log/slog"

	"tresjolie.dev/transit/model"
	"tresjolie.dev/transit/reconcile"
)

// Brings a Target up to date with a fresh set of stops.
type Updater struct {
	Target     Target
	Reconciler reconcile.Reconciler

	// Reconcile only; leave the target untouched.
	DryRun bool

	Logger *slog.Logger
}

func NewUpdater(target Target) *Updater {
	return &Updater{
		Target: target,
		Logger: slog.Default().With(slog.String("component", "updater")),
	}
}

// Reconciles the target's current stops against fresh and, unless
// DryRun is set, applies the result to the target. The result is
// returned either way.
//
// Both sets must be free of duplicate codes and missing names, or
// nothing is applied.
func (u *Updater) Update(ctx context.Context, fresh []model.Stop) (*reconcile.Result, error) {
	currentStops, err := u.Target.Stops(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading current stops: %w", err)
	}

	current, err := reconcile.NewStopSet("current", currentStops)
	if err != nil {
		return nil, err
	}
	freshSet, err := reconcile.NewStopSet("fresh", fresh)
	if err != nil {
		return nil, err
	}

	result := u.Reconciler.Merge(current, freshSet)

	u.Logger.Info("reconciled",
		slog.Int("current", current.Len()),
		slog.Int("fresh", freshSet.Len()),
		slog.Int("added", len(result.Added)),
		slog.Int("removed", len(result.Removed)),
		slog.Int("changed", len(result.Differences)),
		slog.Bool("dry_run", u.DryRun))

	if u.DryRun || result.Empty() {
		return result, nil
	}

	if err := u.Target.Apply(ctx, result); err != nil {
		return nil, fmt.Errorf("applying changes: %w", err)
	}

	return result, nil
}
