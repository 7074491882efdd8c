package transit

import (
	"context"
	"fmt"

	"tresjolie.dev/transit/docstore"
	"tresjolie.dev/transit/model"
	"tresjolie.dev/transit/reconcile"
	"tresjolie.dev/transit/storage"
)

// Somewhere stops are kept and can be brought up to date.
// docstore.Client is one.
type Target interface {
	Stops(ctx context.Context) ([]model.Stop, error)
	Apply(ctx context.Context, result *reconcile.Result) error
}

// Target that can be populated from scratch.
type Seeder interface {
	Seed(ctx context.Context, dataset *model.Dataset) error
}

var (
	_ Target = (*docstore.Client)(nil)
	_ Seeder = (*docstore.Client)(nil)
	_ Target = (*StorageTarget)(nil)
	_ Seeder = (*StorageTarget)(nil)
)

// Target over a SQL or in-memory storage.
type StorageTarget struct {
	Storage storage.Storage
}

func NewStorageTarget(s storage.Storage) *StorageTarget {
	return &StorageTarget{Storage: s}
}

func (t *StorageTarget) Stops(ctx context.Context) ([]model.Stop, error) {
	return t.Storage.Stops()
}

// Deletes removed stops and upserts added and changed ones.
func (t *StorageTarget) Apply(ctx context.Context, result *reconcile.Result) error {
	if len(result.Removed) > 0 {
		if err := t.Storage.DeleteStops(result.Removed); err != nil {
			return fmt.Errorf("deleting stops: %w", err)
		}
	}

	write := []model.Stop{}
	for _, code := range append(append([]string{}, result.Added...), result.Changed()...) {
		stop, _ := result.Merged.Get(code)
		write = append(write, stop)
	}
	if len(write) > 0 {
		if err := t.Storage.WriteStops(write); err != nil {
			return fmt.Errorf("writing stops: %w", err)
		}
	}

	return nil
}

func (t *StorageTarget) Seed(ctx context.Context, dataset *model.Dataset) error {
	if err := t.Storage.WriteStops(dataset.Stops); err != nil {
		return fmt.Errorf("writing stops: %w", err)
	}
	if err := t.Storage.WriteLines(dataset.Lines); err != nil {
		return fmt.Errorf("writing lines: %w", err)
	}
	return nil
}
