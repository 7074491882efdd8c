package storage

import (
	"tresjolie.dev/transit/model"
)

// Persistent home for a stop and line dataset. Stops are keyed by
// code and lines by name; writes are upserts.
type Storage interface {
	// All stops, ordered by code.
	Stops() ([]model.Stop, error)

	// All lines, ordered by name.
	Lines() ([]model.Line, error)

	// Inserts or replaces the given stops.
	WriteStops(stops []model.Stop) error

	// Inserts or replaces the given lines.
	WriteLines(lines []model.Line) error

	// Deletes stops by code. Unknown codes are ignored.
	DeleteStops(codes []string) error

	Close() error
}
