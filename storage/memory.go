package storage

import (
	"sort"
	"sync"

	"tresjolie.dev/transit/model"
)

// In memory implementation of Storage below

type MemoryStorage struct {
	mutex sync.Mutex
	stops map[string]model.Stop
	lines map[string]model.Line
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		stops: map[string]model.Stop{},
		lines: map[string]model.Line{},
	}
}

func (s *MemoryStorage) Stops() ([]model.Stop, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stops := make([]model.Stop, 0, len(s.stops))
	for _, stop := range s.stops {
		stops = append(stops, stop.Clone())
	}
	sort.Slice(stops, func(i, j int) bool {
		return stops[i].Code < stops[j].Code
	})
	return stops, nil
}

func (s *MemoryStorage) Lines() ([]model.Line, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	lines := make([]model.Line, 0, len(s.lines))
	for _, line := range s.lines {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].Name < lines[j].Name
	})
	return lines, nil
}

func (s *MemoryStorage) WriteStops(stops []model.Stop) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, stop := range stops {
		s.stops[stop.Code] = stop.Clone()
	}
	return nil
}

func (s *MemoryStorage) WriteLines(lines []model.Line) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, line := range lines {
		s.lines[line.Name] = line
	}
	return nil
}

func (s *MemoryStorage) DeleteStops(codes []string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, code := range codes {
		delete(s.stops, code)
	}
	return nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
