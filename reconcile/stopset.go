package reconcile

import (
	"math"
	"sort"
	"strconv"

	"tresjolie.dev/transit/model"
)

// Stops keyed by code. Built only through NewStopSet, which rejects
// repeated codes, records lacking a code or a name, and non-finite
// coordinates. A StopSet is not modified after construction.
type StopSet struct {
	name  string
	stops map[string]model.Stop
	codes []string
}

// Builds a stop set. The name identifies the set in errors, e.g.
// "current" or "fresh".
func NewStopSet(name string, stops []model.Stop) (*StopSet, error) {
	set := &StopSet{
		name:  name,
		stops: make(map[string]model.Stop, len(stops)),
		codes: make([]string, 0, len(stops)),
	}

	for i, stop := range stops {
		if stop.Code == "" {
			return nil, &MissingFieldError{Set: name, Index: i, Field: "code"}
		}
		if stop.Name == "" {
			return nil, &MissingFieldError{Set: name, Index: i, Code: stop.Code, Field: "name"}
		}
		for _, c := range []struct {
			field string
			value float64
		}{{"latitude", stop.Lat}, {"longitude", stop.Lon}} {
			if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
				return nil, &InvalidFieldError{
					Set:   name,
					Index: i,
					Code:  stop.Code,
					Field: c.field,
					Value: strconv.FormatFloat(c.value, 'g', -1, 64),
				}
			}
		}
		if _, found := set.stops[stop.Code]; found {
			return nil, &DuplicateKeyError{Code: stop.Code, Set: name}
		}
		set.stops[stop.Code] = stop.Clone()
		set.codes = append(set.codes, stop.Code)
	}

	sort.Strings(set.codes)

	return set, nil
}

func (s *StopSet) Name() string {
	return s.name
}

func (s *StopSet) Len() int {
	return len(s.stops)
}

func (s *StopSet) Has(code string) bool {
	_, found := s.stops[code]
	return found
}

// Returns a copy of the stop with the given code.
func (s *StopSet) Get(code string) (model.Stop, bool) {
	stop, found := s.stops[code]
	if !found {
		return model.Stop{}, false
	}
	return stop.Clone(), true
}

// All codes, sorted.
func (s *StopSet) Codes() []string {
	return append([]string{}, s.codes...)
}

// Copies of all stops, sorted by code.
func (s *StopSet) Stops() []model.Stop {
	stops := make([]model.Stop, 0, len(s.codes))
	for _, code := range s.codes {
		stops = append(stops, s.stops[code].Clone())
	}
	return stops
}

// Names shared by more than one stop, mapped to the sorted codes of
// those stops.
func DuplicateNames(s *StopSet) map[string][]string {
	byName := map[string][]string{}
	for _, code := range s.codes {
		name := s.stops[code].Name
		byName[name] = append(byName[name], code)
	}

	dups := map[string][]string{}
	for name, codes := range byName {
		if len(codes) > 1 {
			dups[name] = codes
		}
	}
	return dups
}
