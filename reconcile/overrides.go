package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"tresjolie.dev/transit/model"
)

// Returns a new stop set where each stop whose code appears in
// overrides has the given field replaced by the override value.
//
// Supported fields are direction, municipality, zone and lines. Line
// overrides are whitespace separated names and are stored naturally
// sorted. Override codes matching no stop are returned, sorted by
// code, rather than treated as errors.
func ApplyOverrides(set *StopSet, overrides map[string]string, field model.Field) (*StopSet, []UnmatchedOverride, error) {
	switch field {
	case model.FieldDirection, model.FieldMunicipality, model.FieldZone, model.FieldLines:
	default:
		return nil, nil, fmt.Errorf("field %s can't be overridden", field)
	}

	stops := set.Stops()
	for i := range stops {
		value, found := overrides[stops[i].Code]
		if !found {
			continue
		}
		switch field {
		case model.FieldDirection:
			stops[i].Direction = model.Dir(value)
		case model.FieldMunicipality:
			stops[i].Municipality = value
		case model.FieldZone:
			stops[i].Zone = value
		case model.FieldLines:
			lines := strings.Fields(value)
			SortNatural(lines)
			stops[i].Lines = lines
		}
	}

	unmatched := []UnmatchedOverride{}
	for code := range overrides {
		if !set.Has(code) {
			unmatched = append(unmatched, UnmatchedOverride{Code: code, Field: field})
		}
	}
	sort.Slice(unmatched, func(i, j int) bool {
		return unmatched[i].Code < unmatched[j].Code
	})

	updated, err := NewStopSet(set.name, stops)
	if err != nil {
		return nil, nil, fmt.Errorf("rebuilding %s: %w", set.name, err)
	}

	return updated, unmatched, nil
}
