package reconcile

import (
	"fmt"

	"tresjolie.dev/transit/model"
)

// A single field that differs between the current and fresh version
// of a stop. Direction values are nil when unknown, Lines are
// []string, coordinates float64 and everything else string.
type FieldChange struct {
	Field model.Field
	Old   interface{}
	New   interface{}
}

func (c FieldChange) String() string {
	return fmt.Sprintf("%s: %v -> %v", c.Field, display(c.Old), display(c.New))
}

// All changed fields of a stop, in model.AllFields order.
type Diff []FieldChange

// Outcome of reconciling a current stop set against a fresh one.
type Result struct {
	// The fresh set. Fresh is authoritative for surviving codes, and
	// removed stops are left for the caller to act on.
	Merged *StopSet

	// Codes only in fresh, and only in current. Both sorted.
	Added   []string
	Removed []string

	// Codes present in both sets whose stops differ.
	Differences map[string]Diff
}

// Codes present in both sets, sorted.
func (r *Result) Kept() []string {
	added := map[string]bool{}
	for _, code := range r.Added {
		added[code] = true
	}
	kept := []string{}
	for _, code := range r.Merged.Codes() {
		if !added[code] {
			kept = append(kept, code)
		}
	}
	return kept
}

// Codes with differences, sorted.
func (r *Result) Changed() []string {
	changed := []string{}
	for _, code := range r.Merged.Codes() {
		if _, found := r.Differences[code]; found {
			changed = append(changed, code)
		}
	}
	return changed
}

// True if nothing was added, removed or changed.
func (r *Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Differences) == 0
}

// Reconciles stop sets. Fields lists the fields compared for
// differences; when empty, all of model.AllFields are.
type Reconciler struct {
	Fields []model.Field
}

// Reconciles using all fields.
func Merge(current, fresh *StopSet) *Result {
	return Reconciler{}.Merge(current, fresh)
}

// Builds the "current" and "fresh" sets from plain records and
// reconciles them. Fails on duplicate codes or missing fields in
// either input.
func MergeStops(current, fresh []model.Stop) (*Result, error) {
	cur, err := NewStopSet("current", current)
	if err != nil {
		return nil, err
	}
	fr, err := NewStopSet("fresh", fresh)
	if err != nil {
		return nil, err
	}
	return Merge(cur, fr), nil
}

func (r Reconciler) Merge(current, fresh *StopSet) *Result {
	fields := r.Fields
	if len(fields) == 0 {
		fields = model.AllFields
	}

	result := &Result{
		Merged:      fresh,
		Added:       []string{},
		Removed:     []string{},
		Differences: map[string]Diff{},
	}

	// Codes are kept sorted by StopSet, so the output is too.
	for _, code := range fresh.codes {
		old, found := current.stops[code]
		if !found {
			result.Added = append(result.Added, code)
			continue
		}
		if diff := diffStops(old, fresh.stops[code], fields); len(diff) > 0 {
			result.Differences[code] = diff
		}
	}

	for _, code := range current.codes {
		if !fresh.Has(code) {
			result.Removed = append(result.Removed, code)
		}
	}

	return result
}

func diffStops(old, new model.Stop, fields []model.Field) Diff {
	var diff Diff
	for _, f := range model.AllFields {
		if !containsField(fields, f) {
			continue
		}
		o, n := fieldValue(old, f), fieldValue(new, f)
		if !fieldEqual(f, o, n) {
			diff = append(diff, FieldChange{Field: f, Old: o, New: n})
		}
	}
	return diff
}

func containsField(fields []model.Field, f model.Field) bool {
	for _, candidate := range fields {
		if candidate == f {
			return true
		}
	}
	return false
}

func fieldValue(s model.Stop, f model.Field) interface{} {
	switch f {
	case model.FieldName:
		return s.Name
	case model.FieldLat:
		return s.Lat
	case model.FieldLon:
		return s.Lon
	case model.FieldDirection:
		if s.Direction == nil {
			return nil
		}
		return *s.Direction
	case model.FieldLines:
		if s.Lines == nil {
			return []string{}
		}
		return append([]string{}, s.Lines...)
	case model.FieldMunicipality:
		return s.Municipality
	case model.FieldZone:
		return s.Zone
	}
	return nil
}

func fieldEqual(f model.Field, a, b interface{}) bool {
	if f == model.FieldLines {
		return model.Stop{Lines: a.([]string)}.Equal(model.Stop{Lines: b.([]string)})
	}
	return a == b
}

func display(v interface{}) interface{} {
	if v == nil {
		return "<unknown>"
	}
	return v
}
