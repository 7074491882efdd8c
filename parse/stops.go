package parse

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"tresjolie.dev/transit/model"
	"tresjolie.dev/transit/reconcile"
)

// A row of stops.csv, as written by format.WriteStopsCSV.
//
// Coordinates are kept as strings so that a blank cell can be told
// apart from 0. A blank stop_dir means the direction is unknown.
type StopCSV struct {
	Code         string `csv:"stop_code"`
	Name         string `csv:"stop_name"`
	Lat          string `csv:"stop_lat"`
	Lon          string `csv:"stop_lon"`
	Direction    string `csv:"stop_dir"`
	Lines        string `csv:"stop_lines"`
	Municipality string `csv:"stop_muni"`
	Zone         string `csv:"stop_zone"`
}

// Parses stops.csv. The set name is used in errors.
//
// Lines are space separated and returned naturally sorted. Missing
// required fields fail the whole file with a
// *reconcile.MissingFieldError.
func ParseStopsCSV(set string, data io.Reader) ([]model.Stop, error) {
	useLazyCSVReader()

	stops := []model.Stop{}

	i := -1
	err := gocsv.UnmarshalToCallbackWithError(data, func(st *StopCSV) error {
		i += 1
		code := strings.TrimSpace(st.Code)

		missing := func(field string) error {
			return &reconcile.MissingFieldError{Set: set, Index: i, Code: code, Field: field}
		}

		if code == "" {
			return missing("code")
		}
		if st.Name == "" {
			return missing("name")
		}
		if strings.TrimSpace(st.Lat) == "" {
			return missing("latitude")
		}
		if strings.TrimSpace(st.Lon) == "" {
			return missing("longitude")
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(st.Lat), 64)
		if err != nil {
			return errors.Wrapf(err, "parsing stop_lat (row %d)", i+1)
		}
		if !finite(lat) {
			return &reconcile.InvalidFieldError{Set: set, Index: i, Code: code, Field: "latitude", Value: st.Lat}
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(st.Lon), 64)
		if err != nil {
			return errors.Wrapf(err, "parsing stop_lon (row %d)", i+1)
		}
		if !finite(lon) {
			return &reconcile.InvalidFieldError{Set: set, Index: i, Code: code, Field: "longitude", Value: st.Lon}
		}

		stop := model.Stop{
			Code:         code,
			Name:         st.Name,
			Lat:          lat,
			Lon:          lon,
			Lines:        splitLines(st.Lines),
			Municipality: st.Municipality,
			Zone:         st.Zone,
		}
		if st.Direction != "" {
			stop.Direction = model.Dir(st.Direction)
		}

		stops = append(stops, stop)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "unmarshaling stops csv")
	}

	return stops, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func splitLines(s string) []string {
	lines := strings.Fields(s)
	reconcile.SortNatural(lines)
	return lines
}

// Stops as a stop set named after the file. Convenience for callers
// that go straight on to reconciliation.
func ParseStopSetCSV(set string, data io.Reader) (*reconcile.StopSet, error) {
	stops, err := ParseStopsCSV(set, data)
	if err != nil {
		return nil, err
	}
	s, err := reconcile.NewStopSet(set, stops)
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", set, err)
	}
	return s, nil
}
