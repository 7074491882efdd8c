package parse

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tresjolie.dev/transit/model"
	"tresjolie.dev/transit/reconcile"
)

func TestParseStopsCSV(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
		stops   []model.Stop
		missing string
		err     bool
	}{
		{
			"minimal_stop",
			`
stop_code,stop_name,stop_lat,stop_lon
0001,Keskustori,61.4981,23.7608`,
			[]model.Stop{{
				Code:  "0001",
				Name:  "Keskustori",
				Lat:   61.4981,
				Lon:   23.7608,
				Lines: []string{},
			}},
			"",
			false,
		},

		{
			"maximal_stop",
			`
stop_code,stop_name,stop_lat,stop_lon,stop_dir,stop_lines,stop_muni,stop_zone
0001,Keskustori,61.4981,23.7608,Hervanta,10 2 10A 1,Tampere,A
0002,"Rautatieasema, laituri 2",61.4988,23.7734,,,Tampere,B`,
			[]model.Stop{
				{
					Code:         "0001",
					Name:         "Keskustori",
					Lat:          61.4981,
					Lon:          23.7608,
					Direction:    model.Dir("Hervanta"),
					Lines:        []string{"1", "2", "10", "10A"},
					Municipality: "Tampere",
					Zone:         "A",
				},
				{
					Code:         "0002",
					Name:         "Rautatieasema, laituri 2",
					Lat:          61.4988,
					Lon:          23.7734,
					Lines:        []string{},
					Municipality: "Tampere",
					Zone:         "B",
				},
			},
			"",
			false,
		},

		{
			"bom",
			"\xef\xbb\xbfstop_code,stop_name,stop_lat,stop_lon\n0001,A,1,2",
			[]model.Stop{{Code: "0001", Name: "A", Lat: 1, Lon: 2, Lines: []string{}}},
			"",
			false,
		},

		{
			"blank code",
			`
stop_code,stop_name,stop_lat,stop_lon
,name,1.1,2.2`,
			nil,
			"code",
			true,
		},

		{
			"blank name",
			`
stop_code,stop_name,stop_lat,stop_lon
0001,,1.1,2.2`,
			nil,
			"name",
			true,
		},

		{
			"blank latitude",
			`
stop_code,stop_name,stop_lat,stop_lon
0001,a,1.1,2.2
0002,b,,2.2`,
			nil,
			"latitude",
			true,
		},

		{
			"blank longitude",
			`
stop_code,stop_name,stop_lat,stop_lon
0001,a,1.1,`,
			nil,
			"longitude",
			true,
		},

		{
			"bad latitude",
			`
stop_code,stop_name,stop_lat,stop_lon
0001,a,north,2.2`,
			nil,
			"",
			true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			stops, err := ParseStopsCSV("stops.csv", bytes.NewBufferString(tc.content))
			if tc.err {
				require.Error(t, err)
				var missing *reconcile.MissingFieldError
				if tc.missing != "" {
					require.True(t, errors.As(err, &missing), "got %v", err)
					assert.Equal(t, tc.missing, missing.Field)
					assert.Equal(t, "stops.csv", missing.Set)
				} else {
					assert.False(t, errors.As(err, &missing))
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.stops, stops)
		})
	}
}

func TestParseStopSetCSVDuplicateCode(t *testing.T) {
	_, err := ParseStopSetCSV("current", bytes.NewBufferString(`
stop_code,stop_name,stop_lat,stop_lon
0001,a,1,2
0001,b,1,2`))
	var dup *reconcile.DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "0001", dup.Code)
	assert.Equal(t, "current", dup.Set)
}

func TestParseStopSetCSV(t *testing.T) {
	set, err := ParseStopSetCSV("current", bytes.NewBufferString(`
stop_code,stop_name,stop_lat,stop_lon
0002,b,1,2
0001,a,1,2`))
	require.NoError(t, err)
	assert.Equal(t, []string{"0001", "0002"}, set.Codes())
}

func TestParseStopsCSVNonFiniteCoordinates(t *testing.T) {
	for _, tc := range []struct {
		row   string
		field string
	}{
		{"0001,a,NaN,23.7", "latitude"},
		{"0001,a,+Inf,23.7", "latitude"},
		{"0001,a,61.5,nan", "longitude"},
		{"0001,a,61.5,-inf", "longitude"},
	} {
		t.Run(tc.row, func(t *testing.T) {
			_, err := ParseStopsCSV("fresh", bytes.NewBufferString("stop_code,stop_name,stop_lat,stop_lon\n"+tc.row))
			var invalid *reconcile.InvalidFieldError
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Equal(t, "0001", invalid.Code)
			assert.Equal(t, tc.field, invalid.Field)
		})
	}
}
