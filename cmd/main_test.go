package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tresjolie.dev/transit/config"
	"tresjolie.dev/transit/geo"
	"tresjolie.dev/transit/model"
	"tresjolie.dev/transit/testutil"
)

func TestParseHeaders(t *testing.T) {
	h, err := parseHeaders([]string{"User-Agent: tresjolie", "X-Key:abc:def"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"User-Agent": "tresjolie", "X-Key": "abc:def"}, h)

	_, err = parseHeaders([]string{"nope"})
	assert.Error(t, err)
}

func TestParseFields(t *testing.T) {
	fields, err := parseFields([]string{"name", "dir"})
	require.NoError(t, err)
	assert.Equal(t, []model.Field{model.FieldName, model.FieldDirection}, fields)

	_, err = parseFields([]string{"colour"})
	assert.Error(t, err)
}

func TestReadDataset(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "stops.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"stop_code,stop_name,stop_lat,stop_lon,stop_dir,stop_lines,stop_muni,stop_zone\n"+
			"0001,Keskustori,61.4981,23.7608,,1 3,837,A\n"), 0644))

	jsonPath := filepath.Join(dir, "stops.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
  "stops": [{"code": "0001", "name": "Keskustori", "latitude": 61.4981, "longitude": 23.7608,
             "lines": ["1", "3"], "municipality": "837", "zone": "A"}],
  "lines": [{"name": "1", "description": "Vatiala - Pyynikintori"}]
}`), 0644))

	fromCSV, err := readDataset(csvPath)
	require.NoError(t, err)
	fromJSON, err := readDataset(jsonPath)
	require.NoError(t, err)

	require.Len(t, fromCSV.Stops, 1)
	require.Len(t, fromJSON.Stops, 1)
	assert.True(t, fromCSV.Stops[0].Equal(fromJSON.Stops[0]))
	assert.Len(t, fromJSON.Lines, 1)
}

func TestLocateStopsFromAPI(t *testing.T) {
	server := testutil.NewJourneysServer(t)
	cfg = config.Default()
	cfg.Journeys.BaseURL = server.URL()
	locateFile = ""

	lat, lon, distance := 61.4981, 23.7608, 2.0
	radius := geo.GeocentricRadius(lat)
	sw, ne := geo.BoundingBox(lat, lon, distance, radius)

	query := url.Values{"location": {fmt.Sprintf("%.5f,%.5f:%.5f,%.5f", sw.Lat, sw.Lon, ne.Lat, ne.Lon)}}
	server.Success("stop-points?"+query.Encode(), []interface{}{
		testutil.StopPoint("0001", "Keskustori", fmt.Sprintf("%.7f,%.7f", lat, lon), "837", "A"),
		testutil.StopPoint("0002", "Edge", fmt.Sprintf("%.7f,%.7f", ne.Lat-1e-6, lon), "837", "A"),
		testutil.StopPoint("0003", "Corner", fmt.Sprintf("%.7f,%.7f", ne.Lat, ne.Lon), "837", "A"),
	})

	near, err := locateStops(context.Background(), lat, lon, distance)
	require.NoError(t, err)

	codes := []string{}
	for _, n := range near {
		codes = append(codes, n.Stop.Code)
	}
	assert.Equal(t, []string{"0001", "0002"}, codes)
}
