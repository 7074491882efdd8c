package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeocentricRadius(t *testing.T) {
	assert.InDelta(t, EquatorialRadius, GeocentricRadius(0), 1e-9)
	assert.InDelta(t, PolarRadius, GeocentricRadius(90), 1e-9)
	assert.InDelta(t, PolarRadius, GeocentricRadius(-90), 1e-9)

	// Tampere
	r := GeocentricRadius(61.5)
	assert.True(t, r < EquatorialRadius && r > PolarRadius)
	assert.InDelta(t, 6361.0, r, 1.0)

	// Out of range still produces a number.
	assert.False(t, math.IsNaN(GeocentricRadius(135)))
}

func TestHaversineDistance(t *testing.T) {
	type loc struct{ lat, lon float64 }
	locs := map[string]loc{
		"nyc":    {40.7, -74.1},
		"philly": {40.0, -75.2},
		"sf":     {37.8, -122.5},
		"sto":    {59.3, 17.9},
		"lon":    {51.5, -0.2},
		"rey":    {64.1, -21.9},
	}
	dist := func(a, b string) float64 {
		return HaversineDistance(locs[a].lat, locs[a].lon, locs[b].lat, locs[b].lon, 6371)
	}

	assert.InDelta(t, 121.438585, dist("nyc", "philly"), 0.001)
	assert.InDelta(t, 4127.311071, dist("nyc", "sf"), 0.001)
	assert.InDelta(t, 6318.636281, dist("nyc", "sto"), 0.001)
	assert.InDelta(t, 5572.804939, dist("nyc", "lon"), 0.001)
	assert.InDelta(t, 8619.312141, dist("sf", "sto"), 0.001)
	assert.InDelta(t, 1426.989197, dist("sto", "lon"), 0.001)
	assert.InDelta(t, 1882.845837, dist("lon", "rey"), 0.001)

	// Symmetric
	assert.InDelta(t, dist("sto", "rey"), dist("rey", "sto"), 1e-9)
}

func TestHaversineDistanceDefaultRadius(t *testing.T) {
	// Quarter of the equator.
	assert.InDelta(t, math.Pi/2*EquatorialRadius, HaversineDistance(0, 0, 0, 90), 1e-6)
	assert.InDelta(t, 10018.75, HaversineDistance(0, 0, 0, 90), 0.01)

	assert.Equal(t, 0.0, HaversineDistance(61.5, 23.7, 61.5, 23.7))
}

func TestBoundingBox(t *testing.T) {
	for _, tc := range []struct {
		name     string
		lat, lon float64
		distance float64
		sw, ne   Point
	}{
		{
			"degenerate",
			0, 0, 0,
			Point{0, 0}, Point{0, 0},
		},
		{
			"equator",
			0, 0, 50,
			Point{-0.449157, -0.449157}, Point{0.449157, 0.449157},
		},
		{
			"antimeridian",
			0, 179.9, 50,
			Point{-0.449157, 179.450843}, Point{0.449157, -179.650843},
		},
		{
			"north pole",
			89.9, 10, 50,
			Point{89.450843, -180}, Point{90, 180},
		},
		{
			"south pole",
			-89.9, 10, 50,
			Point{-90, -180}, Point{-89.450843, 180},
		},
		{
			"exactly at pole",
			90, 0, 0,
			Point{90, -180}, Point{90, 180},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sw, ne := BoundingBox(tc.lat, tc.lon, tc.distance)
			assert.InDelta(t, tc.sw.Lat, sw.Lat, 1e-5)
			assert.InDelta(t, tc.sw.Lon, sw.Lon, 1e-5)
			assert.InDelta(t, tc.ne.Lat, ne.Lat, 1e-5)
			assert.InDelta(t, tc.ne.Lon, ne.Lon, 1e-5)
			assert.False(t, math.IsInf(sw.Lon, 0) || math.IsNaN(sw.Lon))
			assert.False(t, math.IsInf(ne.Lon, 0) || math.IsNaN(ne.Lon))
		})
	}
}

func TestBoundingBoxContainsCircle(t *testing.T) {
	lat, lon := 61.4981, 23.7608
	r := GeocentricRadius(lat)
	sw, ne := BoundingBox(lat, lon, 2, r)

	// Walk a grid over a slightly larger area; anything within 2 km
	// must fall inside the box.
	for dLat := -0.05; dLat <= 0.05; dLat += 0.001 {
		for dLon := -0.1; dLon <= 0.1; dLon += 0.002 {
			pLat, pLon := lat+dLat, lon+dLon
			if HaversineDistance(lat, lon, pLat, pLon, r) > 2 {
				continue
			}
			assert.True(t, pLat >= sw.Lat && pLat <= ne.Lat, "lat %f", pLat)
			assert.True(t, pLon >= sw.Lon && pLon <= ne.Lon, "lon %f", pLon)
		}
	}
}

func TestMeanRadius(t *testing.T) {
	assert.Equal(t, EquatorialRadius, MeanRadius(nil))
	assert.InDelta(t, GeocentricRadius(60), MeanRadius([]Point{{59, 0}, {61, 0}}), 1e-9)
}
