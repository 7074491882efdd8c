package geo

import (
	"sort"

	"github.com/tidwall/rtree"

	"tresjolie.dev/transit/model"
)

// Spatial index over stops, for radius queries.
type Index struct {
	tree   rtree.RTree
	radius float64
	size   int
}

// A stop returned from a radius query, with its distance in km from
// the query point.
type Nearby struct {
	Stop     model.Stop
	Distance float64
}

// Builds an index over the given stops. Distances are computed with
// the mean geocentric radius of the stops, which suits a dataset
// covering a single city.
func NewIndex(stops []model.Stop) *Index {
	points := make([]Point, 0, len(stops))
	for _, stop := range stops {
		points = append(points, Point{Lat: stop.Lat, Lon: stop.Lon})
	}
	return NewIndexWithRadius(stops, MeanRadius(points))
}

// Builds an index computing distances with the given earth radius in
// km. Callers that prefilter with BoundingBox should pass the same
// radius to both.
func NewIndexWithRadius(stops []model.Stop, radius float64) *Index {
	idx := &Index{radius: radius, size: len(stops)}

	for _, stop := range stops {
		// For points, min and max are the same [lat, lon]
		idx.tree.Insert(
			[2]float64{stop.Lat, stop.Lon},
			[2]float64{stop.Lat, stop.Lon},
			stop,
		)
	}

	return idx
}

// Earth radius used for distances.
func (idx *Index) Radius() float64 {
	return idx.radius
}

func (idx *Index) Len() int {
	return idx.size
}

// Stops within distance km of lat,lon, nearest first. Ties are broken
// by stop code.
func (idx *Index) Within(lat, lon, distance float64) []Nearby {
	sw, ne := BoundingBox(lat, lon, distance, idx.radius)

	results := []Nearby{}
	collect := func(min, max [2]float64, data interface{}) bool {
		stop, ok := data.(model.Stop)
		if !ok {
			return true
		}
		d := HaversineDistance(lat, lon, stop.Lat, stop.Lon, idx.radius)
		if d <= distance {
			results = append(results, Nearby{Stop: stop, Distance: d})
		}
		return true
	}

	if sw.Lon <= ne.Lon {
		idx.tree.Search([2]float64{sw.Lat, sw.Lon}, [2]float64{ne.Lat, ne.Lon}, collect)
	} else {
		// Box wraps the antimeridian: search both halves.
		idx.tree.Search([2]float64{sw.Lat, sw.Lon}, [2]float64{ne.Lat, 180}, collect)
		idx.tree.Search([2]float64{sw.Lat, -180}, [2]float64{ne.Lat, ne.Lon}, collect)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Stop.Code < results[j].Stop.Code
	})

	return results
}
