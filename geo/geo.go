package geo

import (
	"math"
)

// Earth radii in kilometers, for the WGS 84 ellipsoid.
const (
	EquatorialRadius = 6378.1370
	PolarRadius      = 6356.7523
)

var (
	minLat = radians(-90)
	maxLat = radians(90)
	minLon = radians(-180)
	maxLon = radians(180)
)

// A latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Geocentric radius of the Earth, in km, at the given latitude.
//
// Latitude is not range checked. Values outside [-90, 90] still
// produce a number.
func GeocentricRadius(latDeg float64) float64 {
	lat := radians(latDeg)
	a := EquatorialRadius
	b := PolarRadius

	t1a := a * a * math.Cos(lat)
	t1b := b * b * math.Sin(lat)
	t2a := a * math.Cos(lat)
	t2b := b * math.Sin(lat)

	return math.Sqrt((t1a*t1a + t1b*t1b) / (t2a*t2a + t2b*t2b))
}

// Great circle distance in km between two points, using the haversine
// formula. The Earth radius defaults to EquatorialRadius; pass a
// radius from GeocentricRadius for better accuracy at the latitudes
// being processed.
func HaversineDistance(aLat, aLon, bLat, bLon float64, radius ...float64) float64 {
	r := EquatorialRadius
	if len(radius) > 0 {
		r = radius[0]
	}

	aLatRad := radians(aLat)
	bLatRad := radians(bLat)
	deltaLat := bLatRad - aLatRad
	deltaLon := radians(bLon) - radians(aLon)

	a := math.Pow(math.Sin(deltaLat/2), 2) + math.Cos(aLatRad)*math.Cos(bLatRad)*math.Pow(math.Sin(deltaLon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return r * c
}

// Bounding coordinates of all points within distance km (great
// circle) of lat,lon. Returns the SW and NE corners.
//
// When the box would cross the antimeridian, the SW longitude is
// greater than the NE longitude. When it would contain a pole, the
// latitude is clamped and the longitude spans [-180, 180].
func BoundingBox(lat, lon, distance float64, radius ...float64) (Point, Point) {
	r := EquatorialRadius
	if len(radius) > 0 {
		r = radius[0]
	}

	angular := distance / r
	latRad := radians(lat)
	lonRad := radians(lon)

	loLat := latRad - angular
	hiLat := latRad + angular

	var loLon, hiLon float64
	if loLat > minLat && hiLat < maxLat {
		deltaLon := math.Asin(math.Sin(angular) / math.Cos(latRad))

		loLon = lonRad - deltaLon
		if loLon < minLon {
			loLon += 2 * math.Pi
		}
		hiLon = lonRad + deltaLon
		if hiLon > maxLon {
			hiLon -= 2 * math.Pi
		}
	} else {
		loLat = math.Max(loLat, minLat)
		hiLat = math.Min(hiLat, maxLat)
		loLon = minLon
		hiLon = maxLon
	}

	return Point{Lat: degrees(loLat), Lon: degrees(loLon)},
		Point{Lat: degrees(hiLat), Lon: degrees(hiLon)}
}

// Mean geocentric radius over the latitudes of the given points. Falls
// back to EquatorialRadius when there are none.
func MeanRadius(points []Point) float64 {
	if len(points) == 0 {
		return EquatorialRadius
	}
	sum := 0.0
	for _, p := range points {
		sum += p.Lat
	}
	return GeocentricRadius(sum / float64(len(points)))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
