package geo

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// ThresholdMeters estimates the ground length of a squared threshold given in
// raw degree units, measured along the diagonal at latitude lat. the proximity
// join compares raw degrees, so the metric meaning drifts with latitude.
func ThresholdMeters(maxDistSquared, lat float64) float64 {
	if maxDistSquared <= 0 {
		return 0
	}
	d := math.Sqrt(maxDistSquared / 2)
	from := s2.LatLngFromDegrees(lat, 0)
	to := s2.LatLngFromDegrees(lat+d, d)
	return AngleToMeters(from.Distance(to))
}

// AngleToMeters converts a central angle to meters on the mean earth radius.
func AngleToMeters(a s1.Angle) float64 {
	return a.Radians() * earthRadiusKM * 1000
}

// S2Distance great-circle distance in meters.
func S2Distance(a, b Coordinate) float64 {
	from := s2.LatLngFromDegrees(a.Lat, a.Lon)
	to := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return AngleToMeters(from.Distance(to))
}
