package geo

import (
	"github.com/twpayne/go-polyline"
)

// PolylineFromCoords encodes coords with the google polyline algorithm (precision 5).
func PolylineFromCoords(coords []Coordinate) string {
	s := make([][]float64, 0, len(coords))
	for _, c := range coords {
		s = append(s, []float64{c.Lat, c.Lon})
	}
	return string(polyline.EncodeCoords(s))
}

// CoordsFromPolyline decodes an encoded polyline.
func CoordsFromPolyline(p string) ([]Coordinate, error) {
	c, _, err := polyline.DecodeCoords([]byte(p))
	if err != nil {
		return nil, err
	}
	coords := make([]Coordinate, len(c))
	for i, latLon := range c {
		coords[i] = NewCoordinate(latLon[0], latLon[1])
	}
	return coords, nil
}
