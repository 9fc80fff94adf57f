package datastructure

import "github.com/uozuAho/vicroads-graph-search/pkg/geo"

// Point is a geographic road point.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewPoint(lat, lon float64) Point {
	return Point{
		Lat: lat,
		Lon: lon,
	}
}

func (p Point) GetLat() float64 {
	return p.Lat
}

func (p Point) GetLon() float64 {
	return p.Lon
}

// ToCoordinate. x = lon, y = lat
func (p Point) ToCoordinate() Coordinate {
	return NewCoordinate(p.Lon, p.Lat)
}

func (p Point) ToGeoCoordinate() geo.Coordinate {
	return geo.NewCoordinate(p.Lat, p.Lon)
}

func NewGeoCoordinates(points []Point) []geo.Coordinate {
	geoCoords := make([]geo.Coordinate, len(points))
	for i, p := range points {
		geoCoords[i] = p.ToGeoCoordinate()
	}
	return geoCoords
}

// Placemark is one digitized road: a name plus an ordered polyline.
type Placemark struct {
	DeclaredName string
	RoadName     string
	LocalName    string
	Points       []Point
}

func NewPlacemark(declaredName string, points []Point) Placemark {
	return Placemark{
		DeclaredName: declaredName,
		Points:       points,
	}
}

func (p Placemark) NumberOfPoints() int {
	return len(p.Points)
}

// EncodedPolyline google polyline of the placemark points.
func (p Placemark) EncodedPolyline() string {
	return geo.PolylineFromCoords(NewGeoCoordinates(p.Points))
}
