package datastructure

import "math"

const EPS = 1e-9

// Coordinate is a planar position used by the graph and the spatial indexes.
// x holds the longitude and y the latitude of the source point.
type Coordinate struct {
	x, y float64
}

func NewCoordinate(x, y float64) Coordinate {
	return Coordinate{x: x, y: y}
}

func (c Coordinate) GetX() float64 {
	return c.x
}

func (c Coordinate) GetY() float64 {
	return c.y
}

// Axis returns the value along axis 0 (x) or axis 1 (y).
func (c Coordinate) Axis(i int) float64 {
	if i == 0 {
		return c.x
	}
	return c.y
}

// DistSquared. squared euclidean distance, no sqrt
func (c Coordinate) DistSquared(o Coordinate) float64 {
	dx := c.x - o.x
	dy := c.y - o.y
	return dx*dx + dy*dy
}

// Eq compares two floats with EPS tolerance.
func Eq(a, b float64) bool {
	return math.Abs(a-b) <= EPS
}

func coordEqual(a, b Coordinate) bool {
	return Eq(a.x, b.x) && Eq(a.y, b.y)
}
