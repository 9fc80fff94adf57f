package usecases

import (
	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
	"github.com/uozuAho/vicroads-graph-search/pkg/spatialindex"
)

type NearestIndex interface {
	KNearest(target da.Coordinate, k int) []spatialindex.Neighbor
}

type SpatialIndex interface {
	SearchBox(bb *da.BoundingBox, limit int) ([]da.Index, bool)
	SearchWithinRadius(qLat, qLon, radius float64, limit int) []da.Index
}
