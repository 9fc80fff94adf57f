package spatialindex

import (
	"sort"

	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
	"github.com/uozuAho/vicroads-graph-search/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// Rtree answers box and radius lookups over graph nodes. the k-d tree covers
// nearest-neighbour queries; the r-tree serves window queries of the api.
type Rtree struct {
	tr *rtree.RTreeG[da.Index]
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[da.Index]
	return &Rtree{
		tr: &tr,
	}
}

// Build inserts every node as a degenerate rectangle at (lon, lat).
func (rt *Rtree) Build(graph *da.Graph, log *zap.Logger) {
	log.Info("Building R-tree spatial index...", zap.Int("nodes", graph.NumberOfNodes()))
	for _, n := range graph.GetNodes() {
		p := [2]float64{n.GetX(), n.GetY()}
		rt.tr.Insert(p, p, n.GetIndex())
	}
	log.Info("R-tree spatial index built.")
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

// SearchBox returns the ids of nodes inside bb, ascending, at most limit of them
// (limit <= 0 means no limit). the second return value reports truncation.
func (rt *Rtree) SearchBox(bb *da.BoundingBox, limit int) ([]da.Index, bool) {
	results := make([]da.Index, 0, 16)
	truncated := false
	rt.tr.Search([2]float64{bb.GetMinLon(), bb.GetMinLat()}, [2]float64{bb.GetMaxLon(), bb.GetMaxLat()},
		func(min, max [2]float64, data da.Index) bool {
			if limit > 0 && len(results) >= limit {
				truncated = true
				return false
			}
			results = append(results, data)
			return true
		})
	sort.Slice(results, func(i, j int) bool { return results[i] < results[j] })
	return results, truncated
}

// SearchWithinRadius search for all nodes within radius (in km) from the query point (qLat, qLon)
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64, limit int) []da.Index {
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, radius*1.5)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, radius*1.5)

	results := make([]da.Index, 0, 10)
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, data da.Index) bool {
			if geo.CalculateHaversineDistance(qLat, qLon, min[1], min[0]) > radius {
				return true
			}
			results = append(results, data)
			return limit <= 0 || len(results) < limit
		})
	sort.Slice(results, func(i, j int) bool { return results[i] < results[j] })
	return results
}
