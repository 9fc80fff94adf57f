package usecases

import (
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
	"github.com/uozuAho/vicroads-graph-search/pkg/roadgraph"
	"github.com/uozuAho/vicroads-graph-search/pkg/spatialindex"
	"github.com/uozuAho/vicroads-graph-search/pkg/util"
	"go.uber.org/zap"
)

// GraphService answers read-only queries over one converted graph and the
// placemarks it was built from.
type GraphService struct {
	log          *zap.Logger
	graph        *da.Graph
	nearest      NearestIndex
	spatialIndex SpatialIndex
	placemarks   []da.Placemark
	roadsCache   *lru.Cache[roadsKey, []da.Placemark]

	statsOnce sync.Once
	stats     roadgraph.Stats
}

const roadsCacheSize = 256

type roadsKey struct {
	name  string
	limit int
}

func NewGraphService(log *zap.Logger, graph *da.Graph, nearest NearestIndex, spatialIndex SpatialIndex,
	placemarks []da.Placemark) *GraphService {
	roadsCache, _ := lru.New[roadsKey, []da.Placemark](roadsCacheSize)
	return &GraphService{
		log:          log,
		graph:        graph,
		nearest:      nearest,
		spatialIndex: spatialIndex,
		placemarks:   placemarks,
		roadsCache:   roadsCache,
	}
}

// NewGraphServiceFromGraph builds both spatial indexes over graph.
func NewGraphServiceFromGraph(log *zap.Logger, graph *da.Graph, placemarks []da.Placemark) *GraphService {
	rt := spatialindex.NewRtree()
	rt.Build(graph, log)
	return NewGraphService(log, graph, spatialindex.NewKDTreeFromNodes(graph.GetNodes()), rt, placemarks)
}

func (gs *GraphService) GetGraph() *da.Graph {
	return gs.graph
}

// Nearest k nodes to (lat, lon) in raw coordinate distance.
func (gs *GraphService) Nearest(lat, lon float64, k int) []spatialindex.Neighbor {
	return gs.nearest.KNearest(da.NewPoint(lat, lon).ToCoordinate(), k)
}

func (gs *GraphService) Node(id da.Index) (*da.Node, error) {
	if !gs.graph.HasNode(id) {
		return nil, util.WrapErrorf(nil, util.ErrNotFound, "node %d not found", id)
	}
	return gs.graph.GetNode(id), nil
}

func (gs *GraphService) NodesInBox(bb *da.BoundingBox, limit int) ([]*da.Node, bool) {
	ids, truncated := gs.spatialIndex.SearchBox(bb, limit)
	return gs.nodes(ids), truncated
}

// NodesWithinRadius radiusMeters around (lat, lon), great-circle distance.
func (gs *GraphService) NodesWithinRadius(lat, lon, radiusMeters float64, limit int) []*da.Node {
	return gs.nodes(gs.spatialIndex.SearchWithinRadius(lat, lon, radiusMeters/1000, limit))
}

func (gs *GraphService) nodes(ids []da.Index) []*da.Node {
	out := make([]*da.Node, len(ids))
	for i, id := range ids {
		out[i] = gs.graph.GetNode(id)
	}
	return out
}

// Roads placemarks whose declared name contains name, case insensitive, in
// record order. answers are cached per (lowercased name, limit).
func (gs *GraphService) Roads(name string, limit int) []da.Placemark {
	needle := strings.ToLower(name)
	key := roadsKey{name: needle, limit: limit}
	if cached, ok := gs.roadsCache.Get(key); ok {
		return cached
	}

	out := make([]da.Placemark, 0)
	for _, p := range gs.placemarks {
		if limit > 0 && len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(p.DeclaredName), needle) {
			out = append(out, p)
		}
	}
	gs.roadsCache.Add(key, out)
	return out
}

func (gs *GraphService) Stats() roadgraph.Stats {
	gs.statsOnce.Do(func() {
		gs.stats = roadgraph.ComputeStats(gs.graph)
		gs.log.Info("graph statistics computed",
			zap.Int("nodes", gs.stats.Nodes),
			zap.Int("components", gs.stats.Components))
	})
	return gs.stats
}
