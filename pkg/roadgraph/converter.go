package roadgraph

import (
	"iter"
	"time"

	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
	"github.com/uozuAho/vicroads-graph-search/pkg/geo"
	"github.com/uozuAho/vicroads-graph-search/pkg/spatialindex"
	"go.uber.org/zap"
)

// Converter runs one conversion: nodes with sequential edges, a k-d tree over
// every node, then proximity edges. a Converter holds no state between runs
// and is not meant to be shared by goroutines running at the same time.
type Converter struct {
	cfg Config
	log *zap.Logger
}

func NewConverter(cfg Config, log *zap.Logger) *Converter {
	return &Converter{cfg: cfg, log: log}
}

type Result struct {
	Graph           *da.Graph
	SequentialEdges int
	JoinedNodes     int
}

func (c *Converter) Convert(records iter.Seq[da.Placemark]) *da.Graph {
	return c.ConvertWithResult(records).Graph
}

func (c *Converter) ConvertWithResult(records iter.Seq[da.Placemark]) Result {
	start := time.Now()

	builder := NewGraphBuilder()
	nodes := builder.BuildNodes(records)
	c.log.Info("placemarks to nodes done",
		zap.Int("nodes", len(nodes)),
		zap.Int("sequential_edges", builder.GetSequentialEdges()),
		zap.Duration("elapsed", time.Since(start)))

	if len(nodes) == 0 {
		return Result{Graph: da.NewGraph(nodes)}
	}

	phase := time.Now()
	tree := spatialindex.NewKDTreeFromNodes(nodes)
	c.log.Info("k-d tree built", zap.Int("items", tree.Len()), zap.Duration("elapsed", time.Since(phase)))

	phase = time.Now()
	joiner := NewEdgeJoiner(c.cfg.MaxDistSquared)
	joined := joiner.Join(nodes, tree)
	c.log.Info("join close nodes done",
		zap.Int("joined_nodes", joined),
		zap.Float64("max_dist_squared", c.cfg.MaxDistSquared),
		zap.Float64("approx_threshold_m", geo.ThresholdMeters(c.cfg.MaxDistSquared, nodes[0].GetY())),
		zap.Duration("elapsed", time.Since(phase)))

	graph := da.NewGraph(nodes)
	c.log.Info("graph built",
		zap.Int("nodes", graph.NumberOfNodes()),
		zap.Int("edges", graph.NumberOfEdges()),
		zap.Duration("total", time.Since(start)))

	return Result{
		Graph:           graph,
		SequentialEdges: builder.GetSequentialEdges(),
		JoinedNodes:     joined,
	}
}
