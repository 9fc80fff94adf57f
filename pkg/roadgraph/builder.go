package roadgraph

import (
	"iter"

	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
)

// GraphBuilder turns placemarks into graph nodes. every point gets the next
// global index, consecutive points of one placemark are linked.
type GraphBuilder struct {
	sequentialEdges int
}

func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{}
}

// BuildNodes consumes records once, in order. placemarks without points add
// no nodes and leave the numbering untouched.
func (b *GraphBuilder) BuildNodes(records iter.Seq[da.Placemark]) []*da.Node {
	nodes := make([]*da.Node, 0)
	for p := range records {
		for pointNum, point := range p.Points {
			idx := da.Index(len(nodes))
			node := da.NewNode(idx, point.ToCoordinate())
			if pointNum > 0 {
				// same road, previous point
				da.Link(nodes[idx-1], node)
				b.sequentialEdges++
			}
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// GetSequentialEdges number of undirected edges added inside placemarks so far.
func (b *GraphBuilder) GetSequentialEdges() int {
	return b.sequentialEdges
}
