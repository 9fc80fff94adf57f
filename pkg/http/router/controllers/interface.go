package controllers

import (
	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
	"github.com/uozuAho/vicroads-graph-search/pkg/roadgraph"
	"github.com/uozuAho/vicroads-graph-search/pkg/spatialindex"
)

type GraphService interface {
	GetGraph() *da.Graph
	Nearest(lat, lon float64, k int) []spatialindex.Neighbor
	Node(id da.Index) (*da.Node, error)
	NodesInBox(bb *da.BoundingBox, limit int) ([]*da.Node, bool)
	NodesWithinRadius(lat, lon, radiusMeters float64, limit int) []*da.Node
	Roads(name string, limit int) []da.Placemark
	Stats() roadgraph.Stats
}
