package datastructure

import (
	"sort"
)

type Index uint32

// Node is a graph vertex. adjacent is kept sorted and duplicate free, so it
// behaves like a set with a deterministic iteration order.
type Node struct {
	index    Index
	xy       Coordinate
	adjacent []Index
}

func NewNode(index Index, xy Coordinate) *Node {
	return &Node{
		index: index,
		xy:    xy,
	}
}

func (n *Node) GetIndex() Index {
	return n.index
}

func (n *Node) GetXY() Coordinate {
	return n.xy
}

func (n *Node) GetX() float64 {
	return n.xy.x
}

func (n *Node) GetY() float64 {
	return n.xy.y
}

// AddAdjacent inserts v into the adjacency set. returns false if v was already there.
func (n *Node) AddAdjacent(v Index) bool {
	pos := sort.Search(len(n.adjacent), func(i int) bool {
		return n.adjacent[i] >= v
	})
	if pos < len(n.adjacent) && n.adjacent[pos] == v {
		return false
	}
	n.adjacent = append(n.adjacent, 0)
	copy(n.adjacent[pos+1:], n.adjacent[pos:])
	n.adjacent[pos] = v
	return true
}

func (n *Node) IsAdjacent(v Index) bool {
	pos := sort.Search(len(n.adjacent), func(i int) bool {
		return n.adjacent[i] >= v
	})
	return pos < len(n.adjacent) && n.adjacent[pos] == v
}

// GetAdjacent returns the adjacency set in ascending order. callers must not modify it.
func (n *Node) GetAdjacent() []Index {
	return n.adjacent
}

func (n *Node) GetDegree() int {
	return len(n.adjacent)
}

// Link adds a mutual edge between u and v.
func Link(u, v *Node) {
	u.AddAdjacent(v.index)
	v.AddAdjacent(u.index)
}

type Edge struct {
	From Index
	To   Index
}

func NewEdge(from, to Index) Edge {
	return Edge{From: from, To: to}
}

// Graph is an arena of nodes; node i lives at position i.
type Graph struct {
	nodes []*Node
}

func NewGraph(nodes []*Node) *Graph {
	return &Graph{nodes: nodes}
}

func (g *Graph) GetNodes() []*Node {
	return g.nodes
}

func (g *Graph) GetNode(i Index) *Node {
	return g.nodes[i]
}

func (g *Graph) HasNode(i Index) bool {
	return int(i) < len(g.nodes)
}

func (g *Graph) NumberOfNodes() int {
	return len(g.nodes)
}

// NumberOfEdges counts directed entries, (a,b) and (b,a) separately.
func (g *Graph) NumberOfEdges() int {
	m := 0
	for _, n := range g.nodes {
		m += len(n.adjacent)
	}
	return m
}

// GetEdges derives the edge list from the adjacency sets. both (a,b) and (b,a)
// are emitted.
func (g *Graph) GetEdges() []Edge {
	edges := make([]Edge, 0, g.NumberOfEdges())
	g.ForEdges(func(e Edge) {
		edges = append(edges, e)
	})
	return edges
}

func (g *Graph) ForEdges(handle func(e Edge)) {
	for _, n := range g.nodes {
		for _, v := range n.adjacent {
			handle(NewEdge(n.index, v))
		}
	}
}

// GetBoundingBox returns the extent of all nodes, nil for an empty graph.
func (g *Graph) GetBoundingBox() *BoundingBox {
	if len(g.nodes) == 0 {
		return nil
	}
	first := g.nodes[0].xy
	bb := NewBoundingBox(first.y, first.x, first.y, first.x)
	for _, n := range g.nodes[1:] {
		bb.minLat = min(bb.minLat, n.xy.y)
		bb.maxLat = max(bb.maxLat, n.xy.y)
		bb.minLon = min(bb.minLon, n.xy.x)
		bb.maxLon = max(bb.maxLon, n.xy.x)
	}
	return bb
}
