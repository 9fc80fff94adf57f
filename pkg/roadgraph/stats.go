package roadgraph

import (
	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

type Stats struct {
	Nodes            int `json:"nodes" yaml:"nodes"`
	DirectedEdges    int `json:"directed_edges" yaml:"directed_edges"`
	UndirectedEdges  int `json:"undirected_edges" yaml:"undirected_edges"`
	IsolatedNodes    int `json:"isolated_nodes" yaml:"isolated_nodes"`
	MaxDegree        int `json:"max_degree" yaml:"max_degree"`
	Components       int `json:"components" yaml:"components"`
	LargestComponent int `json:"largest_component" yaml:"largest_component"`
}

// Undirected copies g into a gonum undirected graph, node ids = node indices.
func Undirected(g *da.Graph) *simple.UndirectedGraph {
	ug := simple.NewUndirectedGraph()
	for _, n := range g.GetNodes() {
		ug.AddNode(simple.Node(n.GetIndex()))
	}
	g.ForEdges(func(e da.Edge) {
		if e.From >= e.To {
			return
		}
		ug.SetEdge(simple.Edge{F: simple.Node(e.From), T: simple.Node(e.To)})
	})
	return ug
}

func ComputeStats(g *da.Graph) Stats {
	st := Stats{
		Nodes:         g.NumberOfNodes(),
		DirectedEdges: g.NumberOfEdges(),
	}
	for _, n := range g.GetNodes() {
		deg := n.GetDegree()
		if deg == 0 {
			st.IsolatedNodes++
		}
		st.MaxDegree = max(st.MaxDegree, deg)
	}

	ug := Undirected(g)
	st.UndirectedEdges = ug.Edges().Len()
	components := topo.ConnectedComponents(ug)
	st.Components = len(components)
	for _, c := range components {
		st.LargestComponent = max(st.LargestComponent, len(c))
	}
	return st
}
