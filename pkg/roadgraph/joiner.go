package roadgraph

import (
	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
	"github.com/uozuAho/vicroads-graph-search/pkg/spatialindex"
)

type NearestIndex interface {
	KNearest(target da.Coordinate, k int) []spatialindex.Neighbor
}

// EdgeJoiner links every node to its single nearest other node when the two
// are within maxDistSquared. a node at a junction of three or more roads only
// searches for one partner, other roads reach it through their own searches.
type EdgeJoiner struct {
	maxDistSquared float64
}

func NewEdgeJoiner(maxDistSquared float64) *EdgeJoiner {
	return &EdgeJoiner{maxDistSquared: maxDistSquared}
}

func (j *EdgeJoiner) GetMaxDistSquared() float64 {
	return j.maxDistSquared
}

// Join runs the proximity phase over nodes in index order and returns how many
// nodes found a partner within the threshold. running it again adds nothing.
func (j *EdgeJoiner) Join(nodes []*da.Node, index NearestIndex) int {
	joined := 0
	for _, node := range nodes {
		nearest, ok := j.nearestOther(node, index)
		if !ok || nearest.DistSquared > j.maxDistSquared {
			continue
		}
		da.Link(node, nodes[nearest.Item.ID])
		joined++
	}
	return joined
}

// nearestOther. the first of the 2 nearest that is not node itself. a node
// sharing its exact position with a lower index can be ordered before it.
func (j *EdgeJoiner) nearestOther(node *da.Node, index NearestIndex) (spatialindex.Neighbor, bool) {
	for _, n := range index.KNearest(node.GetXY(), 2) {
		if n.Item.ID != node.GetIndex() {
			return n, true
		}
	}
	return spatialindex.Neighbor{}, false
}
