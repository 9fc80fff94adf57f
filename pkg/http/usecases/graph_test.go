package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
	"github.com/uozuAho/vicroads-graph-search/pkg/util"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T) *GraphService {
	nodes := []*da.Node{
		da.NewNode(0, da.NewCoordinate(144.9631, -37.8136)),
		da.NewNode(1, da.NewCoordinate(144.9640, -37.8140)),
		da.NewNode(2, da.NewCoordinate(145.5, -38.0)),
		da.NewNode(3, da.NewCoordinate(145.5001, -38.0001)),
	}
	da.Link(nodes[0], nodes[1])
	da.Link(nodes[2], nodes[3])

	placemarks := []da.Placemark{
		da.NewPlacemark("PRINCES FREEWAY", []da.Point{da.NewPoint(-37.8136, 144.9631), da.NewPoint(-37.8140, 144.9640)}),
		da.NewPlacemark("Princes Highway East", []da.Point{da.NewPoint(-38.0, 145.5)}),
		da.NewPlacemark("HUME HIGHWAY", []da.Point{da.NewPoint(-38.0001, 145.5001)}),
	}
	return NewGraphServiceFromGraph(zaptest.NewLogger(t), da.NewGraph(nodes), placemarks)
}

func TestNearest(t *testing.T) {
	gs := newTestService(t)

	got := gs.Nearest(-38.00005, 145.50004, 2)
	require.Len(t, got, 2)
	assert.Equal(t, da.Index(2), got[0].Item.ID)
	assert.Equal(t, da.Index(3), got[1].Item.ID)
	assert.LessOrEqual(t, got[0].DistSquared, got[1].DistSquared)
}

func TestNode(t *testing.T) {
	gs := newTestService(t)

	n, err := gs.Node(1)
	require.NoError(t, err)
	assert.Equal(t, []da.Index{0}, n.GetAdjacent())

	_, err = gs.Node(4)
	require.Error(t, err)
	assert.Equal(t, util.ErrNotFound, util.ErrorCode(err))
}

func TestNodesInBox(t *testing.T) {
	gs := newTestService(t)

	testCases := []struct {
		name          string
		bb            *da.BoundingBox
		limit         int
		wantIDs       []da.Index
		wantTruncated bool
	}{
		{
			name:    "melbourne cbd",
			bb:      da.NewBoundingBox(-37.82, 144.96, -37.81, 144.97),
			limit:   10,
			wantIDs: []da.Index{0, 1},
		},
		{
			name:    "everything",
			bb:      da.NewBoundingBox(-39, 144, -37, 146),
			limit:   10,
			wantIDs: []da.Index{0, 1, 2, 3},
		},
		{
			name:    "nothing",
			bb:      da.NewBoundingBox(0, 0, 1, 1),
			limit:   10,
			wantIDs: []da.Index{},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			nodes, truncated := gs.NodesInBox(tt.bb, tt.limit)
			assert.Equal(t, tt.wantTruncated, truncated)
			got := make([]da.Index, len(nodes))
			for i, n := range nodes {
				got[i] = n.GetIndex()
			}
			assert.Equal(t, tt.wantIDs, got)
		})
	}
}

func TestNodesWithinRadius(t *testing.T) {
	gs := newTestService(t)

	got := gs.NodesWithinRadius(-37.8136, 144.9631, 50, 10)
	require.Len(t, got, 1)
	assert.Equal(t, da.Index(0), got[0].GetIndex())

	got = gs.NodesWithinRadius(-37.8136, 144.9631, 500, 10)
	assert.Len(t, got, 2)
}

func TestRoads(t *testing.T) {
	gs := newTestService(t)

	testCases := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{name: "case insensitive", query: "princes", limit: 10, want: []string{"PRINCES FREEWAY", "Princes Highway East"}},
		{name: "limit", query: "princes", limit: 1, want: []string{"PRINCES FREEWAY"}},
		{name: "substring", query: "highway", limit: 10, want: []string{"Princes Highway East", "HUME HIGHWAY"}},
		{name: "no match", query: "calder", limit: 10, want: []string{}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			roads := gs.Roads(tt.query, tt.limit)
			got := make([]string, len(roads))
			for i, r := range roads {
				got[i] = r.DeclaredName
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStats(t *testing.T) {
	gs := newTestService(t)

	st := gs.Stats()
	assert.Equal(t, 4, st.Nodes)
	assert.Equal(t, 4, st.DirectedEdges)
	assert.Equal(t, 2, st.UndirectedEdges)
	assert.Equal(t, 2, st.Components)
	assert.Equal(t, 2, st.LargestComponent)
	assert.Equal(t, st, gs.Stats())
}

func TestRoadsCached(t *testing.T) {
	gs := newTestService(t)

	first := gs.Roads("PRINCES", 10)
	require.Len(t, first, 2)
	assert.Equal(t, 1, gs.roadsCache.Len())

	second := gs.Roads("princes", 10)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, gs.roadsCache.Len())

	gs.Roads("princes", 1)
	assert.Equal(t, 2, gs.roadsCache.Len())
}
