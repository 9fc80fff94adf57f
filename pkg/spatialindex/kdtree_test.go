package spatialindex

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/kdtree"
)

func items(coords ...[2]float64) []KDItem {
	out := make([]KDItem, len(coords))
	for i, c := range coords {
		out[i] = NewKDItem(da.Index(i), da.NewCoordinate(c[0], c[1]))
	}
	return out
}

func ids(ns []Neighbor) []da.Index {
	out := make([]da.Index, len(ns))
	for i, n := range ns {
		out[i] = n.Item.ID
	}
	return out
}

func TestKNearestBasics(t *testing.T) {
	tree := NewKDTree(items([2]float64{0, 0}, [2]float64{5, 0}, [2]float64{5, 5}))

	got := tree.KNearest(da.NewCoordinate(0, 0), 2)
	require.Len(t, got, 2)
	assert.Equal(t, da.Index(0), got[0].Item.ID)
	assert.Equal(t, 0.0, got[0].DistSquared)
	assert.Equal(t, da.Index(1), got[1].Item.ID)
	assert.Equal(t, 25.0, got[1].DistSquared)
}

func TestKNearest(t *testing.T) {
	testCases := []struct {
		name     string
		coords   [][2]float64
		target   da.Coordinate
		k        int
		wantIDs  []da.Index
		wantDist []float64
	}{
		{
			name:     "k larger than tree returns everything ordered",
			coords:   [][2]float64{{0, 0}, {5, 0}, {5, 5}},
			target:   da.NewCoordinate(5, 5),
			k:        10,
			wantIDs:  []da.Index{2, 1, 0},
			wantDist: []float64{0, 25, 50},
		},
		{
			name:     "empty tree",
			coords:   nil,
			target:   da.NewCoordinate(0, 0),
			k:        2,
			wantIDs:  []da.Index{},
			wantDist: []float64{},
		},
		{
			name:     "k zero",
			coords:   [][2]float64{{0, 0}},
			target:   da.NewCoordinate(0, 0),
			k:        0,
			wantIDs:  []da.Index{},
			wantDist: []float64{},
		},
		{
			name:     "duplicates are distinct entries",
			coords:   [][2]float64{{1, 1}, {3, 3}, {1, 1}, {1, 1}},
			target:   da.NewCoordinate(1, 1),
			k:        3,
			wantIDs:  []da.Index{0, 2, 3},
			wantDist: []float64{0, 0, 0},
		},
		{
			name:     "equidistant candidates ordered by id",
			coords:   [][2]float64{{0, 1}, {1, 0}, {0, -1}, {-1, 0}, {0, 0}},
			target:   da.NewCoordinate(0, 0),
			k:        5,
			wantIDs:  []da.Index{4, 0, 1, 2, 3},
			wantDist: []float64{0, 1, 1, 1, 1},
		},
		{
			name:     "query point not in the tree",
			coords:   [][2]float64{{144.96, -37.81}, {144.97, -37.82}, {145.5, -38.0}},
			target:   da.NewCoordinate(144.961, -37.811),
			k:        1,
			wantIDs:  []da.Index{0},
			wantDist: []float64{0.001*0.001 + 0.001*0.001},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			tree := NewKDTree(items(tt.coords...))
			got := tree.KNearest(tt.target, tt.k)
			assert.Equal(t, len(tt.wantIDs), len(got))
			if len(tt.wantIDs) == 0 {
				return
			}
			assert.Equal(t, tt.wantIDs, ids(got))
			for i := range tt.wantDist {
				assert.InDelta(t, tt.wantDist[i], got[i].DistSquared, 1e-15)
			}
		})
	}
}

func randomItems(rd *rand.Rand, n int) []KDItem {
	out := make([]KDItem, n)
	for i := range out {
		// snap to a coarse grid so that duplicates and ties occur
		x := float64(rd.Intn(200)) / 10
		y := float64(rd.Intn(200)) / 10
		out[i] = NewKDItem(da.Index(i), da.NewCoordinate(x, y))
	}
	return out
}

func bruteForce(all []KDItem, target da.Coordinate, k int) []Neighbor {
	ns := make([]Neighbor, len(all))
	for i, it := range all {
		ns[i] = Neighbor{Item: it, DistSquared: target.DistSquared(it.Coord)}
	}
	sort.Slice(ns, func(i, j int) bool {
		if ns[i].DistSquared != ns[j].DistSquared {
			return ns[i].DistSquared < ns[j].DistSquared
		}
		return ns[i].Item.ID < ns[j].Item.ID
	})
	if k < len(ns) {
		ns = ns[:k]
	}
	return ns
}

func TestKNearestMatchesBruteForce(t *testing.T) {
	rd := rand.New(rand.NewSource(42))
	for _, n := range []int{1, 2, 3, 17, 256, 2000} {
		all := randomItems(rd, n)
		tree := NewKDTree(all)
		require.Equal(t, n, tree.Len())

		for q := 0; q < 50; q++ {
			target := da.NewCoordinate(rd.Float64()*20, rd.Float64()*20)
			if q%2 == 0 {
				target = all[rd.Intn(n)].Coord
			}
			k := 1 + rd.Intn(8)
			want := bruteForce(all, target, k)
			got := tree.KNearest(target, k)
			require.Equal(t, ids(want), ids(got), "n=%d k=%d target=%v", n, k, target)
		}
	}
}

func TestKNearestMatchesGonum(t *testing.T) {
	rd := rand.New(rand.NewSource(7))
	all := randomItems(rd, 1000)
	tree := NewKDTree(all)

	points := make(kdtree.Points, len(all))
	for i, it := range all {
		points[i] = kdtree.Point{it.Coord.GetX(), it.Coord.GetY()}
	}
	oracle := kdtree.New(points, false)

	for q := 0; q < 100; q++ {
		target := da.NewCoordinate(rd.Float64()*20, rd.Float64()*20)
		const k = 5

		keeper := kdtree.NewNKeeper(k)
		oracle.NearestSet(keeper, kdtree.Point{target.GetX(), target.GetY()})
		wantDist := make([]float64, 0, k)
		for _, cd := range keeper.Heap {
			if cd.Comparable == nil {
				continue
			}
			wantDist = append(wantDist, cd.Dist)
		}
		sort.Float64s(wantDist)

		got := tree.KNearest(target, k)
		gotDist := make([]float64, len(got))
		for i, n := range got {
			gotDist[i] = n.DistSquared
		}
		require.Equal(t, wantDist, gotDist)
	}
}

func TestSelfIsNearest(t *testing.T) {
	rd := rand.New(rand.NewSource(1))
	all := make([]KDItem, 500)
	for i := range all {
		all[i] = NewKDItem(da.Index(i), da.NewCoordinate(rd.Float64(), rd.Float64()))
	}
	tree := NewKDTree(all)
	for _, it := range all {
		got := tree.KNearest(it.Coord, 2)
		require.Len(t, got, 2)
		assert.Equal(t, it.ID, got[0].Item.ID)
		assert.Equal(t, 0.0, got[0].DistSquared)
	}
}

func TestNewKDTreeFromNodes(t *testing.T) {
	nodes := []*da.Node{
		da.NewNode(0, da.NewCoordinate(0, 0)),
		da.NewNode(1, da.NewCoordinate(5, 0)),
	}
	tree := NewKDTreeFromNodes(nodes)
	got := tree.KNearest(da.NewCoordinate(4, 0), 1)
	require.Len(t, got, 1)
	assert.Equal(t, da.Index(1), got[0].Item.ID)
	assert.Equal(t, 1.0, got[0].DistSquared)
}
