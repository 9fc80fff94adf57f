package spatialindex

import (
	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
)

const kdDimensions = 2

type KDItem struct {
	ID    da.Index
	Coord da.Coordinate
}

func NewKDItem(id da.Index, coord da.Coordinate) KDItem {
	return KDItem{ID: id, Coord: coord}
}

type Neighbor struct {
	Item        KDItem
	DistSquared float64
}

// KDTree is a balanced 2-d tree stored implicitly in one slice: the root of
// items[lo:hi] is items[mid] with mid = lo + (hi-lo)/2, the left subtree is
// items[lo:mid] and the right subtree items[mid+1:hi]. the splitting axis
// alternates x, y, x, ... by depth. read-only after NewKDTree.
type KDTree struct {
	items []KDItem
}

// NewKDTree bulk builds the tree. the median of every range is placed with
// quickselect, O(n log n) on average. items is copied.
func NewKDTree(items []KDItem) *KDTree {
	t := &KDTree{items: make([]KDItem, len(items))}
	copy(t.items, items)
	t.build(0, len(t.items), 0)
	return t
}

// NewKDTreeFromNodes indexes every node coordinate under the node index.
func NewKDTreeFromNodes(nodes []*da.Node) *KDTree {
	items := make([]KDItem, len(nodes))
	for i, n := range nodes {
		items[i] = NewKDItem(n.GetIndex(), n.GetXY())
	}
	return NewKDTree(items)
}

func (t *KDTree) Len() int {
	return len(t.items)
}

func (t *KDTree) build(lo, hi, depth int) {
	if hi-lo <= 1 {
		return
	}
	axis := depth % kdDimensions
	mid := lo + (hi-lo)/2
	t.selectNth(lo, hi, mid, axis)
	t.build(lo, mid, depth+1)
	t.build(mid+1, hi, depth+1)
}

// kdLess is a total order along axis: axis value, then the other axis, then id.
func kdLess(a, b KDItem, axis int) bool {
	av, bv := a.Coord.Axis(axis), b.Coord.Axis(axis)
	if av != bv {
		return av < bv
	}
	other := (axis + 1) % kdDimensions
	av, bv = a.Coord.Axis(other), b.Coord.Axis(other)
	if av != bv {
		return av < bv
	}
	return a.ID < b.ID
}

// selectNth rearranges items[lo:hi] so that items[nth] is the element that
// would be there if the range were sorted by kdLess, with no larger element
// before it and no smaller element after it.
func (t *KDTree) selectNth(lo, hi, nth, axis int) {
	items := t.items
	hi--
	for lo < hi {
		p := t.medianOfThree(lo, hi, axis)
		items[p], items[hi] = items[hi], items[p]
		pivot := items[hi]

		store := lo
		for i := lo; i < hi; i++ {
			if kdLess(items[i], pivot, axis) {
				items[i], items[store] = items[store], items[i]
				store++
			}
		}
		items[store], items[hi] = items[hi], items[store]

		switch {
		case store == nth:
			return
		case nth < store:
			hi = store - 1
		default:
			lo = store + 1
		}
	}
}

func (t *KDTree) medianOfThree(lo, hi, axis int) int {
	mid := lo + (hi-lo)/2
	a, b, c := t.items[lo], t.items[mid], t.items[hi]
	if kdLess(a, b, axis) {
		if kdLess(b, c, axis) {
			return mid
		}
		if kdLess(a, c, axis) {
			return hi
		}
		return lo
	}
	if kdLess(a, c, axis) {
		return lo
	}
	if kdLess(b, c, axis) {
		return hi
	}
	return mid
}

// KNearest returns up to k items ordered by ascending squared distance to
// target. equidistant items come out by ascending ID. an empty tree or k <= 0
// gives an empty result.
func (t *KDTree) KNearest(target da.Coordinate, k int) []Neighbor {
	if k <= 0 || len(t.items) == 0 {
		return nil
	}
	if k > len(t.items) {
		k = len(t.items)
	}

	best := da.NewBinaryHeap[KDItem]()
	best.Preallocate(k)
	t.search(0, len(t.items), 0, target, k, best)

	ordered := best.DrainAscending()
	result := make([]Neighbor, len(ordered))
	for i, pq := range ordered {
		result[i] = Neighbor{Item: pq.GetItem(), DistSquared: pq.GetRank()}
	}
	return result
}

func (t *KDTree) search(lo, hi, depth int, target da.Coordinate, k int, best *da.MaxHeap[KDItem]) {
	if lo >= hi {
		return
	}
	mid := lo + (hi-lo)/2
	item := t.items[mid]

	best.Offer(da.NewPriorityQueueNode(target.DistSquared(item.Coord), item.ID, item), k)

	axis := depth % kdDimensions
	diff := target.Axis(axis) - item.Coord.Axis(axis)

	nearLo, nearHi, farLo, farHi := lo, mid, mid+1, hi
	if diff > 0 {
		nearLo, nearHi, farLo, farHi = mid+1, hi, lo, mid
	}

	t.search(nearLo, nearHi, depth+1, target, k, best)

	// visit the far side when the splitting line is not farther than the
	// current worst candidate. equality matters for ties.
	worst, _ := best.GetMax()
	if best.Size() < k || diff*diff <= worst.GetRank() {
		t.search(farLo, farHi, depth+1, target, k, best)
	}
}
