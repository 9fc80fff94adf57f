package recordio

import (
	"iter"

	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
)

// Crop keeps the points inside bb. a placemark losing every point is still
// yielded, empty, so record order and count stay the same. a road leaving and
// re-entering bb keeps both pieces in one placemark, joined across the gap.
func Crop(records iter.Seq[da.Placemark], bb *da.BoundingBox) iter.Seq[da.Placemark] {
	if bb == nil {
		return records
	}
	return func(yield func(da.Placemark) bool) {
		for p := range records {
			kept := make([]da.Point, 0, len(p.Points))
			for _, pt := range p.Points {
				if bb.Contains(pt) {
					kept = append(kept, pt)
				}
			}
			p.Points = kept
			if !yield(p) {
				return
			}
		}
	}
}
