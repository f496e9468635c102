package geost

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/samber/lo"
)

// frameEntry is one forbidden region stored in a frame's spatial index.
type frameEntry struct {
	owner  int
	seq    int
	region Region
	rect   rtreego.Rect
}

func (e *frameEntry) Bounds() rtreego.Rect { return e.rect }

// regionRect maps the inclusive integer box r to the half-open float box
// [min, max+1). Two integer boxes share a point exactly when their float
// boxes overlap with positive measure, which is the test rtreego applies.
func regionRect(r Region) rtreego.Rect {
	p := make(rtreego.Point, r.Dim())
	lengths := make([]float64, r.Dim())
	for i := range r.Min {
		p[i] = float64(r.Min[i])
		lengths[i] = float64(r.Size(i))
	}
	rect, err := rtreego.NewRect(p, lengths)
	if err != nil {
		panic(contractViolation("regionRect", "region %v: %v", r, err))
	}
	return rect
}

// Frame caches, per object, the regions an external constraint derives from
// that object. For NonOverlapping the region of object o is where o surely
// sits (the compulsory part of each shape combination); other objects turn
// it into outboxes. Distance frames carry the constraint parameters and no
// regions.
//
// Regions are indexed in an R-tree so outbox generation only visits regions
// that can reach the queried object's domain.
type Frame struct {
	k       int
	regions map[int][]Region
	entries map[int][]*frameEntry
	index   *rtreego.Rtree

	// Distance parameters: norm, bound, the two objects and their shapes.
	Q, D   int
	O1, O2 int
	S1, S2 int

	// Linear parameters.
	Coefficients []int
	Bound        int
}

func newFrame(k int) *Frame {
	return &Frame{
		k:       k,
		regions: make(map[int][]Region),
		entries: make(map[int][]*frameEntry),
		index:   rtreego.NewTree(k, 2, 8),
	}
}

// SetRegions replaces the regions owned by object oid.
func (f *Frame) SetRegions(oid int, rs []Region) {
	for _, e := range f.entries[oid] {
		f.index.Delete(e)
	}
	f.regions[oid] = rs
	entries := make([]*frameEntry, len(rs))
	for i, r := range rs {
		entries[i] = &frameEntry{owner: oid, seq: i, region: r, rect: regionRect(r)}
		f.index.Insert(entries[i])
	}
	f.entries[oid] = entries
}

// Regions returns the regions owned by oid.
func (f *Frame) Regions(oid int) []Region { return f.regions[oid] }

// ObjectIDs returns the ids with an entry in the frame, ascending.
func (f *Frame) ObjectIDs() []int {
	ids := lo.Keys(f.regions)
	sort.Ints(ids)
	return ids
}

// RegionCount returns the number of regions over all objects.
func (f *Frame) RegionCount() int {
	return f.index.Size()
}

// search returns the regions intersecting q, skipping those owned by
// exclude, ordered by owner id then insertion order.
func (f *Frame) search(q Region, exclude int) []*frameEntry {
	if f.index.Size() == 0 {
		return nil
	}
	skipOwn := func(_ []rtreego.Spatial, obj rtreego.Spatial) (bool, bool) {
		return obj.(*frameEntry).owner == exclude, false
	}
	hits := f.index.SearchIntersect(regionRect(q), skipOwn)
	out := lo.Map(hits, func(s rtreego.Spatial, _ int) *frameEntry { return s.(*frameEntry) })
	sort.Slice(out, func(i, j int) bool {
		if out[i].owner != out[j].owner {
			return out[i].owner < out[j].owner
		}
		return out[i].seq < out[j].seq
	})
	return out
}
