package schedule

import "sort"

// Slot is the horizontal placement of one occurrence among the
// overlapping occurrences of a day: render it at column Column out of
// Columns equal-width columns.
type Slot struct {
	Column  int
	Columns int
}

// LayoutDay assigns a column and a cluster width to every occurrence of
// one day so that overlapping events render side by side instead of
// stacked. Clustering is a disjoint-set union over all pairwise
// overlaps, which handles transitive chains (A–B and B–C put A and C in
// the same cluster even when A and C never touch). Columns are then
// assigned per cluster by first fit in start order, with ties broken by
// input order.
//
// Overlap is half-open: touching endpoints do not overlap, and a
// zero-length range overlaps nothing. Overlap always uses the raw time
// range; minimum visual heights are a presentation concern and must be
// applied after layout.
//
// Every input occurrence appears in the result exactly once.
func LayoutDay(occs []Occurrence) map[int64]Slot {
	out := make(map[int64]Slot, len(occs))
	if len(occs) == 0 {
		return out
	}

	order := make([]int, len(occs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return occs[order[a]].StartMinute < occs[order[b]].StartMinute
	})

	ds := newDisjointSet(len(occs))
	for i := 0; i < len(occs); i++ {
		for j := i + 1; j < len(occs); j++ {
			if overlaps(occs[i], occs[j]) {
				ds.union(i, j)
			}
		}
	}

	// First-fit column assignment within each cluster: place into the
	// first column whose most recently placed member does not overlap.
	type cluster struct {
		lastInCol []int // index of the last occurrence placed per column
	}
	clusters := make(map[int]*cluster)
	colOf := make([]int, len(occs))

	for _, idx := range order {
		c := clusters[ds.find(idx)]
		if c == nil {
			c = &cluster{}
			clusters[ds.find(idx)] = c
		}
		placed := false
		for col, last := range c.lastInCol {
			if !overlaps(occs[last], occs[idx]) {
				c.lastInCol[col] = idx
				colOf[idx] = col
				placed = true
				break
			}
		}
		if !placed {
			colOf[idx] = len(c.lastInCol)
			c.lastInCol = append(c.lastInCol, idx)
		}
	}

	for i := range occs {
		c := clusters[ds.find(i)]
		out[occs[i].ScheduleID] = Slot{Column: colOf[i], Columns: len(c.lastInCol)}
	}
	return out
}

func overlaps(a, b Occurrence) bool {
	return a.StartMinute < b.EndMinute && b.StartMinute < a.EndMinute
}

// disjointSet is a plain union-find with path halving.
type disjointSet struct {
	parent []int
}

func newDisjointSet(n int) *disjointSet {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &disjointSet{parent: p}
}

func (d *disjointSet) find(i int) int {
	for d.parent[i] != i {
		d.parent[i] = d.parent[d.parent[i]]
		i = d.parent[i]
	}
	return i
}

func (d *disjointSet) union(a, b int) {
	ra, rb := d.find(a), d.find(b)
	if ra != rb {
		d.parent[rb] = ra
	}
}
