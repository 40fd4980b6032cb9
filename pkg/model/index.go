package model

// MaxDepthHops bounds parent-chain traversal as infinite-loop protection
// against malformed (cyclic) hierarchies.
const MaxDepthHops = 10

// =============================================================================
// Index - Parent→Children Adjacency
// =============================================================================

// Index is a read-only adjacency view over a rectangle set, built once per
// layout request. It answers parent, children and depth queries in O(1)
// instead of repeated linear scans over the full set.
type Index struct {
	byID     map[string]Rectangle
	children map[string][]Rectangle
	order    []string // insertion order of IDs, for deterministic iteration
}

// NewIndex builds an index over the given rectangles.
// Child lists preserve the input ordering.
func NewIndex(rects []Rectangle) *Index {
	idx := &Index{
		byID:     make(map[string]Rectangle, len(rects)),
		children: make(map[string][]Rectangle),
		order:    make([]string, 0, len(rects)),
	}
	for _, r := range rects {
		idx.byID[r.ID] = r
		idx.order = append(idx.order, r.ID)
		if r.ParentID != "" {
			idx.children[r.ParentID] = append(idx.children[r.ParentID], r)
		}
	}
	return idx
}

// Get returns the rectangle with the given ID.
func (idx *Index) Get(id string) (Rectangle, bool) {
	r, ok := idx.byID[id]
	return r, ok
}

// Children returns the direct children of the given parent, in input order.
func (idx *Index) Children(parentID string) []Rectangle {
	return idx.children[parentID]
}

// Roots returns all rectangles without a parent, in input order.
func (idx *Index) Roots() []Rectangle {
	var roots []Rectangle
	for _, id := range idx.order {
		r := idx.byID[id]
		if r.ParentID == "" {
			roots = append(roots, r)
		}
	}
	return roots
}

// Len returns the number of indexed rectangles.
func (idx *Index) Len() int { return len(idx.byID) }

// Depth returns the number of parent hops from the rectangle to a root.
// A dangling parent reference terminates the walk (the rectangle is treated
// as rooted at the break), and traversal stops after MaxDepthHops hops.
func (idx *Index) Depth(id string) int {
	depth := 0
	current, ok := idx.byID[id]
	if !ok {
		return 0
	}
	for current.ParentID != "" && depth < MaxDepthHops {
		parent, ok := idx.byID[current.ParentID]
		if !ok {
			break
		}
		depth++
		current = parent
	}
	return depth
}

// ParentsByDepth returns the IDs of all rectangles that have children,
// ordered from deepest to shallowest. This is the processing order for
// bottom-up fit-to-children passes: by the time a parent is laid out, all
// of its descendant parents already have final sizes.
func (idx *Index) ParentsByDepth() []string {
	type entry struct {
		id    string
		depth int
	}
	var entries []entry
	for _, id := range idx.order {
		if len(idx.children[id]) > 0 {
			entries = append(entries, entry{id: id, depth: idx.Depth(id)})
		}
	}
	// Insertion sort keeps equal-depth parents in input order.
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].depth > entries[j-1].depth; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids
}
