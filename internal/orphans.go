package internal

// OrphanTable holds nodes whose parent has not been placed yet, keyed by the
// fullname of the parent they wait for. Nodes waiting on the same parent keep
// their arrival order.
type OrphanTable struct {
	waiting map[string][]*Node
	parents []string
	size    int
}

// NewOrphanTable returns an empty table.
func NewOrphanTable() *OrphanTable {
	return &OrphanTable{waiting: make(map[string][]*Node)}
}

// Add parks n until parentID is placed.
func (o *OrphanTable) Add(parentID string, n *Node) {
	if _, ok := o.waiting[parentID]; !ok {
		o.parents = append(o.parents, parentID)
	}
	o.waiting[parentID] = append(o.waiting[parentID], n)
	o.size++
}

// Claim removes and returns every node waiting for parentID.
func (o *OrphanTable) Claim(parentID string) []*Node {
	nodes, ok := o.waiting[parentID]
	if !ok {
		return nil
	}
	delete(o.waiting, parentID)
	o.size -= len(nodes)

	for i, p := range o.parents {
		if p == parentID {
			o.parents = append(o.parents[:i], o.parents[i+1:]...)
			break
		}
	}
	return nodes
}

// Len returns the number of parked nodes.
func (o *OrphanTable) Len() int {
	return o.size
}

// Parents returns the awaited parent ids in first-seen order.
func (o *OrphanTable) Parents() []string {
	out := make([]string, len(o.parents))
	copy(out, o.parents)
	return out
}
