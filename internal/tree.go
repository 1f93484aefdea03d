package internal

// ReplyTree provides utility methods for working with an assembled reply
// tree.
type ReplyTree struct {
	Roots []*Node
}

// NewReplyTree creates a new ReplyTree from its top-level nodes.
func NewReplyTree(roots []*Node) *ReplyTree {
	return &ReplyTree{Roots: roots}
}

// Flatten returns all nodes in the tree in pre-order.
func (rt *ReplyTree) Flatten() []*Node {
	var result []*Node
	rt.Walk(func(n *Node) {
		result = append(result, n)
	})
	return result
}

// Filter returns nodes that match the given filter function.
func (rt *ReplyTree) Filter(filterFunc func(*Node) bool) []*Node {
	var result []*Node
	rt.Walk(func(n *Node) {
		if filterFunc(n) {
			result = append(result, n)
		}
	})
	return result
}

// Find returns the first node in pre-order that matches the given condition.
func (rt *ReplyTree) Find(condition func(*Node) bool) *Node {
	return findRecursive(rt.Roots, condition)
}

func findRecursive(nodes []*Node, condition func(*Node) bool) *Node {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if condition(n) {
			return n
		}
		if found := findRecursive(n.replies, condition); found != nil {
			return found
		}
	}
	return nil
}

// GetByID returns a node by its fullname or bare id.
func (rt *ReplyTree) GetByID(id string) *Node {
	return rt.Find(func(n *Node) bool {
		return n.ID() == id || n.comment.ID == id
	})
}

// GetByAuthor returns all nodes by a specific author.
func (rt *ReplyTree) GetByAuthor(author string) []*Node {
	return rt.Filter(func(n *Node) bool {
		return n.comment.Author == author
	})
}

// GetTopLevel returns only the top-level nodes.
func (rt *ReplyTree) GetTopLevel() []*Node {
	return rt.Roots
}

// GetDepth returns the maximum depth of the tree. A tree with only
// top-level nodes has depth 0.
func (rt *ReplyTree) GetDepth() int {
	return depthRecursive(rt.Roots, 0)
}

func depthRecursive(nodes []*Node, currentDepth int) int {
	maxDepth := currentDepth
	for _, n := range nodes {
		if n == nil || len(n.replies) == 0 {
			continue
		}
		if depth := depthRecursive(n.replies, currentDepth+1); depth > maxDepth {
			maxDepth = depth
		}
	}
	return maxDepth
}

// Count returns the total number of nodes in the tree.
func (rt *ReplyTree) Count() int {
	count := 0
	rt.Walk(func(*Node) { count++ })
	return count
}

// Walk applies a function to each node in the tree in pre-order.
func (rt *ReplyTree) Walk(fn func(*Node)) {
	walkRecursive(rt.Roots, fn)
}

func walkRecursive(nodes []*Node, fn func(*Node)) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		fn(n)
		walkRecursive(n.replies, fn)
	}
}
