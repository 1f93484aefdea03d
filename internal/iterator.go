package internal

import (
	pkgerrs "github.com/jamesprial/graw/pkg/errors"
)

// TraversalOrder defines the order of tree traversal.
type TraversalOrder int

const (
	// DepthFirst traverses the tree depth-first (default).
	DepthFirst TraversalOrder = iota
	// BreadthFirst traverses the tree breadth-first.
	BreadthFirst
)

// TraversalOptions provides options for reply tree traversal.
type TraversalOptions struct {
	MaxDepth   int              // Maximum depth to descend to (0 = unlimited); top-level nodes are depth 0
	MinScore   int              // Minimum score for nodes to include
	FilterFunc func(*Node) bool // Custom filter function
	Order      TraversalOrder   // Order of traversal
}

type frame struct {
	node  *Node
	depth int
}

// NodeIterator walks an already assembled reply tree. A node rejected by
// MinScore or FilterFunc is skipped together with its replies.
type NodeIterator struct {
	stack   []frame
	visited map[*Node]bool
	options TraversalOptions
	depth   int
}

// NewNodeIterator creates an iterator over roots and their replies.
func NewNodeIterator(roots []*Node, opts *TraversalOptions) *NodeIterator {
	if opts == nil {
		opts = &TraversalOptions{Order: DepthFirst}
	}

	it := &NodeIterator{
		stack:   make([]frame, 0, len(roots)),
		visited: make(map[*Node]bool),
		options: *opts,
	}
	for _, n := range roots {
		if n != nil {
			it.stack = append(it.stack, frame{node: n})
		}
	}

	// Reverse for depth-first to maintain order
	if it.options.Order == DepthFirst {
		reverse(it.stack)
	}

	return it
}

func reverse(frames []frame) {
	for i, j := 0, len(frames)-1; i < j; i, j = i+1, j-1 {
		frames[i], frames[j] = frames[j], frames[i]
	}
}

// HasNext returns true if nodes remain to be considered. Filters may still
// reject all of them.
func (it *NodeIterator) HasNext() bool {
	return len(it.stack) > 0
}

// Depth returns the depth of the node last returned by Next.
func (it *NodeIterator) Depth() int {
	return it.depth
}

// Next returns the next node, or errors.ErrExhausted when none remain.
func (it *NodeIterator) Next() (*Node, error) {
	for len(it.stack) > 0 {
		var f frame
		if it.options.Order == BreadthFirst {
			f = it.stack[0]
			it.stack = it.stack[1:]
		} else {
			f = it.stack[len(it.stack)-1]
			it.stack = it.stack[:len(it.stack)-1]
		}

		if it.visited[f.node] {
			continue
		}
		it.visited[f.node] = true

		if !it.accept(f.node) {
			continue
		}

		if it.options.MaxDepth == 0 || f.depth < it.options.MaxDepth {
			replies := f.node.replies
			children := make([]frame, 0, len(replies))
			for _, r := range replies {
				children = append(children, frame{node: r, depth: f.depth + 1})
			}
			if it.options.Order == DepthFirst {
				reverse(children)
			}
			it.stack = append(it.stack, children...)
		}

		it.depth = f.depth
		return f.node, nil
	}

	return nil, pkgerrs.ErrExhausted
}

func (it *NodeIterator) accept(n *Node) bool {
	if it.options.MinScore > 0 && n.comment.Score < it.options.MinScore {
		return false
	}
	if it.options.FilterFunc != nil && !it.options.FilterFunc(n) {
		return false
	}
	return true
}
