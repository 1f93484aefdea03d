package internal

import "github.com/jamesprial/graw/pkg/types"

// Node is one comment placed in a reply tree. A node owns its replies; they
// are attached as soon as they are merged and never move afterwards.
type Node struct {
	comment *types.Comment
	replies []*Node
}

// NewNode wraps a comment.
func NewNode(c *types.Comment) *Node {
	return &Node{comment: c}
}

// ID returns the comment's fullname.
func (n *Node) ID() string {
	return n.comment.Fullname()
}

// ParentID returns the fullname of the comment or post this node replies to.
func (n *Node) ParentID() string {
	return n.comment.ParentID
}

// Comment returns the node's payload.
func (n *Node) Comment() *types.Comment {
	return n.comment
}

// Replies returns a copy of the node's children in arrival order.
func (n *Node) Replies() []*Node {
	out := make([]*Node, len(n.replies))
	copy(out, n.replies)
	return out
}

// Len returns the number of direct replies.
func (n *Node) Len() int {
	return len(n.replies)
}

func (n *Node) addChild(child *Node) {
	n.replies = append(n.replies, child)
}
