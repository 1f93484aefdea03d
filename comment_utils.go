package graw

import (
	"github.com/jamesprial/graw/internal"
)

// ReplyTree provides utility methods for working with assembled replies.
type ReplyTree interface {
	Flatten() []*Reply
	Filter(func(*Reply) bool) []*Reply
	Find(func(*Reply) bool) *Reply
	GetByID(string) *Reply
	GetByAuthor(string) []*Reply
	GetTopLevel() []*Reply
	GetDepth() int
	Count() int
	Walk(func(*Reply))
}

// NewReplyTree creates a ReplyTree over top-level replies, typically the
// result of Thread.Collect.
func NewReplyTree(roots []*Reply) ReplyTree {
	return internal.NewReplyTree(roots)
}

// ReplyIterator walks assembled replies and their descendants.
type ReplyIterator = internal.NodeIterator

// TraversalOptions configures a ReplyIterator.
type TraversalOptions = internal.TraversalOptions

// TraversalOrder selects depth-first or breadth-first traversal.
type TraversalOrder = internal.TraversalOrder

const (
	DepthFirst   = internal.DepthFirst
	BreadthFirst = internal.BreadthFirst
)

// NewReplyIterator creates an iterator over roots and everything below them.
func NewReplyIterator(roots []*Reply, opts *TraversalOptions) *ReplyIterator {
	return internal.NewNodeIterator(roots, opts)
}
