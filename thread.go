package graw

import (
	"context"
	"iter"

	"github.com/jamesprial/graw/internal"
	"github.com/jamesprial/graw/pkg/types"
)

// Reply is one comment placed in a reply tree, with its replies attached.
type Reply = internal.Node

// Thread is a lazily assembled reply tree. Next hands out top-level replies
// in API order; each arrives with every descendant known so far attached,
// and descendants delivered by later expansions are attached to it as they
// arrive. A comment whose parent never shows up is left out.
//
// A Thread is not safe for concurrent use.
type Thread struct {
	// Post is the post the thread belongs to. It is nil when Reddit did not
	// send it.
	Post *types.Post

	tree *internal.Thread
}

// Next returns the next top-level reply, or errors.ErrExhausted when there
// is none left. Fetch errors are returned unchanged and the failed expansion
// is retried by the next call.
func (t *Thread) Next(ctx context.Context) (*Reply, error) {
	return t.tree.Next(ctx)
}

// All yields the remaining top-level replies. Iteration stops after the
// first error, which is yielded.
func (t *Thread) All(ctx context.Context) iter.Seq2[*Reply, error] {
	return all(ctx, t.Next)
}

// Collect returns up to max remaining top-level replies (all of them when
// max <= 0).
func (t *Thread) Collect(ctx context.Context, max int) ([]*Reply, error) {
	return collect(ctx, t.Next, max)
}

// Orphaned returns the number of comments still waiting for their parent.
// Once Next has returned errors.ErrExhausted they are lost.
func (t *Thread) Orphaned() int {
	return t.tree.Orphaned()
}

// Pending returns the number of placeholders not yet expanded.
func (t *Thread) Pending() int {
	return t.tree.Pending()
}

// Lookup returns a placed reply by fullname.
func (t *Thread) Lookup(id string) (*Reply, bool) {
	return t.tree.Lookup(types.Fullname(types.KindComment, id))
}
