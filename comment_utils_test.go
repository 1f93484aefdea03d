package graw

import (
	"context"
	"slices"
	"testing"

	"github.com/jamesprial/graw/internal/redditest"
	"github.com/jamesprial/graw/pkg/types"
)

func TestReplyTreeHelpers(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t)
	server.Enqueue("/comments/p", redditest.JSON(redditest.PostAndComments(
		redditest.Post("p", "golang", "Thread"),
		redditest.CommentWith(redditest.CommentData{ID: "a", ParentID: "t3_p", Author: "alice", Score: 10},
			redditest.CommentWith(redditest.CommentData{ID: "b", ParentID: "t1_a", Author: "bob", Score: 2}),
		),
		redditest.CommentWith(redditest.CommentData{ID: "c", ParentID: "t3_p", Author: "alice", Score: 5}),
	)))

	ctx := context.Background()
	thread, err := client.Comments(ctx, &types.CommentsRequest{PostID: "p"})
	if err != nil {
		t.Fatal(err)
	}
	replies, err := thread.Collect(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}

	tr := NewReplyTree(replies)
	if tr.Count() != 3 || tr.GetDepth() != 1 || len(tr.GetByAuthor("alice")) != 2 {
		t.Errorf("Count=%d Depth=%d alice=%d", tr.Count(), tr.GetDepth(), len(tr.GetByAuthor("alice")))
	}
	if tr.GetByID("b") == nil {
		t.Error("GetByID should accept a bare id")
	}

	it := NewReplyIterator(replies, &TraversalOptions{Order: BreadthFirst, MinScore: 3})
	var order []string
	for it.HasNext() {
		r, err := it.Next()
		if err != nil {
			break
		}
		order = append(order, r.ID())
	}
	if !slices.Equal(order, []string{"t1_a", "t1_c"}) {
		t.Errorf("breadth-first with MinScore = %v", order)
	}
}
