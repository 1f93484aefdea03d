package main

import (
	"fmt"
	"slices"
	"testing"

	"github.com/jamesprial/graw/pkg/types"
)

func posts(ids ...string) []*types.Post {
	out := make([]*types.Post, 0, len(ids))
	for _, id := range ids {
		out = append(out, &types.Post{ThingData: types.ThingData{ID: id}})
	}
	return out
}

func fullnames(ps []*types.Post) []string {
	var out []string
	for _, p := range ps {
		out = append(out, p.Fullname())
	}
	return out
}

func TestPostWatcher_Fresh(t *testing.T) {
	t.Parallel()

	w := newPostWatcher()
	if got := fullnames(w.fresh(posts("c", "b", "a"))); !slices.Equal(got, []string{"t3_a", "t3_b", "t3_c"}) {
		t.Errorf("first poll = %v, want oldest first", got)
	}
	if got := fullnames(w.fresh(posts("e", "d", "c", "b"))); !slices.Equal(got, []string{"t3_d", "t3_e"}) {
		t.Errorf("second poll = %v", got)
	}
	if got := w.fresh(posts("e", "d")); len(got) != 0 {
		t.Errorf("repeat poll = %v, want nothing", fullnames(got))
	}
}

func TestPostWatcher_Bounded(t *testing.T) {
	t.Parallel()

	w := newPostWatcher()
	for i := range maxSeenPosts + 50 {
		w.fresh(posts(fmt.Sprintf("p%d", i)))
	}
	if len(w.seen) != maxSeenPosts || len(w.order) != maxSeenPosts {
		t.Errorf("seen = %d, order = %d, want %d", len(w.seen), len(w.order), maxSeenPosts)
	}
	if got := w.fresh(posts("p0")); len(got) != 1 {
		t.Error("the oldest posts should have been forgotten")
	}
}
