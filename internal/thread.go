package internal

import (
	"context"
	"log/slog"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
	"github.com/jamesprial/graw/pkg/types"
)

// Thread assembles a reply tree lazily. It starts from the comments and
// placeholders delivered with the first response and resolves placeholders
// one request at a time as the caller asks for more top-level replies.
//
// Every comment ends up in exactly one place: the ready queue (a direct reply
// to the root), the replies of its parent, or the orphan table while its
// parent is still missing. Comments delivered twice are ignored.
//
// A Thread is not safe for concurrent use.
type Thread struct {
	linkID   string
	rootID   string
	expander Expander
	logger   *slog.Logger

	ready   []*Node
	pending []*types.MoreData
	index   map[string]*Node
	seen    map[string]struct{}
	orphans *OrphanTable

	// continued records parents whose "continue this thread" sub-tree has
	// been requested.
	continued map[string]struct{}
	done      bool
}

// NewThread builds a tree rooted at rootID, which is the post fullname for a
// full thread or a comment fullname for a sub-thread. A comment in batch
// whose id equals rootID is the focus comment itself and is skipped.
func NewThread(linkID, rootID string, batch *Batch, expander Expander, logger *slog.Logger) *Thread {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	t := &Thread{
		linkID:    types.Fullname(types.KindLink, linkID),
		rootID:    rootID,
		expander:  expander,
		logger:    logger,
		index:     make(map[string]*Node),
		seen:      make(map[string]struct{}),
		orphans:   NewOrphanTable(),
		continued: make(map[string]struct{}),
	}
	if batch != nil {
		t.absorb(batch)
	}
	return t
}

// Next returns the next top-level reply, resolving placeholders until one is
// available. It returns errors.ErrExhausted once the tree is complete. A
// failed expansion is returned as is and the placeholder stays queued, so a
// later call retries it.
func (t *Thread) Next(ctx context.Context) (*Node, error) {
	for {
		if len(t.ready) > 0 {
			n := t.ready[0]
			t.ready[0] = nil
			t.ready = t.ready[1:]
			return n, nil
		}

		if len(t.pending) == 0 {
			t.finish()
			return nil, pkgerrs.ErrExhausted
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		group := t.pending[0]
		batch, err := t.expander.Expand(ctx, t.linkID, group)
		if err != nil {
			return nil, err
		}

		t.pending[0] = nil
		t.pending = t.pending[1:]
		t.absorb(batch)
	}
}

// Pending returns the number of placeholder groups not yet resolved.
func (t *Thread) Pending() int {
	return len(t.pending)
}

// Orphaned returns the number of comments still waiting for a parent. Once
// Next has reported exhaustion these are lost for good.
func (t *Thread) Orphaned() int {
	return t.orphans.Len()
}

// Lookup returns the placed node with the given fullname.
func (t *Thread) Lookup(id string) (*Node, bool) {
	n, ok := t.index[id]
	return n, ok
}

func (t *Thread) finish() {
	if t.done {
		return
	}
	t.done = true

	if lost := t.orphans.Len(); lost > 0 {
		orphansDropped.Add(float64(lost))
		t.logger.Warn("reply tree complete with unplaced comments",
			"link", t.linkID,
			"root", t.rootID,
			"orphans", lost,
			"missing_parents", len(t.orphans.Parents()),
		)
	}
}

func (t *Thread) absorb(batch *Batch) {
	for _, c := range batch.Comments {
		if c == nil {
			continue
		}
		t.merge(NewNode(c))
	}
	for _, m := range batch.More {
		if m == nil {
			continue
		}
		t.queue(m)
	}
}

func (t *Thread) merge(n *Node) {
	id := n.ID()
	if id == t.rootID {
		return
	}
	if _, dup := t.seen[id]; dup {
		return
	}
	t.seen[id] = struct{}{}

	parentID := n.ParentID()
	if parentID == t.rootID {
		t.ready = append(t.ready, n)
		t.reach(n)
		return
	}
	if parent, ok := t.index[parentID]; ok {
		parent.addChild(n)
		t.reach(n)
		return
	}
	t.orphans.Add(parentID, n)
}

// reach indexes n and, transitively, every orphan that was waiting for it.
func (t *Thread) reach(n *Node) {
	work := []*Node{n}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]

		t.index[cur.ID()] = cur
		for _, child := range t.orphans.Claim(cur.ID()) {
			cur.addChild(child)
			work = append(work, child)
		}
	}
}

func (t *Thread) queue(m *types.MoreData) {
	if m.ContinueThread() {
		if m.ParentID == t.rootID {
			return
		}
		if _, ok := t.continued[m.ParentID]; ok {
			return
		}
		t.continued[m.ParentID] = struct{}{}
		t.pending = append(t.pending, m)
		return
	}

	if len(m.Children) <= MaxListingLimit {
		t.pending = append(t.pending, m)
		return
	}

	for start := 0; start < len(m.Children); start += MaxListingLimit {
		end := min(start+MaxListingLimit, len(m.Children))
		part := *m
		part.Children = m.Children[start:end]
		part.Count = end - start
		t.pending = append(t.pending, &part)
	}
}
