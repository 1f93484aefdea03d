package redditest

import (
	"fmt"
	"math/rand"
	"strconv"
)

// GeneratedComment is one comment of a generated tree.
type GeneratedComment struct {
	ID       string // fullname
	ParentID string
	Author   string
	Body     string
	Score    int
	Depth    int
}

// JSON renders the comment as a flat t1 thing without inline replies, the
// way api/morechildren delivers it.
func (c GeneratedComment) JSON() string {
	return CommentWith(CommentData{
		ID:       c.ID,
		ParentID: c.ParentID,
		Author:   c.Author,
		Body:     c.Body,
		Score:    c.Score,
	})
}

// TreeGenerator builds random but reproducible reply trees.
type TreeGenerator struct {
	rand      *rand.Rand
	templates []string
	topics    []string
	users     []string
	next      int64
}

// NewTreeGenerator creates a generator. The same seed yields the same trees.
func NewTreeGenerator(seed int64) *TreeGenerator {
	return &TreeGenerator{
		rand: rand.New(rand.NewSource(seed)),
		templates: []string{
			"I completely agree with %s.",
			"Actually, %s is not entirely accurate.",
			"Great point about %s!",
			"I disagree with %s. Here's my perspective...",
			"Can someone elaborate on %s?",
			"Counterpoint: %s. What do you all think?",
		},
		topics: []string{
			"this approach", "the methodology", "the conclusion", "the premise",
			"the evidence", "the design", "the drawbacks", "the alternatives",
		},
		users: []string{
			"thoughtful_commenter", "expert_analyst", "casual_observer", "debate_enthusiast",
			"helpful_explainer", "skeptic_user", "supportive_member", "critical_thinker",
		},
		next: 1000,
	}
}

// Generate returns total comments replying to linkID, in pre-order, nested
// at most maxDepth levels deep. Every parent precedes its replies.
func (g *TreeGenerator) Generate(linkID string, total, maxDepth int) []GeneratedComment {
	var out []GeneratedComment
	// open holds candidate parents: the post and every comment shallow
	// enough to take a reply.
	type parent struct {
		id    string
		depth int
	}
	open := []parent{{id: linkID, depth: -1}}
	children := make(map[string][]GeneratedComment)

	for i := 0; i < total; i++ {
		p := open[g.rand.Intn(len(open))]
		c := g.comment(p.id, p.depth+1)
		children[p.id] = append(children[p.id], c)
		if c.Depth+1 < maxDepth {
			open = append(open, parent{id: c.ID, depth: c.Depth})
		}
	}

	var walk func(id string)
	walk = func(id string) {
		for _, c := range children[id] {
			out = append(out, c)
			walk(c.ID)
		}
	}
	walk(linkID)
	return out
}

// Shuffle returns a copy of comments in random order.
func (g *TreeGenerator) Shuffle(comments []GeneratedComment) []GeneratedComment {
	out := append([]GeneratedComment(nil), comments...)
	g.rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func (g *TreeGenerator) comment(parentID string, depth int) GeneratedComment {
	g.next++
	return GeneratedComment{
		ID:       "t1_" + strconv.FormatInt(g.next, 36),
		ParentID: parentID,
		Author:   g.users[g.rand.Intn(len(g.users))],
		Body:     fmt.Sprintf(g.templates[g.rand.Intn(len(g.templates))], g.topics[g.rand.Intn(len(g.topics))]),
		Score:    g.score(),
		Depth:    depth,
	}
}

// score skews low: most comments sit near zero, a few run high.
func (g *TreeGenerator) score() int {
	switch r := g.rand.Float64(); {
	case r < 0.8:
		return g.rand.Intn(50) - 10
	case r < 0.95:
		return g.rand.Intn(200) + 40
	default:
		return g.rand.Intn(1000) + 240
	}
}
