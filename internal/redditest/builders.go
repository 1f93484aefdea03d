package redditest

import (
	"encoding/json"
	"strings"
)

// Builders return Reddit JSON fragments. Fragments compose: the children of
// Listing and the replies of Comment are themselves builder output.

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func raw(fragments []string) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(fragments))
	for _, f := range fragments {
		out = append(out, json.RawMessage(f))
	}
	return out
}

// Thing wraps data in a kind/data envelope.
func Thing(kind string, data map[string]any) string {
	return mustJSON(map[string]any{"kind": kind, "data": data})
}

func fullname(kind, id string) string {
	if strings.HasPrefix(id, kind+"_") {
		return id
	}
	return kind + "_" + id
}

func bareID(id string) string {
	if _, rest, ok := strings.Cut(id, "_"); ok {
		return rest
	}
	return id
}

// CommentData is the subset of comment fields tests usually care about.
type CommentData struct {
	ID       string
	ParentID string
	Author   string
	Body     string
	Score    int
	Locked   bool
	Archived bool
	Likes    *bool
}

// Comment renders a t1 thing. replies are nested children; with none the
// replies field is the empty string Reddit sends for leaf comments.
func Comment(id, parentID string, replies ...string) string {
	return CommentWith(CommentData{ID: id, ParentID: parentID, Author: "tester", Body: "comment " + bareID(id), Score: 1}, replies...)
}

// CommentWith renders a t1 thing from d.
func CommentWith(d CommentData, replies ...string) string {
	data := map[string]any{
		"id":        bareID(d.ID),
		"name":      fullname("t1", d.ID),
		"parent_id": d.ParentID,
		"author":    d.Author,
		"body":      d.Body,
		"score":     d.Score,
		"locked":    d.Locked,
		"archived":  d.Archived,
		"likes":     d.Likes,
		"edited":    false,
		"replies":   "",
	}
	if len(replies) > 0 {
		data["replies"] = json.RawMessage(Listing("", replies...))
	}
	return Thing("t1", data)
}

// More renders a "more" placeholder. With no ids it is a "continue this
// thread" link.
func More(parentID string, ids ...string) string {
	children := make([]string, 0, len(ids))
	for _, id := range ids {
		children = append(children, bareID(id))
	}
	name := "t1__"
	if len(children) > 0 {
		name = "t1_" + children[0]
	}
	return Thing("more", map[string]any{
		"id":        bareID(name),
		"name":      name,
		"parent_id": parentID,
		"count":     len(children),
		"depth":     0,
		"children":  children,
	})
}

// Listing renders a Listing with the given after cursor.
func Listing(after string, children ...string) string {
	var cursor any
	if after != "" {
		cursor = after
	}
	return Thing("Listing", map[string]any{
		"after":    cursor,
		"before":   nil,
		"children": raw(children),
	})
}

// Post renders a t3 thing.
func Post(id, subreddit, title string) string {
	return Thing("t3", map[string]any{
		"id":           bareID(id),
		"name":         fullname("t3", id),
		"subreddit":    subreddit,
		"title":        title,
		"author":       "poster",
		"score":        10,
		"num_comments": 0,
		"permalink":    "/r/" + subreddit + "/comments/" + bareID(id) + "/",
		"edited":       false,
	})
}

// PostAndComments renders the two-element array served by comments/{id}.
func PostAndComments(post string, comments ...string) string {
	return mustJSON([]json.RawMessage{
		json.RawMessage(Listing("", post)),
		json.RawMessage(Listing("", comments...)),
	})
}

// MoreChildren renders an api/morechildren response.
func MoreChildren(things ...string) string {
	return ActionResult(things...)
}

// ActionResult renders a successful api_type=json response.
func ActionResult(things ...string) string {
	return mustJSON(map[string]any{
		"json": map[string]any{
			"errors": []any{},
			"data":   map[string]any{"things": raw(things)},
		},
	})
}

// ActionError renders an api_type=json response carrying one error.
func ActionError(code, message, field string) string {
	return mustJSON(map[string]any{
		"json": map[string]any{
			"errors": [][]string{{code, message, field}},
		},
	})
}

// Message renders a t4 thing.
func Message(id, author, subject string, unread bool) string {
	return Thing("t4", map[string]any{
		"id":      bareID(id),
		"name":    fullname("t4", id),
		"author":  author,
		"subject": subject,
		"body":    "message " + bareID(id),
		"new":     unread,
		"replies": "",
	})
}

// Subreddit renders a t5 thing.
func Subreddit(name string, subscribers int) string {
	return Thing("t5", map[string]any{
		"id":           strings.ToLower(name),
		"name":         "t5_" + strings.ToLower(name),
		"display_name": name,
		"subscribers":  subscribers,
	})
}

// Account renders a t2 thing.
func Account(name string, karma int) string {
	return Thing("t2", AccountData(name, karma))
}

// AccountData returns the bare account object served by api/v1/me.
func AccountData(name string, karma int) map[string]any {
	return map[string]any{
		"id":            "id" + strings.ToLower(name),
		"name":          name,
		"link_karma":    karma,
		"comment_karma": karma,
	}
}

// Me renders the api/v1/me response.
func Me(name string, karma int) string {
	return mustJSON(AccountData(name, karma))
}

// UserList renders a UserList page of the named accounts.
func UserList(after string, names ...string) string {
	children := make([]map[string]any, 0, len(names))
	for _, n := range names {
		children = append(children, map[string]any{
			"id":     "t2_" + strings.ToLower(n),
			"name":   n,
			"date":   1700000000.0,
			"rel_id": "rb_" + strings.ToLower(n),
		})
	}
	var cursor any
	if after != "" {
		cursor = after
	}
	return Thing("UserList", map[string]any{
		"after":    cursor,
		"before":   nil,
		"children": children,
	})
}
