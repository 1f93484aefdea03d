package graw

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/jamesprial/graw/internal/redditest"
	pkgerrs "github.com/jamesprial/graw/pkg/errors"
	"github.com/jamesprial/graw/pkg/types"
)

func TestActions_Requests(t *testing.T) {
	t.Parallel()

	post := &types.Post{ThingData: types.ThingData{ID: "p"}}
	comment := &types.Comment{ThingData: types.ThingData{ID: "c", Name: "t1_c"}}
	msg := &types.MessageData{ThingData: types.ThingData{ID: "m"}}

	tests := []struct {
		name string
		path string
		call func(context.Context, *Client) error
		form url.Values
	}{
		{
			name: "upvote",
			path: "/api/vote",
			call: func(ctx context.Context, c *Client) error { return c.Vote(ctx, post, types.Upvote) },
			form: url.Values{"id": {"t3_p"}, "dir": {"1"}},
		},
		{
			name: "clear vote",
			path: "/api/vote",
			call: func(ctx context.Context, c *Client) error { return c.Vote(ctx, comment, types.NoVote) },
			form: url.Values{"id": {"t1_c"}, "dir": {"0"}},
		},
		{
			name: "edit",
			path: "/api/editusertext",
			call: func(ctx context.Context, c *Client) error { return c.Edit(ctx, comment, "fixed typo") },
			form: url.Values{"thing_id": {"t1_c"}, "text": {"fixed typo"}},
		},
		{
			name: "delete",
			path: "/api/del",
			call: func(ctx context.Context, c *Client) error { return c.Delete(ctx, post) },
			form: url.Values{"id": {"t3_p"}},
		},
		{
			name: "approve",
			path: "/api/approve",
			call: func(ctx context.Context, c *Client) error { return c.Approve(ctx, comment) },
			form: url.Values{"id": {"t1_c"}},
		},
		{
			name: "remove as spam",
			path: "/api/remove",
			call: func(ctx context.Context, c *Client) error { return c.Remove(ctx, post, true) },
			form: url.Values{"id": {"t3_p"}, "spam": {"true"}},
		},
		{
			name: "ignore reports",
			path: "/api/ignore_reports",
			call: func(ctx context.Context, c *Client) error { return c.IgnoreReports(ctx, post) },
			form: url.Values{"id": {"t3_p"}},
		},
		{
			name: "unignore reports",
			path: "/api/unignore_reports",
			call: func(ctx context.Context, c *Client) error { return c.UnignoreReports(ctx, post) },
			form: url.Values{"id": {"t3_p"}},
		},
		{
			name: "lock",
			path: "/api/lock",
			call: func(ctx context.Context, c *Client) error { return c.Lock(ctx, comment) },
			form: url.Values{"id": {"t1_c"}},
		},
		{
			name: "unlock",
			path: "/api/unlock",
			call: func(ctx context.Context, c *Client) error { return c.Unlock(ctx, post) },
			form: url.Values{"id": {"t3_p"}},
		},
		{
			name: "compose to user",
			path: "/api/compose",
			call: func(ctx context.Context, c *Client) error { return c.Compose(ctx, "spez", "hi", "hello there") },
			form: url.Values{"to": {"spez"}, "subject": {"hi"}, "text": {"hello there"}},
		},
		{
			name: "compose to moderators",
			path: "/api/compose",
			call: func(ctx context.Context, c *Client) error { return c.Compose(ctx, "/r/golang", "appeal", "please") },
			form: url.Values{"to": {"/r/golang"}, "subject": {"appeal"}, "text": {"please"}},
		},
		{
			name: "mark read",
			path: "/api/read_message",
			call: func(ctx context.Context, c *Client) error {
				return c.MarkRead(ctx, msg, &types.MessageData{ThingData: types.ThingData{Name: "t4_n"}})
			},
			form: url.Values{"id": {"t4_m,t4_n"}},
		},
		{
			name: "subscribe",
			path: "/api/subscribe",
			call: func(ctx context.Context, c *Client) error { return c.Subscribe(ctx, "golang", "programming") },
			form: url.Values{"action": {"sub"}, "sr_name": {"golang,programming"}},
		},
		{
			name: "unsubscribe",
			path: "/api/subscribe",
			call: func(ctx context.Context, c *Client) error { return c.Unsubscribe(ctx, "golang") },
			form: url.Values{"action": {"unsub"}, "sr_name": {"golang"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, server := newTestClient(t)
			server.Enqueue(tt.path, redditest.JSON(redditest.ActionResult()))

			if err := tt.call(context.Background(), client); err != nil {
				t.Fatalf("action returned error: %v", err)
			}

			reqs := server.RequestsTo(tt.path)
			if len(reqs) != 1 {
				t.Fatalf("requests to %s = %d, want 1", tt.path, len(reqs))
			}
			got := reqs[0]
			if got.Method != "POST" {
				t.Errorf("Method = %s, want POST", got.Method)
			}
			if got.Form.Get("api_type") != "json" {
				t.Error("api_type=json should be sent")
			}
			for key, want := range tt.form {
				if got.Form.Get(key) != want[0] {
					t.Errorf("form %s = %q, want %q", key, got.Form.Get(key), want[0])
				}
			}
		})
	}
}

func TestActions_RejectInvalidInput(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t)
	ctx := context.Background()
	post := &types.Post{ThingData: types.ThingData{ID: "p"}}

	checks := map[string]error{
		"vote direction":  client.Vote(ctx, post, types.VoteDirection(2)),
		"nil target":      client.Delete(ctx, nil),
		"bad fullname":    client.Approve(ctx, &types.Comment{ThingData: types.ThingData{Name: "t1_"}}),
		"empty reply":     func() error { _, err := client.Reply(ctx, post, "   "); return err }(),
		"compose user":    client.Compose(ctx, "not a user!", "s", "t"),
		"compose sub":     client.Compose(ctx, "/r/a", "s", "t"),
		"compose subject": client.Compose(ctx, "spez", "", "t"),
		"nil message":     client.MarkRead(ctx, nil),
		"subscribe":       client.Subscribe(ctx, "golang", "no spaces"),
	}

	for name, err := range checks {
		var cfgErr *pkgerrs.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("%s: expected ConfigError, got %v", name, err)
		}
	}
	if n := len(server.Requests()); n != 0 {
		t.Errorf("invalid actions should not reach the network, got %d requests", n)
	}
}

func TestActions_NoTargetsIsNoop(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t)
	ctx := context.Background()

	if err := client.MarkRead(ctx); err != nil {
		t.Errorf("MarkRead() = %v", err)
	}
	if err := client.Subscribe(ctx); err != nil {
		t.Errorf("Subscribe() = %v", err)
	}
	if n := len(server.Requests()); n != 0 {
		t.Errorf("got %d requests, want none", n)
	}
}

func TestReply(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t)
	server.Enqueue("/api/comment", redditest.JSON(redditest.ActionResult(redditest.Comment("new", "t3_p"))))
	ctx := context.Background()

	name, err := client.Reply(ctx, &types.Post{ThingData: types.ThingData{ID: "p"}}, "nice post")
	if err != nil {
		t.Fatalf("Reply returned error: %v", err)
	}
	if name != "t1_new" {
		t.Errorf("Reply = %q, want t1_new", name)
	}
	form := server.RequestsTo("/api/comment")[0].Form
	if form.Get("thing_id") != "t3_p" || form.Get("text") != "nice post" {
		t.Errorf("unexpected form %v", form)
	}
}

func TestReply_ToLockedOrArchived(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t)
	ctx := context.Background()

	targets := map[string]Repliable{
		"locked comment": &types.Comment{ThingData: types.ThingData{ID: "c"}, Locked: true},
		"archived post":  &types.Post{ThingData: types.ThingData{ID: "p"}, Archived: true},
	}
	for name, target := range targets {
		_, err := client.Reply(ctx, target, "hello")
		var stateErr *pkgerrs.StateError
		if !errors.As(err, &stateErr) {
			t.Errorf("%s: expected StateError, got %v", name, err)
		}
	}
	if n := len(server.Requests()); n != 0 {
		t.Errorf("got %d requests, want none", n)
	}
}

func TestActions_APIErrors(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t)
	server.Enqueue("/api/compose", redditest.JSON(redditest.ActionError("USER_DOESNT_EXIST", "that user doesn't exist", "to")))
	server.Enqueue("/api/comment", redditest.JSON(redditest.ActionResult()))
	ctx := context.Background()

	err := client.Compose(ctx, "ghost", "hi", "anyone there?")
	var apiErr *pkgerrs.APIError
	if !errors.As(err, &apiErr) || apiErr.ErrorCode != "USER_DOESNT_EXIST" || apiErr.Retryable() {
		t.Errorf("expected USER_DOESNT_EXIST APIError, got %v", err)
	}

	_, err = client.Reply(ctx, &types.MessageData{ThingData: types.ThingData{ID: "m"}}, "reply")
	var parseErr *pkgerrs.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("reply without a created thing should be a ParseError, got %v", err)
	}
}
