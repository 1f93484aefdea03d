package graw

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
	"github.com/jamesprial/graw/pkg/types"
)

// Thing is anything Reddit addresses by fullname.
type Thing interface {
	Fullname() string
}

// Votable is implemented by posts and comments.
type Votable interface {
	Thing
	CurrentVote() types.VoteDirection
}

// Repliable is implemented by posts, comments and messages.
type Repliable interface {
	Thing
	AcceptsReplies() bool
}

// Editable is implemented by the authenticated user's own posts and comments.
type Editable interface {
	Thing
	EditState() types.Edited
}

// Moderatable is implemented by posts and comments in subreddits the
// authenticated user moderates.
type Moderatable interface {
	Thing
	IsLocked() bool
}

var (
	_ Votable     = (*types.Post)(nil)
	_ Votable     = (*types.Comment)(nil)
	_ Repliable   = (*types.Post)(nil)
	_ Repliable   = (*types.Comment)(nil)
	_ Repliable   = (*types.MessageData)(nil)
	_ Editable    = (*types.Post)(nil)
	_ Editable    = (*types.Comment)(nil)
	_ Moderatable = (*types.Post)(nil)
	_ Moderatable = (*types.Comment)(nil)
)

// action POSTs form with api_type=json and returns the things in the
// response. Errors reported inside a 200 body come back as *errors.APIError.
func (c *Client) action(ctx context.Context, op, path string, form url.Values) ([]*types.Thing, error) {
	api, err := c.api(ctx)
	if err != nil {
		return nil, err
	}

	form.Set("api_type", "json")
	body, err := api.PostForm(ctx, path, form)
	if err != nil {
		return nil, err
	}

	things, err := c.parser.ParseActionResult(op, body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("reddit action", "op", op, "path", path)
	return things, nil
}

func (c *Client) target(t Thing) (string, error) {
	if t == nil {
		return "", &pkgerrs.ConfigError{Field: "id", Message: "target cannot be nil"}
	}
	name := t.Fullname()
	if err := c.validator.ValidateFullname("id", name, ""); err != nil {
		return "", err
	}
	return name, nil
}

// idAction is an action whose only parameter is the target's fullname.
func (c *Client) idAction(ctx context.Context, op, path string, t Thing) error {
	name, err := c.target(t)
	if err != nil {
		return err
	}
	_, err = c.action(ctx, op, path, url.Values{"id": {name}})
	return err
}

// Vote casts dir on v. types.NoVote clears an earlier vote.
func (c *Client) Vote(ctx context.Context, v Votable, dir types.VoteDirection) error {
	if dir < types.Downvote || dir > types.Upvote {
		return &pkgerrs.ConfigError{Field: "dir", Message: fmt.Sprintf("invalid vote direction %d", dir)}
	}
	name, err := c.target(v)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("id", name)
	form.Set("dir", strconv.Itoa(int(dir)))
	_, err = c.action(ctx, "vote", "api/vote", form)
	return err
}

// Reply posts text as a reply to r and returns the new comment's or
// message's fullname.
func (c *Client) Reply(ctx context.Context, r Repliable, text string) (string, error) {
	name, err := c.target(r)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", &pkgerrs.ConfigError{Field: "text", Message: "reply text cannot be empty"}
	}
	if !r.AcceptsReplies() {
		return "", &pkgerrs.StateError{Operation: "reply", Message: name + " is locked or archived"}
	}

	form := url.Values{}
	form.Set("thing_id", name)
	form.Set("text", text)
	things, err := c.action(ctx, "reply", "api/comment", form)
	if err != nil {
		return "", err
	}
	if len(things) == 0 || things[0] == nil {
		return "", &pkgerrs.ParseError{Operation: "reply", Message: "response carries no thing"}
	}

	var created types.ThingData
	if err := json.Unmarshal(things[0].Data, &created); err != nil {
		return "", &pkgerrs.ParseError{Operation: "reply", Err: err}
	}
	if created.Name != "" {
		return created.Name, nil
	}
	return types.Fullname(things[0].Kind, created.ID), nil
}

// Edit replaces the text of a self post or comment.
func (c *Client) Edit(ctx context.Context, e Editable, text string) error {
	name, err := c.target(e)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("thing_id", name)
	form.Set("text", text)
	_, err = c.action(ctx, "edit", "api/editusertext", form)
	return err
}

// Delete deletes a post or comment.
func (c *Client) Delete(ctx context.Context, e Editable) error {
	return c.idAction(ctx, "delete", "api/del", e)
}

// Approve approves a post or comment as a moderator.
func (c *Client) Approve(ctx context.Context, m Moderatable) error {
	return c.idAction(ctx, "approve", "api/approve", m)
}

// Remove removes a post or comment as a moderator, optionally marking it
// as spam.
func (c *Client) Remove(ctx context.Context, m Moderatable, spam bool) error {
	name, err := c.target(m)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("id", name)
	form.Set("spam", strconv.FormatBool(spam))
	_, err = c.action(ctx, "remove", "api/remove", form)
	return err
}

// IgnoreReports stops reports on m from showing in the mod queue.
func (c *Client) IgnoreReports(ctx context.Context, m Moderatable) error {
	return c.idAction(ctx, "ignore reports", "api/ignore_reports", m)
}

// UnignoreReports undoes IgnoreReports.
func (c *Client) UnignoreReports(ctx context.Context, m Moderatable) error {
	return c.idAction(ctx, "unignore reports", "api/unignore_reports", m)
}

// Lock prevents new replies to m.
func (c *Client) Lock(ctx context.Context, m Moderatable) error {
	return c.idAction(ctx, "lock", "api/lock", m)
}

// Unlock allows replies to m again.
func (c *Client) Unlock(ctx context.Context, m Moderatable) error {
	return c.idAction(ctx, "unlock", "api/unlock", m)
}

// Compose sends a private message. to is a username, or "/r/name" to write
// to a subreddit's moderators.
func (c *Client) Compose(ctx context.Context, to, subject, text string) error {
	if sub, ok := strings.CutPrefix(to, "/r/"); ok {
		if err := c.validator.ValidateSubredditName(sub); err != nil {
			return err
		}
	} else if err := c.validator.ValidateUsername(to); err != nil {
		return err
	}
	if subject == "" {
		return &pkgerrs.ConfigError{Field: "subject", Message: "subject cannot be empty"}
	}

	form := url.Values{}
	form.Set("to", to)
	form.Set("subject", subject)
	form.Set("text", text)
	_, err := c.action(ctx, "compose", "api/compose", form)
	return err
}

// MarkRead marks messages as read.
func (c *Client) MarkRead(ctx context.Context, msgs ...*types.MessageData) error {
	if len(msgs) == 0 {
		return nil
	}

	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m == nil {
			return &pkgerrs.ConfigError{Field: "id", Message: "message cannot be nil"}
		}
		name, err := c.target(m)
		if err != nil {
			return err
		}
		ids = append(ids, name)
	}
	_, err := c.action(ctx, "mark read", "api/read_message", url.Values{"id": {strings.Join(ids, ",")}})
	return err
}

// Subscribe subscribes the authenticated user to the named subreddits.
func (c *Client) Subscribe(ctx context.Context, subreddits ...string) error {
	return c.subscription(ctx, "sub", subreddits)
}

// Unsubscribe undoes Subscribe.
func (c *Client) Unsubscribe(ctx context.Context, subreddits ...string) error {
	return c.subscription(ctx, "unsub", subreddits)
}

func (c *Client) subscription(ctx context.Context, action string, subreddits []string) error {
	if len(subreddits) == 0 {
		return nil
	}
	for _, name := range subreddits {
		if err := c.validator.ValidateSubredditName(name); err != nil {
			return err
		}
	}

	form := url.Values{}
	form.Set("action", action)
	form.Set("sr_name", strings.Join(subreddits, ","))
	_, err := c.action(ctx, "subscribe", "api/subscribe", form)
	return err
}
