package graw

import (
	"context"
	"errors"
	"iter"
	"net/url"
	"strconv"

	"github.com/jamesprial/graw/internal"
	pkgerrs "github.com/jamesprial/graw/pkg/errors"
	"github.com/jamesprial/graw/pkg/types"
)

// page is one decoded page of a listing.
type page[T any] struct {
	items  []T
	after  string
	before string
}

// pageFunc fetches one page. query carries limit, count and the before
// cursor; after is the forward cursor.
type pageFunc[T any] func(ctx context.Context, query url.Values, after string) (*page[T], error)

// Listing is a lazy, paginated sequence. Items come out in the order Reddit
// lists them; a page is fetched only when the buffered items run out.
// Fetch errors leave the listing untouched, so calling Next again retries
// the same page.
//
// A Listing is not safe for concurrent use.
type Listing[T any] struct {
	fetch pageFunc[T]
	query url.Values

	backward   bool
	start      string
	startCount int

	cursor    string
	count     int
	buffer    []T
	exhausted bool
}

func newListing[T any](fetch pageFunc[T], opts *types.ListingOptions) *Listing[T] {
	if opts == nil {
		opts = &types.ListingOptions{}
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(internal.ClampLimit(opts.Limit)))
	if opts.Time != "" {
		query.Set("t", string(opts.Time))
	}

	l := &Listing[T]{
		fetch:      fetch,
		query:      query,
		backward:   opts.Before != "",
		start:      opts.After,
		startCount: opts.Count,
	}
	if l.backward {
		l.start = opts.Before
	}
	l.Reset()
	return l
}

// Next returns the next item, or errors.ErrExhausted when the listing has
// ended. It issues at most one request: if a page comes back empty while
// Reddit still reports a cursor, Next returns errors.ErrExhausted for this
// call and a later call asks for the following page.
func (l *Listing[T]) Next(ctx context.Context) (T, error) {
	var zero T

	if len(l.buffer) == 0 {
		if l.exhausted {
			return zero, pkgerrs.ErrExhausted
		}
		if err := l.fill(ctx); err != nil {
			return zero, err
		}
		if len(l.buffer) == 0 {
			return zero, pkgerrs.ErrExhausted
		}
	}

	item := l.buffer[0]
	l.buffer[0] = zero
	l.buffer = l.buffer[1:]
	return item, nil
}

func (l *Listing[T]) fill(ctx context.Context) error {
	query := url.Values{}
	for k, v := range l.query {
		query[k] = v
	}
	if l.count > 0 {
		query.Set("count", strconv.Itoa(l.count))
	}

	after := l.cursor
	if l.backward {
		after = ""
		if l.cursor != "" {
			query.Set("before", l.cursor)
		}
	}

	p, err := l.fetch(ctx, query, after)
	if err != nil {
		return err
	}

	next := p.after
	if l.backward {
		next = p.before
	}
	l.buffer = append(l.buffer, p.items...)
	l.count += len(p.items)
	l.cursor = next
	l.exhausted = next == ""
	return nil
}

// HasNext reports whether Next may return another item. It does not fetch.
func (l *Listing[T]) HasNext() bool {
	return len(l.buffer) > 0 || !l.exhausted
}

// Reset restarts the listing from its initial anchor.
func (l *Listing[T]) Reset() {
	l.buffer = nil
	l.cursor = l.start
	l.count = l.startCount
	l.exhausted = false
}

// All yields the remaining items. Iteration stops after the first error,
// which is yielded.
func (l *Listing[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return all(ctx, l.Next)
}

// Collect returns up to max remaining items (all of them when max <= 0).
func (l *Listing[T]) Collect(ctx context.Context, max int) ([]T, error) {
	return collect(ctx, l.Next, max)
}

func all[T any](ctx context.Context, next func(context.Context) (T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			item, err := next(ctx)
			if errors.Is(err, pkgerrs.ErrExhausted) {
				return
			}
			if !yield(item, err) || err != nil {
				return
			}
		}
	}
}

func collect[T any](ctx context.Context, next func(context.Context) (T, error), max int) ([]T, error) {
	var items []T
	for max <= 0 || len(items) < max {
		item, err := next(ctx)
		if errors.Is(err, pkgerrs.ErrExhausted) {
			break
		}
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}

func listingPath(subreddit, sort string) string {
	if subreddit == "" {
		return sort
	}
	return "r/" + subreddit + "/" + sort
}

func (c *Client) checkListing(subreddit string, opts *types.ListingOptions) error {
	if subreddit != "" {
		if err := c.validator.ValidateSubredditName(subreddit); err != nil {
			return err
		}
	}
	if opts == nil {
		return nil
	}
	if err := c.validator.ValidatePagination(&opts.Pagination); err != nil {
		return err
	}
	return c.validator.ValidateTimeFilter(opts.Time)
}

// things returns a pageFunc over a Listing endpoint, converting children
// with conv.
func things[T any](c *Client, path string, conv func(*types.ListingData) ([]T, error)) pageFunc[T] {
	return func(ctx context.Context, query url.Values, after string) (*page[T], error) {
		if err := c.Connect(ctx); err != nil {
			return nil, err
		}
		listing, err := c.fetcher.FetchListing(ctx, path, query, after)
		if err != nil {
			return nil, err
		}
		items, err := conv(listing)
		if err != nil {
			return nil, err
		}
		return &page[T]{items: items, after: listing.AfterFullname, before: listing.BeforeFullname}, nil
	}
}

func (c *Client) posts(path string, opts *types.ListingOptions) *Listing[*types.Post] {
	return newListing(things(c, path, c.parser.ListingPosts), opts)
}

// Hot lists the hot posts of a subreddit, or of the front page when
// subreddit is empty.
func (c *Client) Hot(subreddit string, opts *types.ListingOptions) (*Listing[*types.Post], error) {
	if err := c.checkListing(subreddit, opts); err != nil {
		return nil, err
	}
	return c.posts(listingPath(subreddit, "hot"), opts), nil
}

// New lists posts newest first.
func (c *Client) New(subreddit string, opts *types.ListingOptions) (*Listing[*types.Post], error) {
	if err := c.checkListing(subreddit, opts); err != nil {
		return nil, err
	}
	return c.posts(listingPath(subreddit, "new"), opts), nil
}

// Rising lists posts gaining traction.
func (c *Client) Rising(subreddit string, opts *types.ListingOptions) (*Listing[*types.Post], error) {
	if err := c.checkListing(subreddit, opts); err != nil {
		return nil, err
	}
	return c.posts(listingPath(subreddit, "rising"), opts), nil
}

// Top lists the highest scored posts within opts.Time.
func (c *Client) Top(subreddit string, opts *types.ListingOptions) (*Listing[*types.Post], error) {
	if err := c.checkListing(subreddit, opts); err != nil {
		return nil, err
	}
	return c.posts(listingPath(subreddit, "top"), opts), nil
}

// Controversial lists the most contested posts within opts.Time.
func (c *Client) Controversial(subreddit string, opts *types.ListingOptions) (*Listing[*types.Post], error) {
	if err := c.checkListing(subreddit, opts); err != nil {
		return nil, err
	}
	return c.posts(listingPath(subreddit, "controversial"), opts), nil
}

// UserPosts lists the posts submitted by user.
func (c *Client) UserPosts(user string, opts *types.ListingOptions) (*Listing[*types.Post], error) {
	if err := c.validator.ValidateUsername(user); err != nil {
		return nil, err
	}
	if err := c.checkListing("", opts); err != nil {
		return nil, err
	}
	return c.posts("user/"+user+"/submitted", opts), nil
}

// UserComments lists the comments written by user. The comments carry no
// replies.
func (c *Client) UserComments(user string, opts *types.ListingOptions) (*Listing[*types.Comment], error) {
	if err := c.validator.ValidateUsername(user); err != nil {
		return nil, err
	}
	if err := c.checkListing("", opts); err != nil {
		return nil, err
	}
	return newListing(things(c, "user/"+user+"/comments", func(l *types.ListingData) ([]*types.Comment, error) {
		comments := make([]*types.Comment, 0, len(l.Children))
		for _, child := range l.Children {
			if child == nil || child.Kind != types.KindComment {
				continue
			}
			comment, err := c.parser.ParseComment(child)
			if err != nil {
				return nil, err
			}
			comments = append(comments, comment)
		}
		return comments, nil
	}), opts), nil
}

// Contributors lists the approved submitters of a subreddit.
func (c *Client) Contributors(subreddit string, opts *types.ListingOptions) (*Listing[*types.UserEntry], error) {
	if err := c.validator.ValidateSubredditName(subreddit); err != nil {
		return nil, err
	}
	if err := c.checkListing("", opts); err != nil {
		return nil, err
	}

	path := "r/" + subreddit + "/about/contributors"
	return newListing(func(ctx context.Context, query url.Values, after string) (*page[*types.UserEntry], error) {
		if err := c.Connect(ctx); err != nil {
			return nil, err
		}
		list, err := c.fetcher.FetchUserList(ctx, path, query, after)
		if err != nil {
			return nil, err
		}
		return &page[*types.UserEntry]{items: list.Children, after: list.AfterFullname, before: list.BeforeFullname}, nil
	}, opts), nil
}

// Inbox lists everything in the authenticated user's inbox. Comment replies
// and mentions arrive as messages with WasComment set.
func (c *Client) Inbox(opts *types.ListingOptions) (*Listing[*types.MessageData], error) {
	return c.messages("message/inbox", opts)
}

// Unread lists the unread part of the inbox.
func (c *Client) Unread(opts *types.ListingOptions) (*Listing[*types.MessageData], error) {
	return c.messages("message/unread", opts)
}

// Sent lists messages sent by the authenticated user.
func (c *Client) Sent(opts *types.ListingOptions) (*Listing[*types.MessageData], error) {
	return c.messages("message/sent", opts)
}

func (c *Client) messages(path string, opts *types.ListingOptions) (*Listing[*types.MessageData], error) {
	if err := c.checkListing("", opts); err != nil {
		return nil, err
	}
	return newListing(things(c, path, func(l *types.ListingData) ([]*types.MessageData, error) {
		msgs := make([]*types.MessageData, 0, len(l.Children))
		for _, child := range l.Children {
			if child == nil || (child.Kind != types.KindMessage && child.Kind != types.KindComment) {
				continue
			}
			// Inbox comment replies share the message shape.
			msg, err := c.parser.ParseMessage(&types.Thing{Kind: types.KindMessage, Data: child.Data})
			if err != nil {
				return nil, err
			}
			msgs = append(msgs, msg)
		}
		return msgs, nil
	}), opts), nil
}
