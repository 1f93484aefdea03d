package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
	"github.com/jamesprial/graw/pkg/types"
)

// Parser handles parsing of Reddit API responses
type Parser struct{}

// NewParser creates a new parser instance
func NewParser() *Parser {
	return &Parser{}
}

// Batch is a flat, pre-order run of comments together with the placeholders
// that appeared among them, in the order the API delivered them.
type Batch struct {
	Comments []*types.Comment
	More     []*types.MoreData
}

// Len returns the number of comments and placeholders in the batch.
func (b *Batch) Len() int {
	return len(b.Comments) + len(b.More)
}

func parseErr(op string, err error) error {
	return &pkgerrs.ParseError{Operation: op, Err: err}
}

func wrongKind(op, want, got string) error {
	return &pkgerrs.ParseError{Operation: op, Message: fmt.Sprintf("expected %s, got %s", want, got)}
}

// ParseThing determines the type of a Thing and returns the appropriate typed struct.
func (p *Parser) ParseThing(thing *types.Thing) (interface{}, error) {
	if thing == nil {
		return nil, &pkgerrs.ParseError{Operation: "thing", Message: "thing is nil"}
	}

	switch thing.Kind {
	case types.KindListing:
		return p.ParseListing(thing)
	case types.KindComment:
		return p.ParseComment(thing)
	case types.KindAccount:
		return p.ParseAccount(thing)
	case types.KindLink:
		return p.ParseLink(thing)
	case types.KindMessage:
		return p.ParseMessage(thing)
	case types.KindSubreddit:
		return p.ParseSubreddit(thing)
	case types.KindMore:
		return p.ParseMore(thing)
	default:
		return nil, &pkgerrs.ParseError{Operation: "thing", Message: "unknown kind: " + thing.Kind}
	}
}

// parseData checks the kind of thing and decodes its data into v.
func parseData(op, kind string, thing *types.Thing, v any) error {
	if thing == nil {
		return &pkgerrs.ParseError{Operation: op, Message: "thing is nil"}
	}
	if thing.Kind != kind {
		return wrongKind(op, kind, thing.Kind)
	}
	if err := json.Unmarshal(thing.Data, v); err != nil {
		return parseErr(op, err)
	}
	return nil
}

// ParseListing extracts a ListingData from a Thing of kind "Listing".
func (p *Parser) ParseListing(thing *types.Thing) (*types.ListingData, error) {
	var listing types.ListingData
	if err := parseData("listing", types.KindListing, thing, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// ParseLink extracts a Post from a Thing of kind "t3".
func (p *Parser) ParseLink(thing *types.Thing) (*types.Post, error) {
	var post types.Post
	if err := parseData("link", types.KindLink, thing, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// ParseComment extracts a Comment from a Thing of kind "t1". Inline replies
// are left in RawReplies; Flatten walks them.
func (p *Parser) ParseComment(thing *types.Thing) (*types.Comment, error) {
	var comment types.Comment
	if err := parseData("comment", types.KindComment, thing, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ParseSubreddit extracts a SubredditData from a Thing of kind "t5".
func (p *Parser) ParseSubreddit(thing *types.Thing) (*types.SubredditData, error) {
	var subreddit types.SubredditData
	if err := parseData("subreddit", types.KindSubreddit, thing, &subreddit); err != nil {
		return nil, err
	}
	return &subreddit, nil
}

// ParseAccount extracts an AccountData from a Thing of kind "t2".
func (p *Parser) ParseAccount(thing *types.Thing) (*types.AccountData, error) {
	var account types.AccountData
	if err := parseData("account", types.KindAccount, thing, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// ParseMessage extracts a MessageData from a Thing of kind "t4".
func (p *Parser) ParseMessage(thing *types.Thing) (*types.MessageData, error) {
	var message types.MessageData
	if err := parseData("message", types.KindMessage, thing, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// ParseMore extracts a MoreData from a Thing of kind "more".
func (p *Parser) ParseMore(thing *types.Thing) (*types.MoreData, error) {
	var more types.MoreData
	if err := parseData("more", types.KindMore, thing, &more); err != nil {
		return nil, err
	}
	return &more, nil
}

// ExtractPosts extracts all Post objects from a listing Thing.
func (p *Parser) ExtractPosts(listing *types.Thing) ([]*types.Post, error) {
	listingData, err := p.ParseListing(listing)
	if err != nil {
		return nil, err
	}
	return p.ListingPosts(listingData)
}

// ListingPosts decodes the t3 children of an already parsed listing.
func (p *Parser) ListingPosts(listingData *types.ListingData) ([]*types.Post, error) {
	posts := make([]*types.Post, 0, len(listingData.Children))
	for _, child := range listingData.Children {
		if child == nil || child.Kind != types.KindLink {
			continue
		}
		post, err := p.ParseLink(child)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// Flatten walks a comment Listing (or a single t1) in pre-order and returns
// every comment and placeholder in it, descending into inline replies.
// Children of other kinds are skipped.
func (p *Parser) Flatten(thing *types.Thing) (*Batch, error) {
	batch := &Batch{}
	if err := p.flattenInto(batch, thing); err != nil {
		return nil, err
	}
	return batch, nil
}

func (p *Parser) flattenInto(batch *Batch, thing *types.Thing) error {
	if thing == nil {
		return nil
	}

	switch thing.Kind {
	case types.KindComment:
		comment, err := p.ParseComment(thing)
		if err != nil {
			return err
		}
		batch.Comments = append(batch.Comments, comment)

		replies, err := decodeReplies(comment.RawReplies)
		if err != nil || replies == nil {
			return err
		}
		return p.flattenInto(batch, replies)

	case types.KindMore:
		more, err := p.ParseMore(thing)
		if err != nil {
			return err
		}
		batch.More = append(batch.More, more)
		return nil

	case types.KindListing:
		listing, err := p.ParseListing(thing)
		if err != nil {
			return err
		}
		for _, child := range listing.Children {
			if child == nil {
				continue
			}
			if err := p.flattenInto(batch, child); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

// decodeReplies decodes a comment's "replies" field. Reddit sends "" when a
// comment has no inline replies; nil is returned in that case.
func decodeReplies(raw json.RawMessage) (*types.Thing, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte(`""`)) || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var thing types.Thing
	if err := json.Unmarshal(raw, &thing); err != nil {
		return nil, parseErr("replies", err)
	}
	return &thing, nil
}

// ParseThingBody decodes a response body holding a single kind/data Thing.
func (p *Parser) ParseThingBody(op string, body []byte) (*types.Thing, error) {
	var thing types.Thing
	if err := json.Unmarshal(body, &thing); err != nil {
		return nil, parseErr(op, err)
	}
	return &thing, nil
}

// ParseListingPage decodes one page of a Listing endpoint.
func (p *Parser) ParseListingPage(body []byte) (*types.ListingData, error) {
	thing, err := p.ParseThingBody("listing", body)
	if err != nil {
		return nil, err
	}
	return p.ParseListing(thing)
}

// ParseUserList decodes a UserList page such as a subreddit's contributors.
func (p *Parser) ParseUserList(body []byte) (*types.UserListData, error) {
	thing, err := p.ParseThingBody("user list", body)
	if err != nil {
		return nil, err
	}

	var list types.UserListData
	if err := parseData("user list", types.KindUserList, thing, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ParsePostAndComments decodes the [post_listing, comments_listing] array
// returned by comments/{article}. The post listing may be absent, in which
// case the single element is read as the comments.
func (p *Parser) ParsePostAndComments(body []byte) (*types.Post, *Batch, error) {
	var things []*types.Thing
	if err := json.Unmarshal(body, &things); err != nil {
		return nil, nil, parseErr("comments", err)
	}
	if len(things) == 0 {
		return nil, nil, &pkgerrs.ParseError{Operation: "comments", Message: "empty response"}
	}

	var post *types.Post
	commentsListing := things[0]
	if len(things) >= 2 {
		posts, err := p.ExtractPosts(things[0])
		if err != nil {
			return nil, nil, err
		}
		if len(posts) > 0 {
			post = posts[0]
		}
		commentsListing = things[1]
	}

	if commentsListing == nil {
		return post, &Batch{}, nil
	}
	if commentsListing.Kind != types.KindListing {
		return nil, nil, wrongKind("comments", types.KindListing, commentsListing.Kind)
	}

	batch, err := p.Flatten(commentsListing)
	if err != nil {
		return nil, nil, err
	}
	return post, batch, nil
}

// actionEnvelope is the api_type=json response shape shared by
// api/morechildren, api/comment and the other write endpoints.
type actionEnvelope struct {
	JSON struct {
		Errors [][]any `json:"errors"`
		Data   struct {
			Things []*types.Thing `json:"things"`
		} `json:"data"`
	} `json:"json"`
}

// ParseActionResult decodes an api_type=json response and returns the things
// it carries. A non-empty "errors" list is returned as an *errors.APIError.
func (p *Parser) ParseActionResult(op string, body []byte) ([]*types.Thing, error) {
	var env actionEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, parseErr(op, err)
	}

	if len(env.JSON.Errors) > 0 {
		return nil, actionError(env.JSON.Errors[0], body)
	}
	return env.JSON.Data.Things, nil
}

// actionError converts one ["CODE", "message", "field"] triple.
func actionError(entry []any, body []byte) *pkgerrs.APIError {
	apiErr := &pkgerrs.APIError{StatusCode: http.StatusOK}
	if len(entry) > 0 {
		apiErr.ErrorCode = fmt.Sprint(entry[0])
	}
	if len(entry) > 1 {
		apiErr.Message = fmt.Sprint(entry[1])
	}
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	apiErr.Body = string(body)
	return apiErr
}

// ParseMoreChildren decodes an api/morechildren response into a batch. The
// things come back flat with parent ids; placeholders for ids that are still
// deferred appear among them.
func (p *Parser) ParseMoreChildren(body []byte) (*Batch, error) {
	things, err := p.ParseActionResult("morechildren", body)
	if err != nil {
		return nil, err
	}

	batch := &Batch{}
	for _, thing := range things {
		if thing == nil {
			continue
		}
		if err := p.flattenInto(batch, thing); err != nil {
			return nil, err
		}
	}
	return batch, nil
}
