package graw

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jamesprial/graw/internal"
	pkgerrs "github.com/jamesprial/graw/pkg/errors"
	"github.com/jamesprial/graw/pkg/types"
)

const (
	// DefaultBaseURL is the default Reddit API base URL
	DefaultBaseURL = "https://oauth.reddit.com/"
	// DefaultAuthURL is the default Reddit OAuth base URL
	DefaultAuthURL = "https://www.reddit.com/"
	// DefaultUserAgent is the default user agent string
	DefaultUserAgent = "graw/0.1"
	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	// maxConcurrentThreads bounds the initial fetches issued by Threads.
	maxConcurrentThreads = 8
)

// RateLimitConfig controls client-side request throttling.
type RateLimitConfig = internal.RateLimitConfig

// Config holds the configuration for the Reddit client.
//
// For application-only authentication (script apps), provide ClientID and ClientSecret.
// For user authentication, additionally provide Username and Password.
//
// Example for user auth:
//
//	config := &Config{
//		Username:     "your-username",
//		Password:     "your-password",
//		ClientID:     "your-client-id",
//		ClientSecret: "your-client-secret",
//		UserAgent:    "myapp/1.0 by /u/yourusername",
//	}
type Config struct {
	// Username and Password for password grant flow.
	// Required only for user authentication. Leave empty for app-only authentication.
	Username string
	Password string

	// ClientID and ClientSecret for OAuth2 authentication.
	// Required for all authentication types. Obtain these from Reddit's app preferences.
	ClientID     string
	ClientSecret string

	// UserAgent string to identify your application to Reddit.
	// Should follow format: "platform:app-name:version by /u/username"
	UserAgent string

	// BaseURL for the Reddit API.
	// Defaults to DefaultBaseURL if not specified.
	BaseURL string

	// AuthURL for Reddit OAuth authentication.
	// Defaults to DefaultAuthURL if not specified.
	AuthURL string

	// HTTPClient to use for requests.
	// Defaults to a client with DefaultTimeout if not specified.
	HTTPClient *http.Client

	// Logger for structured diagnostics. Optional.
	Logger *slog.Logger

	// RateLimit throttles outgoing requests. Defaults to 60 requests per
	// minute with a burst of 10.
	RateLimit *RateLimitConfig
}

// Client is the main Reddit API client. It authenticates lazily on first
// use, or eagerly through Connect. A Client is safe for concurrent use; the
// Listings and Threads it returns are not.
type Client struct {
	config    Config
	auth      *internal.Authenticator
	parser    *internal.Parser
	validator *internal.Validator
	conn      *internal.ConnectionManager
	logger    *slog.Logger

	// Set once by initialize.
	client  *internal.Client
	fetcher *internal.PageFetcher
}

// NewClient creates a new Reddit client with the provided configuration.
// It validates the configuration and sets up the authenticator; it does not
// contact Reddit.
//
// Returns a *errors.ConfigError if config is nil, ClientID or ClientSecret
// are missing or the user agent is unusable.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, &pkgerrs.ConfigError{Message: "config cannot be nil"}
	}
	cfg := *config

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, &pkgerrs.ConfigError{Field: "ClientID", Message: "ClientID and ClientSecret are required"}
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	validator := internal.NewValidator()
	if err := validator.ValidateUserAgent(cfg.UserAgent); err != nil {
		return nil, err
	}

	grantType := internal.GrantClientCredentials
	if cfg.Username != "" && cfg.Password != "" {
		grantType = internal.GrantPassword
	}

	auth, err := internal.NewAuthenticator(
		cfg.HTTPClient,
		cfg.Username,
		cfg.Password,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.UserAgent,
		cfg.AuthURL,
		grantType,
		cfg.Logger,
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		config:    cfg,
		auth:      auth,
		parser:    internal.NewParser(),
		validator: validator,
		conn:      internal.NewConnectionManager(),
		logger:    cfg.Logger,
	}, nil
}

// Connect authenticates with Reddit and prepares the HTTP client. It is safe
// to call repeatedly: after a success it does nothing, after a failure the
// next call tries again. API methods call it implicitly.
func (c *Client) Connect(ctx context.Context) error {
	return c.conn.Initialize(ctx, c.initialize)
}

func (c *Client) initialize(ctx context.Context) error {
	if _, err := c.auth.GetToken(ctx); err != nil {
		return err
	}

	client, err := internal.NewClient(
		c.config.HTTPClient,
		c.auth,
		c.config.BaseURL,
		c.config.UserAgent,
		c.config.RateLimit,
		c.logger,
	)
	if err != nil {
		return err
	}

	c.client = client
	c.fetcher = internal.NewPageFetcher(client)
	c.logger.Debug("connected to reddit", "base_url", c.config.BaseURL)
	return nil
}

// IsConnected returns true if the client is authenticated and ready to make requests.
func (c *Client) IsConnected() bool {
	return c.conn.IsInitialized()
}

// api returns the HTTP client, connecting first if needed.
func (c *Client) api(ctx context.Context) (*internal.Client, error) {
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	return c.client, nil
}

// Close revokes the access token. The client reconnects with a new token if
// it is used again.
func (c *Client) Close(ctx context.Context) error {
	if !c.conn.IsInitialized() {
		return nil
	}
	if err := c.auth.Revoke(ctx); err != nil {
		return err
	}
	c.conn.Reset()
	return nil
}

// Me returns the authenticated account. It requires user authentication.
func (c *Client) Me(ctx context.Context) (*types.AccountData, error) {
	api, err := c.api(ctx)
	if err != nil {
		return nil, err
	}

	body, err := api.Get(ctx, "api/v1/me", nil)
	if err != nil {
		return nil, err
	}

	// api/v1/me answers with the bare account object, not a Thing.
	var account types.AccountData
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, &pkgerrs.ParseError{Operation: "me", Err: err}
	}
	return &account, nil
}

// Subreddit retrieves information about a specific subreddit. name is given
// without the "r/" prefix.
func (c *Client) Subreddit(ctx context.Context, name string) (*types.SubredditData, error) {
	if err := c.validator.ValidateSubredditName(name); err != nil {
		return nil, err
	}

	thing, err := c.getThing(ctx, "subreddit", "r/"+name+"/about")
	if err != nil {
		return nil, err
	}
	return c.parser.ParseSubreddit(thing)
}

// User retrieves the public profile of an account.
func (c *Client) User(ctx context.Context, name string) (*types.AccountData, error) {
	if err := c.validator.ValidateUsername(name); err != nil {
		return nil, err
	}

	thing, err := c.getThing(ctx, "user", "user/"+name+"/about")
	if err != nil {
		return nil, err
	}
	return c.parser.ParseAccount(thing)
}

// Post retrieves a single post by id or fullname.
func (c *Client) Post(ctx context.Context, id string) (*types.Post, error) {
	linkID, err := c.validator.ValidateLinkID(id)
	if err != nil {
		return nil, err
	}

	thing, err := c.getThing(ctx, "post", "by_id/"+linkID)
	if err != nil {
		return nil, err
	}
	posts, err := c.parser.ExtractPosts(thing)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, &pkgerrs.APIError{StatusCode: http.StatusNotFound, Message: "post " + linkID + " not found"}
	}
	return posts[0], nil
}

func (c *Client) getThing(ctx context.Context, op, path string) (*types.Thing, error) {
	api, err := c.api(ctx)
	if err != nil {
		return nil, err
	}
	body, err := api.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	return c.parser.ParseThingBody(op, body)
}

// Comments fetches a post and the first part of its reply tree and returns
// a Thread that assembles the rest lazily. Set request.Comment to focus on
// the replies of one comment.
func (c *Client) Comments(ctx context.Context, request *types.CommentsRequest) (*Thread, error) {
	if request == nil {
		return nil, &pkgerrs.ConfigError{Field: "request", Message: "comments request cannot be nil"}
	}

	linkID, err := c.validator.ValidateLinkID(request.PostID)
	if err != nil {
		return nil, err
	}
	if request.Subreddit != "" {
		if err := c.validator.ValidateSubredditName(request.Subreddit); err != nil {
			return nil, err
		}
	}
	if err := c.validator.ValidateCommentSort(request.Sort); err != nil {
		return nil, err
	}

	rootID := linkID
	query := url.Values{}
	if request.Comment != "" {
		if err := c.validator.ValidateCommentIDs([]string{request.Comment}); err != nil {
			return nil, err
		}
		rootID = types.Fullname(types.KindComment, request.Comment)
		_, id, _ := types.SplitFullname(rootID)
		query.Set("comment", id)
	}
	if request.Sort != "" {
		query.Set("sort", string(request.Sort))
	}
	if request.Depth > 0 {
		query.Set("depth", strconv.Itoa(request.Depth))
	}
	if request.Limit > 0 {
		query.Set("limit", strconv.Itoa(request.Limit))
	}

	api, err := c.api(ctx)
	if err != nil {
		return nil, err
	}

	_, article, _ := types.SplitFullname(linkID)
	path := "comments/" + article
	if request.Subreddit != "" {
		path = "r/" + request.Subreddit + "/" + path
	}

	body, err := api.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	post, batch, err := c.parser.ParsePostAndComments(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("thread fetched",
		"link", linkID,
		"root", rootID,
		"comments", len(batch.Comments),
		"placeholders", len(batch.More),
	)

	expander := internal.NewMoreExpander(api, request.Sort, c.logger)
	return &Thread{
		Post: post,
		tree: internal.NewThread(linkID, rootID, batch, expander, c.logger),
	}, nil
}

// Replies returns a Thread over the replies of comment. The comment itself
// is not part of the thread.
func (c *Client) Replies(ctx context.Context, comment *types.Comment) (*Thread, error) {
	if comment == nil || comment.LinkID == "" {
		return nil, &pkgerrs.ConfigError{Field: "comment", Message: "comment with a link ID is required"}
	}
	return c.Comments(ctx, &types.CommentsRequest{
		Subreddit: comment.Subreddit,
		PostID:    comment.LinkID,
		Comment:   comment.Fullname(),
	})
}

// Threads fetches several threads concurrently. The result is in request
// order; the first failure cancels the remaining fetches and is returned.
// Each returned Thread is then used by a single goroutine as usual.
func (c *Client) Threads(ctx context.Context, requests []*types.CommentsRequest) ([]*Thread, error) {
	if len(requests) == 0 {
		return []*Thread{}, nil
	}
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}

	threads := make([]*Thread, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentThreads)
	for i, req := range requests {
		g.Go(func() error {
			thread, err := c.Comments(gctx, req)
			if err != nil {
				return err
			}
			threads[i] = thread
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return threads, nil
}

// GetMoreComments loads comments by id through api/morechildren and returns
// them flat, in API order. Ids are sent in chunks of at most 100 per request.
// It does not assemble a tree; use Comments for that.
func (c *Client) GetMoreComments(ctx context.Context, request *types.MoreCommentsRequest) ([]*types.Comment, error) {
	if request == nil {
		return nil, &pkgerrs.ConfigError{Field: "request", Message: "more comments request cannot be nil"}
	}
	linkID, err := c.validator.ValidateLinkID(request.LinkID)
	if err != nil {
		return nil, err
	}
	if err := c.validator.ValidateCommentIDs(request.CommentIDs); err != nil {
		return nil, err
	}
	if err := c.validator.ValidateCommentSort(request.Sort); err != nil {
		return nil, err
	}
	if len(request.CommentIDs) == 0 {
		return []*types.Comment{}, nil
	}

	api, err := c.api(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(request.CommentIDs))
	for _, id := range request.CommentIDs {
		ids = append(ids, strings.TrimPrefix(id, types.KindComment+"_"))
	}

	comments := []*types.Comment{}
	for start := 0; start < len(ids); start += internal.MaxListingLimit {
		end := min(start+internal.MaxListingLimit, len(ids))

		form := url.Values{}
		form.Set("api_type", "json")
		form.Set("raw_json", "1")
		form.Set("link_id", linkID)
		form.Set("children", strings.Join(ids[start:end], ","))
		form.Set("limit_children", strconv.FormatBool(request.LimitChildren))
		if request.Sort != "" {
			form.Set("sort", string(request.Sort))
		}
		if request.Depth > 0 {
			form.Set("depth", strconv.Itoa(request.Depth))
		}

		body, err := api.PostForm(ctx, "api/morechildren", form)
		if err != nil {
			return nil, err
		}
		batch, err := c.parser.ParseMoreChildren(body)
		if err != nil {
			return nil, err
		}
		comments = append(comments, batch.Comments...)
	}
	return comments, nil
}
