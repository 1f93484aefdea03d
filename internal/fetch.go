package internal

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/jamesprial/graw/pkg/types"
)

// Requester issues API requests and returns raw response bodies. *Client
// implements it.
type Requester interface {
	Get(ctx context.Context, path string, query url.Values) ([]byte, error)
	PostForm(ctx context.Context, path string, form url.Values) ([]byte, error)
}

// MaxListingLimit is the largest page Reddit serves, and the largest number
// of ids api/morechildren accepts in one call.
const MaxListingLimit = 100

// ClampLimit bounds a page size to [1, MaxListingLimit], substituting
// types.DefaultListingLimit for zero.
func ClampLimit(limit int) int {
	switch {
	case limit == 0:
		return types.DefaultListingLimit
	case limit < 1:
		return 1
	case limit > MaxListingLimit:
		return MaxListingLimit
	}
	return limit
}

// PageFetcher retrieves single pages of listing endpoints.
type PageFetcher struct {
	client Requester
	parser *Parser
}

// NewPageFetcher creates a fetcher backed by client.
func NewPageFetcher(client Requester) *PageFetcher {
	return &PageFetcher{client: client, parser: NewParser()}
}

func pageQuery(query url.Values, after string) url.Values {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	if after != "" {
		q.Set("after", after)
	}
	return q
}

// FetchListing GETs one page of a Listing endpoint. after is the cursor of
// the previous page, empty for the first.
func (f *PageFetcher) FetchListing(ctx context.Context, path string, query url.Values, after string) (*types.ListingData, error) {
	body, err := f.client.Get(ctx, path, pageQuery(query, after))
	if err != nil {
		return nil, err
	}
	return f.parser.ParseListingPage(body)
}

// FetchUserList GETs one page of a UserList endpoint.
func (f *PageFetcher) FetchUserList(ctx context.Context, path string, query url.Values, after string) (*types.UserListData, error) {
	body, err := f.client.Get(ctx, path, pageQuery(query, after))
	if err != nil {
		return nil, err
	}
	return f.parser.ParseUserList(body)
}

// Expander resolves one placeholder group into the comments it stands for.
type Expander interface {
	Expand(ctx context.Context, linkID string, more *types.MoreData) (*Batch, error)
}

// MoreExpander resolves placeholders against the Reddit API. Groups with ids
// go through api/morechildren; "continue this thread" groups re-request the
// sub-tree of their parent.
type MoreExpander struct {
	client Requester
	parser *Parser
	sort   types.CommentSort
	logger *slog.Logger
}

// NewMoreExpander creates an expander. sort may be empty.
func NewMoreExpander(client Requester, sort types.CommentSort, logger *slog.Logger) *MoreExpander {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &MoreExpander{
		client: client,
		parser: NewParser(),
		sort:   sort,
		logger: logger,
	}
}

// Expand issues exactly one request for more.
func (e *MoreExpander) Expand(ctx context.Context, linkID string, more *types.MoreData) (*Batch, error) {
	kind := "morechildren"
	if more.ContinueThread() {
		kind = "continue"
	}

	var (
		batch *Batch
		err   error
	)
	if more.ContinueThread() {
		batch, err = e.continueThread(ctx, linkID, more)
	} else {
		batch, err = e.moreChildren(ctx, linkID, more.Children)
	}
	if err != nil {
		placeholderExpansions.WithLabelValues(kind, "error").Inc()
		e.logger.Debug("placeholder expansion failed", "kind", kind, "parent", more.ParentID, "err", err)
		return nil, err
	}

	placeholderExpansions.WithLabelValues(kind, "ok").Inc()
	e.logger.Debug("placeholder expanded",
		"kind", kind,
		"parent", more.ParentID,
		"requested", len(more.Children),
		"comments", len(batch.Comments),
		"placeholders", len(batch.More),
	)
	return batch, nil
}

func (e *MoreExpander) moreChildren(ctx context.Context, linkID string, ids []string) (*Batch, error) {
	form := url.Values{}
	form.Set("api_type", "json")
	form.Set("raw_json", "1")
	form.Set("link_id", types.Fullname(types.KindLink, linkID))
	form.Set("children", strings.Join(ids, ","))
	form.Set("limit_children", strconv.FormatBool(false))
	if e.sort != "" {
		form.Set("sort", string(e.sort))
	}

	body, err := e.client.PostForm(ctx, "api/morechildren", form)
	if err != nil {
		return nil, err
	}
	return e.parser.ParseMoreChildren(body)
}

func (e *MoreExpander) continueThread(ctx context.Context, linkID string, more *types.MoreData) (*Batch, error) {
	_, article, _ := types.SplitFullname(linkID)
	_, comment, _ := types.SplitFullname(more.ParentID)

	query := url.Values{}
	query.Set("comment", comment)
	if e.sort != "" {
		query.Set("sort", string(e.sort))
	}

	body, err := e.client.Get(ctx, "comments/"+article, query)
	if err != nil {
		return nil, err
	}
	_, batch, err := e.parser.ParsePostAndComments(body)
	return batch, err
}
