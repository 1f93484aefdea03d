package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Reddit "kind" tags. A fullname is a kind tag joined to a base36 id with an
// underscore, e.g. "t3_abc123".
const (
	KindComment   = "t1"
	KindAccount   = "t2"
	KindLink      = "t3"
	KindMessage   = "t4"
	KindSubreddit = "t5"
	KindListing   = "Listing"
	KindMore      = "more"
	KindUserList  = "UserList"
)

// Fullname joins a kind tag and a base36 id. An id that already carries the
// kind prefix is returned unchanged.
func Fullname(kind, id string) string {
	if id == "" {
		return ""
	}
	if strings.HasPrefix(id, kind+"_") {
		return id
	}
	return kind + "_" + id
}

// SplitFullname separates a fullname into its kind tag and base36 id.
// ok is false when name has no "tN_" prefix.
func SplitFullname(name string) (kind, id string, ok bool) {
	kind, id, found := strings.Cut(name, "_")
	if !found || kind == "" || id == "" || kind[0] != 't' {
		return "", name, false
	}
	return kind, id, true
}

// RedditObject defines the common behavior for all Reddit API objects like
// Posts, Comments, and Subreddits.
type RedditObject interface {
	GetID() string
	GetName() string
}

// ThingData holds the common fields for Reddit objects.
// It can be embedded into specific types like Post and Comment.
type ThingData struct {
	ID   string `json:"id"`   // ID (without prefix)
	Name string `json:"name"` // Full name (e.g., "t3_abc123")
}

// GetID returns the object's ID.
func (td ThingData) GetID() string {
	return td.ID
}

// GetName returns the object's full name.
func (td ThingData) GetName() string {
	return td.Name
}

func (td ThingData) fullname(kind string) string {
	if td.Name != "" {
		return td.Name
	}
	return Fullname(kind, td.ID)
}

// Thing is the base class for all Reddit API objects. It provides a common
// structure for different types of content like comments, links, and subreddits.
type Thing struct {
	ThingData
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Votable is an embeddable struct for things that can be voted on.
type Votable struct {
	Ups   int `json:"ups"`
	Downs int `json:"downs"`
	// Likes indicates the user's vote: true for upvote, false for downvote, null for no vote.
	Likes *bool `json:"likes"`
}

// CurrentVote converts Likes into a VoteDirection.
func (v Votable) CurrentVote() VoteDirection {
	switch {
	case v.Likes == nil:
		return NoVote
	case *v.Likes:
		return Upvote
	default:
		return Downvote
	}
}

// VoteDirection is the value sent to api/vote.
type VoteDirection int

const (
	Downvote VoteDirection = -1
	NoVote   VoteDirection = 0
	Upvote   VoteDirection = 1
)

// Created is an embeddable struct for things that have a creation time.
type Created struct {
	Created    float64 `json:"created"`
	CreatedUTC float64 `json:"created_utc"`
}

// Edited represents a field that can be a boolean or a timestamp.
// If IsEdited is true and Timestamp is 0, it was an old edit marked as `true`.
// If IsEdited is true and Timestamp is non-zero, it's a modern edit with a timestamp.
// If IsEdited is false, the item was not edited.
type Edited struct {
	IsEdited  bool
	Timestamp float64
}

// UnmarshalJSON implements json.Unmarshaler to handle mixed types for the "edited" field.
func (e *Edited) UnmarshalJSON(data []byte) error {
	s := strings.ToLower(string(data))
	switch s {
	case "false", "null":
		e.IsEdited = false
		e.Timestamp = 0
		return nil
	case "true":
		e.IsEdited = true
		e.Timestamp = 0
		return nil
	}

	var timestamp float64
	if err := json.Unmarshal(data, &timestamp); err == nil {
		e.IsEdited = true
		e.Timestamp = timestamp
		return nil
	}

	return fmt.Errorf("unrecognized type for 'edited' field: %s", s)
}

// ListingData contains the data for a Listing, which is used for pagination.
type ListingData struct {
	BeforeFullname string   `json:"before"` // Reddit fullname for pagination (previous page)
	AfterFullname  string   `json:"after"`  // Reddit fullname for pagination (next page)
	Modhash        string   `json:"modhash"`
	Children       []*Thing `json:"children"` // Raw Things with kind+data, parsed by caller
}

// Pagination captures the shared pagination behaviour for Reddit listing endpoints.
// Reddit uses "fullnames" for pagination, which are strings like "t3_abc123" where
// "t3" indicates the type (link/post) and "abc123" is the item ID.
type Pagination struct {
	// Limit specifies the number of items to retrieve per page.
	// Reddit enforces a maximum of 100 items per request.
	Limit int

	// After specifies the Reddit fullname after which to get items.
	// Cannot be used together with Before.
	After string

	// Before specifies the Reddit fullname before which to get items.
	// Cannot be used together with After.
	Before string
}

// TimeFilter restricts top and controversial listings to a time window.
type TimeFilter string

const (
	TimeHour  TimeFilter = "hour"
	TimeDay   TimeFilter = "day"
	TimeWeek  TimeFilter = "week"
	TimeMonth TimeFilter = "month"
	TimeYear  TimeFilter = "year"
	TimeAll   TimeFilter = "all"
)

// ListingOptions configures a paginated listing. The zero value requests
// pages of DefaultListingLimit items starting at the newest anchor.
type ListingOptions struct {
	Pagination
	// Count is the number of items already seen, forwarded for Reddit's
	// numbering of results.
	Count int
	// Time applies to top and controversial listings only.
	Time TimeFilter
}

// DefaultListingLimit is the page size used when ListingOptions.Limit is zero.
const DefaultListingLimit = 25

// CommentSort is the sort order of a comment tree.
type CommentSort string

const (
	SortConfidence    CommentSort = "confidence"
	SortTop           CommentSort = "top"
	SortNew           CommentSort = "new"
	SortControversial CommentSort = "controversial"
	SortOld           CommentSort = "old"
	SortQA            CommentSort = "qa"
)

// PostsRequest describes a request to retrieve posts from a subreddit (or the front page).
// The Subreddit field can be left blank to target the front page.
type PostsRequest struct {
	Subreddit string
	Pagination
}

// CommentsRequest describes a request to retrieve the reply tree of a post.
type CommentsRequest struct {
	Subreddit string
	PostID    string

	// Comment focuses the tree on one comment and its descendants.
	Comment string

	Sort CommentSort

	// Depth caps the reply depth Reddit delivers inline. Deeper replies
	// arrive as "continue this thread" placeholders.
	Depth int

	// Limit caps the number of comments delivered inline.
	Limit int
}

// MoreCommentsRequest describes a request to expand previously truncated comment trees.
// Pass the post identifier (link) together with the comment identifiers you want to load.
type MoreCommentsRequest struct {
	LinkID     string
	CommentIDs []string

	// Sort specifies the comment sort order.
	Sort CommentSort

	// Depth specifies the maximum depth of comment replies to retrieve.
	// 0 means no limit.
	Depth int

	// LimitChildren asks Reddit to return only the requested ids and not
	// their descendants.
	LimitChildren bool
}

// SubredditData contains the data for a Subreddit.
type SubredditData struct {
	ThingData
	AccountsActive       int     `json:"accounts_active"`
	CommentScoreHideMins int     `json:"comment_score_hide_mins"`
	Description          string  `json:"description"`
	DescriptionHTML      string  `json:"description_html"`
	DisplayName          string  `json:"display_name"`
	HeaderImg            *string `json:"header_img"`
	HeaderSize           []int   `json:"header_size"`
	HeaderTitle          *string `json:"header_title"`
	Over18               bool    `json:"over18"`
	PublicDescription    string  `json:"public_description"`
	PublicTraffic        bool    `json:"public_traffic"`
	Subscribers          int64   `json:"subscribers"`
	SubmissionType       string  `json:"submission_type"`
	SubmitLinkLabel      *string `json:"submit_link_label"`
	SubmitTextLabel      *string `json:"submit_text_label"`
	SubredditType        string  `json:"subreddit_type"`
	Title                string  `json:"title"`
	URL                  string  `json:"url"`
	UserIsBanned         *bool   `json:"user_is_banned"`
	UserIsContributor    *bool   `json:"user_is_contributor"`
	UserIsModerator      *bool   `json:"user_is_moderator"`
	UserIsSubscriber     *bool   `json:"user_is_subscriber"`
}

// Fullname returns the "t5_" name of the subreddit.
func (s *SubredditData) Fullname() string {
	return s.fullname(KindSubreddit)
}

// MessageData contains the data for a private Message.
type MessageData struct {
	ThingData
	Created
	Author           string          `json:"author"`
	Body             string          `json:"body"`
	BodyHTML         string          `json:"body_html"`
	Context          string          `json:"context"`
	Dest             string          `json:"dest"`
	FirstMessage     *int64          `json:"first_message"`
	FirstMessageName *string         `json:"first_message_name"`
	Likes            *bool           `json:"likes"`
	LinkTitle        string          `json:"link_title"`
	New              bool            `json:"new"`
	ParentID         *string         `json:"parent_id"`
	RepliesData      json.RawMessage `json:"replies"` // Raw replies data, handled separately
	Subject          string          `json:"subject"`
	Subreddit        *string         `json:"subreddit"`
	WasComment       bool            `json:"was_comment"`
}

// Fullname returns the "t4_" name of the message.
func (m *MessageData) Fullname() string {
	return m.fullname(KindMessage)
}

// AcceptsReplies reports whether a reply can be sent. Private messages
// always accept one.
func (m *MessageData) AcceptsReplies() bool {
	return true
}

// AccountData contains the data for a user Account.
type AccountData struct {
	ThingData
	Created
	CommentKarma     int    `json:"comment_karma"`
	HasMail          *bool  `json:"has_mail"`
	HasModMail       *bool  `json:"has_mod_mail"`
	HasVerifiedEmail *bool  `json:"has_verified_email"`
	InboxCount       int    `json:"inbox_count,omitempty"`
	IsFriend         bool   `json:"is_friend"`
	IsGold           bool   `json:"is_gold"`
	IsMod            bool   `json:"is_mod"`
	LinkKarma        int    `json:"link_karma"`
	Modhash          string `json:"modhash,omitempty"`
	Over18           bool   `json:"over_18"`
}

// Fullname returns the "t2_" name of the account.
func (a *AccountData) Fullname() string {
	return Fullname(KindAccount, a.ID)
}

// UserEntry is one row of a user relationship list such as a subreddit's
// approved contributors. ID is the account fullname.
type UserEntry struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Date  float64 `json:"date"`
	RelID string  `json:"rel_id"`
}

// UserListData is the payload of a user relationship listing. Its children
// are bare entries rather than kind/data Things.
type UserListData struct {
	BeforeFullname string       `json:"before"`
	AfterFullname  string       `json:"after"`
	Children       []*UserEntry `json:"children"`
}

// MoreData represents a "more" placeholder standing in for comments that were
// not delivered inline. An empty Children list is a "continue this thread"
// link: the replies of ParentID must be fetched as a sub-tree instead.
type MoreData struct {
	ThingData
	ParentID string   `json:"parent_id"`
	Count    int      `json:"count"`
	Depth    int      `json:"depth"`
	Children []string `json:"children"`
}

// ContinueThread reports whether the placeholder is a "continue this thread"
// link rather than a list of ids to expand.
func (m *MoreData) ContinueThread() bool {
	return len(m.Children) == 0
}

// Post represents a Reddit post with all its fields
type Post struct {
	ThingData
	Votable
	Created
	Archived            bool            `json:"archived"`
	Author              string          `json:"author"`
	AuthorFlairCSSClass *string         `json:"author_flair_css_class"`
	AuthorFlairText     *string         `json:"author_flair_text"`
	Clicked             bool            `json:"clicked"`
	Domain              string          `json:"domain"`
	Hidden              bool            `json:"hidden"`
	IsSelf              bool            `json:"is_self"`
	LinkFlairCSSClass   *string         `json:"link_flair_css_class"`
	LinkFlairText       *string         `json:"link_flair_text"`
	Locked              bool            `json:"locked"`
	Media               json.RawMessage `json:"media"`
	MediaEmbed          json.RawMessage `json:"media_embed"`
	NumComments         int             `json:"num_comments"`
	Over18              bool            `json:"over_18"`
	Permalink           string          `json:"permalink"`
	Saved               bool            `json:"saved"`
	Score               int             `json:"score"`
	SelfText            string          `json:"selftext"`
	SelfTextHTML        *string         `json:"selftext_html"`
	Subreddit           string          `json:"subreddit"`
	SubredditID         string          `json:"subreddit_id"`
	Thumbnail           string          `json:"thumbnail"`
	Title               string          `json:"title"`
	URL                 string          `json:"url"`
	Edited              Edited          `json:"edited"` // Can be a boolean or a float64 timestamp
	Distinguished       *string         `json:"distinguished"`
	Stickied            bool            `json:"stickied"`
}

// Fullname returns the "t3_" name of the post.
func (p *Post) Fullname() string {
	return p.fullname(KindLink)
}

// AcceptsReplies reports whether new comments can be posted.
func (p *Post) AcceptsReplies() bool {
	return !p.Locked && !p.Archived
}

// EditState returns the post's edit marker.
func (p *Post) EditState() Edited {
	return p.Edited
}

// IsLocked reports whether the post is locked by a moderator.
func (p *Post) IsLocked() bool {
	return p.Locked
}

// Comment represents a Reddit comment with all its fields. Nested replies
// are not decoded here; RawReplies keeps the inline listing for the parser.
type Comment struct {
	ThingData
	Votable
	Created
	ApprovedBy          *string         `json:"approved_by"`
	Archived            bool            `json:"archived"`
	Author              string          `json:"author"`
	AuthorFlairCSSClass *string         `json:"author_flair_css_class"`
	AuthorFlairText     *string         `json:"author_flair_text"`
	BannedBy            *string         `json:"banned_by"`
	Body                string          `json:"body"`
	BodyHTML            string          `json:"body_html"`
	Depth               int             `json:"depth"`
	Edited              Edited          `json:"edited"` // Can be a boolean (for old comments) or a float64 timestamp
	Gilded              int             `json:"gilded"`
	IsSubmitter         bool            `json:"is_submitter"`
	LinkAuthor          string          `json:"link_author,omitempty"`
	LinkID              string          `json:"link_id"`
	LinkTitle           string          `json:"link_title,omitempty"`
	LinkURL             string          `json:"link_url,omitempty"`
	Locked              bool            `json:"locked"`
	NumReports          *int            `json:"num_reports"`
	ParentID            string          `json:"parent_id"`
	RawReplies          json.RawMessage `json:"replies"`
	Saved               bool            `json:"saved"`
	Score               int             `json:"score"`
	ScoreHidden         bool            `json:"score_hidden"`
	Stickied            bool            `json:"stickied"`
	Subreddit           string          `json:"subreddit"`
	SubredditID         string          `json:"subreddit_id"`
	Distinguished       *string         `json:"distinguished"`
}

// Fullname returns the "t1_" name of the comment.
func (c *Comment) Fullname() string {
	return c.fullname(KindComment)
}

// AcceptsReplies reports whether the comment can be replied to.
func (c *Comment) AcceptsReplies() bool {
	return !c.Locked && !c.Archived
}

// EditState returns the comment's edit marker.
func (c *Comment) EditState() Edited {
	return c.Edited
}

// IsLocked reports whether the comment is locked by a moderator.
func (c *Comment) IsLocked() bool {
	return c.Locked
}
