package internal

import (
	"fmt"
	"strings"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
	"github.com/jamesprial/graw/pkg/types"
	"github.com/jamesprial/graw/pkg/validation"
)

const (
	// Subreddit name constraints
	minSubredditLength = 3
	maxSubredditLength = 21

	// Comment ID constraints
	maxCommentIDLength = 100

	// User agent constraints
	maxUserAgentLength = 256
)

// Validator provides validation operations for Reddit API parameters.
// Every failure is a *errors.ConfigError.
type Validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSubredditName checks if a subreddit name is valid according to Reddit's naming rules.
// Returns an error if the name is invalid.
func (v *Validator) ValidateSubredditName(name string) error {
	if name == "" {
		return &pkgerrs.ConfigError{Field: "subreddit", Message: "subreddit name cannot be empty"}
	}
	if len(name) < minSubredditLength {
		return &pkgerrs.ConfigError{Field: "subreddit", Message: fmt.Sprintf("subreddit name must be at least %d characters", minSubredditLength)}
	}
	if len(name) > maxSubredditLength {
		return &pkgerrs.ConfigError{Field: "subreddit", Message: fmt.Sprintf("subreddit name cannot exceed %d characters", maxSubredditLength)}
	}
	if name[0] == '_' || name[len(name)-1] == '_' {
		return &pkgerrs.ConfigError{Field: "subreddit", Message: "subreddit name cannot start or end with underscore"}
	}
	if strings.Contains(name, "__") {
		return &pkgerrs.ConfigError{Field: "subreddit", Message: "subreddit name cannot contain consecutive underscores"}
	}
	if !validation.IsValidSubreddit(name) {
		for i, ch := range name {
			if !(ch >= 'a' && ch <= 'z') && !(ch >= 'A' && ch <= 'Z') && !(ch >= '0' && ch <= '9') && ch != '_' {
				return &pkgerrs.ConfigError{Field: "subreddit", Message: fmt.Sprintf("subreddit name contains invalid character '%c' at position %d", ch, i)}
			}
		}
		return &pkgerrs.ConfigError{Field: "subreddit", Message: "subreddit name is malformed"}
	}
	return nil
}

// ValidateUsername checks a Reddit account name.
func (v *Validator) ValidateUsername(name string) error {
	if name == "" {
		return &pkgerrs.ConfigError{Field: "username", Message: "username cannot be empty"}
	}
	if !validation.IsValidUsername(name) {
		return &pkgerrs.ConfigError{Field: "username", Message: fmt.Sprintf("invalid username %q", name)}
	}
	return nil
}

// ValidatePagination checks if pagination parameters are valid. Limits
// above the API maximum are clamped by the listing rather than rejected.
func (v *Validator) ValidatePagination(pagination *types.Pagination) error {
	if pagination == nil {
		return nil
	}
	// Reddit API doesn't allow both After and Before to be set
	if pagination.After != "" && pagination.Before != "" {
		return &pkgerrs.ConfigError{Field: "pagination", Message: "cannot set both After and Before pagination parameters"}
	}
	if pagination.Limit < 0 {
		return &pkgerrs.ConfigError{Field: "pagination.Limit", Message: "limit cannot be negative"}
	}
	for field, anchor := range map[string]string{"pagination.After": pagination.After, "pagination.Before": pagination.Before} {
		if anchor != "" && !validation.IsValidFullname(anchor) {
			return &pkgerrs.ConfigError{Field: field, Message: fmt.Sprintf("invalid fullname %q", anchor)}
		}
	}
	return nil
}

// ValidateTimeFilter accepts the empty filter and Reddit's named windows.
func (v *Validator) ValidateTimeFilter(t types.TimeFilter) error {
	switch t {
	case "", types.TimeHour, types.TimeDay, types.TimeWeek, types.TimeMonth, types.TimeYear, types.TimeAll:
		return nil
	}
	return &pkgerrs.ConfigError{Field: "time", Message: fmt.Sprintf("unknown time filter %q", t)}
}

// ValidateCommentSort accepts the empty sort and Reddit's comment orders.
func (v *Validator) ValidateCommentSort(s types.CommentSort) error {
	switch s {
	case "", types.SortConfidence, types.SortTop, types.SortNew, types.SortControversial, types.SortOld, types.SortQA:
		return nil
	}
	return &pkgerrs.ConfigError{Field: "sort", Message: fmt.Sprintf("unknown comment sort %q", s)}
}

// ValidateCommentIDs checks every id of a morechildren request. Ids may
// carry the "t1_" prefix.
func (v *Validator) ValidateCommentIDs(ids []string) error {
	for i, id := range ids {
		if err := validateCommentID(strings.TrimPrefix(id, types.KindComment+"_")); err != nil {
			return &pkgerrs.ConfigError{
				Field:   fmt.Sprintf("CommentIDs[%d]", i),
				Message: fmt.Sprintf("invalid comment ID at index %d: %v", i, err),
			}
		}
	}
	return nil
}

// ValidateLinkID checks a post id with or without its "t3_" prefix and
// returns the fullname.
func (v *Validator) ValidateLinkID(linkID string) (string, error) {
	if linkID == "" {
		return "", &pkgerrs.ConfigError{Field: "LinkID", Message: "link ID is required"}
	}

	kind, id, ok := types.SplitFullname(linkID)
	if ok && kind != types.KindLink {
		return "", &pkgerrs.ConfigError{Field: "LinkID", Message: fmt.Sprintf("wrong type prefix %q, expected %s_", kind, types.KindLink)}
	}
	if linkID == types.KindLink+"_" {
		return "", &pkgerrs.ConfigError{Field: "LinkID", Message: "no content after t3_ prefix"}
	}
	if err := validateCommentID(id); err != nil {
		return "", &pkgerrs.ConfigError{Field: "LinkID", Message: err.Error()}
	}
	return types.Fullname(types.KindLink, id), nil
}

// ValidateFullname checks that name is a fullname of the given kind.
func (v *Validator) ValidateFullname(field, name, kind string) error {
	if !validation.IsValidFullname(name) {
		return &pkgerrs.ConfigError{Field: field, Message: fmt.Sprintf("invalid fullname %q", name)}
	}
	if kind != "" && !strings.HasPrefix(name, kind+"_") {
		return &pkgerrs.ConfigError{Field: field, Message: fmt.Sprintf("expected a %s_ fullname, got %q", kind, name)}
	}
	return nil
}

// ValidateUserAgent validates the User-Agent string to prevent header injection attacks.
func (v *Validator) ValidateUserAgent(ua string) error {
	// User-Agent cannot be empty (should have been set to default before this check)
	if len(ua) == 0 {
		return &pkgerrs.ConfigError{Field: "UserAgent", Message: "user agent cannot be empty"}
	}

	// Check for newline characters that could be used for header injection
	if strings.ContainsAny(ua, "\r\n") {
		return &pkgerrs.ConfigError{Field: "UserAgent", Message: "user agent cannot contain newline characters"}
	}

	if len(ua) > maxUserAgentLength {
		return &pkgerrs.ConfigError{Field: "UserAgent", Message: fmt.Sprintf("user agent too long (max %d characters)", maxUserAgentLength)}
	}

	return nil
}

// validateCommentID validates the format and content of a single base36 id.
func validateCommentID(id string) error {
	if len(id) == 0 {
		return fmt.Errorf("comment ID cannot be empty")
	}

	if len(id) > maxCommentIDLength {
		return fmt.Errorf("comment ID too long (max %d characters)", maxCommentIDLength)
	}

	// Reddit ids are base36; uppercase is tolerated and lowercased by the API.
	for _, char := range id {
		if !((char >= '0' && char <= '9') ||
			(char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z')) {
			return fmt.Errorf("comment ID contains invalid character: %c (only alphanumeric allowed)", char)
		}
	}

	return nil
}
