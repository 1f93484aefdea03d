package validation

import (
	"testing"
)

func TestIsValidBase36(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid lowercase", "abc123", true},
		{"valid numbers", "123456", true},
		{"valid mixed", "1a2b3c", true},
		{"invalid uppercase", "ABC123", false},
		{"invalid special chars", "abc_123", false},
		{"empty string", "", false},
		{"invalid hyphen", "abc-123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidBase36(tt.input); got != tt.want {
				t.Errorf("IsValidBase36(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidSubreddit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid lowercase", "golang", true},
		{"valid with underscore", "ask_reddit", true},
		{"valid mixed case", "AskReddit", true},
		{"valid at min length", "abc", true},
		{"valid at max length", "a123456789012345678_x", true},
		{"invalid too short", "ab", false},
		{"invalid too long", "a1234567890123456789xy", false},
		{"invalid hyphen", "ask-reddit", false},
		{"invalid space", "ask reddit", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidSubreddit(tt.input); got != tt.want {
				t.Errorf("IsValidSubreddit(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid lowercase", "johndoe", true},
		{"valid with underscore", "john_doe", true},
		{"valid with hyphen", "john-doe", true},
		{"valid mixed", "John_Doe-123", true},
		{"valid at min length", "abc", true},
		{"valid at max length", "a1234567890123456789", true},
		{"invalid too short", "ab", false},
		{"invalid too long", "a12345678901234567890", false},
		{"invalid space", "john doe", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidUsername(tt.input); got != tt.want {
				t.Errorf("IsValidUsername(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidFullname(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid comment", "t1_abc123", true},
		{"valid account", "t2_xyz789", true},
		{"valid post", "t3_def456", true},
		{"valid message", "t4_ghi789", true},
		{"valid subreddit", "t5_jkl012", true},
		{"valid award", "t6_mno345", true},
		{"invalid prefix t0", "t0_abc123", false},
		{"invalid prefix t7", "t7_abc123", false},
		{"invalid no underscore", "t1abc123", false},
		{"invalid uppercase ID", "t1_ABC123", false},
		{"invalid missing ID", "t1_", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidFullname(tt.input); got != tt.want {
				t.Errorf("IsValidFullname(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidPermalink(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid post permalink", "/r/golang/comments/abc123/test_post/", true},
		{"valid post without trailing slash", "/r/golang/comments/abc123/test_post", true},
		{"valid comment permalink", "/r/golang/comments/abc123/test_post/def456/", true},
		{"valid comment without trailing slash", "/r/golang/comments/abc123/test_post/def456", true},
		{"invalid no /r/ prefix", "/golang/comments/abc123/test/", false},
		{"invalid missing comments", "/r/golang/abc123/test/", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidPermalink(tt.input); got != tt.want {
				t.Errorf("IsValidPermalink(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePermalink(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Permalink
		ok    bool
	}{
		{"post path", "/r/golang/comments/abc123/test_post/", Permalink{Subreddit: "golang", PostID: "abc123"}, true},
		{"comment path", "/r/golang/comments/abc123/test_post/def456/", Permalink{Subreddit: "golang", PostID: "abc123", CommentID: "def456"}, true},
		{"full url with query", "https://www.reddit.com/r/golang/comments/abc123/test_post/?sort=new", Permalink{Subreddit: "golang", PostID: "abc123"}, true},
		{"not a permalink", "/user/someone/", Permalink{}, false},
		{"empty", "", Permalink{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePermalink(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParsePermalink(%q) = %+v, %v; want %+v, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}
