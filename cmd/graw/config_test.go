package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graw.hcl")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestResolve_Precedence(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
client_id           = "file-id"
client_secret       = "file-secret"
user_agent          = "file-agent/1.0"
log_level           = "info"
requests_per_minute = 30
burst               = 5
`)

	tests := []struct {
		name   string
		opts   globalOptions
		env    map[string]string
		wantID string
		wantUA string
	}{
		{
			name:   "file only",
			opts:   globalOptions{configPath: path},
			wantID: "file-id",
			wantUA: "file-agent/1.0",
		},
		{
			name:   "env overrides file",
			opts:   globalOptions{configPath: path},
			env:    map[string]string{"REDDIT_CLIENT_ID": "env-id"},
			wantID: "env-id",
			wantUA: "file-agent/1.0",
		},
		{
			name:   "flag overrides env",
			opts:   globalOptions{configPath: path, clientID: "flag-id", userAgent: "flag-agent/2.0"},
			env:    map[string]string{"REDDIT_CLIENT_ID": "env-id"},
			wantID: "flag-id",
			wantUA: "flag-agent/2.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := tt.opts.resolve(envMap(tt.env))
			if err != nil {
				t.Fatalf("resolve returned error: %v", err)
			}
			if cfg.ClientID != tt.wantID || cfg.UserAgent != tt.wantUA {
				t.Errorf("got id=%q ua=%q, want id=%q ua=%q", cfg.ClientID, cfg.UserAgent, tt.wantID, tt.wantUA)
			}
			if cfg.ClientSecret != "file-secret" || cfg.RequestsPerMinute != 30 || cfg.Burst != 5 {
				t.Errorf("file settings lost: %+v", cfg)
			}
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	t.Parallel()

	opts := globalOptions{}
	if _, err := opts.resolve(envMap(nil)); err == nil {
		t.Error("missing credentials should be an error")
	}

	bad := globalOptions{configPath: writeConfig(t, `client_id = `)}
	if _, err := bad.resolve(envMap(nil)); err == nil || !strings.Contains(err.Error(), "load config") {
		t.Errorf("malformed file should fail to load, got %v", err)
	}

	unknown := globalOptions{configPath: writeConfig(t, `favourite_colour = "blue"`)}
	if _, err := unknown.resolve(envMap(nil)); err == nil {
		t.Error("unknown attributes should be rejected")
	}
}

func TestClientConfig(t *testing.T) {
	t.Parallel()

	cfg := &fileConfig{ClientID: "id", ClientSecret: "secret", LogLevel: "debug", RequestsPerMinute: 120}
	var logs bytes.Buffer
	config, err := cfg.clientConfig(&logs)
	if err != nil {
		t.Fatalf("clientConfig returned error: %v", err)
	}
	if config.RateLimit == nil || config.RateLimit.RequestsPerMinute != 120 {
		t.Errorf("RateLimit = %+v", config.RateLimit)
	}
	config.Logger.Debug("hello")
	if !strings.Contains(logs.String(), "hello") {
		t.Error("debug level should reach the handler")
	}

	if config, _ := (&fileConfig{}).clientConfig(&logs); config.RateLimit != nil {
		t.Error("RateLimit should stay nil without settings")
	}
	if _, err := (&fileConfig{LogLevel: "loud"}).clientConfig(&logs); err == nil {
		t.Error("unknown log level should be rejected")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"":      slog.LevelWarn,
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := parseLevel(in)
		if err != nil || got != want {
			t.Errorf("parseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}

func TestThreadRequest(t *testing.T) {
	t.Parallel()

	req, err := threadRequest([]string{"golang", "abc123"})
	if err != nil || req.Subreddit != "golang" || req.PostID != "abc123" {
		t.Errorf("two args = %+v, %v", req, err)
	}

	req, err = threadRequest([]string{"https://www.reddit.com/r/golang/comments/abc123/some_title/def456/?context=3"})
	if err != nil || req.Subreddit != "golang" || req.PostID != "abc123" || req.Comment != "def456" {
		t.Errorf("permalink = %+v, %v", req, err)
	}

	if _, err := threadRequest([]string{"not-a-link"}); err == nil {
		t.Error("garbage should be rejected")
	}
}
