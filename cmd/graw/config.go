package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/cobra"

	"github.com/jamesprial/graw"
)

// fileConfig is the shape of the --config file.
type fileConfig struct {
	ClientID          string  `hcl:"client_id,optional"`
	ClientSecret      string  `hcl:"client_secret,optional"`
	Username          string  `hcl:"username,optional"`
	Password          string  `hcl:"password,optional"`
	UserAgent         string  `hcl:"user_agent,optional"`
	BaseURL           string  `hcl:"base_url,optional"`
	AuthURL           string  `hcl:"auth_url,optional"`
	LogLevel          string  `hcl:"log_level,optional"`
	RequestsPerMinute float64 `hcl:"requests_per_minute,optional"`
	Burst             int     `hcl:"burst,optional"`
}

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath   string
	logLevel     string
	clientID     string
	clientSecret string
	username     string
	password     string
	userAgent    string
}

func (o *globalOptions) addFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "HCL file with credentials and client settings")
	flags.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn or error (default warn)")
	flags.StringVar(&o.clientID, "client-id", "", "OAuth client ID (env REDDIT_CLIENT_ID)")
	flags.StringVar(&o.clientSecret, "client-secret", "", "OAuth client secret (env REDDIT_CLIENT_SECRET)")
	flags.StringVar(&o.username, "username", "", "account name for user authentication (env REDDIT_USERNAME)")
	flags.StringVar(&o.password, "password", "", "account password (env REDDIT_PASSWORD)")
	flags.StringVar(&o.userAgent, "user-agent", "", "User-Agent header (env REDDIT_USER_AGENT)")
}

// resolve merges the config file, the environment and flags, in that order
// of precedence from lowest to highest.
func (o *globalOptions) resolve(getenv func(string) string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if o.configPath != "" {
		if err := hclsimple.DecodeFile(o.configPath, nil, cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", o.configPath, err)
		}
	}

	for _, s := range []struct {
		dst  *string
		env  string
		flag string
	}{
		{&cfg.ClientID, "REDDIT_CLIENT_ID", o.clientID},
		{&cfg.ClientSecret, "REDDIT_CLIENT_SECRET", o.clientSecret},
		{&cfg.Username, "REDDIT_USERNAME", o.username},
		{&cfg.Password, "REDDIT_PASSWORD", o.password},
		{&cfg.UserAgent, "REDDIT_USER_AGENT", o.userAgent},
		{&cfg.LogLevel, "REDDIT_LOG_LEVEL", o.logLevel},
	} {
		if v := getenv(s.env); v != "" {
			*s.dst = v
		}
		if s.flag != "" {
			*s.dst = s.flag
		}
	}

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("client id and secret are required (--client-id/--client-secret, REDDIT_CLIENT_ID/REDDIT_CLIENT_SECRET or --config)")
	}
	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// clientConfig turns the merged settings into a graw.Config logging to w.
func (c *fileConfig) clientConfig(w io.Writer) (*graw.Config, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	config := &graw.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Username:     c.Username,
		Password:     c.Password,
		UserAgent:    c.UserAgent,
		BaseURL:      c.BaseURL,
		AuthURL:      c.AuthURL,
		Logger:       slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
	}
	if c.RequestsPerMinute > 0 || c.Burst > 0 {
		config.RateLimit = &graw.RateLimitConfig{RequestsPerMinute: c.RequestsPerMinute, Burst: c.Burst}
	}
	return config, nil
}

// newClient builds a client from the global options, logging to stderr.
func (o *globalOptions) newClient() (*graw.Client, error) {
	cfg, err := o.resolve(os.Getenv)
	if err != nil {
		return nil, err
	}
	config, err := cfg.clientConfig(os.Stderr)
	if err != nil {
		return nil, err
	}
	return graw.NewClient(config)
}
