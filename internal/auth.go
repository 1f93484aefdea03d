package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
)

const (
	defaultTokenEndpointPath  = "api/v1/access_token"
	defaultRevokeEndpointPath = "api/v1/revoke_token"

	// tokenExpiryMargin is how long before expiry a token is treated as stale.
	tokenExpiryMargin = 30 * time.Second
	// defaultTokenLifetime applies when the grant response omits expires_in.
	defaultTokenLifetime = time.Hour

	GrantPassword          = "password"
	GrantClientCredentials = "client_credentials"
)

// Authenticator is an OAuth2 token cache. It obtains a token with the
// configured grant, hands it out until shortly before it expires and then
// fetches a new one. All methods are safe for concurrent use; a single mutex
// covers check-and-refresh so concurrent callers never refresh twice.
type Authenticator struct {
	client       *http.Client
	clientID     string
	clientSecret string
	userAgent    string
	BaseURL      *url.URL
	tokenURL     *url.URL
	revokeURL    *url.URL
	formData     url.Values
	logger       *slog.Logger
	now          func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewAuthenticator creates a new authenticator. grantType is GrantPassword or
// GrantClientCredentials; username and password are only sent for the former.
func NewAuthenticator(httpClient *http.Client, username, password, clientID, clientSecret, userAgent, baseURL, grantType string, logger *slog.Logger) (*Authenticator, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, &pkgerrs.AuthError{Err: fmt.Errorf("failed to parse base URL: %w", err)}
	}
	if !strings.HasSuffix(parsedURL.Path, "/") {
		parsedURL.Path += "/"
	}

	tokenURL, err := parsedURL.Parse(defaultTokenEndpointPath)
	if err != nil {
		return nil, &pkgerrs.AuthError{Err: fmt.Errorf("failed to parse token endpoint path: %w", err)}
	}
	revokeURL, err := parsedURL.Parse(defaultRevokeEndpointPath)
	if err != nil {
		return nil, &pkgerrs.AuthError{Err: fmt.Errorf("failed to parse revoke endpoint path: %w", err)}
	}

	form := url.Values{}
	form.Set("grant_type", grantType)
	if grantType == GrantPassword {
		form.Set("username", username)
		form.Set("password", password)
	}

	return &Authenticator{
		client:       httpClient,
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		BaseURL:      parsedURL,
		tokenURL:     tokenURL,
		revokeURL:    revokeURL,
		formData:     form,
		logger:       logger,
		now:          time.Now,
	}, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
	Error       string `json:"error"`
}

// GetToken returns the cached access token, fetching a new one first when
// none is cached or the cached one is about to expire.
func (a *Authenticator) GetToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.needsRefreshLocked() {
		return a.token, nil
	}
	if err := a.refreshLocked(ctx); err != nil {
		return "", err
	}
	return a.token, nil
}

// Headers returns the headers every authenticated API request carries.
func (a *Authenticator) Headers(ctx context.Context) (map[string]string, error) {
	token, err := a.GetToken(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"Authorization": "bearer " + token,
		"User-Agent":    a.userAgent,
	}, nil
}

// NeedsRefresh reports whether the next GetToken call will fetch a new token.
func (a *Authenticator) NeedsRefresh() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.needsRefreshLocked()
}

// Refresh unconditionally fetches a new token.
func (a *Authenticator) Refresh(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.refreshLocked(ctx)
}

// Invalidate drops the cached token if it is still stale. A token that was
// already replaced by a concurrent refresh is left alone.
func (a *Authenticator) Invalidate(stale string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.token == stale {
		a.token = ""
		a.expiry = time.Time{}
	}
}

// Revoke asks Reddit to revoke the cached token and clears it. It is a no-op
// when no token is cached.
func (a *Authenticator) Revoke(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token == "" {
		return nil
	}

	form := url.Values{}
	form.Set("token", a.token)
	form.Set("token_type_hint", "access_token")

	resp, body, err := a.post(ctx, a.revokeURL, form)
	if err != nil {
		return &pkgerrs.AuthError{Err: fmt.Errorf("failed to execute revoke request: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &pkgerrs.AuthError{StatusCode: resp.StatusCode, Message: "token revocation failed", Body: string(body)}
	}

	a.token = ""
	a.expiry = time.Time{}
	a.logger.Debug("access token revoked")
	return nil
}

func (a *Authenticator) needsRefreshLocked() bool {
	return a.token == "" || !a.now().Before(a.expiry.Add(-tokenExpiryMargin))
}

func (a *Authenticator) refreshLocked(ctx context.Context) error {
	resp, bodyBytes, err := a.post(ctx, a.tokenURL, a.formData)
	if err != nil {
		tokenRefreshes.WithLabelValues("error").Inc()
		return &pkgerrs.AuthError{Err: fmt.Errorf("failed to execute token request: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		tokenRefreshes.WithLabelValues("error").Inc()
		return &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
		}
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(bodyBytes, &tokenResp); err != nil {
		tokenRefreshes.WithLabelValues("error").Inc()
		return &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
			Err:        fmt.Errorf("failed to unmarshal token response: %w", err),
		}
	}

	// Reddit reports bad credentials as a 200 with an "error" field.
	if tokenResp.Error != "" {
		tokenRefreshes.WithLabelValues("error").Inc()
		return &pkgerrs.AuthError{StatusCode: resp.StatusCode, Message: tokenResp.Error}
	}

	if tokenResp.AccessToken == "" {
		tokenRefreshes.WithLabelValues("error").Inc()
		return &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
			Err:        fmt.Errorf("access token was empty in response"),
		}
	}

	lifetime := time.Duration(tokenResp.ExpiresIn) * time.Second
	if lifetime <= 0 {
		lifetime = defaultTokenLifetime
	}

	a.token = tokenResp.AccessToken
	a.expiry = a.now().Add(lifetime)
	tokenRefreshes.WithLabelValues("ok").Inc()
	a.logger.Debug("access token refreshed", "grant_type", a.formData.Get("grant_type"), "expires_in", lifetime)
	return nil
}

func (a *Authenticator) post(ctx context.Context, target *url.URL, form url.Values) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, nil, err
	}

	req.SetBasicAuth(a.clientID, a.clientSecret)
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp, body, nil
}
