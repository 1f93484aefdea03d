// Package redditest provides a programmable fake Reddit API for tests.
package redditest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// Server is an httptest server answering Reddit API paths from queued
// responses. It also serves the OAuth token and revoke endpoints.
type Server struct {
	server *httptest.Server

	mu          sync.Mutex
	responses   map[string][]*Response
	defaultResp *Response
	requestLog  []RequestEntry
	callCount   map[string]int
	delay       time.Duration
	tokens      int
	revoked     []string
	tokenTTL    int
}

// RequestEntry logs incoming requests for assertions.
type RequestEntry struct {
	Method    string
	Path      string
	Query     url.Values
	Form      url.Values
	Headers   http.Header
	Timestamp time.Time
}

// Response defines a canned API response.
type Response struct {
	Status  int
	Body    string
	Headers map[string]string
	Delay   time.Duration
}

// JSON returns a 200 response with body.
func JSON(body string) *Response {
	return &Response{Status: http.StatusOK, Body: body}
}

// Status returns a response with the given status and body.
func Status(code int, body string) *Response {
	return &Response{Status: code, Body: body}
}

// NewServer starts a fake server. It is closed by t's cleanup when t is
// non-nil.
func NewServer(t interface{ Cleanup(func()) }) *Server {
	s := &Server{
		responses: make(map[string][]*Response),
		callCount: make(map[string]int),
		defaultResp: &Response{
			Status: http.StatusNotFound,
			Body:   `{"message": "Not Found", "error": 404}`,
		},
		tokenTTL: 3600,
	}
	s.server = httptest.NewServer(s)
	if t != nil {
		t.Cleanup(s.Close)
	}
	return s
}

// URL returns the base URL of the server.
func (s *Server) URL() string {
	return s.server.URL
}

// Client returns an HTTP client wired to the server.
func (s *Server) Client() *http.Client {
	return s.server.Client()
}

// Close shuts down the server.
func (s *Server) Close() {
	s.server.Close()
}

// Enqueue appends responses for path. Responses are served in order; the
// last one keeps being served once the others are used up.
func (s *Server) Enqueue(path string, responses ...*Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[path] = append(s.responses[path], responses...)
}

// SetDefaultResponse configures the response for paths with nothing queued.
func (s *Server) SetDefaultResponse(response *Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultResp = response
}

// SetDelay adds delay to all responses.
func (s *Server) SetDelay(delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = delay
}

// SetTokenTTL sets expires_in for tokens handed out from now on.
func (s *Server) SetTokenTTL(seconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenTTL = seconds
}

// Requests returns the request log.
func (s *Server) Requests() []RequestEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RequestEntry{}, s.requestLog...)
}

// RequestsTo returns the logged requests for one path.
func (s *Server) RequestsTo(path string) []RequestEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []RequestEntry
	for _, r := range s.requestLog {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// CallCount returns the number of requests made to path.
func (s *Server) CallCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callCount[path]
}

// TokensIssued returns how many access tokens were granted.
func (s *Server) TokensIssued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens
}

// Revoked returns the tokens passed to the revoke endpoint.
func (s *Server) Revoked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.revoked...)
}

// ClearLog clears the request log and call counts.
func (s *Server) ClearLog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestLog = s.requestLog[:0]
	s.callCount = make(map[string]int)
}

// WaitForRequests waits until at least count requests have been made.
func (s *Server) WaitForRequests(count int, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for %d requests", count)
		case <-ticker.C:
			s.mu.Lock()
			total := len(s.requestLog)
			s.mu.Unlock()
			if total >= count {
				return nil
			}
		}
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	entry := RequestEntry{
		Method:    r.Method,
		Path:      r.URL.Path,
		Query:     r.URL.Query(),
		Form:      r.PostForm,
		Headers:   r.Header.Clone(),
		Timestamp: time.Now(),
	}

	s.mu.Lock()
	s.requestLog = append(s.requestLog, entry)
	s.callCount[r.URL.Path]++
	delay := s.delay
	s.mu.Unlock()

	switch r.URL.Path {
	case "/api/v1/access_token":
		s.grantToken(w)
		return
	case "/api/v1/revoke_token":
		s.mu.Lock()
		s.revoked = append(s.revoked, r.PostForm.Get("token"))
		s.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
		return
	}

	response := s.next(r.URL.Path)

	if total := delay + response.Delay; total > 0 {
		select {
		case <-time.After(total):
		case <-r.Context().Done():
			return
		}
	}

	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(response.Status)
	_, _ = io.WriteString(w, response.Body)
}

func (s *Server) next(path string) *Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	queued := s.responses[path]
	switch len(queued) {
	case 0:
		return s.defaultResp
	case 1:
		return queued[0]
	}
	s.responses[path] = queued[1:]
	return queued[0]
}

func (s *Server) grantToken(w http.ResponseWriter) {
	s.mu.Lock()
	s.tokens++
	token := "mock_token_" + strconv.Itoa(s.tokens)
	ttl := s.tokenTTL
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprintf(w, `{"access_token":%q,"token_type":"bearer","expires_in":%d,"scope":"*"}`, token, ttl)
}
