package redditest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func get(t *testing.T, s *Server, path string) (int, string) {
	t.Helper()
	resp, err := s.Client().Get(s.URL() + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestServer_QueuedResponses(t *testing.T) {
	t.Parallel()

	s := NewServer(t)
	s.Enqueue("/r/golang/hot", JSON(`"first"`), Status(http.StatusServiceUnavailable, `"second"`), JSON(`"last"`))

	want := []struct {
		code int
		body string
	}{
		{http.StatusOK, `"first"`},
		{http.StatusServiceUnavailable, `"second"`},
		{http.StatusOK, `"last"`},
		{http.StatusOK, `"last"`},
	}
	for i, w := range want {
		code, body := get(t, s, "/r/golang/hot?limit=5")
		if code != w.code || body != w.body {
			t.Errorf("response %d = %d %s, want %d %s", i, code, body, w.code, w.body)
		}
	}

	if got := s.CallCount("/r/golang/hot"); got != 4 {
		t.Errorf("CallCount = %d, want 4", got)
	}
	reqs := s.RequestsTo("/r/golang/hot")
	if len(reqs) != 4 || reqs[0].Query.Get("limit") != "5" {
		t.Errorf("unexpected request log %+v", reqs)
	}

	if code, _ := get(t, s, "/unknown"); code != http.StatusNotFound {
		t.Errorf("unrouted path status = %d, want 404", code)
	}

	s.ClearLog()
	if len(s.Requests()) != 0 || s.CallCount("/r/golang/hot") != 0 {
		t.Error("ClearLog should reset the log and counts")
	}
}

func TestServer_TokenEndpoints(t *testing.T) {
	t.Parallel()

	s := NewServer(t)
	s.SetTokenTTL(60)

	resp, err := s.Client().PostForm(s.URL()+"/api/v1/access_token", url.Values{"grant_type": {"client_credentials"}})
	if err != nil {
		t.Fatal(err)
	}
	var token struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	err = json.NewDecoder(resp.Body).Decode(&token)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if token.AccessToken != "mock_token_1" || token.ExpiresIn != 60 {
		t.Errorf("unexpected token %+v", token)
	}

	resp, err = s.Client().PostForm(s.URL()+"/api/v1/revoke_token", url.Values{"token": {token.AccessToken}})
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if s.TokensIssued() != 1 {
		t.Errorf("TokensIssued = %d", s.TokensIssued())
	}
	if got := s.Revoked(); len(got) != 1 || got[0] != "mock_token_1" {
		t.Errorf("Revoked = %v", got)
	}
	if form := s.RequestsTo("/api/v1/access_token")[0].Form; form.Get("grant_type") != "client_credentials" {
		t.Errorf("form not logged: %v", form)
	}
}

func TestBuilders_ProduceRedditShapes(t *testing.T) {
	t.Parallel()

	var listing struct {
		Kind string `json:"kind"`
		Data struct {
			After    *string `json:"after"`
			Children []struct {
				Kind string         `json:"kind"`
				Data map[string]any `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	body := Listing("t1_z", Comment("a", "t3_p", Comment("b", "t1_a")), More("t3_p", "c", "t1_d"))
	if err := json.Unmarshal([]byte(body), &listing); err != nil {
		t.Fatalf("listing does not decode: %v", err)
	}
	if listing.Kind != "Listing" || listing.Data.After == nil || *listing.Data.After != "t1_z" {
		t.Errorf("unexpected listing envelope %s", body)
	}
	if len(listing.Data.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(listing.Data.Children))
	}

	comment := listing.Data.Children[0].Data
	if comment["name"] != "t1_a" || comment["parent_id"] != "t3_p" {
		t.Errorf("unexpected comment %v", comment)
	}
	if _, ok := comment["replies"].(map[string]any); !ok {
		t.Errorf("replies should be a nested listing, got %T", comment["replies"])
	}

	more := listing.Data.Children[1].Data
	if ids, _ := more["children"].([]any); len(ids) != 2 || ids[1] != "d" {
		t.Errorf("more children = %v, want bare ids", more["children"])
	}

	if leaf := Comment("x", "t3_p"); !strings.Contains(leaf, `"replies":""`) {
		t.Errorf("leaf comment should carry empty replies: %s", leaf)
	}
	if cont := More("t1_x"); !strings.Contains(cont, `"children":[]`) {
		t.Errorf("continue-thread placeholder should have no ids: %s", cont)
	}
}

func TestTreeGenerator(t *testing.T) {
	t.Parallel()

	a := NewTreeGenerator(7).Generate("t3_post", 40, 3)
	b := NewTreeGenerator(7).Generate("t3_post", 40, 3)
	if len(a) != 40 {
		t.Fatalf("generated %d comments, want 40", len(a))
	}

	placed := map[string]int{"t3_post": -1}
	for i, c := range a {
		if c != b[i] {
			t.Fatalf("same seed produced different trees at %d", i)
		}
		depth, ok := placed[c.ParentID]
		if !ok {
			t.Fatalf("comment %s precedes its parent %s", c.ID, c.ParentID)
		}
		if c.Depth != depth+1 || c.Depth >= 3 {
			t.Errorf("comment %s has depth %d", c.ID, c.Depth)
		}
		placed[c.ID] = c.Depth
	}
}
