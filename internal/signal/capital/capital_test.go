package capital

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fundflow/internal/config"
	"fundflow/internal/logging"
	"fundflow/internal/signal"
)

func newTestAdapter(t *testing.T, handler http.Handler) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := signal.NewClient(2*time.Second, logging.NewNop())
	return New(client, config.CapitalSourceConfig{
		BaseURL:          srv.URL,
		SecondaryBaseURL: srv.URL,
	}, logging.NewNop())
}

func TestListCandidates(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/currencies" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"data":[
			{"id":178101,"name":"Drosera","symbol":"DRO","slug":"drosera"},
			{"id":"union-1","name":"Union","symbol":"U","slug":"union"}
		]}`))
	}))

	res := a.ListCandidates(context.Background(), 10)
	if !res.OK() {
		t.Fatalf("status = %v, err = %v", res.Status, res.Err)
	}
	if len(res.Value) != 2 {
		t.Fatalf("len = %d, want 2", len(res.Value))
	}
	if res.Value[0].ID != "178101" {
		t.Errorf("numeric id normalized to %q", res.Value[0].ID)
	}
	if res.Value[1].ID != "union-1" {
		t.Errorf("string id = %q", res.Value[1].ID)
	}
}

func TestResolveIDExactEqualityOnly(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"id":1,"name":"Drosera Network","symbol":"DRO"},
			{"id":2,"name":"Union","symbol":"U"}
		]}`))
	}))

	tests := []struct {
		name   string
		symbol string
		wantID string
		status signal.Status
	}{
		{"union", "", "2", signal.StatusData},
		{"UNION", "", "2", signal.StatusData},
		{"nothing", "dro", "1", signal.StatusData},
		{"drosera", "", "", signal.StatusNoData}, // containment must not match
	}
	for _, tt := range tests {
		res := a.ResolveID(context.Background(), tt.name, tt.symbol)
		if res.Status != tt.status {
			t.Errorf("ResolveID(%q, %q) status = %v, want %v", tt.name, tt.symbol, res.Status, tt.status)
			continue
		}
		if res.OK() && res.Value != tt.wantID {
			t.Errorf("ResolveID(%q, %q) = %q, want %q", tt.name, tt.symbol, res.Value, tt.wantID)
		}
	}
}

func TestDetail(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/currencies/42" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"data":{
			"id":42,"name":"Zama","symbol":"ZAMA",
			"shortDescription":"FHE for blockchains",
			"category":"Security","stage":"testnet",
			"lastUpdated":"2025-03-01T00:00:00Z",
			"links":[
				{"type":"web","value":"https://zama.ai"},
				{"type":"twitter","value":"https://twitter.com/zama_fhe/"},
				{"type":"github","value":"https://github.com/zama-ai"}
			],
			"tokens":[{"totalRaised":73000000}],
			"investors":[{"name":"Multicoin Capital"},{"name":"Protocol Labs"}]
		}}`))
	}))

	res := a.Detail(context.Background(), "42")
	if !res.OK() {
		t.Fatalf("status = %v, err = %v", res.Status, res.Err)
	}
	d := res.Value
	if d.Description != "FHE for blockchains" {
		t.Errorf("shortDescription fallback missing: %q", d.Description)
	}
	if d.Sector != "Security" {
		t.Errorf("category fallback missing: %q", d.Sector)
	}
	if d.Website != "https://zama.ai" || d.RepoURL != "https://github.com/zama-ai" {
		t.Errorf("links = %q / %q", d.Website, d.RepoURL)
	}
	if d.SocialHandle != "zama_fhe" {
		t.Errorf("handle = %q, want bare handle", d.SocialHandle)
	}
	if d.TotalRaisedUSD != 73000000 {
		t.Errorf("totalRaised = %v", d.TotalRaisedUSD)
	}
	if len(d.Investors) != 2 {
		t.Errorf("investors = %v", d.Investors)
	}
	if d.LastUpdated.IsZero() {
		t.Error("lastUpdated not parsed")
	}
}

func TestDetailFailureDegrades(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	res := a.Detail(context.Background(), "42")
	if res.Status != signal.StatusFailure {
		t.Fatalf("status = %v, want failure", res.Status)
	}
	if res.Err == nil {
		t.Error("failure result must carry the cause")
	}
}

func TestSecondarySearchAndDetail(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			if r.URL.Query().Get("query") != "uniswap" {
				w.Write([]byte(`{"coins":[]}`))
				return
			}
			w.Write([]byte(`{"coins":[{"id":"uniswap","name":"Uniswap","symbol":"UNI"}]}`))
		case "/coins/uniswap":
			w.Write([]byte(`{
				"id":"uniswap",
				"asset_platform_id":"ethereum",
				"description":{"en":"AMM protocol"},
				"links":{"repos_url":{"github":["https://github.com/Uniswap/v4-core"]}}
			}`))
		default:
			http.NotFound(w, r)
		}
	}))

	search := a.SearchSecondary(context.Background(), "uniswap")
	if !search.OK() || search.Value.ID != "uniswap" {
		t.Fatalf("search = %+v", search)
	}

	detail := a.SecondaryDetail(context.Background(), search.Value.ID)
	if !detail.OK() {
		t.Fatalf("detail status = %v", detail.Status)
	}
	if detail.Value.RepoURL != "https://github.com/Uniswap/v4-core" {
		t.Errorf("repo = %q", detail.Value.RepoURL)
	}
	if detail.Value.PlatformID != "ethereum" {
		t.Errorf("platform = %q", detail.Value.PlatformID)
	}

	empty := a.SearchSecondary(context.Background(), "nothing-here")
	if empty.Status != signal.StatusNoData {
		t.Errorf("empty search status = %v, want no-data", empty.Status)
	}
}
