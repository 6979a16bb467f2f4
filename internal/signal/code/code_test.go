package code

import (
	"context"
	"fmt"
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
	return New(client, config.CodeSourceConfig{BaseURL: srv.URL}, logging.NewNop())
}

func TestSplitRepoURL(t *testing.T) {
	tests := []struct {
		in    string
		owner string
		repo  string
		ok    bool
	}{
		{"https://github.com/paradigm/repo", "paradigm", "repo", true},
		{"https://github.com/zama-ai", "zama-ai", "", true},
		{"paradigm/repo", "paradigm", "repo", true},
		{"https://gitlab.com/x/y", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		owner, repo, ok := splitRepoURL(tt.in)
		if owner != tt.owner || repo != tt.repo || ok != tt.ok {
			t.Errorf("splitRepoURL(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.in, owner, repo, ok, tt.owner, tt.repo, tt.ok)
		}
	}
}

func TestRepoStats(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/core":
			fmt.Fprint(w, `{"name":"core","stargazers_count":420,"forks_count":33,
				"open_issues_count":7,"pushed_at":"2026-08-20T12:00:00Z"}`)
		case "/repos/acme/core/commits":
			fmt.Fprint(w, `[{"sha":"a"},{"sha":"b"},{"sha":"c"}]`)
		default:
			http.NotFound(w, r)
		}
	}))

	res := a.RepoStats(context.Background(), "https://github.com/acme/core")
	if !res.OK() {
		t.Fatalf("status = %v, err = %v", res.Status, res.Err)
	}
	s := res.Value
	if s.Stars != 420 || s.Forks != 33 || s.OpenIssues != 7 {
		t.Errorf("stats = %+v", s)
	}
	if s.Commits30d != 3 {
		t.Errorf("commits = %d, want 3", s.Commits30d)
	}
	if s.LastPush.IsZero() {
		t.Error("pushed_at not parsed")
	}
}

func TestRepoStatsOrgResolution(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/orgs/acme/repos":
			fmt.Fprint(w, `[
				{"name":"docs","stargazers_count":5},
				{"name":"core","stargazers_count":900},
				{"name":"sdk","stargazers_count":120}
			]`)
		case "/repos/acme/core":
			fmt.Fprint(w, `{"name":"core","stargazers_count":900}`)
		case "/repos/acme/core/commits":
			fmt.Fprint(w, `[]`)
		default:
			http.NotFound(w, r)
		}
	}))

	res := a.RepoStats(context.Background(), "https://github.com/acme")
	if !res.OK() {
		t.Fatalf("status = %v, err = %v", res.Status, res.Err)
	}
	if res.Value.Repo != "core" || res.Value.Stars != 900 {
		t.Errorf("resolved %q with %d stars, want most-starred org repo", res.Value.Repo, res.Value.Stars)
	}
}

func TestSignalBuckets(t *testing.T) {
	stats := func(commits int) signal.Result[RepoStats] {
		return signal.Data(SourceName, RepoStats{Commits30d: commits})
	}
	tests := []struct {
		res  signal.Result[RepoStats]
		want string
	}{
		{stats(80), SignalIndustrial},
		{stats(51), SignalIndustrial},
		{stats(50), SignalActive},
		{stats(11), SignalActive},
		{stats(10), SignalMaintenance},
		{stats(1), SignalMaintenance},
		{stats(0), SignalStale},
		{signal.NoData[RepoStats](SourceName), SignalNoCode},
		{signal.Failure[RepoStats](SourceName, context.DeadlineExceeded), SignalNoCode},
	}
	for _, tt := range tests {
		if got := Signal(tt.res); got != tt.want {
			t.Errorf("Signal(%v commits, status %v) = %q, want %q",
				tt.res.Value.Commits30d, tt.res.Status, got, tt.want)
		}
	}
}

func TestRepoStatsNonRepoURL(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a non-repo URL")
	}))
	res := a.RepoStats(context.Background(), "https://example.com/whitepaper")
	if res.Status != signal.StatusNoData {
		t.Errorf("status = %v, want no-data", res.Status)
	}
}
