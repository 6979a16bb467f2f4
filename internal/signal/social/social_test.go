package social

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

func newTestAdapter(t *testing.T, token string, handler http.Handler) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := signal.NewClient(2*time.Second, logging.NewNop())
	return New(client, config.SocialSourceConfig{BaseURL: srv.URL, BearerToken: token}, logging.NewNop())
}

func TestUserMetrics(t *testing.T) {
	a := newTestAdapter(t, "tok", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/by/username/drosera_io" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"data":{"id":"123","verified":true,
			"public_metrics":{"followers_count":15000,"following_count":10,"tweet_count":400,"listed_count":12}}}`)
	}))

	res := a.UserMetrics(context.Background(), "@drosera_io")
	if !res.OK() {
		t.Fatalf("status = %v, err = %v", res.Status, res.Err)
	}
	if res.Value.Followers != 15000 || !res.Value.Verified {
		t.Errorf("profile = %+v", res.Value)
	}
}

func TestUserMetricsNoToken(t *testing.T) {
	a := newTestAdapter(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without a bearer token")
	}))
	res := a.UserMetrics(context.Background(), "drosera_io")
	if res.Status != signal.StatusNoData {
		t.Errorf("status = %v, want no-data", res.Status)
	}
}

func TestUserMetricsRateLimited(t *testing.T) {
	a := newTestAdapter(t, "tok", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	res := a.UserMetrics(context.Background(), "drosera_io")
	if res.Status != signal.StatusFailure {
		t.Errorf("status = %v, want failure", res.Status)
	}
}

func TestUserMetricsUnknownHandle(t *testing.T) {
	a := newTestAdapter(t, "tok", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errors":[{"title":"Not Found Error"}]}`)
	}))
	res := a.UserMetrics(context.Background(), "no_such_handle")
	if res.Status != signal.StatusNoData {
		t.Errorf("status = %v, want no-data", res.Status)
	}
}
