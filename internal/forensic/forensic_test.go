package forensic

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"fundflow/internal/classify"
	"fundflow/internal/config"
	"fundflow/internal/logging"
	"fundflow/internal/signal"
	"fundflow/internal/signal/news"
)

func newResearcher(t *testing.T, site http.Handler, depth, maxSublinks int) (*Researcher, string) {
	t.Helper()
	siteSrv := httptest.NewServer(site)
	t.Cleanup(siteSrv.Close)

	// News source returns nothing; website resolution happens by kind.
	newsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"articles":[]}`)
	}))
	t.Cleanup(newsSrv.Close)

	client := signal.NewClient(2*time.Second, logging.NewNop())
	newsAdapter := news.New(client, config.NewsSourceConfig{BaseURL: newsSrv.URL}, logging.NewNop())
	return New(client, newsAdapter, depth, maxSublinks, logging.NewNop()), siteSrv.URL
}

func homepage(base string) string {
	return fmt.Sprintf(`<!DOCTYPE html><html><head>
<title>Acme | Settlement for rollups</title>
<meta name="description" content="Acme settles rollup proofs.">
<script type="application/ld+json">{"@type":"Organization","name":"Acme Labs","description":"Rollup settlement."}</script>
</head><body>
<p>Scaling blockchain consensus for everyone.</p>
<a href="https://github.com/acme-labs/core">Code</a>
<a href="https://x.com/acme_labs">Follow</a>
<a href="https://t.me/acmelabs">Chat</a>
<a href="https://discord.gg/acme">Discord</a>
<a href="%s/careers">We are hiring</a>
<a href="%s/docs">Documentation</a>
</body></html>`, base, base)
}

func TestResearchDomainKind(t *testing.T) {
	var mux http.ServeMux
	var r *Researcher
	var base string
	mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, homepage(base))
	})
	mux.HandleFunc("/careers", func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, `<html><body>Open positions</body></html>`)
	})
	mux.HandleFunc("/docs", func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, `<html><body>Docs</body></html>`)
	})
	r, base = newResearcher(t, &mux, 1, 2)

	id := r.Research(context.Background(), base, classify.KindDomain)

	if id.Name != "Acme Labs" {
		t.Errorf("name = %q, want JSON-LD name preferred over title", id.Name)
	}
	if id.Description != "Acme settles rollup proofs." {
		t.Errorf("description = %q", id.Description)
	}
	if id.RepoURL != "https://github.com/acme-labs/core" {
		t.Errorf("repo = %q", id.RepoURL)
	}
	if id.SocialHandle != "acme_labs" {
		t.Errorf("handle = %q", id.SocialHandle)
	}
	if id.TelegramURL == "" || id.DiscordURL == "" {
		t.Errorf("chat links = %q / %q", id.TelegramURL, id.DiscordURL)
	}
	if !id.Hiring {
		t.Error("hiring flag not set from careers link")
	}
	if id.SectorHint != "Infrastructure" {
		t.Errorf("sector = %q", id.SectorHint)
	}
}

func TestResearchTitleFallback(t *testing.T) {
	r, base := newResearcher(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, `<html><head><title>Acme | Settlement</title></head><body>hi</body></html>`)
	}), 1, 2)

	id := r.Research(context.Background(), base, classify.KindDomain)
	if id.Name != "Acme" {
		t.Errorf("name = %q, want first title segment", id.Name)
	}
}

func TestResearchRepoSlugKind(t *testing.T) {
	r, _ := newResearcher(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.NotFound(w, req)
	}), 1, 2)

	id := r.Research(context.Background(), "acme/core", classify.KindRepoSlug)
	if id.RepoURL != "https://github.com/acme/core" {
		t.Errorf("repo = %q", id.RepoURL)
	}
	if id.Name == "" {
		t.Error("name fallback missing")
	}
}

func TestCrawlBounds(t *testing.T) {
	var fetches int64
	var base string
	handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		atomic.AddInt64(&fetches, 1)
		// Every page links to many crawlable sub-pages; an unbounded
		// crawler would never stop.
		fmt.Fprintf(w, `<html><body>
			<a href="%s/docs/a">docs</a>
			<a href="%s/docs/b">docs</a>
			<a href="%s/docs/c">docs</a>
			<a href="%s/team/x">team</a>
		</body></html>`, base, base, base, base)
	})

	r, url := newResearcher(t, handler, 1, 2)
	base = url

	r.Research(context.Background(), base, classify.KindDomain)

	// Homepage plus at most maxSublinks sub-pages, one hop deep.
	if n := atomic.LoadInt64(&fetches); n != 3 {
		t.Errorf("fetched %d pages, want 3 (1 homepage + 2 sublinks)", n)
	}
}

func TestHandleKindKeepsHandle(t *testing.T) {
	r, _ := newResearcher(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.NotFound(w, req)
	}), 1, 2)

	id := r.Research(context.Background(), "@drosera_io", classify.KindHandle)
	if id.SocialHandle != "drosera_io" {
		t.Errorf("handle = %q", id.SocialHandle)
	}
}
