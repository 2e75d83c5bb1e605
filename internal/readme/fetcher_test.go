// ABOUTME: Tests for the README fetcher against a local HTTP server
// ABOUTME: Covers candidate names, GitLab paths, auth headers, retries and not-found
package readme

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/harper/plugstore/internal/models"
)

func newTestFetcher(base string, names ...string) *Fetcher {
	return NewFetcher(Config{
		Names:         names,
		MaxRetries:    2,
		GitHubRawBase: base,
		GitHubToken:   "gh-secret",
		GitLabToken:   "gl-secret",
	}, log.New(io.Discard))
}

func TestFetcher_GitHubCandidates(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/me/plug/main/readme.md":
			auth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte("# plug\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	repo := models.Repository{FullName: "me/plug", Branch: "main"}
	got, err := newTestFetcher(srv.URL, "README.md", "readme.md").Fetch(context.Background(), repo)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got.Path != "readme.md" {
		t.Errorf("Path = %q, want readme.md", got.Path)
	}
	if got.Text != "# plug\n" {
		t.Errorf("Text = %q", got.Text)
	}
	if auth != "Bearer gh-secret" {
		t.Errorf("Authorization = %q, want bearer token", auth)
	}
}

func TestFetcher_DefaultBranchIsHead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/plug/HEAD/README.md" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	got, err := newTestFetcher(srv.URL, "README.md").Fetch(context.Background(), models.Repository{FullName: "me/plug"})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got.Text != "ok" {
		t.Errorf("Text = %q, want ok", got.Text)
	}
}

func TestFetcher_GitLab(t *testing.T) {
	var token string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/group/plug/-/raw/dev/README.md" {
			http.NotFound(w, r)
			return
		}
		token = r.Header.Get("PRIVATE-TOKEN")
		_, _ = w.Write([]byte("gitlab readme"))
	}))
	defer srv.Close()

	repo := models.Repository{
		Source:   models.SourceGitLab,
		FullName: "group/plug",
		URL:      srv.URL + "/group/plug",
		Branch:   "dev",
	}
	got, err := newTestFetcher("http://unused.invalid", "README.md").Fetch(context.Background(), repo)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got.Text != "gitlab readme" {
		t.Errorf("Text = %q", got.Text)
	}
	if token != "gl-secret" {
		t.Errorf("PRIVATE-TOKEN = %q, want gl-secret", token)
	}
}

func TestFetcher_NotFound(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv.URL, "README.md", "readme.md").Fetch(context.Background(), models.Repository{FullName: "me/plug"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Fetch() error = %v, want ErrNotFound", err)
	}
	if hits.Load() != 2 {
		t.Errorf("hits = %d, want one per candidate without retries", hits.Load())
	}
}

func TestFetcher_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("finally"))
	}))
	defer srv.Close()

	got, err := newTestFetcher(srv.URL, "README.md").Fetch(context.Background(), models.Repository{FullName: "me/plug"})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got.Text != "finally" {
		t.Errorf("Text = %q, want finally", got.Text)
	}
	if hits.Load() != 3 {
		t.Errorf("hits = %d, want 3", hits.Load())
	}
}

func TestFetcher_ClientErrorIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv.URL, "README.md").Fetch(context.Background(), models.Repository{FullName: "me/plug"})
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("Fetch() error = %v, want a status error", err)
	}
	if hits.Load() != 1 {
		t.Errorf("hits = %d, want 1", hits.Load())
	}
}

func TestFetcher_InvalidRepository(t *testing.T) {
	if _, err := newTestFetcher("http://unused.invalid").Fetch(context.Background(), models.Repository{FullName: "plug"}); err == nil {
		t.Error("Fetch() should reject an invalid repository")
	}
}
