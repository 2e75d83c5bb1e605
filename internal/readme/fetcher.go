// ABOUTME: README fetcher for GitHub and GitLab hosted plugins
// ABOUTME: Tries candidate file names on the raw endpoints with retries and backoff
package readme

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harper/plugstore/internal/models"
	"github.com/harper/plugstore/internal/util"
)

// ErrNotFound means no candidate README exists for the repository
var ErrNotFound = errors.New("readme not found")

// maxReadmeSize caps how much of a README is read
const maxReadmeSize = 2 << 20

// Config configures the fetcher
type Config struct {
	Names       []string
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
	GitHubToken string
	GitLabToken string

	// GitHubRawBase overrides https://raw.githubusercontent.com
	GitHubRawBase string
}

// Readme is a fetched README and the location it came from
type Readme struct {
	Path string
	Text string
}

// Fetcher downloads READMEs
type Fetcher struct {
	cfg    Config
	client *http.Client
	logger *log.Logger
}

// NewFetcher creates a fetcher
func NewFetcher(cfg Config, logger *log.Logger) *Fetcher {
	if cfg.GitHubRawBase == "" {
		cfg.GitHubRawBase = "https://raw.githubusercontent.com"
	}
	if len(cfg.Names) == 0 {
		cfg.Names = []string{"README.md"}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Fetcher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Fetch returns the first candidate README of repo, decoded and normalized to Markdown fences
func (f *Fetcher) Fetch(ctx context.Context, repo models.Repository) (*Readme, error) {
	if err := repo.Normalize(); err != nil {
		return nil, err
	}
	branch := repo.Branch
	if branch == "" {
		branch = "HEAD"
	}

	for _, name := range f.cfg.Names {
		rawURL, token := f.rawURL(repo, branch, name)
		body, err := f.get(ctx, rawURL, repo.Source, token)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
		}
		text, err := Decode(body)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", rawURL, err)
		}
		f.logger.Debug("readme fetched", "repo", repo.FullName, "path", name, "bytes", len(body))
		return &Readme{Path: name, Text: Normalize(name, text)}, nil
	}
	return nil, fmt.Errorf("%s: %w", repo.FullName, ErrNotFound)
}

func (f *Fetcher) rawURL(repo models.Repository, branch, name string) (string, string) {
	switch repo.Source {
	case models.SourceGitLab:
		return fmt.Sprintf("%s/-/raw/%s/%s", strings.TrimSuffix(repo.URL, "/"), url.PathEscape(branch), name), f.cfg.GitLabToken
	default:
		return fmt.Sprintf("%s/%s/%s/%s", strings.TrimSuffix(f.cfg.GitHubRawBase, "/"), repo.FullName, url.PathEscape(branch), name), f.cfg.GitHubToken
	}
}

func (f *Fetcher) get(ctx context.Context, rawURL string, source models.RepositorySource, token string) ([]byte, error) {
	var body []byte
	err := util.Retry(ctx, f.cfg.MaxRetries, f.cfg.RetryDelay, func(attempt int) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return util.Permanent(err)
		}
		if token != "" {
			switch source {
			case models.SourceGitLab:
				req.Header.Set("PRIVATE-TOKEN", token)
			default:
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}

		resp, err := f.client.Do(req)
		if err != nil {
			f.logger.Debug("readme request failed", "url", rawURL, "attempt", attempt, "err", err)
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return util.Permanent(ErrNotFound)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("upstream status %d", resp.StatusCode)
		case resp.StatusCode/100 != 2:
			return util.Permanent(fmt.Errorf("unexpected status %d", resp.StatusCode))
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxReadmeSize))
		return err
	})
	return body, err
}
