// Package github loads catalogs stored in GitHub repositories through the REST
// contents API. References take the form github:owner/repo/path[@rev].
package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/catmatch/internal/adapters/driven/catalog/oscal"
	"github.com/custodia-labs/catmatch/internal/core/domain"
	"github.com/custodia-labs/catmatch/internal/core/ports/driven"
	"github.com/custodia-labs/catmatch/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.CatalogSource = (*Source)(nil)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Config holds GitHub source settings.
type Config struct {
	// Token is an optional personal access token. Anonymous access works
	// for public repositories with a much smaller quota.
	Token string

	// BaseURL overrides the API endpoint (GitHub Enterprise, tests).
	BaseURL string

	// RequestsPerSecond throttles API calls. Zero uses ProactiveRate and a
	// negative value disables throttling.
	RequestsPerSecond float64

	// HTTPClient overrides the transport. Token is ignored when set.
	HTTPClient *http.Client
}

// Source fetches catalog files from GitHub.
type Source struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewSource creates a GitHub catalog source.
func NewSource(ctx context.Context, cfg Config) (*Source, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		if cfg.Token != "" {
			ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
			httpClient = oauth2.NewClient(ctx, ts)
		} else {
			httpClient = &http.Client{}
		}
		httpClient.Timeout = DefaultTimeout
	}

	client := gh.NewClient(httpClient)
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("%w: github base url: %w", domain.ErrInvalidInput, err)
		}
		client.BaseURL = u
	}

	rps := cfg.RequestsPerSecond
	if rps == 0 {
		rps = ProactiveRate
	}

	return &Source{gh: client, rateLimiter: NewRateLimiter(rps)}, nil
}

// Name identifies the source.
func (s *Source) Name() string {
	return "github"
}

// Supports accepts github: references.
func (s *Source) Supports(ref string) bool {
	return strings.HasPrefix(ref, Prefix)
}

// Load downloads and decodes the referenced catalog file.
func (s *Source) Load(ctx context.Context, ref string) (*domain.Catalog, error) {
	r, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}

	data, err := s.fetch(ctx, r)
	if err != nil {
		return nil, err
	}
	logger.Debug("github: fetched %s (%d bytes)", r, len(data))

	format, err := oscal.FormatFromPath(r.Path)
	if err != nil {
		format = oscal.Sniff(data)
	}
	catalog, err := oscal.DecodeBytes(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r, err)
	}
	return catalog, nil
}

// fetch reads a file's content, falling back to the raw download for files
// the contents API does not inline (over 1 MB).
func (s *Source) fetch(ctx context.Context, r Ref) ([]byte, error) {
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.RepositoryContentGetOptions{Ref: r.Rev}
	file, dir, resp, err := s.gh.Repositories.GetContents(ctx, r.Owner, r.Repo, r.Path, opts)
	s.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, s.wrapError(err, "get contents")
	}
	if file == nil || dir != nil {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, r)
	}

	if file.GetEncoding() != "none" {
		content, err := file.GetContent()
		if err != nil {
			return nil, fmt.Errorf("decode content: %w", err)
		}
		return []byte(content), nil
	}

	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	rc, resp, err := s.gh.Repositories.DownloadContents(ctx, r.Owner, r.Repo, r.Path, opts)
	s.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, s.wrapError(err, "download contents")
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("download contents: %w", err)
	}
	return data, nil
}

func (s *Source) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	s.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (s *Source) wrapError(err error, operation string) error {
	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		e := &RateLimitError{}
		if abuseErr.RetryAfter != nil {
			e.ResetAt = time.Now().Add(*abuseErr.RetryAfter)
		}
		return e
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		if ghErr.Response.StatusCode == http.StatusTooManyRequests {
			remaining, limit, reset := s.rateLimiter.Snapshot()
			return &RateLimitError{ResetAt: reset, Remaining: remaining, Limit: limit}
		}
		apiErr := &APIError{StatusCode: ghErr.Response.StatusCode, Message: ghErr.Message}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return apiErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}
