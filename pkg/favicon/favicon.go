// Package favicon fetches service icons for the trial list, trying a chain
// of icon sources and remembering which one last worked per domain. The
// winning-source memory lives in an injected cache rather than package state
// so concurrent requests and restarts behave predictably.
package favicon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jihowes/free-trial-snetinal-sub000/pkg/config"
)

const sourceCacheTTL = 24 * time.Hour

var ErrAllSourcesFailed = errors.New("all favicon sources failed")

// SourceCache remembers the icon source that last succeeded for a domain.
// The Redis client satisfies this.
type SourceCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	FaviconSourceKey(domain string) string
}

// Icon is a fetched favicon payload.
type Icon struct {
	Data        []byte
	ContentType string
	Source      string
}

type source struct {
	name string
	url  func(domain string) string
}

var sources = []source{
	{name: "google", url: func(d string) string {
		return "https://www.google.com/s2/favicons?domain=" + url.QueryEscape(d) + "&sz=64"
	}},
	{name: "duckduckgo", url: func(d string) string {
		return "https://icons.duckduckgo.com/ip3/" + url.PathEscape(d) + ".ico"
	}},
	{name: "direct", url: func(d string) string {
		return "https://" + d + "/favicon.ico"
	}},
}

// Fetcher resolves a domain to an icon via the source chain.
type Fetcher struct {
	http     *http.Client
	cache    SourceCache
	maxBytes int64
}

// NewFetcher builds a favicon fetcher. cache may be nil; the fetcher then
// walks the full chain on every request.
func NewFetcher(cfg config.FaviconConfig, cache SourceCache) *Fetcher {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 256 * 1024
	}
	return &Fetcher{
		http:     &http.Client{Timeout: timeout},
		cache:    cache,
		maxBytes: maxBytes,
	}
}

// Fetch returns the first icon the source chain produces for domain. The
// source that last worked for this domain is tried first.
func (f *Fetcher) Fetch(ctx context.Context, domain string) (*Icon, error) {
	domain, err := NormalizeDomain(domain)
	if err != nil {
		return nil, err
	}

	ordered := f.orderedSources(ctx, domain)

	var lastErr error
	for _, src := range ordered {
		icon, err := f.fetchFrom(ctx, src, domain)
		if err != nil {
			lastErr = err
			continue
		}
		f.rememberSource(ctx, domain, src.name)
		return icon, nil
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllSourcesFailed, lastErr)
	}
	return nil, ErrAllSourcesFailed
}

// NormalizeDomain strips scheme, path and port from user input, leaving a
// bare hostname.
func NormalizeDomain(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("domain is required")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Hostname() == "" {
		return "", fmt.Errorf("invalid domain %q", raw)
	}
	return strings.ToLower(parsed.Hostname()), nil
}

func (f *Fetcher) orderedSources(ctx context.Context, domain string) []source {
	if f.cache == nil {
		return sources
	}
	preferred, err := f.cache.Get(ctx, f.cache.FaviconSourceKey(domain))
	if err != nil || preferred == "" {
		return sources
	}
	ordered := make([]source, 0, len(sources))
	for _, src := range sources {
		if src.name == preferred {
			ordered = append(ordered, src)
			break
		}
	}
	for _, src := range sources {
		if src.name != preferred {
			ordered = append(ordered, src)
		}
	}
	return ordered
}

func (f *Fetcher) rememberSource(ctx context.Context, domain, name string) {
	if f.cache == nil {
		return
	}
	// best effort; a cache write failure just costs extra lookups later
	_ = f.cache.Set(ctx, f.cache.FaviconSourceKey(domain), name, sourceCacheTTL)
}

func (f *Fetcher) fetchFrom(ctx context.Context, src source, domain string) (*Icon, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.url(domain), nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: status %d", src.name, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", src.name, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: empty body", src.name)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &Icon{Data: data, ContentType: contentType, Source: src.name}, nil
}
