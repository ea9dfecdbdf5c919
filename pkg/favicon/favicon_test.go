package favicon

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "spotify.com", want: "spotify.com"},
		{raw: "https://spotify.com", want: "spotify.com"},
		{raw: "http://www.spotify.com/premium?ref=x", want: "www.spotify.com"},
		{raw: "Spotify.COM", want: "spotify.com"},
		{raw: "spotify.com:8080", want: "spotify.com"},
		{raw: " netflix.com ", want: "netflix.com"},
		{raw: "", wantErr: true},
		{raw: "   ", wantErr: true},
		{raw: "https://", wantErr: true},
	}
	for _, tc := range tests {
		got, err := NormalizeDomain(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error, got %q", tc.raw, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.raw, tc.want, got)
		}
	}
}

type memorySourceCache struct {
	mu     sync.Mutex
	values map[string]string
}

func (m *memorySourceCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *memorySourceCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value.(string)
	return nil
}

func (m *memorySourceCache) FaviconSourceKey(domain string) string {
	return "favicon:source:" + domain
}

func TestOrderedSourcesPrefersCachedWinner(t *testing.T) {
	cache := &memorySourceCache{}
	fetcher := &Fetcher{cache: cache}
	ctx := context.Background()

	if err := cache.Set(ctx, cache.FaviconSourceKey("spotify.com"), "duckduckgo", 0); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	ordered := fetcher.orderedSources(ctx, "spotify.com")
	if len(ordered) != len(sources) {
		t.Fatalf("expected %d sources, got %d", len(sources), len(ordered))
	}
	if ordered[0].name != "duckduckgo" {
		t.Fatalf("expected duckduckgo first, got %s", ordered[0].name)
	}
	seen := map[string]bool{}
	for _, src := range ordered {
		if seen[src.name] {
			t.Fatalf("source %s listed twice", src.name)
		}
		seen[src.name] = true
	}
}

func TestOrderedSourcesWithoutCacheUsesDefaultChain(t *testing.T) {
	fetcher := &Fetcher{}
	ordered := fetcher.orderedSources(context.Background(), "spotify.com")
	if len(ordered) != 3 || ordered[0].name != "google" {
		t.Fatalf("unexpected default chain: %+v", ordered)
	}
}
