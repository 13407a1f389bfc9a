package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/matzehuels/treemap/pkg/errors"
)

// DefaultMaxBytes bounds the size of a fetched document.
const DefaultMaxBytes = 64 << 20

// IsURL reports whether s names an http or https resource.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// URLPath returns the path component of rawURL, without query or fragment,
// for format detection by extension.
func URLPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return path.Clean("/" + u.Path)
}

// Fetcher downloads source documents.
type Fetcher struct {
	Client   *http.Client
	Cache    *Cache // nil disables body caching
	MaxBytes int64
	Attempts int
	Delay    time.Duration
}

// NewFetcher returns a fetcher with a 30 second client timeout and three
// attempts per request. c may be nil.
func NewFetcher(c *Cache) *Fetcher {
	return &Fetcher{
		Client:   &http.Client{Timeout: 30 * time.Second},
		Cache:    c,
		MaxBytes: DefaultMaxBytes,
		Attempts: 3,
		Delay:    time.Second,
	}
}

// Fetch returns the body of rawURL. A cached body younger than the cache TTL
// is returned without a request unless refresh is set.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, refresh bool) ([]byte, error) {
	if !IsURL(rawURL) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%q is not an http(s) URL", rawURL)
	}
	if f.Cache != nil && !refresh {
		if data, ok, err := f.Cache.Get(rawURL); err == nil && ok {
			return data, nil
		}
	}

	var data []byte
	err := Retry(ctx, f.Attempts, f.Delay, func() error {
		var err error
		data, err = f.get(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	if f.Cache != nil {
		_ = f.Cache.Set(rawURL, data)
	}
	return data, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad URL %s", rawURL)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: fmt.Errorf("get %s: %w", rawURL, err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeFileNotFound, "source %s not found", rawURL)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &RetryableError{Err: fmt.Errorf("get %s: %s", rawURL, resp.Status)}
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("get %s: %s", rawURL, resp.Status)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("read %s: %w", rawURL, err)}
	}
	if int64(len(data)) > limit {
		return nil, errors.New(errors.ErrCodeInvalidInput, "source %s exceeds %d bytes", rawURL, limit)
	}
	return data, nil
}
