package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/justgrid/pkg/buildinfo"
	"github.com/matzehuels/justgrid/pkg/cache"
	"github.com/matzehuels/justgrid/pkg/errors"
)

// Defaults for NewFetcher.
const (
	DefaultTimeout  = 30 * time.Second
	DefaultMaxBytes = 16 << 20
	DefaultAttempts = 3
)

// Fetcher downloads small documents over HTTP.
type Fetcher struct {
	client   *http.Client
	cache    cache.Cache
	ttl      time.Duration
	maxBytes int64
	attempts int
	delay    time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient sets the HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithCache stores successful responses in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.cache = c
		f.ttl = ttl
	}
}

// WithMaxBytes bounds the response body size.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) { f.maxBytes = n }
}

// WithRetry sets the attempt count and the first backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(f *Fetcher) {
		f.attempts = attempts
		f.delay = delay
	}
}

// NewFetcher returns a Fetcher with defaults and no cache.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{Timeout: DefaultTimeout},
		cache:    cache.NewNullCache(),
		maxBytes: DefaultMaxBytes,
		attempts: DefaultAttempts,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the body of url.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}

	key := "remote:" + cache.Hash([]byte(url))
	if data, ok, err := f.cache.Get(ctx, key); err == nil && ok {
		return data, nil
	}

	var body []byte
	err := Retry(ctx, f.attempts, f.delay, func() error {
		var err error
		body, err = f.get(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}

	_ = f.cache.Set(ctx, key, body, f.ttl)
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("User-Agent", "justgrid/"+buildinfo.Get().Version)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: fmt.Errorf("fetch %s: %w", url, err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeNotFound, "fetch %s: not found", url)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &RetryableError{
			Err:   fmt.Errorf("fetch %s: %s", url, resp.Status),
			After: retryAfter(resp.Header.Get("Retry-After")),
		}
	case resp.StatusCode >= 400:
		return nil, errors.New(errors.ErrCodeInvalidInput, "fetch %s: %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("read %s: %w", url, err)}
	}
	if int64(len(data)) > f.maxBytes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "fetch %s: response exceeds %d bytes", url, f.maxBytes)
	}
	return data, nil
}
