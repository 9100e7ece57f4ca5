// Package httputil fetches remote gallery manifests.
//
// # Overview
//
// A manifest may live behind a URL instead of on disk. [Fetcher] downloads
// it with:
//
//   - [Retry]: automatic retry with exponential backoff
//   - an optional [cache.Cache] so repeated runs skip the network
//   - a response size limit
//
// Usage:
//
//	f := httputil.NewFetcher(httputil.WithCache(c, time.Hour))
//	data, err := f.Fetch(ctx, "https://example.com/gallery.yaml")
//
// # Retry
//
// Transient failures are retried:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// A 404 maps to NOT_FOUND and other 4xx responses to INVALID_INPUT; neither
// is retried.
package httputil
